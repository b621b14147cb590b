package main

import (
	"os"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// readSchema reads the statements of the schema shipped with the service.
func readSchema(t *testing.T) []string {
	file, err := os.Open("../../scripts/schema.sql")
	require.NoError(t, err)
	defer file.Close()
	statements, err := readStatements(file)
	require.NoError(t, err)
	return statements
}

// TestReadStatements expects one statement per semicolon, with the lines of a statement joined.
func TestReadStatements(t *testing.T) {
	statements, err := readStatements(strings.NewReader("CREATE TABLE a (\n  id INT\n);\nDROP TABLE b;\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"CREATE TABLE a (   id INT ); ", "DROP TABLE b; "}, statements)
}

// TestSchemaComparesNamesExactly expects that every column holding a contact name uses a binary
// collation. Names that differ only in case or accents are different contacts and must not
// collide in the unique key or in the phone lookups.
func TestSchemaComparesNamesExactly(t *testing.T) {
	statements := readSchema(t)
	require.Len(t, statements, 2)

	nameColumn := regexp.MustCompile(`\b(name|contact_name) VARCHAR\(255\) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin NOT NULL`)
	assert.Regexp(t, nameColumn, statements[0])
	assert.Regexp(t, nameColumn, statements[1])
	assert.Contains(t, statements[0], "UNIQUE KEY contacts_name (name)")
}
