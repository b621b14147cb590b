package main

import (
	"bufio"
	"flag"
	"io"
	"log"
	"os"
	"strings"

	"github.com/jmoiron/sqlx"
	"gitlab.com/dirk.krummacker/address-book/internal/config"
	"gitlab.com/dirk.krummacker/address-book/internal/storage"
)

// Usage example on the command line:
// > DBHOST=localhost:3306 DBUSER=dirk DBPWD=bullo92 go run main.go -file=../../scripts/schema.sql
func main() {
	filePtr := flag.String("file", "scripts/schema.sql", "the sql file to execute")
	configPtr := flag.String("config", "address-book.yaml", "the YAML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPtr)
	if err != nil {
		log.Fatal(err)
	}
	if err := cfg.ApplyEnv(); err != nil {
		log.Fatal(err)
	}
	sqlDB, err := storage.Open(cfg.Database.DSN())
	if err != nil {
		log.Fatal(err)
	}
	db := sqlx.NewDb(sqlDB, "mysql")
	defer db.Close()

	readFile, err := os.Open(*filePtr) // nosemgrep
	if err != nil {
		log.Fatal(err)
	}
	defer readFile.Close()

	statements, err := readStatements(readFile)
	if err != nil {
		log.Fatal(err)
	}
	for _, statement := range statements {
		db.MustExec(statement)
	}
	log.Printf("executed %d statements from %s", len(statements), *filePtr)
}

// readStatements splits the SQL script into statements. Statements may span several lines; each
// one ends with a semicolon.
func readStatements(r io.Reader) ([]string, error) {
	fileScanner := bufio.NewScanner(r)
	fileScanner.Split(bufio.ScanLines)
	builder := strings.Builder{}
	var statements []string
	for fileScanner.Scan() {
		line := fileScanner.Text()
		builder.WriteString(line)
		builder.WriteString(" ")
		if strings.Contains(line, ";") {
			statements = append(statements, builder.String())
			builder = strings.Builder{}
		}
	}
	if err := fileScanner.Err(); err != nil {
		return nil, err
	}
	return statements, nil
}
