package addressbook

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createBook builds an address book with one record per name, in the given order.
func createBook(t *testing.T, names ...string) *AddressBook {
	book := New()
	for _, name := range names {
		record, err := NewRecord(name, "")
		require.NoError(t, err)
		book.AddRecord(record)
	}
	return book
}

// names returns the names of the records.
func names(records []*Record) []string {
	result := make([]string, 0, len(records))
	for _, r := range records {
		result = append(result, r.Name().Value())
	}
	return result
}

// TestAddFindDelete adds a record, finds it, deletes it and expects that it is gone afterwards.
func TestAddFindDelete(t *testing.T) {
	book := New()
	record, err := NewRecord("John", "1996-06-07")
	require.NoError(t, err)
	book.AddRecord(record)

	found, ok := book.Find("John")
	require.True(t, ok)
	assert.Equal(t, "John", found.Name().Value())
	assert.Same(t, record, found)
	assert.Equal(t, 1, book.Len())

	assert.True(t, book.Delete("John"))
	_, ok = book.Find("John")
	assert.False(t, ok)
	assert.Equal(t, 0, book.Len())
}

// TestDeleteMissing expects that deleting an unknown name is not an error.
func TestDeleteMissing(t *testing.T) {
	book := createBook(t, "John")
	assert.False(t, book.Delete("Jane"))
	assert.Equal(t, 1, book.Len())
}

// TestAddRecordOverwrites expects that a record with an existing name replaces the old one and
// keeps its position.
func TestAddRecordOverwrites(t *testing.T) {
	book := createBook(t, "Aaron", "Berta", "Carla")
	replacement, _ := NewRecord("Berta", "1980-01-01")
	book.AddRecord(replacement)

	assert.Equal(t, 3, book.Len())
	found, _ := book.Find("Berta")
	assert.Same(t, replacement, found)
	assert.Equal(t, []string{"Aaron", "Berta", "Carla"}, names(book.Records()))
}

// TestRecordsAfterDelete expects that the insertion order survives a deletion.
func TestRecordsAfterDelete(t *testing.T) {
	book := createBook(t, "Aaron", "Berta", "Carla")
	book.Delete("Berta")
	book.AddRecord(createBook(t, "Berta").Records()[0])
	assert.Equal(t, []string{"Aaron", "Carla", "Berta"}, names(book.Records()))
}

// TestIteratorBatches iterates over five records in batches of two. It expects batches of sizes 2,
// 2 and 1 that cover every record once in insertion order.
func TestIteratorBatches(t *testing.T) {
	book := createBook(t, "A", "B", "C", "D", "E")
	it, err := book.Iterator(2)
	require.NoError(t, err)

	var sizes []int
	var seen []string
	for batch, ok := it.Next(); ok; batch, ok = it.Next() {
		sizes = append(sizes, len(batch))
		seen = append(seen, names(batch)...)
	}
	assert.Equal(t, []int{2, 2, 1}, sizes)
	assert.Equal(t, []string{"A", "B", "C", "D", "E"}, seen)

	// The iterator is exhausted and does not start over.
	_, ok := it.Next()
	assert.False(t, ok)
}

// TestIteratorExactMultiple expects no empty trailing batch.
func TestIteratorExactMultiple(t *testing.T) {
	book := createBook(t, "A", "B", "C", "D")
	it, err := book.Iterator(2)
	require.NoError(t, err)

	count := 0
	for batch, ok := it.Next(); ok; batch, ok = it.Next() {
		assert.Len(t, batch, 2)
		count++
	}
	assert.Equal(t, 2, count)
}

// TestIteratorEmptyBook expects that an empty book yields no batches.
func TestIteratorEmptyBook(t *testing.T) {
	it, err := New().Iterator(3)
	require.NoError(t, err)
	_, ok := it.Next()
	assert.False(t, ok)
}

// TestIteratorSnapshot changes the book while iterating. It expects the iterator to stick to the
// records present when it was created.
func TestIteratorSnapshot(t *testing.T) {
	book := createBook(t, "A", "B", "C")
	it, err := book.Iterator(2)
	require.NoError(t, err)

	book.Delete("C")
	book.AddRecord(createBook(t, "D").Records()[0])

	first, _ := it.Next()
	second, _ := it.Next()
	assert.Equal(t, []string{"A", "B"}, names(first))
	assert.Equal(t, []string{"C"}, names(second))
}

// TestIteratorInvalidBatchSize expects ErrInvalidArgument for batch sizes below one.
func TestIteratorInvalidBatchSize(t *testing.T) {
	book := createBook(t, "A")
	for _, size := range []int{0, -1, -100} {
		it, err := book.Iterator(size)
		assert.ErrorIs(t, err, ErrInvalidArgument)
		assert.Nil(t, it)
	}
}

// TestUpcomingBirthdays expects the records with a birthday in the next days, soonest first.
func TestUpcomingBirthdays(t *testing.T) {
	book := New()
	for _, c := range []struct{ name, birthday string }{
		{"Dirk", "1974-11-29"},
		{"Pavla", "1980-01-27"},
		{"Adam", "2009-11-25"},
		{"David", "2011-12-11"},
		{"Nobody", ""},
		{"Twin", "2009-11-25"},
	} {
		record, err := NewRecord(c.name, c.birthday)
		require.NoError(t, err)
		book.AddRecord(record)
	}

	upcoming := book.UpcomingBirthdays(time.Date(2024, time.November, 24, 0, 0, 0, 0, time.Local), 7)
	require.Len(t, upcoming, 3)
	assert.Equal(t, "Adam", upcoming[0].Record.Name().Value())
	assert.Equal(t, 1, upcoming[0].Days)
	assert.Equal(t, "Twin", upcoming[1].Record.Name().Value())
	assert.Equal(t, 1, upcoming[1].Days)
	assert.Equal(t, "Dirk", upcoming[2].Record.Name().Value())
	assert.Equal(t, 5, upcoming[2].Days)
}
