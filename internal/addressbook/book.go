// Package addressbook is an in-memory contact book. It stores records keyed by
// contact name and validates phone numbers and birthdays on the way in.
//
// None of the types in this package are safe for concurrent use. A host that
// shares an AddressBook between goroutines has to serialize access itself.
package addressbook

import (
	"fmt"
	"sort"
	"time"
)

// AddressBook maps contact names to records. It remembers the order in which
// names were first added.
type AddressBook struct {
	records map[string]*Record
	order   []string
}

// New returns an empty address book.
func New() *AddressBook {
	return &AddressBook{records: make(map[string]*Record)}
}

// AddRecord stores the record under its name. A record with the same name is
// replaced, and the name keeps its original position.
func (b *AddressBook) AddRecord(r *Record) {
	name := r.Name().Value()
	if _, exists := b.records[name]; !exists {
		b.order = append(b.order, name)
	}
	b.records[name] = r
}

// Find returns the record stored under name.
func (b *AddressBook) Find(name string) (*Record, bool) {
	r, ok := b.records[name]
	return r, ok
}

// Delete removes the record stored under name. It reports whether there was
// one.
func (b *AddressBook) Delete(name string) bool {
	if _, exists := b.records[name]; !exists {
		return false
	}
	delete(b.records, name)
	for i, n := range b.order {
		if n == name {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
	return true
}

func (b *AddressBook) Len() int {
	return len(b.records)
}

// Records returns all records in insertion order.
func (b *AddressBook) Records() []*Record {
	records := make([]*Record, 0, len(b.order))
	for _, name := range b.order {
		records = append(records, b.records[name])
	}
	return records
}

// Iterator returns an iterator over the records in batches of batchSize. The
// set and order of records is captured now; later changes to the book are not
// seen by the iterator.
func (b *AddressBook) Iterator(batchSize int) (*BatchIterator, error) {
	if batchSize <= 0 {
		return nil, fmt.Errorf("addressbook: batch size must be positive, got %d: %w", batchSize, ErrInvalidArgument)
	}
	return &BatchIterator{records: b.Records(), size: batchSize}, nil
}

// BatchIterator hands out records in batches. It can be consumed only once.
type BatchIterator struct {
	records []*Record
	size    int
	pos     int
}

// Next returns the next batch. Every batch has the configured size except
// possibly the last one. It returns false when all records have been handed
// out.
func (it *BatchIterator) Next() ([]*Record, bool) {
	if it.pos >= len(it.records) {
		return nil, false
	}
	end := it.pos + it.size
	if end > len(it.records) {
		end = len(it.records)
	}
	batch := it.records[it.pos:end:end]
	it.pos = end
	return batch, true
}

// Upcoming is a record whose birthday is coming up.
type Upcoming struct {
	Record *Record
	Days   int
}

// UpcomingBirthdays returns the records whose next birthday is at most days
// days after today, soonest first. Ties keep insertion order.
func (b *AddressBook) UpcomingBirthdays(today time.Time, days int) []Upcoming {
	var upcoming []Upcoming
	for _, r := range b.Records() {
		d, ok := r.DaysToBirthdayFrom(today)
		if !ok || d > days {
			continue
		}
		upcoming = append(upcoming, Upcoming{Record: r, Days: d})
	}
	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].Days < upcoming[j].Days
	})
	return upcoming
}
