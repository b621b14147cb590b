package addressbook

import (
	"fmt"
	"strings"
	"time"
)

// now is the clock used by DaysToBirthday. Tests replace it.
var now = time.Now

// Record is one contact: a name, an ordered list of phone numbers and an
// optional birthday.
type Record struct {
	name     Name
	phones   []Phone
	birthday *Birthday
}

// NewRecord creates a contact. An empty birthday means that no birthday is
// known. A malformed birthday is returned as an error and no record is
// created.
func NewRecord(name string, birthday string) (*Record, error) {
	r := &Record{name: NewName(name)}
	if err := r.SetBirthday(birthday); err != nil {
		return nil, err
	}
	return r, nil
}

// Clone returns a copy of the record that shares no state with it.
func (r *Record) Clone() *Record {
	c := &Record{name: r.name, phones: append([]Phone(nil), r.phones...)}
	if r.birthday != nil {
		b := *r.birthday
		c.birthday = &b
	}
	return c
}

func (r *Record) Name() Name {
	return r.name
}

// Phones returns the phone numbers in the order they were added.
func (r *Record) Phones() []string {
	phones := make([]string, 0, len(r.phones))
	for _, p := range r.phones {
		phones = append(phones, p.Value())
	}
	return phones
}

// Birthday returns the birthday and whether one is set.
func (r *Record) Birthday() (Birthday, bool) {
	if r.birthday == nil {
		return Birthday{}, false
	}
	return *r.birthday, true
}

// SetBirthday sets or replaces the birthday. An empty value clears it. On
// error the previous birthday is kept.
func (r *Record) SetBirthday(raw string) error {
	if raw == "" {
		r.birthday = nil
		return nil
	}
	b, err := NewBirthday(raw)
	if err != nil {
		return err
	}
	r.birthday = &b
	return nil
}

// AddPhone appends a phone number. Invalid numbers are reported and not
// added.
func (r *Record) AddPhone(raw string) error {
	p, err := NewPhone(raw)
	if err != nil {
		return err
	}
	r.phones = append(r.phones, p)
	return nil
}

// RemovePhone removes every occurrence of the phone number. Removing a number
// that is not present does nothing.
func (r *Record) RemovePhone(raw string) {
	kept := r.phones[:0]
	for _, p := range r.phones {
		if p.Value() != raw {
			kept = append(kept, p)
		}
	}
	r.phones = kept
}

// EditPhone replaces the first occurrence of oldValue with newValue. If
// newValue is invalid nothing is changed.
func (r *Record) EditPhone(oldValue string, newValue string) error {
	for i := range r.phones {
		if r.phones[i].Value() != oldValue {
			continue
		}
		return r.phones[i].Set(newValue)
	}
	return fmt.Errorf("addressbook: %q: %w", oldValue, ErrPhoneNotFound)
}

// FindPhone returns the first phone equal to raw.
func (r *Record) FindPhone(raw string) (Phone, bool) {
	for _, p := range r.phones {
		if p.Value() == raw {
			return p, true
		}
	}
	return Phone{}, false
}

// DaysToBirthday returns the number of days from today until the next
// birthday, or false if no birthday is set.
func (r *Record) DaysToBirthday() (int, bool) {
	return r.DaysToBirthdayFrom(now())
}

// DaysToBirthdayFrom is DaysToBirthday with an explicit today. Only the
// calendar date of today is used. A birthday on the current day counts as 0.
func (r *Record) DaysToBirthdayFrom(today time.Time) (int, bool) {
	if r.birthday == nil {
		return 0, false
	}
	return daysUntil(today, r.birthday.Month(), r.birthday.Day()), true
}

// daysUntil counts the days from today to the next occurrence of month/day.
func daysUntil(today time.Time, month int, day int) int {
	start := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	next := anniversary(start.Year(), month, day)
	if next.Before(start) {
		next = anniversary(start.Year()+1, month, day)
	}
	return int(next.Sub(start).Hours() / 24)
}

// anniversary returns month/day in the given year. February 29 falls on
// February 28 in years that are not leap years.
func anniversary(year int, month int, day int) time.Time {
	if month == int(time.February) && day == 29 && !isLeap(year) {
		day = 28
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func (r *Record) String() string {
	birthday := "not specified"
	if r.birthday != nil {
		birthday = r.birthday.Value()
	}
	return fmt.Sprintf("Contact name: %s, phones: %s, birthday: %s",
		r.name.Value(), strings.Join(r.Phones(), "; "), birthday)
}
