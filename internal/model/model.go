package model

import "time"

// ContactRow is a row of the contacts table. The id only defines the order in
// which contacts were created.
type ContactRow struct {
	Id       int64      `db:"id"`
	Name     string     `db:"name"`
	Birthday *time.Time `db:"birthday"`
}

// PhoneRow is a row of the phones table. Position is the index of the number
// within the contact's list of phones.
type PhoneRow struct {
	ContactName string `db:"contact_name"`
	Position    int    `db:"position"`
	Phone       string `db:"phone"`
}
