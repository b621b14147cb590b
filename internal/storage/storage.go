// Package storage mirrors the address book into a MySQL database so that it
// survives a restart of the service. The address book itself stays the source
// of truth while the service runs.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"gitlab.com/dirk.krummacker/address-book/internal/addressbook"
	"gitlab.com/dirk.krummacker/address-book/internal/model"
)

// Store writes records to and reads them from the contacts and phones tables.
type Store struct {
	db *sqlx.DB

	// selectContacts is a prepared statement for reading all contacts in creation order.
	selectContacts *sqlx.Stmt

	// selectPhones is a prepared statement for reading all phone numbers.
	selectPhones *sqlx.Stmt
}

// Open returns a handle to the MySQL database identified by dsn.
func Open(dsn string) (*sql.DB, error) {
	sqlDB, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("storage: opening database: %w", err)
	}
	return sqlDB, nil
}

// New wraps the sql database and prepares all statements. The database can be
// a real database for production use or a mock database within unit tests.
func New(sqlDB *sql.DB) (*Store, error) {
	var err error
	s := &Store{db: sqlx.NewDb(sqlDB, "mysql")}

	// Prepared statements offer a significant speed increase if executed many times.
	s.selectContacts, err = s.db.Preparex(`
		SELECT id, name, birthday FROM contacts ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("storage: preparing statement: %w", err)
	}
	s.selectPhones, err = s.db.Preparex(`
		SELECT contact_name, position, phone FROM phones ORDER BY contact_name, position
	`)
	if err != nil {
		return nil, fmt.Errorf("storage: preparing statement: %w", err)
	}
	return s, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save writes the record with all of its phones. An existing contact with the
// same name is updated in place and keeps its position.
func (s *Store) Save(record *addressbook.Record) (err error) {
	name := record.Name().Value()
	var birthday any
	if b, ok := record.Birthday(); ok {
		birthday = b.Date()
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return fmt.Errorf("storage: saving %q: %w", name, err)
	}
	defer rollbackOnError(tx, &err)

	_, err = tx.Exec(`
		INSERT INTO contacts (name, birthday) VALUES (?, ?)
		ON DUPLICATE KEY UPDATE birthday = VALUES(birthday)
	`, name, birthday)
	if err != nil {
		return fmt.Errorf("storage: saving %q: %w", name, err)
	}
	_, err = tx.Exec(`DELETE FROM phones WHERE contact_name = ?`, name)
	if err != nil {
		return fmt.Errorf("storage: saving %q: %w", name, err)
	}

	phones := record.Phones()
	if len(phones) > 0 {
		rows := make([]model.PhoneRow, 0, len(phones))
		for i, phone := range phones {
			rows = append(rows, model.PhoneRow{ContactName: name, Position: i, Phone: phone})
		}
		_, err = tx.NamedExec(`
			INSERT INTO phones (contact_name, position, phone)
			VALUES (:contact_name, :position, :phone)
		`, rows)
		if err != nil {
			return fmt.Errorf("storage: saving %q: %w", name, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("storage: saving %q: %w", name, err)
	}
	return nil
}

// Delete removes the contact and its phones within one transaction. Deleting
// an unknown contact is not an error.
func (s *Store) Delete(name string) (err error) {
	tx, err := s.db.Beginx()
	if err != nil {
		return fmt.Errorf("storage: deleting %q: %w", name, err)
	}
	defer rollbackOnError(tx, &err)

	if _, err = tx.Exec(`DELETE FROM phones WHERE contact_name = ?`, name); err != nil {
		return fmt.Errorf("storage: deleting %q: %w", name, err)
	}
	if _, err = tx.Exec(`DELETE FROM contacts WHERE name = ?`, name); err != nil {
		return fmt.Errorf("storage: deleting %q: %w", name, err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("storage: deleting %q: %w", name, err)
	}
	return nil
}

// rollbackOnError rolls the transaction back if *err is set. A failed rollback
// is added to *err.
func rollbackOnError(tx *sqlx.Tx, err *error) {
	if *err == nil {
		return
	}
	if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
		*err = errors.Join(*err, fmt.Errorf("storage: rolling back: %w", rbErr))
	}
}

// Load reads all contacts into a new address book. Every value passes the
// same validation as values entered through the API.
func (s *Store) Load() (*addressbook.AddressBook, error) {
	var contacts []model.ContactRow
	if err := s.selectContacts.Select(&contacts); err != nil {
		return nil, fmt.Errorf("storage: loading contacts: %w", err)
	}
	var phones []model.PhoneRow
	if err := s.selectPhones.Select(&phones); err != nil {
		return nil, fmt.Errorf("storage: loading phones: %w", err)
	}
	phonesByName := make(map[string][]string)
	for _, p := range phones {
		phonesByName[p.ContactName] = append(phonesByName[p.ContactName], p.Phone)
	}

	book := addressbook.New()
	for _, c := range contacts {
		birthday := ""
		if c.Birthday != nil {
			birthday = c.Birthday.In(time.UTC).Format(addressbook.DateLayout)
		}
		record, err := addressbook.NewRecord(c.Name, birthday)
		if err != nil {
			return nil, fmt.Errorf("storage: loading contact %d: %w", c.Id, err)
		}
		for _, phone := range phonesByName[c.Name] {
			if err := record.AddPhone(phone); err != nil {
				return nil, fmt.Errorf("storage: loading contact %d: %w", c.Id, err)
			}
		}
		book.AddRecord(record)
	}
	return book, nil
}
