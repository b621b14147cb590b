package addressbook

import (
	"errors"
	"fmt"
)

// Errors returned by the address book. Callers compare with errors.Is.
var (
	ErrInvalidPhoneFormat = errors.New("phone number must contain exactly 10 digits")
	ErrInvalidDateFormat  = errors.New("date must be a real calendar date in the format YYYY-MM-DD")
	ErrPhoneNotFound      = errors.New("phone number not found")
	ErrInvalidArgument    = errors.New("invalid argument")
)

// ValidationError is returned when a raw value is rejected by a field.
type ValidationError struct {
	// Field is the kind of field that rejected the value, e.g. "phone".
	Field string

	// Value is the raw input exactly as it was given.
	Value string

	// Err is one of the sentinel errors of this package.
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("addressbook: invalid %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
