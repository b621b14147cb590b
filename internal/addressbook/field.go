package addressbook

import (
	"regexp"
	"time"
)

// DateLayout is the only accepted input and output format for birthdays.
const DateLayout = "2006-01-02"

var (
	phonePattern = regexp.MustCompile(`^[0-9]{10}$`)
	datePattern  = regexp.MustCompile(`^[0-9]{4}-[0-9]{2}-[0-9]{2}$`)
)

// Validator checks a raw value before a field stores it. It returns the value
// to be stored, or an error if the raw value is not acceptable.
type Validator interface {
	Validate(raw string) (string, error)
}

// Field holds a single value that has passed its validator.
type Field struct {
	validator Validator
	value     string
}

// NewField validates raw with v and returns a field holding it.
func NewField(v Validator, raw string) (Field, error) {
	value, err := v.Validate(raw)
	if err != nil {
		return Field{}, err
	}
	return Field{validator: v, value: value}, nil
}

// Set replaces the value of the field. A value that fails validation is not
// stored and the previous value is kept. The zero Field accepts any value.
func (f *Field) Set(raw string) error {
	v := f.validator
	if v == nil {
		v = nameValidator{}
	}
	value, err := v.Validate(raw)
	if err != nil {
		return err
	}
	f.value = value
	return nil
}

// Value returns the current value.
func (f Field) Value() string {
	return f.value
}

func (f Field) String() string {
	return f.value
}

type nameValidator struct{}

func (nameValidator) Validate(raw string) (string, error) {
	return raw, nil
}

type phoneValidator struct{}

func (phoneValidator) Validate(raw string) (string, error) {
	if !phonePattern.MatchString(raw) {
		return "", &ValidationError{Field: "phone", Value: raw, Err: ErrInvalidPhoneFormat}
	}
	return raw, nil
}

type birthdayValidator struct{}

func (birthdayValidator) Validate(raw string) (string, error) {
	if !datePattern.MatchString(raw) {
		return "", &ValidationError{Field: "birthday", Value: raw, Err: ErrInvalidDateFormat}
	}
	if _, err := time.Parse(DateLayout, raw); err != nil {
		return "", &ValidationError{Field: "birthday", Value: raw, Err: ErrInvalidDateFormat}
	}
	return raw, nil
}

// Name is the name of a contact. Every string is a valid name.
type Name struct {
	Field
}

// NewName wraps raw as a Name.
func NewName(raw string) Name {
	f, _ := NewField(nameValidator{}, raw)
	return Name{f}
}

// Phone is a phone number of exactly 10 decimal digits without separators or
// country code.
type Phone struct {
	Field
}

// NewPhone validates raw and returns it as a Phone.
func NewPhone(raw string) (Phone, error) {
	f, err := NewField(phoneValidator{}, raw)
	if err != nil {
		return Phone{}, err
	}
	return Phone{f}, nil
}

// Set replaces the phone number. The zero Phone validates like any other.
func (p *Phone) Set(raw string) error {
	if p.validator == nil {
		p.validator = phoneValidator{}
	}
	return p.Field.Set(raw)
}

// Birthday is a calendar date stored as YYYY-MM-DD.
type Birthday struct {
	Field
}

// NewBirthday validates raw and returns it as a Birthday.
func NewBirthday(raw string) (Birthday, error) {
	f, err := NewField(birthdayValidator{}, raw)
	if err != nil {
		return Birthday{}, err
	}
	return Birthday{f}, nil
}

// Set replaces the birthday. The zero Birthday validates like any other.
func (b *Birthday) Set(raw string) error {
	if b.validator == nil {
		b.validator = birthdayValidator{}
	}
	return b.Field.Set(raw)
}

// Date returns the birthday as midnight UTC of that day.
func (b Birthday) Date() time.Time {
	// The value has been validated, so parsing cannot fail here.
	t, _ := time.Parse(DateLayout, b.value)
	return t
}

func (b Birthday) Year() int {
	return b.Date().Year()
}

func (b Birthday) Month() int {
	return int(b.Date().Month())
}

func (b Birthday) Day() int {
	return b.Date().Day()
}
