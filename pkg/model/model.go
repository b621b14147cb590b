package model

// Contact is the JSON representation of a person in the address book.
// Birthday is a date in the format YYYY-MM-DD and is omitted if not known.
type Contact struct {
	Name     string   `json:"name"`
	Phones   []string `json:"phones"`
	Birthday *string  `json:"birthday,omitempty"`
}

// PhoneRequest carries a single phone number of 10 digits.
type PhoneRequest struct {
	Phone string `json:"phone"`
}

// BirthdayRequest carries a birthday in the format YYYY-MM-DD. An empty value
// removes the birthday.
type BirthdayRequest struct {
	Birthday string `json:"birthday"`
}

// DaysToBirthday is the number of days until the contact's next birthday.
type DaysToBirthday struct {
	Name string `json:"name"`
	Days int    `json:"days"`
}

// UpcomingBirthday is a contact whose birthday is coming up soon.
type UpcomingBirthday struct {
	Contact Contact `json:"contact"`
	Days    int     `json:"days"`
}
