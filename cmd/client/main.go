package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"gitlab.com/dirk.krummacker/address-book/pkg/model"
)

// CLI is the top-level command structure of the address book client.
type CLI struct {
	Server string `help:"Base URL of the address book service." default:"http://localhost:8080" env:"ADDRESS_BOOK_URL"`

	Add      AddCmd      `cmd:"" help:"Add a contact or replace the one with the same name."`
	Show     ShowCmd     `cmd:"" help:"Show a single contact."`
	List     ListCmd     `cmd:"" help:"List all contacts."`
	Delete   DeleteCmd   `cmd:"" help:"Delete a contact."`
	Birthday BirthdayCmd `cmd:"" help:"Set or clear the birthday of a contact."`
	Days     DaysCmd     `cmd:"" help:"Show the days until the next birthday of a contact."`
	Upcoming UpcomingCmd `cmd:"" help:"List contacts with a birthday in the next days."`
	Phone    PhoneCmd    `cmd:"" help:"Manage the phone numbers of a contact."`
	Bench    BenchCmd    `cmd:"" help:"Measure request durations against the service."`
}

// Usage example on the command line:
// > go run main.go add "John" --birthday=1996-06-07 --phone=1234567890
// > go run main.go list --batch-size=10
func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("client"),
		kong.Description("Command line client for the address book service."),
		kong.UsageOnError(),
	)
	err := ctx.Run(&client{baseURL: strings.TrimSuffix(cli.Server, "/"), http: http.DefaultClient})
	ctx.FatalIfErrorf(err)
}

// client sends requests to the address book service.
type client struct {
	baseURL string
	http    *http.Client
}

// contactPath returns the URL path of the named contact followed by the optional elements.
func contactPath(name string, elems ...string) string {
	path := "/contacts/" + escapeSegment(name)
	for _, e := range elems {
		path += "/" + escapeSegment(e)
	}
	return path
}

// escapeSegment escapes s as a path segment. The service decodes '+' as a space, so it is escaped
// as well.
func escapeSegment(s string) string {
	return strings.ReplaceAll(url.PathEscape(s), "+", "%2B")
}

// do sends a request with an optional JSON body. A successful response is decoded into out if out
// is not nil. Any other response is returned as an error carrying the service's message.
func (c *client) do(method string, path string, body any, out any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		bodyReader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("error making http request: %w", err)
	}
	defer res.Body.Close()
	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("could not read response body: %w", err)
	}
	if res.StatusCode >= 300 {
		var message struct {
			Message string `json:"message"`
		}
		json.Unmarshal(resBody, &message)
		return fmt.Errorf("%s %s: %s: %s", method, path, res.Status, message.Message)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resBody, out); err != nil {
		return fmt.Errorf("could not unmarshal JSON: %w", err)
	}
	return nil
}

// printContact writes a contact in the same form as the address book's record display.
func printContact(contact model.Contact) {
	birthday := "not specified"
	if contact.Birthday != nil {
		birthday = *contact.Birthday
	}
	fmt.Printf("Contact name: %s, phones: %s, birthday: %s\n",
		contact.Name, strings.Join(contact.Phones, "; "), birthday)
}

// AddCmd adds a contact.
type AddCmd struct {
	Name     string   `arg:"" help:"Name of the contact."`
	Birthday string   `help:"Birthday in the format YYYY-MM-DD."`
	Phone    []string `help:"Phone number of 10 digits. May be repeated."`
}

func (a *AddCmd) Run(c *client) error {
	contact := model.Contact{Name: a.Name, Phones: a.Phone}
	if a.Birthday != "" {
		contact.Birthday = &a.Birthday
	}
	var created model.Contact
	if err := c.do(http.MethodPost, "/contacts", contact, &created); err != nil {
		return err
	}
	printContact(created)
	return nil
}

// ShowCmd shows one contact.
type ShowCmd struct {
	Name string `arg:"" help:"Name of the contact."`
}

func (s *ShowCmd) Run(c *client) error {
	var contact model.Contact
	if err := c.do(http.MethodGet, contactPath(s.Name), nil, &contact); err != nil {
		return err
	}
	printContact(contact)
	return nil
}

// ListCmd lists all contacts, optionally page by page.
type ListCmd struct {
	BatchSize int `help:"Number of contacts per page. 0 lists all contacts at once." default:"0"`
}

func (l *ListCmd) Run(c *client) error {
	if l.BatchSize == 0 {
		var contacts []model.Contact
		if err := c.do(http.MethodGet, "/contacts", nil, &contacts); err != nil {
			return err
		}
		for _, contact := range contacts {
			printContact(contact)
		}
		return nil
	}
	var batches [][]model.Contact
	if err := c.do(http.MethodGet, fmt.Sprintf("/contacts?batchsize=%d", l.BatchSize), nil, &batches); err != nil {
		return err
	}
	for i, batch := range batches {
		fmt.Printf("--- page %d of %d ---\n", i+1, len(batches))
		for _, contact := range batch {
			printContact(contact)
		}
	}
	return nil
}

// DeleteCmd deletes a contact.
type DeleteCmd struct {
	Name string `arg:"" help:"Name of the contact."`
}

func (d *DeleteCmd) Run(c *client) error {
	if err := c.do(http.MethodDelete, contactPath(d.Name), nil, nil); err != nil {
		return err
	}
	fmt.Printf("Contact %s deleted.\n", d.Name)
	return nil
}

// BirthdayCmd sets or clears a birthday.
type BirthdayCmd struct {
	Name     string `arg:"" help:"Name of the contact."`
	Birthday string `arg:"" optional:"" help:"Birthday in the format YYYY-MM-DD. Omit to clear it."`
}

func (b *BirthdayCmd) Run(c *client) error {
	var contact model.Contact
	if err := c.do(http.MethodPut, contactPath(b.Name, "birthday"), model.BirthdayRequest{Birthday: b.Birthday}, &contact); err != nil {
		return err
	}
	printContact(contact)
	return nil
}

// DaysCmd shows the days until the next birthday.
type DaysCmd struct {
	Name string `arg:"" help:"Name of the contact."`
}

func (d *DaysCmd) Run(c *client) error {
	var days model.DaysToBirthday
	if err := c.do(http.MethodGet, contactPath(d.Name, "birthday"), nil, &days); err != nil {
		return err
	}
	fmt.Printf("Days until the next birthday of %s: %d\n", days.Name, days.Days)
	return nil
}

// UpcomingCmd lists upcoming birthdays.
type UpcomingCmd struct {
	Days int `help:"Number of days to look ahead." default:"7"`
}

func (u *UpcomingCmd) Run(c *client) error {
	var upcoming []model.UpcomingBirthday
	if err := c.do(http.MethodGet, fmt.Sprintf("/birthdays?days=%d", u.Days), nil, &upcoming); err != nil {
		return err
	}
	for _, entry := range upcoming {
		fmt.Printf("%3d days: %s\n", entry.Days, entry.Contact.Name)
	}
	return nil
}

// PhoneCmd groups the phone subcommands.
type PhoneCmd struct {
	Add    PhoneAddCmd    `cmd:"" help:"Add a phone number."`
	Edit   PhoneEditCmd   `cmd:"" help:"Replace a phone number."`
	Remove PhoneRemoveCmd `cmd:"" help:"Remove a phone number."`
}

type PhoneAddCmd struct {
	Name  string `arg:"" help:"Name of the contact."`
	Phone string `arg:"" help:"Phone number of 10 digits."`
}

func (p *PhoneAddCmd) Run(c *client) error {
	var contact model.Contact
	if err := c.do(http.MethodPost, contactPath(p.Name, "phones"), model.PhoneRequest{Phone: p.Phone}, &contact); err != nil {
		return err
	}
	printContact(contact)
	return nil
}

type PhoneEditCmd struct {
	Name string `arg:"" help:"Name of the contact."`
	Old  string `arg:"" help:"Phone number to replace."`
	New  string `arg:"" help:"New phone number of 10 digits."`
}

func (p *PhoneEditCmd) Run(c *client) error {
	var contact model.Contact
	if err := c.do(http.MethodPut, contactPath(p.Name, "phones", p.Old), model.PhoneRequest{Phone: p.New}, &contact); err != nil {
		return err
	}
	printContact(contact)
	return nil
}

type PhoneRemoveCmd struct {
	Name  string `arg:"" help:"Name of the contact."`
	Phone string `arg:"" help:"Phone number to remove."`
}

func (p *PhoneRemoveCmd) Run(c *client) error {
	var contact model.Contact
	if err := c.do(http.MethodDelete, contactPath(p.Name, "phones", p.Phone), nil, &contact); err != nil {
		return err
	}
	printContact(contact)
	return nil
}

// BenchCmd creates, reads and deletes contacts and prints the average duration of each kind of
// request in microseconds.
type BenchCmd struct {
	Sizes []int `help:"Numbers of contacts per round." default:"100,500,1000,5000"`
}

func (b *BenchCmd) Run(c *client) error {
	fmt.Println()
	fmt.Println("  Elements      POST       GET    DELETE ")
	fmt.Println("-----------------------------------------")
	for _, loops := range b.Sizes {
		if loops < 1 {
			continue
		}
		names := make([]string, 0, loops)
		for i := 0; i < loops; i++ {
			names = append(names, fmt.Sprintf("Marcus Antonius %d", i))
		}
		fmt.Printf("%10d", loops)
		post := func(name string) error {
			birthday := "1983-01-14"
			contact := model.Contact{Name: name, Phones: []string{"3999777555"}, Birthday: &birthday}
			return c.do(http.MethodPost, "/contacts", contact, nil)
		}
		get := func(name string) error {
			return c.do(http.MethodGet, contactPath(name), nil, nil)
		}
		del := func(name string) error {
			return c.do(http.MethodDelete, contactPath(name), nil, nil)
		}
		for _, f := range []func(string) error{post, get, del} {
			duration, err := callInLoop(names, f)
			if err != nil {
				return err
			}
			fmt.Printf("%10d", duration.Microseconds()/int64(loops))
		}
		fmt.Println()
	}
	return nil
}

// callInLoop calls f once for every name in random order and returns the total time spent.
func callInLoop(names []string, f func(name string) error) (time.Duration, error) {
	shuffled := append([]string(nil), names...)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	var total time.Duration
	for _, name := range shuffled {
		before := time.Now()
		if err := f(name); err != nil {
			return 0, err
		}
		total += time.Since(before)
	}
	return total, nil
}
