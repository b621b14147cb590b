package service

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"gitlab.com/dirk.krummacker/address-book/internal/addressbook"
	"gitlab.com/dirk.krummacker/address-book/pkg/model"
)

// defaultUpcomingDays is the look-ahead of the birthdays endpoint if no 'days' URL parameter is
// given.
const defaultUpcomingDays = 7

// Store persists changes of the address book. It is implemented by storage.Store.
type Store interface {
	Save(record *addressbook.Record) error
	Delete(name string) error
}

// mu serializes all access to the address book, which is not safe for concurrent use.
var mu sync.Mutex

// book is the address book served by the API.
var book = addressbook.New()

// store receives every change of the address book. It is nil if the service runs in memory only.
var store Store

// now is the clock used for birthday calculations. Tests replace it.
var now = time.Now

// SetupAddressBook installs the address book that the API operates on. The store may be nil, in
// which case changes are kept in memory only.
func SetupAddressBook(b *addressbook.AddressBook, s Store) {
	mu.Lock()
	defer mu.Unlock()
	book = b
	store = s
}

// SetupHttpRouter initializes the REST API router and registers all endpoints.
func SetupHttpRouter(logging bool) *gin.Engine {
	var router *gin.Engine
	if logging {
		router = gin.Default()
	} else {
		fmt.Println("Turning off HTTP request logging.")
		router = gin.New()
		router.Use(gin.Recovery())
	}
	// Names may contain any character. A '/' arrives as %2F and must not split the path.
	router.UseRawPath = true
	router.UnescapePathValues = true
	router.GET("/contacts", findContacts)
	router.POST("/contacts", createContact)
	router.GET("/contacts/:name", findContactByName)
	router.DELETE("/contacts/:name", deleteContactByName)
	router.PUT("/contacts/:name/birthday", updateBirthday)
	router.GET("/contacts/:name/birthday", daysToBirthday)
	router.POST("/contacts/:name/phones", addPhone)
	router.PUT("/contacts/:name/phones/:phone", editPhone)
	router.DELETE("/contacts/:name/phones/:phone", removePhone)
	router.GET("/birthdays", upcomingBirthdays)
	return router
}

// toContact converts a record into its JSON representation.
func toContact(record *addressbook.Record) model.Contact {
	contact := model.Contact{
		Name:   record.Name().Value(),
		Phones: record.Phones(),
	}
	if birthday, ok := record.Birthday(); ok {
		value := birthday.Value()
		contact.Birthday = &value
	}
	return contact
}

// commit writes the record to the store if there is one and then puts it into the address book.
// Storage failures abort the request with a panic that gin's recovery turns into an internal
// server error. The address book is left unchanged in that case.
func commit(record *addressbook.Record) {
	if store != nil {
		if err := store.Save(record); err != nil {
			log.Panicln(err)
		}
	}
	book.AddRecord(record)
}

// findForUpdate returns a copy of the named contact that a handler may change and then commit.
func findForUpdate(name string) (*addressbook.Record, bool) {
	record, ok := book.Find(name)
	if !ok {
		return nil, false
	}
	return record.Clone(), true
}

// findContacts responds with the list of all contacts as JSON, in the order in which they were
// added.
//
// If the URL parameter 'batchsize' is given, the contacts are grouped into batches of that many
// contacts. The last batch may be smaller.
//
// REST API calls:
//
//	> curl "http://localhost:8080/contacts"
//	> curl "http://localhost:8080/contacts?batchsize=20"
func findContacts(c *gin.Context) {
	batchSizeParam := c.Query("batchsize")

	mu.Lock()
	defer mu.Unlock()

	if batchSizeParam == "" {
		contacts := make([]model.Contact, 0, book.Len())
		for _, record := range book.Records() {
			contacts = append(contacts, toContact(record))
		}
		c.IndentedJSON(http.StatusOK, contacts)
		return
	}

	batchSize, errConv := strconv.Atoi(batchSizeParam)
	if errConv != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid batchsize parameter"})
		return
	}
	it, err := book.Iterator(batchSize)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid batchsize parameter"})
		return
	}
	batches := [][]model.Contact{}
	for records, ok := it.Next(); ok; records, ok = it.Next() {
		batch := make([]model.Contact, 0, len(records))
		for _, record := range records {
			batch = append(batch, toContact(record))
		}
		batches = append(batches, batch)
	}
	c.IndentedJSON(http.StatusOK, batches)
}

// createContact adds the contact specified in the request's JSON to the address book. A contact
// with the same name is replaced. Nothing is stored if the birthday or any phone is invalid.
//
// Example REST API call:
//
//	> curl http://localhost:8080/contacts --request "POST" --include --header "Content-Type: application/json" --data '{"name": "John", "phones": ["1234567890"], "birthday": "1996-06-07"}'
func createContact(c *gin.Context) {
	var newContact model.Contact
	if err := c.BindJSON(&newContact); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid JSON"})
		return
	}
	if newContact.Name == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "name is required"})
		return
	}
	birthday := ""
	if newContact.Birthday != nil {
		birthday = *newContact.Birthday
	}
	record, err := addressbook.NewRecord(newContact.Name, birthday)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	for _, phone := range newContact.Phones {
		if err := record.AddPhone(phone); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
	}

	mu.Lock()
	defer mu.Unlock()
	commit(record)
	c.IndentedJSON(http.StatusCreated, toContact(record))
}

// findContactByName locates the contact whose name matches the name parameter of the request URL,
// then returns that contact as a response.
//
// Example REST API call:
//
//	> curl http://localhost:8080/contacts/John
func findContactByName(c *gin.Context) {
	mu.Lock()
	defer mu.Unlock()

	record, ok := book.Find(c.Param("name"))
	if !ok {
		c.IndentedJSON(http.StatusNotFound, gin.H{"message": "contact not found"})
		return
	}
	c.IndentedJSON(http.StatusOK, toContact(record))
}

// deleteContactByName deletes the contact whose name matches the name parameter of the request
// URL.
//
// Example REST API call:
//
//	> curl http://localhost:8080/contacts/John --request "DELETE"
func deleteContactByName(c *gin.Context) {
	name := c.Param("name")

	mu.Lock()
	defer mu.Unlock()

	if _, ok := book.Find(name); !ok {
		log.Printf("contact %q not found, nothing deleted", name)
		c.IndentedJSON(http.StatusNotFound, gin.H{"message": "contact not found"})
		return
	}
	if store != nil {
		if err := store.Delete(name); err != nil {
			log.Panicln(err)
		}
	}
	book.Delete(name)
	c.IndentedJSON(http.StatusOK, gin.H{"message": "contact deleted"})
}

// updateBirthday sets, replaces or (with an empty value) removes the birthday of a contact and
// responds with the updated contact.
//
// Example REST API call:
//
//	> curl http://localhost:8080/contacts/John/birthday --request "PUT" --include --header "Content-Type: application/json" --data '{"birthday": "1996-06-07"}'
func updateBirthday(c *gin.Context) {
	var submitted model.BirthdayRequest
	if err := c.BindJSON(&submitted); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid JSON"})
		return
	}

	mu.Lock()
	defer mu.Unlock()

	record, ok := findForUpdate(c.Param("name"))
	if !ok {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "contact not found"})
		return
	}
	if err := record.SetBirthday(submitted.Birthday); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	commit(record)
	c.IndentedJSON(http.StatusOK, toContact(record))
}

// daysToBirthday responds with the number of days until the next birthday of the contact.
//
// Example REST API call:
//
//	> curl http://localhost:8080/contacts/John/birthday
func daysToBirthday(c *gin.Context) {
	mu.Lock()
	defer mu.Unlock()

	record, ok := book.Find(c.Param("name"))
	if !ok {
		c.IndentedJSON(http.StatusNotFound, gin.H{"message": "contact not found"})
		return
	}
	days, ok := record.DaysToBirthdayFrom(now())
	if !ok {
		c.IndentedJSON(http.StatusNotFound, gin.H{"message": "birthday not specified"})
		return
	}
	c.IndentedJSON(http.StatusOK, model.DaysToBirthday{Name: record.Name().Value(), Days: days})
}

// addPhone adds a phone number to a contact and responds with the updated contact.
//
// Example REST API call:
//
//	> curl http://localhost:8080/contacts/John/phones --request "POST" --include --header "Content-Type: application/json" --data '{"phone": "0987654321"}'
func addPhone(c *gin.Context) {
	var submitted model.PhoneRequest
	if err := c.BindJSON(&submitted); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid JSON"})
		return
	}

	mu.Lock()
	defer mu.Unlock()

	record, ok := findForUpdate(c.Param("name"))
	if !ok {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "contact not found"})
		return
	}
	if err := record.AddPhone(submitted.Phone); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	commit(record)
	c.IndentedJSON(http.StatusCreated, toContact(record))
}

// editPhone replaces the phone number given in the request URL by the one in the JSON body and
// responds with the updated contact.
//
// Example REST API call:
//
//	> curl http://localhost:8080/contacts/John/phones/1234567890 --request "PUT" --include --header "Content-Type: application/json" --data '{"phone": "5555555555"}'
func editPhone(c *gin.Context) {
	var submitted model.PhoneRequest
	if err := c.BindJSON(&submitted); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid JSON"})
		return
	}

	mu.Lock()
	defer mu.Unlock()

	record, ok := findForUpdate(c.Param("name"))
	if !ok {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "contact not found"})
		return
	}
	err := record.EditPhone(c.Param("phone"), submitted.Phone)
	if errors.Is(err, addressbook.ErrPhoneNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "phone not found"})
		return
	}
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	commit(record)
	c.IndentedJSON(http.StatusOK, toContact(record))
}

// removePhone removes all occurrences of the phone number given in the request URL from the
// contact. Removing a number the contact does not have is not an error.
//
// Example REST API call:
//
//	> curl http://localhost:8080/contacts/John/phones/1234567890 --request "DELETE"
func removePhone(c *gin.Context) {
	mu.Lock()
	defer mu.Unlock()

	record, ok := findForUpdate(c.Param("name"))
	if !ok {
		c.IndentedJSON(http.StatusNotFound, gin.H{"message": "contact not found"})
		return
	}
	record.RemovePhone(c.Param("phone"))
	commit(record)
	c.IndentedJSON(http.StatusOK, toContact(record))
}

// upcomingBirthdays responds with the contacts whose birthday is within the next days, soonest
// first. The URL parameter 'days' defaults to 7.
//
// Example REST API call:
//
//	> curl "http://localhost:8080/birthdays?days=30"
func upcomingBirthdays(c *gin.Context) {
	days := defaultUpcomingDays
	if daysParam := c.Query("days"); daysParam != "" {
		var errConv error
		days, errConv = strconv.Atoi(daysParam)
		if errConv != nil || days < 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid days parameter"})
			return
		}
	}

	mu.Lock()
	defer mu.Unlock()

	result := []model.UpcomingBirthday{}
	for _, u := range book.UpcomingBirthdays(now(), days) {
		result = append(result, model.UpcomingBirthday{Contact: toContact(u.Record), Days: u.Days})
	}
	c.IndentedJSON(http.StatusOK, result)
}
