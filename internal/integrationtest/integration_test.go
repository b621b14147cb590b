package integrationtest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gitlab.com/dirk.krummacker/address-book/internal/addressbook"
	"gitlab.com/dirk.krummacker/address-book/internal/service"
)

// setupRouter starts the service on an empty in-memory address book.
func setupRouter() *gin.Engine {
	service.SetupAddressBook(addressbook.New(), nil)
	gin.SetMode(gin.ReleaseMode)
	return service.SetupHttpRouter(false)
}

// send executes a request against the router and decodes the JSON response into a map.
func send(router *gin.Engine, method string, url string, body string) (int, map[string]interface{}) {
	recorder := httptest.NewRecorder()
	request, _ := http.NewRequest(method, url, strings.NewReader(body))
	router.ServeHTTP(recorder, request)
	var responseBody map[string]interface{}
	json.Unmarshal(recorder.Body.Bytes(), &responseBody)
	return recorder.Code, responseBody
}

// TestContactHappyPath tests a POST, GET, phone changes, birthday lookup and DELETE with valid
// data.
func TestContactHappyPath(t *testing.T) {
	router := setupRouter()

	// test the endpoint for creating a contact
	code, postBody := send(router, "POST", "/contacts", `
		{
			"name": "Erika Mustermann",
			"phones": ["0815471100"],
			"birthday": "1969-03-02"
		}
	`)
	assert.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "Erika Mustermann", postBody["name"])
	assert.Equal(t, []interface{}{"0815471100"}, postBody["phones"])
	assert.Equal(t, "1969-03-02", postBody["birthday"])

	// test the endpoint for finding a contact
	code, getBody := send(router, "GET", "/contacts/Erika%20Mustermann", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, postBody, getBody)

	// test the endpoints for changing phones
	code, phoneBody := send(router, "POST", "/contacts/Erika%20Mustermann/phones", `{"phone": "4912345678"}`)
	assert.Equal(t, http.StatusCreated, code)
	assert.Equal(t, []interface{}{"0815471100", "4912345678"}, phoneBody["phones"])

	code, phoneBody = send(router, "PUT", "/contacts/Erika%20Mustermann/phones/0815471100", `{"phone": "0815471111"}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, []interface{}{"0815471111", "4912345678"}, phoneBody["phones"])

	code, phoneBody = send(router, "DELETE", "/contacts/Erika%20Mustermann/phones/4912345678", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, []interface{}{"0815471111"}, phoneBody["phones"])

	// test the endpoint for the days until the next birthday
	code, daysBody := send(router, "GET", "/contacts/Erika%20Mustermann/birthday", "")
	assert.Equal(t, http.StatusOK, code)
	days, ok := daysBody["days"].(float64)
	assert.True(t, ok)
	assert.GreaterOrEqual(t, days, 0.0)
	assert.LessOrEqual(t, days, 365.0)

	// test the endpoint for deleting a contact
	code, _ = send(router, "DELETE", "/contacts/Erika%20Mustermann", "")
	assert.Equal(t, http.StatusOK, code)

	// test if a final lookup of the contact will correctly not find it
	code, _ = send(router, "GET", "/contacts/Erika%20Mustermann", "")
	assert.Equal(t, http.StatusNotFound, code)
}

// TestInvalidPhoneIsReported tests that an invalid phone is rejected and does not change the
// contact.
func TestInvalidPhoneIsReported(t *testing.T) {
	router := setupRouter()

	code, _ := send(router, "POST", "/contacts", `{"name": "John", "birthday": "1996-06-07"}`)
	assert.Equal(t, http.StatusCreated, code)

	code, body := send(router, "POST", "/contacts/John/phones", `{"phone": "555"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, body["message"], "10 digits")

	code, body = send(router, "GET", "/contacts/John", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, []interface{}{}, body["phones"])
}

// TestFindAllContactsInBatches creates five contacts and reads them back in batches of two.
func TestFindAllContactsInBatches(t *testing.T) {
	router := setupRouter()
	for _, name := range []string{"Aaron", "Berta", "Carla", "Dirk", "Emil"} {
		code, _ := send(router, "POST", "/contacts", `{"name": "`+name+`"}`)
		assert.Equal(t, http.StatusCreated, code)
	}

	recorder := httptest.NewRecorder()
	request, _ := http.NewRequest("GET", "/contacts?batchsize=2", nil)
	router.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusOK, recorder.Code)
	var batches [][]map[string]interface{}
	json.Unmarshal(recorder.Body.Bytes(), &batches)

	var sizes []int
	var names []interface{}
	for _, batch := range batches {
		sizes = append(sizes, len(batch))
		for _, contact := range batch {
			names = append(names, contact["name"])
		}
	}
	assert.Equal(t, []int{2, 2, 1}, sizes)
	assert.Equal(t, []interface{}{"Aaron", "Berta", "Carla", "Dirk", "Emil"}, names)
}
