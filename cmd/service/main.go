package main

import (
	"flag"
	"fmt"
	"log"

	"gitlab.com/dirk.krummacker/address-book/internal/addressbook"
	"gitlab.com/dirk.krummacker/address-book/internal/config"
	"gitlab.com/dirk.krummacker/address-book/internal/service"
	"gitlab.com/dirk.krummacker/address-book/internal/storage"
)

// Usage example on the command line:
// > PORT=8080 DBHOST=localhost:3306 DBUSER=dirk DBPWD=bullo92 GIN_MODE=release GIN_LOGGING=OFF go run main.go
func main() {
	configPtr := flag.String("config", "address-book.yaml", "the YAML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPtr)
	if err != nil {
		log.Fatal(err)
	}
	if err := cfg.ApplyEnv(); err != nil {
		log.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	if cfg.Database.Enabled {
		sqlDB, err := storage.Open(cfg.Database.DSN())
		if err != nil {
			log.Fatal(err)
		}
		store, err := storage.New(sqlDB)
		if err != nil {
			log.Fatal(err)
		}
		defer store.Close()
		book, err := store.Load()
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("loaded %d contacts from %s", book.Len(), cfg.Database.Host)
		service.SetupAddressBook(book, store)
	} else {
		log.Println("no database configured, contacts are kept in memory only")
		service.SetupAddressBook(addressbook.New(), nil)
	}

	router := service.SetupHttpRouter(cfg.Server.Logging)
	if err := router.Run(fmt.Sprintf(":%d", cfg.Server.Port)); err != nil {
		log.Fatal(err)
	}
}
