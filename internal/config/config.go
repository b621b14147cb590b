// Package config handles the YAML configuration of the address book service
// with environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	"gopkg.in/yaml.v3"
)

// Config holds all service configuration.
type Config struct {
	Server   Server   `yaml:"server"`
	Database Database `yaml:"database"`
}

// Server holds the HTTP settings.
type Server struct {
	Port    int  `yaml:"port"`
	Logging bool `yaml:"logging"` // gin request logging
}

// Database holds the MySQL connection settings. Without a database the
// address book lives in memory only.
type Database struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"` // host:port
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Server: Server{
			Port:    8080,
			Logging: true,
		},
		Database: Database{
			Enabled: false,
			Host:    "localhost:3306",
			Name:    "test",
		},
	}
}

// Load reads a YAML config file at path and returns a Config.
// If the file does not exist, defaults are returned without error.
// If the file contains invalid YAML or unknown fields, an error is returned.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) // nosemgrep
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if len(data) == 0 {
		return &cfg, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		// Comment-only YAML files produce EOF with no decoded content.
		if errors.Is(err, io.EOF) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return &cfg, nil
}

// ApplyEnv applies environment variable overrides to the config.
// Supported variables: PORT, GIN_LOGGING, DBHOST, DBUSER, DBPWD, DBNAME.
// Setting DBHOST also enables the database.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: invalid PORT %q: %w", v, err)
		}
		c.Server.Port = port
	}
	if v := os.Getenv("GIN_LOGGING"); v != "" {
		c.Server.Logging = !strings.EqualFold(v, "off")
	}
	if v := os.Getenv("DBHOST"); v != "" {
		c.Database.Host = v
		c.Database.Enabled = true
	}
	if v := os.Getenv("DBUSER"); v != "" {
		c.Database.User = v
	}
	if v := os.Getenv("DBPWD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("DBNAME"); v != "" {
		c.Database.Name = v
	}
	return nil
}

// Validate checks that config values are usable.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if !c.Database.Enabled {
		return nil
	}
	if c.Database.Host == "" {
		return errors.New("config: database.host cannot be empty")
	}
	if c.Database.Name == "" {
		return errors.New("config: database.name cannot be empty")
	}
	return nil
}

// DSN returns the data source name for the MySQL driver. Dates are parsed into
// time.Time values.
func (d Database) DSN() string {
	mc := mysql.NewConfig()
	mc.User = d.User
	mc.Passwd = d.Password
	mc.Net = "tcp"
	mc.Addr = d.Host
	mc.DBName = d.Name
	mc.ParseTime = true
	return mc.FormatDSN()
}
