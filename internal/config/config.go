// Package config provides configuration loading for the RSVP server and CLI.
//
// Values are layered: built-in defaults, then an optional YAML file, then
// environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mmynk/rsvp/internal/rsvp"
)

// Supported storage drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Supported schemas served by the public API.
const (
	SchemaV2 = "v2"
	SchemaV1 = "v1"
)

// Config represents the complete configuration
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	RSVP    RSVPConfig    `yaml:"rsvp"`
	Admin   AdminConfig   `yaml:"admin"`
	Log     LogConfig     `yaml:"log"`
}

// ServerConfig configures the HTTP listener
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// StorageConfig selects and configures the record store
type StorageConfig struct {
	// Driver is "sqlite" or "postgres"
	Driver string `yaml:"driver"`
	// Path is the SQLite database file
	Path string `yaml:"path"`
	// DSN is the PostgreSQL connection string
	DSN string `yaml:"dsn"`
}

// RSVPConfig configures the RSVP engine
type RSVPConfig struct {
	// Schema is "v2" (parties) or "v1" (legacy guests)
	Schema string `yaml:"schema"`
	// CompanionPolicy is "lenient" or "rollback"
	CompanionPolicy string `yaml:"companion_policy"`
	SearchLimit     int    `yaml:"search_limit"`
}

// AdminConfig configures admin token checks. An empty secret leaves the
// admin surface open.
type AdminConfig struct {
	TokenSecret string        `yaml:"token_secret"`
	TokenTTL    time.Duration `yaml:"token_ttl"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
		Storage: StorageConfig{
			Driver: DriverSQLite,
			Path:   "./data/rsvp.db",
		},
		RSVP: RSVPConfig{
			Schema:          SchemaV2,
			CompanionPolicy: string(rsvp.CompanionLenient),
			SearchLimit:     rsvp.DefaultSearchLimit,
		},
		Admin: AdminConfig{
			TokenTTL: 15 * time.Minute,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load builds the configuration from defaults, the YAML file at path (if
// path is not empty) and the environment, then validates it.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		var err error
		if cfg, err = LoadFromFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromFile loads configuration from a YAML file on top of the defaults
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from environment variables that are set.
func (c *Config) ApplyEnv() error {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}
	setString("RSVP_ADDR", &c.Server.Addr)
	setString("DB_DRIVER", &c.Storage.Driver)
	setString("DB_PATH", &c.Storage.Path)
	setString("DB_DSN", &c.Storage.DSN)
	setString("RSVP_SCHEMA", &c.RSVP.Schema)
	setString("RSVP_COMPANION_POLICY", &c.RSVP.CompanionPolicy)
	setString("ADMIN_TOKEN_SECRET", &c.Admin.TokenSecret)
	setString("LOG_LEVEL", &c.Log.Level)

	if v, ok := os.LookupEnv("RSVP_SEARCH_LIMIT"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("RSVP_SEARCH_LIMIT: %w", err)
		}
		c.RSVP.SearchLimit = n
	}
	return nil
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	switch c.Storage.Driver {
	case DriverSQLite:
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path is required for sqlite")
		}
	case DriverPostgres:
		if c.Storage.DSN == "" {
			return fmt.Errorf("storage.dsn is required for postgres")
		}
	default:
		return fmt.Errorf("storage.driver must be %q or %q, got %q", DriverSQLite, DriverPostgres, c.Storage.Driver)
	}
	if c.RSVP.Schema != SchemaV2 && c.RSVP.Schema != SchemaV1 {
		return fmt.Errorf("rsvp.schema must be %q or %q, got %q", SchemaV2, SchemaV1, c.RSVP.Schema)
	}
	if _, err := rsvp.ParseCompanionPolicy(c.RSVP.CompanionPolicy); err != nil {
		return fmt.Errorf("rsvp.companion_policy: %w", err)
	}
	if c.RSVP.SearchLimit < 1 {
		return fmt.Errorf("rsvp.search_limit must be positive")
	}
	if c.Admin.TokenSecret != "" && c.Admin.TokenTTL <= 0 {
		return fmt.Errorf("admin.token_ttl must be positive")
	}
	return nil
}

// CompanionPolicy returns the parsed companion policy. Call after Validate.
func (c *Config) CompanionPolicy() rsvp.CompanionPolicy {
	p, _ := rsvp.ParseCompanionPolicy(c.RSVP.CompanionPolicy)
	return p
}
