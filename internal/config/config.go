// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - Load layers defaults, an optional YAML file, then FLORADEX_* env vars.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Storage drivers understood by the repository package.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// StorageDriver selects the record store backend: sqlite, postgres or memory.
	StorageDriver string `koanf:"storage_driver"`

	// SQLitePath is the database file used by the sqlite driver.
	SQLitePath string `koanf:"sqlite_path"`

	// PostgresDSN is the connection string used by the postgres driver.
	PostgresDSN string `koanf:"postgres_dsn"`

	// MaxOpenConns caps the store connection pool. The sqlite driver always uses 1.
	MaxOpenConns int `koanf:"max_open_conns"`

	// MaxBodyBytes caps PUT /flowers request bodies.
	MaxBodyBytes int64 `koanf:"max_body_bytes"`

	// ReadTimeoutMS and WriteTimeoutMS bound HTTP server reads and writes.
	ReadTimeoutMS  int `koanf:"read_timeout_ms"`
	WriteTimeoutMS int `koanf:"write_timeout_ms"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		LogFormat:      "text",
		Addr:           ":8000",
		StorageDriver:  DriverSQLite,
		SQLitePath:     "flowers.db",
		PostgresDSN:    "postgres://localhost/floradex?sslmode=disable",
		MaxOpenConns:   4,
		MaxBodyBytes:   1 << 20,
		ReadTimeoutMS:  10_000,
		WriteTimeoutMS: 10_000,
	}
}

// ReadTimeout returns the HTTP read timeout as a duration.
func (c *Config) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutMS) * time.Millisecond
}

// WriteTimeout returns the HTTP write timeout as a duration.
func (c *Config) WriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutMS) * time.Millisecond
}

// Validate checks the fields Load cannot default on its own.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch c.StorageDriver {
	case DriverSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			return fmt.Errorf("%w: sqlite_path must not be empty", ErrInvalidConfig)
		}
	case DriverPostgres:
		if strings.TrimSpace(c.PostgresDSN) == "" {
			return fmt.Errorf("%w: postgres_dsn must not be empty", ErrInvalidConfig)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("%w: unknown storage_driver %q", ErrInvalidConfig, c.StorageDriver)
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("%w: max_body_bytes must be positive", ErrInvalidConfig)
	}
	if c.ReadTimeoutMS <= 0 || c.WriteTimeoutMS <= 0 {
		return fmt.Errorf("%w: timeouts must be positive", ErrInvalidConfig)
	}
	return nil
}
