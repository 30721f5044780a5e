// Package config provides centralized configuration management for the loaders.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"strings"
	"time"
)

// Config holds all loader configuration.
// All settings can be configured via environment variables.
type Config struct {
	Database DatabaseConfig
	Load     LoadConfig
	Logging  LoggingConfig
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	// Driver selects the storage backend: postgres or sqlite (default: postgres)
	Driver string `env:"DB_DRIVER" default:"postgres"`

	// URL is the connection string (required). For sqlite it is a file path or DSN.
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL" required:"true"`

	// MaxConns is the maximum number of connections in the pool (default: 4)
	MaxConns int `env:"DB_MAX_CONNS" default:"4"`

	// MinConns is the minimum number of connections to keep open (default: 1)
	MinConns int `env:"DB_MIN_CONNS" default:"1"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`

	// MaxConnIdleTime is the maximum idle time before a connection is closed (default: 30m)
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`

	// ApplySchema creates the bronze and silver tables if they are missing (default: false)
	ApplySchema bool `env:"DB_APPLY_SCHEMA" default:"false"`
}

// LoadConfig holds settings for a single load run.
type LoadConfig struct {
	// Timeout bounds the whole run (default: 30m)
	Timeout time.Duration `env:"LOAD_TIMEOUT" default:"30m"`

	// ContinueOnError runs the remaining stages after a failure (default: false)
	ContinueOnError bool `env:"LOAD_CONTINUE_ON_ERROR" default:"false"`

	// BronzeSchema is the schema holding raw tables (default: bronze)
	BronzeSchema string `env:"BRONZE_SCHEMA" default:"bronze"`

	// SilverSchema is the schema holding cleansed tables (default: silver)
	SilverSchema string `env:"SILVER_SCHEMA" default:"silver"`

	// SourceDir is the directory holding the source_crm and source_erp extracts (default: datasets)
	SourceDir string `env:"BRONZE_SOURCE_DIR" default:"datasets"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Postgres reports whether the Postgres backend is selected.
func (c *DatabaseConfig) Postgres() bool {
	return strings.EqualFold(c.Driver, "postgres")
}
