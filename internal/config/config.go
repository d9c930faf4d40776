// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers defaults, an optional .env-style file, and process env vars.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"fmt"
	"net/url"
	"time"
)

// Config contains process configuration, read-only after Load.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Port is the HTTP listen port, bound on all interfaces.
	Port int `koanf:"port"`

	// Database connection parameters.
	DBHost     string `koanf:"db_host"`
	DBPort     int    `koanf:"db_port"`
	DBName     string `koanf:"db_name"`
	DBUser     string `koanf:"db_user"`
	DBPassword string `koanf:"db_password"`

	// DBQueryTimeoutMS bounds every database statement.
	DBQueryTimeoutMS int `koanf:"db_query_timeout_ms"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		Port:             8000,
		DBHost:           "localhost",
		DBPort:           5432,
		DBName:           "grants_db",
		DBUser:           "grants_user",
		DBPassword:       "grants_password",
		DBQueryTimeoutMS: 5000,
	}
}

// Addr returns the HTTP listen address, e.g. ":8000".
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// DSN returns the Postgres connection string for the configured database.
func (c *Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		url.QueryEscape(c.DBUser),
		url.QueryEscape(c.DBPassword),
		c.DBHost,
		c.DBPort,
		url.PathEscape(c.DBName),
	)
}

// QueryTimeout returns the per-statement database timeout.
func (c *Config) QueryTimeout() time.Duration {
	return time.Duration(c.DBQueryTimeoutMS) * time.Millisecond
}
