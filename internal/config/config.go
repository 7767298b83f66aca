// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Load layers a YAML file and the environment over those defaults.
// - External errors are wrapped with ErrLoadConfig or ErrInvalidConfig.
package config

import (
	"context"
	"fmt"
	"strings"
)

// Store backends.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// ServiceName names the server on request spans.
	ServiceName string `koanf:"service_name"`

	// Addr configures the HTTP listen address, e.g. ":3000".
	Addr string `koanf:"addr"`

	// RoutePrefix is where the rankings routes are mounted. "" or "/" is the root.
	RoutePrefix string `koanf:"route_prefix"`

	// CORSOrigins lists browser origins allowed to call the API; "*" allows any.
	CORSOrigins []string `koanf:"cors_origins"`

	// Store selects the document store backend: memory or postgres.
	Store string `koanf:"store"`

	// SeedFile is a JSON array of university records. The memory store is
	// loaded from it; an empty postgres table is seeded from it.
	SeedFile string `koanf:"seed_file"`

	// PostgresDSN is the lib/pq connection string for the postgres store.
	PostgresDSN string `koanf:"postgres_dsn"`

	// PostgresTable names the documents table.
	PostgresTable string `koanf:"postgres_table"`

	// PostgresMaxOpenConns bounds the connection pool.
	PostgresMaxOpenConns int `koanf:"postgres_max_open_conns"`
}

// New creates a Config holding the defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:             "info",
		ServiceName:          "unirank",
		Addr:                 ":3000",
		RoutePrefix:          "/api",
		CORSOrigins:          []string{"*"},
		Store:                StoreMemory,
		PostgresTable:        "universities",
		PostgresMaxOpenConns: 10,
	}
}

// Validate reports the first invalid setting, wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.ServiceName) == "":
		return fmt.Errorf("%w: service_name must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.Store != StoreMemory && c.Store != StorePostgres:
		return fmt.Errorf("%w: %w: store must be %q or %q, got %q", ErrInvalidConfig, ErrUnknownStore, StoreMemory, StorePostgres, c.Store)
	case c.Store == StorePostgres && strings.TrimSpace(c.PostgresDSN) == "":
		return fmt.Errorf("%w: postgres_dsn is required for the postgres store", ErrInvalidConfig)
	case c.Store == StorePostgres && strings.TrimSpace(c.PostgresTable) == "":
		return fmt.Errorf("%w: postgres_table must not be empty", ErrInvalidConfig)
	case c.PostgresMaxOpenConns < 0:
		return fmt.Errorf("%w: postgres_max_open_conns must not be negative", ErrInvalidConfig)
	}
	return nil
}
