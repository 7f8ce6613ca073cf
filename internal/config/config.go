// Package config loads application configuration from the environment.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Backend names a storage implementation.
type Backend string

const (
	BackendSQLite   Backend = "sqlite"
	BackendPostgres Backend = "postgres"
)

// Config holds all application configuration.
type Config struct {
	// Database. An empty resolved URL falls back to SQLite at DBPath.
	DBPath                 string        `env:"DB_PATH"                  envDefault:"./data/poker.db"`
	DatabaseURL            string        `env:"DATABASE_URL"`
	LocalDatabaseURL       string        `env:"LOCAL_DATABASE_URL"`
	UseLocalDB             bool          `env:"USE_LOCAL_DB"             envDefault:"false"`
	DatabaseMaxConns       int           `env:"DATABASE_MAX_CONNS"       envDefault:"10"`
	DatabaseConnectTimeout time.Duration `env:"DATABASE_CONNECT_TIMEOUT" envDefault:"30s"`

	// HTTP Server
	HTTPPort            string        `env:"HTTP_PORT"             envDefault:"8080"`
	HTTPReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT"     envDefault:"15s"`
	HTTPWriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT"    envDefault:"15s"`
	HTTPShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	// Authentication (optional - leave AUTH_ENABLED false to disable)
	AuthEnabled   bool          `env:"AUTH_ENABLED"   envDefault:"false"`
	JWTSecret     string        `env:"JWT_SECRET"     envDefault:""`
	JWTExpiration time.Duration `env:"JWT_EXPIRATION" envDefault:"24h"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks settings that depend on each other.
func (c *Config) Validate() error {
	if c.AuthEnabled && c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required when AUTH_ENABLED is set")
	}
	if _, _, err := c.Storage(); err != nil {
		return err
	}
	return nil
}

// StoreURL returns the database URL in effect: LOCAL_DATABASE_URL when
// USE_LOCAL_DB is set, DATABASE_URL otherwise.
func (c *Config) StoreURL() string {
	if c.UseLocalDB {
		return c.LocalDatabaseURL
	}
	return c.DatabaseURL
}

// Storage resolves which backend to use and its connection string: a
// PostgreSQL URL, or a SQLite file path.
func (c *Config) Storage() (Backend, string, error) {
	raw := strings.TrimSpace(c.StoreURL())
	if raw == "" {
		return BackendSQLite, c.DBPath, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("invalid database URL: %w", err)
	}

	switch u.Scheme {
	case "postgres", "postgresql":
		return BackendPostgres, raw, nil
	case "sqlite", "sqlite3":
		// One slash after the authority separates it from the path:
		// sqlite:///poker.db is relative, sqlite:////var/lib/poker.db absolute.
		path := strings.TrimPrefix(u.Path, "/")
		if u.Host != "" {
			path = strings.TrimSuffix(u.Host+"/"+path, "/")
		}
		if path == "" {
			return "", "", fmt.Errorf("invalid database URL: sqlite URL has no path")
		}
		return BackendSQLite, path, nil
	default:
		return "", "", fmt.Errorf("invalid database URL: unsupported scheme %q", u.Scheme)
	}
}
