// Copyright (c) 2026 Pinpoint. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the Pinpoint API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// MetricsPort serves /metrics on its own listener, kept off the public API.
	MetricsPort string `env:"METRICS_PORT" envDefault:"9090"`

	// TrustProxyHeaders takes the client IP from X-Forwarded-For / X-Real-IP.
	// Enable only behind a reverse proxy that overwrites those headers.
	TrustProxyHeaders bool `env:"TRUST_PROXY_HEADERS" envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// RedisURL is optional. When empty, session touches are not throttled.
	RedisURL string `env:"REDIS_URL"`

	// Session cookie and lifetime
	SessionCookieName    string        `env:"SESSION_COOKIE_NAME"    envDefault:"pp_session"`
	SessionMaxAgeDays    int           `env:"SESSION_MAX_AGE_DAYS"   envDefault:"7"`
	SessionCookieSecure  bool          `env:"SESSION_COOKIE_SECURE"  envDefault:"true"`
	SessionTouchInterval time.Duration `env:"SESSION_TOUCH_INTERVAL" envDefault:"1m"`
	SessionSweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" envDefault:"1h"`

	// Cross-Origin Resource Sharing
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`

	// LoginRateLimit is the number of login attempts allowed per minute per IP.
	LoginRateLimit int `env:"LOGIN_RATE_LIMIT" envDefault:"10"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {
	cfg := &Config{}

	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate rejects values that parse but cannot be served.
func (c *Config) validate() error {
	if strings.TrimSpace(c.SessionCookieName) == "" {
		return fmt.Errorf("config: SESSION_COOKIE_NAME must not be empty")
	}
	if c.SessionMaxAgeDays < 1 {
		return fmt.Errorf("config: SESSION_MAX_AGE_DAYS must be at least 1, got %d", c.SessionMaxAgeDays)
	}
	if c.SessionTouchInterval < 0 {
		return fmt.Errorf("config: SESSION_TOUCH_INTERVAL must not be negative")
	}
	if c.SessionSweepInterval <= 0 {
		return fmt.Errorf("config: SESSION_SWEEP_INTERVAL must be positive")
	}
	if c.MetricsPort != "" && c.MetricsPort == c.ServerPort {
		return fmt.Errorf("config: METRICS_PORT must differ from SERVER_PORT")
	}
	if c.LoginRateLimit < 1 {
		return fmt.Errorf("config: LOGIN_RATE_LIMIT must be at least 1, got %d", c.LoginRateLimit)
	}
	return nil
}

// SessionMaxAge is the absolute lifetime of a session, cookie and row alike.
func (c *Config) SessionMaxAge() time.Duration {
	return time.Duration(c.SessionMaxAgeDays) * 24 * time.Hour
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
