// Copyright (c) 2026 Applytrack. All rights reserved.
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
  - DI-Friendly: Passed to core components (DB, Redis, token signer) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the Applytrack API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"PORT"         envDefault:"3000"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// AutoMigrate applies pending migrations during startup.
	AutoMigrate bool `env:"AUTO_MIGRATE" envDefault:"true"`

	// Key-Value Cache (Redis). Optional: the account presence cache is
	// disabled when empty.
	RedisURL string `env:"REDIS_URL"`

	// AccountCacheTTL bounds how long a positive "account exists" lookup is reused.
	// Zero disables the cache. While enabled, an account deleted directly in the
	// database keeps authorizing for up to this long.
	AccountCacheTTL time.Duration `env:"ACCOUNT_CACHE_TTL" envDefault:"0s"`

	// Symmetric key for session token signing
	JWTSecret string `env:"JWT_SECRET,required,notEmpty,unset"`
	JWTIssuer string `env:"JWT_ISSUER" envDefault:"applytrack"`

	// Built single-page app. Static serving is skipped if the directory is missing.
	StaticDir string `env:"STATIC_DIR" envDefault:"./frontend/dist"`

	// Cross-Origin Resource Sharing
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {
	cfg := &Config{}

	// Fails if any field marked 'required' or 'notEmpty' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// PresenceCacheEnabled reports whether the guard may reuse "account exists"
// lookups from Redis.
func (c *Config) PresenceCacheEnabled() bool {
	return c.RedisURL != "" && c.AccountCacheTTL > 0
}

// OriginAllowed reports whether a browser origin may call the API.
func (c *Config) OriginAllowed(origin string) bool {
	if c.IsDevelopment() {
		return true
	}
	for _, allowed := range c.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}
