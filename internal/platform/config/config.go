// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into strongly-typed
Go structs, providing early validation and default values. The API server loads
[Config]; the console client loads [Console].

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Server Configuration

// Config holds all runtime configuration for the MerchantDesk API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./migrations"`

	// Key-Value store (Redis) for access token sessions
	RedisURL string `env:"REDIS_URL,required"`

	// RS256 key pair for access tokens
	JWTPrivKeyPath string        `env:"JWT_PRIVATE_KEY_PATH,required"`
	JWTPubKeyPath  string        `env:"JWT_PUBLIC_KEY_PATH,required"`
	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"12h"`

	// AllowedOriginSuffix restricts CORS origins outside development.
	AllowedOriginSuffix string `env:"ALLOWED_ORIGIN_SUFFIX" envDefault:"merchantdesk.app"`

	// SignCheckTimeout bounds the Sign-service connectivity test.
	SignCheckTimeout time.Duration `env:"SIGN_CHECK_TIMEOUT" envDefault:"5s"`

	// Optional first system administrator, created on startup if absent.
	BootstrapAdminAccount  string `env:"BOOTSTRAP_ADMIN_ACCOUNT"`
	BootstrapAdminPassword string `env:"BOOTSTRAP_ADMIN_PASSWORD"`
}

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {
	cfg := &Config{}

	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// OriginSuffix implements middleware.AppConfig.
func (c *Config) OriginSuffix() string {
	return c.AllowedOriginSuffix
}

// # Console Configuration

// Console holds the settings of the operator console client.
type Console struct {
	APIURL  string        `env:"MERCHANTDESK_API_URL" envDefault:"http://localhost:8080/api"`
	Timeout time.Duration `env:"MERCHANTDESK_TIMEOUT" envDefault:"30s"`

	// Offline runs every screen against the in-memory fixture.
	Offline        bool          `env:"MERCHANTDESK_OFFLINE" envDefault:"false"`
	FixtureLatency time.Duration `env:"MERCHANTDESK_FIXTURE_LATENCY" envDefault:"300ms"`

	// Session persistence: a JSON file, or Redis when a URL is given.
	SessionFile     string `env:"MERCHANTDESK_SESSION_FILE"`
	SessionRedisURL string `env:"MERCHANTDESK_SESSION_REDIS_URL"`
	SessionProfile  string `env:"MERCHANTDESK_PROFILE" envDefault:"default"`
}

// LoadConsole parses the console environment and resolves the session file path.
func LoadConsole() (*Console, error) {
	cfg := &Console{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse console environment: %w", err)
	}

	if cfg.SessionFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("config: resolve home directory: %w", err)
		}
		cfg.SessionFile = filepath.Join(home, ".merchantdesk", "session.json")
	}

	return cfg, nil
}
