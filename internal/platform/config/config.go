// Copyright (c) 2026 Crystalbox. All rights reserved.
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
  - DI-Friendly: Passed to core components (DB, Redis, services) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the Crystalbox API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	Database Database

	// Key-Value Cache (Redis)
	RedisURL             string        `env:"REDIS_URL,required"`
	SubscriptionCacheTTL time.Duration `env:"SUBSCRIPTION_CACHE_TTL" envDefault:"10m"`

	// Cryptographic keys for identity signing
	JWTPrivKeyPath string        `env:"JWT_PRIVATE_KEY_PATH,required"`
	JWTPubKeyPath  string        `env:"JWT_PUBLIC_KEY_PATH,required"`
	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"12h"`

	// Cross-Origin Resource Sharing
	AllowedOriginSuffix string `env:"ALLOWED_ORIGIN_SUFFIX"`

	// Crystal recommendation tuning
	Recommendation Recommendation
}

// Database is the subset of settings needed to reach PostgreSQL.
// It can be loaded on its own by tools that never serve HTTP.
type Database struct {
	URL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`
}

// Recommendation tunes the history walk, smart-check and conflict detection.
type Recommendation struct {
	// DefaultLookbackDepth is the number of cycle steps walked when the client sends no limit.
	DefaultLookbackDepth int `env:"LOOKBACK_DEFAULT_DEPTH" envDefault:"12"`

	// MaxLookbackDepth caps client-supplied lookback limits.
	MaxLookbackDepth int `env:"LOOKBACK_MAX_DEPTH" envDefault:"120"`

	// MonthWideLookback pulls every shipment of a visited month, not only exact cycle matches.
	MonthWideLookback bool `env:"LOOKBACK_MONTH_WIDE" envDefault:"true"`

	// DefaultCycleLength is used when a subscription does not define its own.
	DefaultCycleLength int `env:"DEFAULT_CYCLE_LENGTH" envDefault:"12"`

	// ConflictScopeSubscription limits cycle conflicts to pre-builds of the same subscription.
	ConflictScopeSubscription bool `env:"CONFLICT_SCOPE_SUBSCRIPTION" envDefault:"false"`

	// SmartCheckConcurrency bounds parallel pre-build checks in one request.
	SmartCheckConcurrency int `env:"SMARTCHECK_CONCURRENCY" envDefault:"4"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.Recommendation.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadDatabase parses only the PostgreSQL settings.
func LoadDatabase() (*Database, error) {
	cfg := &Database{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse database environment: %w", err)
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

// OriginSuffix returns the domain suffix trusted for CORS outside development.
func (c *Config) OriginSuffix() string {
	return c.AllowedOriginSuffix
}

func (r Recommendation) validate() error {
	switch {
	case r.DefaultLookbackDepth < 1:
		return fmt.Errorf("config: LOOKBACK_DEFAULT_DEPTH must be positive")
	case r.MaxLookbackDepth < r.DefaultLookbackDepth:
		return fmt.Errorf("config: LOOKBACK_MAX_DEPTH must be >= LOOKBACK_DEFAULT_DEPTH")
	case r.DefaultCycleLength < 1:
		return fmt.Errorf("config: DEFAULT_CYCLE_LENGTH must be positive")
	case r.SmartCheckConcurrency < 1:
		return fmt.Errorf("config: SMARTCHECK_CONCURRENCY must be positive")
	}
	return nil
}
