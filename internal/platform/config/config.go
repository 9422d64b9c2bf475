// Copyright (c) 2026 Rackline. All rights reserved.

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
  - DI-Friendly: Passed to core components (backend client, proxy, cache) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"
	"net/url"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the Rackline edge gateway.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// BackendBaseURL is the root of the marketplace backend API that
	// owns all business logic and persistence.
	BackendBaseURL string `env:"BACKEND_BASE_URL,required"`

	// WebRendererURL is the upstream that renders page HTML. Navigation
	// requests pass through the route gate and are then proxied here.
	WebRendererURL string `env:"WEB_RENDERER_URL" envDefault:"http://localhost:3000"`

	// OAuthProviderName identifies the external identity provider whose
	// authorization codes the backend exchanges.
	OAuthProviderName string `env:"OAUTH_PROVIDER_NAME" envDefault:"google"`

	// RedisURL enables the proxy response cache for public browse routes.
	// The cache is disabled when empty.
	RedisURL string `env:"REDIS_URL"`

	// CacheTTLSeconds is the lifetime of cached browse responses.
	CacheTTLSeconds int `env:"CACHE_TTL_SECONDS" envDefault:"30"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	// Reject unparseable backend URLs at startup rather than on first proxy hit.
	if _, err := url.Parse(cfg.BackendBaseURL); err != nil {
		return nil, fmt.Errorf("config: invalid BACKEND_BASE_URL: %w", err)
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
//
// Cookie Secure attributes are only set in production so that local
// development over plain HTTP keeps working.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
