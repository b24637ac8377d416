// QuickMatch - Session-Based Movie Preference Matching Engine
// Copyright 2026 FilMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatch/quickmatch

package config

import (
	"fmt"
	"time"

	"github.com/filmatch/quickmatch/internal/quickmatch"
)

// Store backends.
const (
	StoreBackendMemory = "memory"
	StoreBackendBadger = "badger"
)

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig      `koanf:"server"`
	Logging   LoggingConfig     `koanf:"logging"`
	Store     StoreConfig       `koanf:"store"`
	Catalog   CatalogConfig     `koanf:"catalog"`
	Generator GeneratorConfig   `koanf:"generator"`
	Engine    quickmatch.Config `koanf:"engine"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Host              string        `koanf:"host"`
	Port              int           `koanf:"port"`
	Timeout           time.Duration `koanf:"timeout"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds the zerolog settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// StoreConfig selects and tunes the session store backend.
type StoreConfig struct {
	// Backend is "memory" or "badger".
	Backend string `koanf:"backend"`

	// Path is the Badger data directory; ignored for the memory backend.
	Path string `koanf:"path"`

	// GCInterval is how often the Badger value-log GC runs.
	GCInterval time.Duration `koanf:"gc_interval"`
}

// CatalogConfig holds the movie search index client settings.
type CatalogConfig struct {
	URL          string        `koanf:"url"`
	APIKey       string        `koanf:"api_key"`
	ImageBaseURL string        `koanf:"image_base_url"`
	Timeout      time.Duration `koanf:"timeout"`

	// RateLimit is the client-side request budget in requests per second;
	// RateBurst is the token bucket size.
	RateLimit float64 `koanf:"rate_limit"`
	RateBurst int     `koanf:"rate_burst"`
}

// GeneratorConfig holds the justification generator settings. Disabled by
// default; recommendations then carry the fixed default justification.
type GeneratorConfig struct {
	Enabled bool          `koanf:"enabled"`
	BaseURL string        `koanf:"base_url"`
	APIKey  string        `koanf:"api_key"`
	Model   string        `koanf:"model"`
	Timeout time.Duration `koanf:"timeout"`
}

// Validate checks the configuration for values that would break startup.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be within [1, 65535], got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %s", c.Server.Timeout)
	}
	if !c.Server.RateLimitDisabled {
		if c.Server.RateLimitReqs <= 0 {
			return fmt.Errorf("server.rate_limit_reqs must be positive, got %d", c.Server.RateLimitReqs)
		}
		if c.Server.RateLimitWindow <= 0 {
			return fmt.Errorf("server.rate_limit_window must be positive, got %s", c.Server.RateLimitWindow)
		}
	}

	switch c.Store.Backend {
	case StoreBackendMemory:
	case StoreBackendBadger:
		if c.Store.Path == "" {
			return fmt.Errorf("store.path is required for the %s backend", StoreBackendBadger)
		}
	default:
		return fmt.Errorf("store.backend must be %q or %q, got %q",
			StoreBackendMemory, StoreBackendBadger, c.Store.Backend)
	}

	if c.Catalog.URL == "" {
		return fmt.Errorf("catalog.url is required")
	}
	if c.Generator.Enabled && c.Generator.BaseURL == "" {
		return fmt.Errorf("generator.base_url is required when the generator is enabled")
	}

	if err := c.Engine.Validate(); err != nil {
		return err
	}
	return nil
}
