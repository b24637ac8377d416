// QuickMatch - Session-Based Movie Preference Matching Engine
// Copyright 2026 FilMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatch/quickmatch

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/filmatch/quickmatch/internal/quickmatch"
)

// DefaultConfigPaths lists the config file search order. The first file
// found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/quickmatch/config.yaml",
	"/etc/quickmatch/config.yml",
}

// ConfigPathEnvVar overrides the config file path when set.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns the built-in defaults. They are applied first, then
// overridden by the config file and environment variables.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              8080,
			Timeout:           30 * time.Second,
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     100,
			RateLimitWindow:   1 * time.Minute,
			RateLimitDisabled: false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Store: StoreConfig{
			Backend:    StoreBackendMemory,
			Path:       "/data/quickmatch",
			GCInterval: 10 * time.Minute,
		},
		Catalog: CatalogConfig{
			URL:          "",
			APIKey:       "",
			ImageBaseURL: "https://image.tmdb.org/t/p/w500",
			Timeout:      30 * time.Second,
			RateLimit:    10,
			RateBurst:    20,
		},
		Generator: GeneratorConfig{
			Enabled: false,
			BaseURL: "",
			APIKey:  "",
			Model:   "gpt-4o-mini",
			Timeout: 30 * time.Second,
		},
		Engine: quickmatch.DefaultConfig(),
	}
}

// LoadWithKoanf loads configuration with layered sources:
//  1. Built-in defaults
//  2. Optional YAML config file
//  3. Environment variables (highest priority)
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults from struct.
	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: config file, if one exists.
	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: environment variables. HTTP_PORT -> server.port, etc.
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Slice fields arrive from ENV as comma-separated strings.
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first existing config file, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are the config paths parsed as comma-separated slices
// when they arrive as plain strings.
var sliceConfigPaths = []string{
	"server.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for
// the known slice fields.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}
		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envTransformFunc maps environment variable names to koanf config paths.
// Unmapped variables are dropped so arbitrary environment noise cannot
// pollute the configuration.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - CATALOG_API_KEY -> catalog.api_key
//   - ENGINE_TARGET_COUNT -> engine.default_target_count
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	envMappings := map[string]string{
		// Server mappings
		"http_host":           "server.host",
		"http_port":           "server.port",
		"http_timeout":        "server.timeout",
		"cors_origins":        "server.cors_origins",
		"rate_limit_requests": "server.rate_limit_reqs",
		"rate_limit_window":   "server.rate_limit_window",
		"disable_rate_limit":  "server.rate_limit_disabled",

		// Logging mappings
		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",

		// Store mappings
		"store_backend":     "store.backend",
		"store_path":        "store.path",
		"store_gc_interval": "store.gc_interval",

		// Catalog mappings
		"catalog_url":            "catalog.url",
		"catalog_api_key":        "catalog.api_key",
		"catalog_image_base_url": "catalog.image_base_url",
		"catalog_timeout":        "catalog.timeout",
		"catalog_rate_limit":     "catalog.rate_limit",
		"catalog_rate_burst":     "catalog.rate_burst",

		// Generator mappings
		"generator_enabled":  "generator.enabled",
		"generator_base_url": "generator.base_url",
		"generator_api_key":  "generator.api_key",
		"generator_model":    "generator.model",
		"generator_timeout":  "generator.timeout",

		// Engine mappings
		"engine_target_count":    "engine.default_target_count",
		"engine_pool_size":       "engine.pool_size",
		"engine_pool_min_rating": "engine.pool_min_rating",
		// Selector tuning
		"selector_genre_overlap_limit":    "engine.selector.genre_overlap_limit",
		"selector_genre_saturation_limit": "engine.selector.genre_saturation_limit",
		"selector_min_series_prefix_len":  "engine.selector.min_series_prefix_len",
		"selector_seed":                   "engine.selector.seed",
		// Recommendation tuning
		"builder_base_rating_floor":  "engine.builder.base_rating_floor",
		"builder_rating_floor_min":   "engine.builder.rating_floor_min",
		"builder_rating_floor_max":   "engine.builder.rating_floor_max",
		"builder_query_limit":        "engine.builder.query_limit",
		"builder_max_results":        "engine.builder.max_results",
		"builder_backfill_threshold": "engine.builder.backfill_threshold",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}
	return ""
}
