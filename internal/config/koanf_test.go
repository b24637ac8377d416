// QuickMatch - Session-Based Movie Preference Matching Engine
// Copyright 2026 FilMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatch/quickmatch

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadWithKoanfDefaults(t *testing.T) {
	t.Setenv("CATALOG_URL", "http://catalog.local")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server.port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Server.Timeout != 30*time.Second {
		t.Errorf("server.timeout = %s, want 30s", cfg.Server.Timeout)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("logging defaults = %s/%s, want info/json", cfg.Logging.Level, cfg.Logging.Format)
	}
	if cfg.Store.Backend != StoreBackendMemory {
		t.Errorf("store.backend = %s, want memory", cfg.Store.Backend)
	}
	if cfg.Engine.DefaultTargetCount != 25 {
		t.Errorf("engine.default_target_count = %d, want 25", cfg.Engine.DefaultTargetCount)
	}
	if cfg.Engine.Selector.GenreOverlapLimit != 2 {
		t.Errorf("selector.genre_overlap_limit = %d, want 2", cfg.Engine.Selector.GenreOverlapLimit)
	}
}

func TestLoadWithKoanfEnvOverrides(t *testing.T) {
	t.Setenv("CATALOG_URL", "http://catalog.local")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("ENGINE_TARGET_COUNT", "40")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("server.port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("logging.level = %s, want debug", cfg.Logging.Level)
	}
	if cfg.Engine.DefaultTargetCount != 40 {
		t.Errorf("engine.default_target_count = %d, want 40", cfg.Engine.DefaultTargetCount)
	}
	want := []string{"https://a.example", "https://b.example"}
	if len(cfg.Server.CORSOrigins) != 2 || cfg.Server.CORSOrigins[0] != want[0] || cfg.Server.CORSOrigins[1] != want[1] {
		t.Errorf("cors_origins = %v, want %v", cfg.Server.CORSOrigins, want)
	}
}

func TestLoadWithKoanfConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
server:
  port: 3000
store:
  backend: badger
  path: /tmp/quickmatch-test
catalog:
  url: http://file-catalog.local
engine:
  default_target_count: 15
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf: %v", err)
	}

	if cfg.Server.Port != 3000 {
		t.Errorf("server.port = %d, want 3000 from file", cfg.Server.Port)
	}
	if cfg.Store.Backend != StoreBackendBadger || cfg.Store.Path != "/tmp/quickmatch-test" {
		t.Errorf("store = %+v, want badger backend from file", cfg.Store)
	}
	if cfg.Catalog.URL != "http://file-catalog.local" {
		t.Errorf("catalog.url = %s, want value from file", cfg.Catalog.URL)
	}
	if cfg.Engine.DefaultTargetCount != 15 {
		t.Errorf("engine.default_target_count = %d, want 15", cfg.Engine.DefaultTargetCount)
	}
}

func TestLoadWithKoanfEnvBeatsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
server:
  port: 3000
catalog:
  url: http://file-catalog.local
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("HTTP_PORT", "4000")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf: %v", err)
	}
	if cfg.Server.Port != 4000 {
		t.Errorf("server.port = %d, want ENV to override file", cfg.Server.Port)
	}
}

func TestConfigValidate(t *testing.T) {
	valid := func() *Config {
		cfg := defaultConfig()
		cfg.Catalog.URL = "http://catalog.local"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(*Config) {}, false},
		{"port too low", func(c *Config) { c.Server.Port = 0 }, true},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, true},
		{"unknown store backend", func(c *Config) { c.Store.Backend = "redis" }, true},
		{"badger without path", func(c *Config) {
			c.Store.Backend = StoreBackendBadger
			c.Store.Path = ""
		}, true},
		{"missing catalog url", func(c *Config) { c.Catalog.URL = "" }, true},
		{"generator enabled without url", func(c *Config) { c.Generator.Enabled = true }, true},
		{"bad engine target", func(c *Config) { c.Engine.DefaultTargetCount = -1 }, true},
		{"rate limit disabled skips checks", func(c *Config) {
			c.Server.RateLimitDisabled = true
			c.Server.RateLimitReqs = 0
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
