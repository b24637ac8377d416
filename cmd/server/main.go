// QuickMatch - Session-Based Movie Preference Matching Engine
// Copyright 2026 FilMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatch/quickmatch

// Package main is the entry point for the QuickMatch server.
//
// QuickMatch runs swipe-style movie matching sessions: a user rates a bounded
// sequence of candidates, and the engine derives a taste profile and a
// justified recommendation list from the likes.
//
// The server initializes components in the following order:
//
//  1. Configuration: koanf v2 layering defaults, config.yaml, environment
//  2. Session store: in-memory or Badger, per STORE_BACKEND
//  3. Movie catalog: HTTP client behind a circuit breaker
//  4. Justification generator: OpenAI-compatible, or static templates
//  5. Matching engine
//  6. HTTP API and supervision tree
//
// Graceful shutdown on SIGINT/SIGTERM: the supervisor drains the HTTP server
// within its shutdown timeout, then the store is closed.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/filmatch/quickmatch/internal/api"
	"github.com/filmatch/quickmatch/internal/catalog"
	"github.com/filmatch/quickmatch/internal/config"
	"github.com/filmatch/quickmatch/internal/justify"
	"github.com/filmatch/quickmatch/internal/logging"
	"github.com/filmatch/quickmatch/internal/metrics"
	"github.com/filmatch/quickmatch/internal/quickmatch"
	"github.com/filmatch/quickmatch/internal/storage"
	"github.com/filmatch/quickmatch/internal/supervisor"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	// Load configuration first to get logging settings.
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", version).
		Str("store_backend", cfg.Store.Backend).
		Str("catalog_url", cfg.Catalog.URL).
		Bool("generator_enabled", cfg.Generator.Enabled).
		Msg("Starting QuickMatch")

	metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)

	// Session store: Badger for persistence across restarts, memory otherwise.
	var store quickmatch.Store
	var badgerStore *storage.BadgerStore
	switch cfg.Store.Backend {
	case config.StoreBackendBadger:
		badgerStore, err = storage.NewBadgerStore(cfg.Store.Path, logging.Logger())
		if err != nil {
			logging.Fatal().Err(err).Str("path", cfg.Store.Path).Msg("Failed to open badger store")
		}
		defer func() {
			if err := badgerStore.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing badger store")
			}
		}()
		store = badgerStore
	default:
		store = storage.NewMemoryStore()
	}

	// Movie catalog client behind a circuit breaker. An unreachable catalog
	// at startup is not fatal; the breaker retries as traffic arrives.
	client := catalog.NewClient(&cfg.Catalog, logging.Logger())
	breaker := catalog.NewBreakerClient(client, logging.Logger())
	if err := breaker.Ping(context.Background()); err != nil {
		logging.Warn().Err(err).Msg("Movie catalog not reachable (will retry)")
	} else {
		logging.Info().Msg("Connected to movie catalog")
	}

	// Justification generator: the OpenAI-compatible client when enabled,
	// deterministic phrase templates otherwise.
	var generator quickmatch.Generator
	if cfg.Generator.Enabled {
		generator = justify.NewOpenAI(&cfg.Generator, logging.Logger())
	} else {
		generator = justify.NewStatic(0)
	}

	engine, err := quickmatch.NewEngine(cfg.Engine, store, breaker, generator, logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to build matching engine")
	}

	handler := api.NewHandler(engine, breaker, logging.Logger())
	router := api.NewRouter(handler, &cfg.Server)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Bridge zerolog to slog for sutureslog compatibility.
	tree, err := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddAPIService(supervisor.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	if badgerStore != nil {
		tree.AddStorageService(supervisor.NewBadgerGCService(badgerStore, cfg.Store.GCInterval, logging.Logger()))
		logging.Info().Dur("interval", cfg.Store.GCInterval).Msg("Badger GC service added")
	}

	// Track uptime for the /metrics endpoint.
	startTime := time.Now()
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				metrics.AppUptime.Set(time.Since(startTime).Seconds())
			}
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Drain the error channel until the supervisor finishes.
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Application stopped gracefully")
}
