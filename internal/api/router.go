// QuickMatch - Session-Based Movie Preference Matching Engine
// Copyright 2026 FilMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatch/quickmatch

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/filmatch/quickmatch/internal/config"
)

// NewRouter assembles the chi router: global middleware, the quickmatch
// session routes, the catalog search passthrough, health probes, and the
// Prometheus scrape endpoint.
func NewRouter(h *Handler, cfg *config.ServerConfig) http.Handler {
	mw := NewMiddleware(&MiddlewareConfig{
		CORSAllowedOrigins:   cfg.CORSOrigins,
		CORSAllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		CORSAllowedHeaders:   []string{"Content-Type", "X-Request-ID"},
		CORSAllowCredentials: false,
		CORSMaxAge:           86400,

		RateLimitRequests: cfg.RateLimitReqs,
		RateLimitWindow:   cfg.RateLimitWindow,
		RateLimitDisabled: cfg.RateLimitDisabled,
	})

	r := chi.NewRouter()

	// ================================================================================
	// Global middleware (applies to all routes)
	// ================================================================================
	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(mw.CORS())

	// ================================================================================
	// QuickMatch session API
	// ================================================================================
	r.Route("/api/v1/quickmatch", func(r chi.Router) {
		r.Use(mw.RateLimit())
		r.Use(SecurityHeaders())
		r.Use(PrometheusMetrics())

		r.Post("/session", h.CreateSession)
		r.Get("/session/{id}", h.GetSession)
		r.Get("/next", h.NextMovie)
		r.Post("/feedback", h.SubmitFeedback)
		r.Get("/result", h.Result)
	})

	// ================================================================================
	// Catalog passthrough
	// ================================================================================
	r.Route("/api/v1/movies", func(r chi.Router) {
		r.Use(mw.RateLimit())
		r.Use(SecurityHeaders())
		r.Use(PrometheusMetrics())

		r.Get("/search", h.SearchMovies)
	})

	// ================================================================================
	// Health probes
	// ================================================================================
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(mw.RateLimitHealth())
		r.Use(SecurityHeaders())

		r.Get("/live", h.HealthLive)
		r.Get("/ready", h.HealthReady)
	})

	// ================================================================================
	// Prometheus scrape endpoint
	// ================================================================================
	r.Handle("/metrics", promhttp.Handler())

	return r
}
