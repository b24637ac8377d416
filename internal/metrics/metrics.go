// QuickMatch - Session-Based Movie Preference Matching Engine
// Copyright 2026 FilMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatch/quickmatch

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus Metrics Integration for Production Observability
// This package provides instrumentation for:
// - API endpoint latency and throughput
// - Session lifecycle and feedback volume
// - Candidate selection pass depth
// - Catalog client calls and circuit breaker state
// - Justification generator degradation
// - Session store operations

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Session Lifecycle Metrics
	SessionsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matching_sessions_created_total",
			Help: "Total number of matching sessions created",
		},
	)

	SessionsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matching_sessions_completed_total",
			Help: "Total number of matching sessions completed",
		},
		[]string{"reason"}, // "target_reached", "forced"
	)

	FeedbackRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedback_events_total",
			Help: "Total number of feedback events recorded",
		},
		[]string{"action"}, // "LIKE", "DISLIKE"
	)

	FeedbackDuplicates = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feedback_duplicates_total",
			Help: "Total number of duplicate feedback submissions ignored",
		},
	)

	// Candidate Selection Metrics
	SelectorPicks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "selector_picks_total",
			Help: "Total number of next-candidate picks by relaxation pass",
		},
		[]string{"pass"}, // "strict", "series", "any"
	)

	SelectorPoolExhausted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "selector_pool_exhausted_total",
			Help: "Total number of picks that failed with an empty candidate pool",
		},
	)

	SelectorPoolSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "selector_pool_size",
			Help:    "Candidate pool size at selection time",
			Buckets: []float64{1, 10, 50, 100, 250, 500, 1000, 2500},
		},
	)

	// Recommendation Metrics
	RecommendationsBuilt = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommendations_built",
			Help:    "Number of recommendation entries produced per result request",
			Buckets: []float64{0, 1, 2, 3, 5, 8, 10},
		},
	)

	RecommendationBackfills = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommendation_backfills_total",
			Help: "Total number of result requests that needed the backfill query",
		},
	)

	GeneratorRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "generator_requests_total",
			Help: "Total number of justification generator calls",
		},
		[]string{"result"}, // "success", "failure"
	)

	GeneratorFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "generator_fallbacks_total",
			Help: "Total number of recommendation entries that received the default justification",
		},
	)

	// Catalog Client Metrics
	CatalogRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_requests_total",
			Help: "Total number of movie catalog requests",
		},
		[]string{"operation", "result"}, // operation: "search", "get_by_id", "get_by_ids"
	)

	CatalogRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_request_duration_seconds",
			Help:    "Duration of movie catalog requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Session Store Metrics
	StoreOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_store_operations_total",
			Help: "Total number of session store operations",
		},
		[]string{"operation", "result"},
	)

	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "session_store_operation_duration_seconds",
			Help:    "Duration of session store operations in seconds",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		},
		[]string{"operation"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordCatalogRequest records a catalog client call with its outcome.
func RecordCatalogRequest(operation string, duration time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	CatalogRequestsTotal.WithLabelValues(operation, result).Inc()
	CatalogRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordStoreOperation records a session store operation with its outcome.
func RecordStoreOperation(operation string, duration time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	StoreOperations.WithLabelValues(operation, result).Inc()
	StoreOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordGeneratorCall records a justification generator call outcome.
func RecordGeneratorCall(err error) {
	if err != nil {
		GeneratorRequests.WithLabelValues("failure").Inc()
		return
	}
	GeneratorRequests.WithLabelValues("success").Inc()
}
