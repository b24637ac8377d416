// QuickMatch - Session-Based Movie Preference Matching Engine
// Copyright 2026 FilMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatch/quickmatch

package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/filmatch/quickmatch/internal/metrics"
	"github.com/filmatch/quickmatch/internal/models"
)

// breakerName labels the catalog breaker in logs and metrics.
const breakerName = "movie-catalog"

// BreakerClient wraps Client with a circuit breaker so a degraded search
// index cannot stall every matching session.
//
// The breaker uses real time for its interval and timeout calculations.
// That timing only governs recovery, not data integrity; unit tests should
// exercise the wrapped client directly.
type BreakerClient struct {
	client *Client
	cb     *gobreaker.CircuitBreaker[interface{}]
	logger zerolog.Logger
	name   string
}

// NewBreakerClient wraps the client with the production breaker settings:
// 3 concurrent half-open probes, 1 minute measurement window, 2 minute open
// period, tripping at a 60% failure rate over at least 10 requests.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewBreakerClient(client *Client, logger zerolog.Logger) *BreakerClient {
	logger = logger.With().Str("component", "catalog_breaker").Logger()

	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0) // 0 = closed

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6
			if shouldTrip {
				logger.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("opening catalog circuit")
			}
			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)
			logger.Info().Str("from", fromStr).Str("to", toStr).Msg("catalog circuit state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})

	return &BreakerClient{
		client: client,
		cb:     cb,
		logger: logger,
		name:   breakerName,
	}
}

// execute runs one catalog call under the breaker. Rejections while open
// surface as UpstreamError so the API layer treats them as a 502.
func (b *BreakerClient) execute(operation string, fn func() (interface{}, error)) (interface{}, error) {
	result, err := b.cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
			b.logger.Warn().Err(err).Str("operation", operation).Msg("catalog request rejected by open circuit")
			return nil, &UpstreamError{Operation: operation, Err: err}
		}
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	return result, nil
}

// castResult type-asserts the breaker's untyped result.
func castResult[T any](result interface{}, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// Search runs a catalog search with circuit breaker protection.
func (b *BreakerClient) Search(ctx context.Context, query models.SearchQuery) (models.SearchResult, error) {
	return castResult[models.SearchResult](b.execute("search", func() (interface{}, error) {
		return b.client.Search(ctx, query)
	}))
}

// GetByID resolves one movie with circuit breaker protection.
func (b *BreakerClient) GetByID(ctx context.Context, id int64) (*models.MovieSummary, error) {
	return castResult[*models.MovieSummary](b.execute("get_by_id", func() (interface{}, error) {
		return b.client.GetByID(ctx, id)
	}))
}

// GetByIDs resolves movies in bulk with circuit breaker protection.
func (b *BreakerClient) GetByIDs(ctx context.Context, ids []int64) ([]models.MovieSummary, error) {
	result, err := castResult[[]models.MovieSummary](b.execute("get_by_ids", func() (interface{}, error) {
		return b.client.GetByIDs(ctx, ids)
	}))
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Ping verifies search index connectivity with circuit breaker protection.
func (b *BreakerClient) Ping(ctx context.Context) error {
	_, err := b.execute("ping", func() (interface{}, error) {
		return nil, b.client.Ping(ctx)
	})
	return err
}
