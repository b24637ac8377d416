// QuickMatch - Session-Based Movie Preference Matching Engine
// Copyright 2026 FilMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatch/quickmatch

package quickmatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/filmatch/quickmatch/internal/models"
)

// Catalog is the movie search index consumed by the engine. Implementations
// live in internal/catalog; the interface is defined here so the engine can
// be tested with in-memory fakes.
type Catalog interface {
	// Search returns one ranked page of movies matching the filters.
	Search(ctx context.Context, query models.SearchQuery) (models.SearchResult, error)

	// GetByID returns one summary or ErrMovieNotFound.
	GetByID(ctx context.Context, id int64) (*models.MovieSummary, error)

	// GetByIDs resolves summaries in bulk; missing IDs are simply absent
	// from the result, not an error.
	GetByIDs(ctx context.Context, ids []int64) ([]models.MovieSummary, error)
}

// Generator produces one natural-language justification per movie, in input
// order, in a single batched call. Any failure is absorbed by the caller.
type Generator interface {
	Generate(ctx context.Context, summary ProfileSummary, movies []models.MovieSummary) ([]string, error)
}

// Config holds the engine-level tuning.
type Config struct {
	// DefaultTargetCount is used when a session is created without a
	// positive target.
	DefaultTargetCount int `koanf:"default_target_count"`

	// PoolSize is the wide candidate pool size fetched per next-movie request.
	PoolSize int `koanf:"pool_size"`

	// PoolMinRating filters the wide pool by quality score. Zero disables
	// the filter.
	PoolMinRating float64 `koanf:"pool_min_rating"`

	Selector SelectorConfig `koanf:"selector"`
	Builder  BuilderConfig  `koanf:"builder"`
}

// DefaultConfig returns the production engine tuning.
func DefaultConfig() Config {
	return Config{
		DefaultTargetCount: 25,
		PoolSize:           1500,
		PoolMinRating:      6.0,
		Selector:           DefaultSelectorConfig(),
		Builder:            DefaultBuilderConfig(),
	}
}

// Validate checks the cross-field engine configuration.
func (c *Config) Validate() error {
	if c.DefaultTargetCount <= 0 {
		return fmt.Errorf("default_target_count must be positive, got %d", c.DefaultTargetCount)
	}
	if c.PoolSize <= 0 {
		return fmt.Errorf("pool_size must be positive, got %d", c.PoolSize)
	}
	if c.PoolMinRating < 0 || c.PoolMinRating > 10 {
		return fmt.Errorf("pool_min_rating must be within [0, 10], got %g", c.PoolMinRating)
	}
	if c.Builder.RatingFloorMin > c.Builder.RatingFloorMax && c.Builder.RatingFloorMax != 0 {
		return fmt.Errorf("rating floor clamp inverted: min %g > max %g",
			c.Builder.RatingFloorMin, c.Builder.RatingFloorMax)
	}
	return nil
}

// Engine orchestrates the matching pipeline over the injected store,
// catalog and generator. It is the boundary the HTTP layer consumes.
type Engine struct {
	cfg      Config
	store    Store
	catalog  Catalog
	selector *Selector
	builder  *Builder
	logger   zerolog.Logger
}

// NewEngine assembles the engine from its collaborators. generator may be
// nil; recommendations then carry the default justification.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewEngine(cfg Config, store Store, catalog Catalog, generator Generator, logger zerolog.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("engine config: %w", err)
	}
	if store == nil {
		return nil, errors.New("engine requires a session store")
	}
	if catalog == nil {
		return nil, errors.New("engine requires a movie catalog")
	}

	return &Engine{
		cfg:      cfg,
		store:    store,
		catalog:  catalog,
		selector: NewSelector(cfg.Selector, logger),
		builder:  NewBuilder(cfg.Builder, catalog, generator, logger),
		logger:   logger.With().Str("component", "engine").Logger(),
	}, nil
}

// CreateSession starts a new matching session for the user, forcibly
// completing any prior IN_PROGRESS session. A non-positive targetCount
// falls back to the configured default.
func (e *Engine) CreateSession(ctx context.Context, userID string, targetCount int) (*MatchingSession, error) {
	if userID == "" {
		return nil, errors.New("user id required")
	}
	if targetCount <= 0 {
		targetCount = e.cfg.DefaultTargetCount
	}
	session, err := e.store.CreateSession(ctx, userID, targetCount)
	if err != nil {
		return nil, err
	}
	e.logger.Info().
		Str("session_id", session.ID).
		Int("target_count", session.TargetCount).
		Msg("session created")
	return session, nil
}

// GetSession returns the session or ErrSessionNotFound.
func (e *Engine) GetSession(ctx context.Context, sessionID string) (*MatchingSession, error) {
	return e.store.GetSession(ctx, sessionID)
}

// NextMovie picks the next candidate to present for the session: fetch the
// wide pool from the catalog, drop already-rated titles, and run the
// diversity selector against the session's viewing history.
func (e *Engine) NextMovie(ctx context.Context, sessionID string) (*NextCandidate, error) {
	session, err := e.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	events, err := e.store.ListFeedback(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	rated := make(map[int64]struct{}, len(events))
	ratedIDs := make([]int64, 0, len(events))
	for i := range events {
		if _, ok := rated[events[i].MovieID]; ok {
			continue
		}
		rated[events[i].MovieID] = struct{}{}
		ratedIDs = append(ratedIDs, events[i].MovieID)
	}

	pool, err := e.widePool(ctx, rated)
	if err != nil {
		return nil, err
	}

	// History items with no resolvable summary are silently dropped.
	var history []models.MovieSummary
	if len(ratedIDs) > 0 {
		history, err = e.catalog.GetByIDs(ctx, ratedIDs)
		if err != nil {
			return nil, fmt.Errorf("resolving session history: %w", err)
		}
	}

	movie, err := e.selector.Pick(pool, history)
	if err != nil {
		return nil, err
	}

	return &NextCandidate{
		Movie: movie,
		Progress: Progress{
			RatedCount:  session.FeedbackCount,
			TargetCount: session.TargetCount,
		},
	}, nil
}

// SubmitFeedback records one swipe decision and returns the updated session.
func (e *Engine) SubmitFeedback(ctx context.Context, sessionID, userID string, movieID int64, action FeedbackAction) (*MatchingSession, error) {
	if !action.Valid() {
		return nil, fmt.Errorf("invalid feedback action %q", action)
	}
	session, err := e.store.RecordFeedback(ctx, sessionID, userID, movieID, action)
	if err != nil {
		return nil, err
	}
	if session.Status == StatusCompleted {
		e.logger.Info().
			Str("session_id", session.ID).
			Int("rated", session.FeedbackCount).
			Msg("session reached feedback target")
	}
	return session, nil
}

// Result builds the taste profile and recommendation list for the session.
// Permitted in either state, but fails with ErrNoFeedback before the first
// feedback event. The profile is derived fresh on every call.
func (e *Engine) Result(ctx context.Context, sessionID string) (*SessionResult, error) {
	session, err := e.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	events, err := e.store.ListFeedback(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, ErrNoFeedback
	}

	likedIDs := make([]int64, 0, len(events))
	seen := make(map[int64]struct{}, len(events))
	dislikedCount := 0
	for i := range events {
		seen[events[i].MovieID] = struct{}{}
		switch events[i].Action {
		case ActionLike:
			likedIDs = append(likedIDs, events[i].MovieID)
		case ActionDislike:
			dislikedCount++
		}
	}

	var liked []models.MovieSummary
	if len(likedIDs) > 0 {
		liked, err = e.catalog.GetByIDs(ctx, likedIDs)
		if err != nil {
			return nil, fmt.Errorf("resolving liked movies: %w", err)
		}
	}

	profile := BuildProfile(liked)
	summary := ProfileSummary{
		LikedCount:    len(likedIDs),
		DislikedCount: dislikedCount,
		Profile:       profile,
	}

	recommendations, err := e.builder.Build(ctx, summary, seen)
	if err != nil {
		return nil, err
	}

	return &SessionResult{
		SessionID: session.ID,
		Summary: ResultSummary{
			LikedCount:         summary.LikedCount,
			DislikedCount:      summary.DislikedCount,
			TopGenres:          profile.TopGenres,
			PreferredYearRange: profile.Years,
			AvgScore:           profile.AvgScore,
		},
		Recommendations: recommendations,
	}, nil
}

// widePool fetches the wide candidate pool and drops already-rated movies.
func (e *Engine) widePool(ctx context.Context, rated map[int64]struct{}) ([]models.MovieSummary, error) {
	query := models.SearchQuery{
		Page:     1,
		PageSize: e.cfg.PoolSize,
	}
	if e.cfg.PoolMinRating > 0 {
		minRating := e.cfg.PoolMinRating
		query.MinRating = &minRating
	}

	result, err := e.catalog.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("fetching candidate pool: %w", err)
	}

	pool := make([]models.MovieSummary, 0, len(result.Movies))
	for i := range result.Movies {
		if _, ok := rated[result.Movies[i].ID]; ok {
			continue
		}
		pool = append(pool, result.Movies[i])
	}
	return pool, nil
}
