// QuickMatch - Session-Based Movie Preference Matching Engine
// Copyright 2026 FilMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatch/quickmatch

package api

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/filmatch/quickmatch/internal/models"
	"github.com/filmatch/quickmatch/internal/quickmatch"
)

// Engine is the matching pipeline surface the handlers consume. Satisfied by
// *quickmatch.Engine; declared here so handler tests can substitute fakes.
type Engine interface {
	CreateSession(ctx context.Context, userID string, targetCount int) (*quickmatch.MatchingSession, error)
	GetSession(ctx context.Context, sessionID string) (*quickmatch.MatchingSession, error)
	NextMovie(ctx context.Context, sessionID string) (*quickmatch.NextCandidate, error)
	SubmitFeedback(ctx context.Context, sessionID, userID string, movieID int64, action quickmatch.FeedbackAction) (*quickmatch.MatchingSession, error)
	Result(ctx context.Context, sessionID string) (*quickmatch.SessionResult, error)
}

// Catalog is the slice of the movie index used directly by the HTTP layer:
// the search passthrough endpoint and the readiness probe. Satisfied by
// *catalog.Client and *catalog.BreakerClient.
type Catalog interface {
	Search(ctx context.Context, query models.SearchQuery) (models.SearchResult, error)
	Ping(ctx context.Context) error
}

// Handler holds the dependencies shared by all HTTP handlers.
type Handler struct {
	engine    Engine
	catalog   Catalog
	startTime time.Time
	logger    zerolog.Logger
}

// NewHandler creates the handler set over the engine and catalog.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewHandler(engine Engine, catalog Catalog, logger zerolog.Logger) *Handler {
	return &Handler{
		engine:    engine,
		catalog:   catalog,
		startTime: time.Now(),
		logger:    logger.With().Str("component", "api").Logger(),
	}
}
