// QuickMatch - Session-Based Movie Preference Matching Engine
// Copyright 2026 FilMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatch/quickmatch

package quickmatch

import "context"

// Store owns the lifecycle of matching sessions and their feedback events.
//
// Implementations must serialize operations per session ID: the idempotency
// check-and-increment in RecordFeedback is atomic, and the target-count
// transition cannot race. Operations on different sessions must not block
// each other. Sessions are never physically deleted by this subsystem.
type Store interface {
	// CreateSession creates a new IN_PROGRESS session for the user. If the
	// user already has an IN_PROGRESS session it is forcibly completed
	// first, keeping its feedback history.
	CreateSession(ctx context.Context, userID string, targetCount int) (*MatchingSession, error)

	// GetSession returns the session or ErrSessionNotFound.
	GetSession(ctx context.Context, sessionID string) (*MatchingSession, error)

	// RecordFeedback appends one feedback event. Returns ErrSessionNotFound
	// for unknown sessions and ErrSessionCompleted when the session is not
	// IN_PROGRESS. A duplicate (sessionID, movieID) pair is an idempotent
	// no-op: no event is created and the count does not change. When the
	// count reaches the target the session transitions to COMPLETED.
	// Returns the possibly updated session.
	RecordFeedback(ctx context.Context, sessionID, userID string, movieID int64, action FeedbackAction) (*MatchingSession, error)

	// ListFeedback returns the session's feedback events in insertion
	// order, or ErrSessionNotFound.
	ListFeedback(ctx context.Context, sessionID string) ([]FeedbackEvent, error)
}
