// QuickMatch - Session-Based Movie Preference Matching Engine
// Copyright 2026 FilMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatch/quickmatch

package quickmatch

import "errors"

var (
	// ErrSessionNotFound is returned when a session ID does not resolve.
	ErrSessionNotFound = errors.New("session not found")

	// ErrMovieNotFound is returned when a movie ID does not resolve in the catalog.
	ErrMovieNotFound = errors.New("movie not found")

	// ErrSessionCompleted is returned when feedback is submitted against a
	// session that is no longer IN_PROGRESS.
	ErrSessionCompleted = errors.New("session already completed")

	// ErrNoFeedback is returned when results are requested for a session
	// with zero feedback events.
	ErrNoFeedback = errors.New("no feedback recorded for session")

	// ErrNoCandidates is returned when the candidate pool is empty or
	// exhausted. Distinct from ErrSessionNotFound: the session exists,
	// there is simply nothing left to show.
	ErrNoCandidates = errors.New("no candidates available")
)
