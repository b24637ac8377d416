// QuickMatch - Session-Based Movie Preference Matching Engine
// Copyright 2026 FilMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatch/quickmatch

package quickmatch

import (
	"time"

	"github.com/filmatch/quickmatch/internal/models"
)

// SessionStatus is the lifecycle state of a matching session.
type SessionStatus string

const (
	// StatusInProgress marks a session still collecting feedback.
	StatusInProgress SessionStatus = "IN_PROGRESS"

	// StatusCompleted is terminal. Reached when the feedback count hits the
	// target, or forced when the user starts a new session.
	StatusCompleted SessionStatus = "COMPLETED"
)

// FeedbackAction is the swipe decision for a single movie.
type FeedbackAction string

const (
	ActionLike    FeedbackAction = "LIKE"
	ActionDislike FeedbackAction = "DISLIKE"
)

// Valid reports whether the action is one of the accepted values.
func (a FeedbackAction) Valid() bool {
	return a == ActionLike || a == ActionDislike
}

// MatchingSession is one bounded sequence of swipe-style feedback for a
// single user. At most one session per user is IN_PROGRESS at a time.
type MatchingSession struct {
	ID            string        `json:"sessionId"`
	UserID        string        `json:"userId"`
	TargetCount   int           `json:"targetCount"`
	FeedbackCount int           `json:"ratedCount"`
	Status        SessionStatus `json:"status"`
	CreatedAt     time.Time     `json:"createdAt"`
	CompletedAt   *time.Time    `json:"completedAt,omitempty"`
}

// InProgress reports whether the session still accepts feedback.
func (s *MatchingSession) InProgress() bool {
	return s.Status == StatusInProgress
}

// FeedbackEvent records one swipe decision. Unique per (SessionID, MovieID);
// immutable once created.
type FeedbackEvent struct {
	SessionID string         `json:"sessionId"`
	UserID    string         `json:"userId"`
	MovieID   int64          `json:"movieId"`
	Action    FeedbackAction `json:"action"`
	CreatedAt time.Time      `json:"createdAt"`
}

// GenreWeight is one ranked genre preference. Weight is the genre's share
// of all genre occurrences across the liked movies.
type GenreWeight struct {
	ID     int64   `json:"genreId"`
	Name   string  `json:"name"`
	Count  int     `json:"-"`
	Weight float64 `json:"ratio"`
}

// YearSpan is the inclusive release-year range of the liked movies.
type YearSpan struct {
	Min int `json:"from"`
	Max int `json:"to"`
}

// PreferenceProfile is the compact taste profile derived from a session's
// LIKE feedback. Derived fresh on every result request, never persisted.
type PreferenceProfile struct {
	TopGenres []GenreWeight `json:"topGenres"`
	Years     *YearSpan     `json:"preferredYearRange,omitempty"`
	AvgScore  *float64      `json:"avgScore,omitempty"`
}

// Empty reports whether the profile carries no signal at all.
func (p *PreferenceProfile) Empty() bool {
	return len(p.TopGenres) == 0 && p.Years == nil && p.AvgScore == nil
}

// TopGenreID returns the highest-weighted genre ID, or 0 if none.
func (p *PreferenceProfile) TopGenreID() (int64, bool) {
	if len(p.TopGenres) == 0 {
		return 0, false
	}
	return p.TopGenres[0].ID, true
}

// ProfileSummary is the phrasing context handed to the justification
// generator alongside the selected movies.
type ProfileSummary struct {
	LikedCount    int               `json:"likedCount"`
	DislikedCount int               `json:"dislikedCount"`
	Profile       PreferenceProfile `json:"profile"`
}

// RecommendationEntry is one recommended movie with its justification.
type RecommendationEntry struct {
	MovieID       int64  `json:"movieId"`
	Title         string `json:"title"`
	PosterURL     string `json:"posterUrl,omitempty"`
	Justification string `json:"reason"`
}

// Progress reports how far a session is through its feedback target.
type Progress struct {
	RatedCount  int `json:"ratedCount"`
	TargetCount int `json:"targetCount"`
}

// NextCandidate is the engine's answer to a next-movie request.
type NextCandidate struct {
	Movie    *models.MovieSummary `json:"movie"`
	Progress Progress             `json:"progress"`
}

// ResultSummary is the aggregate view returned with the recommendations.
type ResultSummary struct {
	LikedCount         int           `json:"likedCount"`
	DislikedCount      int           `json:"dislikedCount"`
	TopGenres          []GenreWeight `json:"topGenres"`
	PreferredYearRange *YearSpan     `json:"preferredYearRange,omitempty"`
	AvgScore           *float64      `json:"avgScore,omitempty"`
}

// SessionResult is the full result payload for a session.
type SessionResult struct {
	SessionID       string                `json:"sessionId"`
	Summary         ResultSummary         `json:"summary"`
	Recommendations []RecommendationEntry `json:"recommendations"`
}
