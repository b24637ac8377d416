// QuickMatch - Session-Based Movie Preference Matching Engine
// Copyright 2026 FilMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatch/quickmatch

package models

// MovieSummary is the compact movie representation shared by the matching
// engine, the catalog client, and the HTTP layer.
//
// VoteAverage is a pointer because the catalog may not carry a quality score
// for every title; aggregation skips absent values instead of treating them
// as zero.
type MovieSummary struct {
	ID          int64    `json:"movieId"`
	Title       string   `json:"title"`
	Overview    string   `json:"overview,omitempty"`
	PosterURL   string   `json:"posterUrl,omitempty"`
	GenreIDs    []int64  `json:"genreIds,omitempty"`
	ReleaseDate string   `json:"releaseDate,omitempty"`
	VoteAverage *float64 `json:"voteAverage,omitempty"`
	Popularity  float64  `json:"popularity,omitempty"`
	NowPlaying  bool     `json:"nowPlaying,omitempty"`
}

// Vote returns the quality score and whether it is present.
func (m *MovieSummary) Vote() (float64, bool) {
	if m.VoteAverage == nil {
		return 0, false
	}
	return *m.VoteAverage, true
}

// HasGenre reports whether the movie carries the given genre tag.
func (m *MovieSummary) HasGenre(genreID int64) bool {
	for _, g := range m.GenreIDs {
		if g == genreID {
			return true
		}
	}
	return false
}
