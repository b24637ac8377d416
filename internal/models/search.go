// QuickMatch - Session-Based Movie Preference Matching Engine
// Copyright 2026 FilMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatch/quickmatch

package models

// SearchQuery carries the catalog filter criteria. Zero values mean
// "unfiltered" for every field; the catalog applies its own relevance
// ranking to the results.
type SearchQuery struct {
	Keyword     string   `json:"keyword,omitempty"`
	NowPlaying  bool     `json:"nowPlaying,omitempty"`
	GenreIDs    []int64  `json:"genreIds,omitempty"`
	MinRating   *float64 `json:"minRating,omitempty"`
	ReleaseFrom string   `json:"releaseFrom,omitempty"`
	ReleaseTo   string   `json:"releaseTo,omitempty"`
	Page        int      `json:"page"`
	PageSize    int      `json:"pageSize"`
}

// SearchResult is one ranked page of catalog results.
type SearchResult struct {
	TotalCount int64          `json:"totalCount"`
	Movies     []MovieSummary `json:"movies"`
}
