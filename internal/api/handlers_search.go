// QuickMatch - Session-Based Movie Preference Matching Engine
// Copyright 2026 FilMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatch/quickmatch

package api

import (
	"errors"
	"net/http"

	"github.com/filmatch/quickmatch/internal/catalog"
	"github.com/filmatch/quickmatch/internal/models"
)

const (
	searchDefaultPageSize = 20
	searchMaxPageSize     = 100
)

// SearchMovies handles GET /api/v1/movies/search, a thin passthrough to the
// movie catalog so the frontend can browse titles outside a session.
//
// Query parameters: query, nowPlaying, genres (comma-separated IDs),
// minRating, releaseFrom, releaseTo, page, pageSize.
func (h *Handler) SearchMovies(w http.ResponseWriter, r *http.Request) {
	page := getIntParam(r, "page", 1)
	if page < 1 {
		page = 1
	}
	pageSize := getIntParam(r, "pageSize", searchDefaultPageSize)
	if pageSize < 1 {
		pageSize = searchDefaultPageSize
	}
	if pageSize > searchMaxPageSize {
		pageSize = searchMaxPageSize
	}

	query := models.SearchQuery{
		Keyword:     r.URL.Query().Get("query"),
		NowPlaying:  r.URL.Query().Get("nowPlaying") == "true",
		GenreIDs:    parseCommaSeparatedInt64s(r.URL.Query().Get("genres")),
		MinRating:   getFloatParam(r, "minRating"),
		ReleaseFrom: r.URL.Query().Get("releaseFrom"),
		ReleaseTo:   r.URL.Query().Get("releaseTo"),
		Page:        page,
		PageSize:    pageSize,
	}

	result, err := h.catalog.Search(r.Context(), query)
	if err != nil {
		var upstream *catalog.UpstreamError
		if errors.As(err, &upstream) {
			respondError(w, http.StatusBadGateway, "UPSTREAM_ERROR", "Movie catalog is unavailable", err)
			return
		}
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Search failed", err)
		return
	}

	respondSuccess(w, http.StatusOK, result)
}
