// QuickMatch - Session-Based Movie Preference Matching Engine
// Copyright 2026 FilMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatch/quickmatch

package quickmatch

import (
	"sort"
	"strconv"

	"github.com/filmatch/quickmatch/internal/models"
)

// maxTopGenres caps the ranked genre list in a preference profile.
const maxTopGenres = 3

// genreNames is the fixed genre-ID display table (TMDB IDs).
// Unknown IDs map to "other".
var genreNames = map[int64]string{
	28:    "action",
	12:    "adventure",
	16:    "animation",
	35:    "comedy",
	80:    "crime",
	99:    "documentary",
	18:    "drama",
	10751: "family",
	14:    "fantasy",
	36:    "history",
	27:    "horror",
	10402: "music",
	9648:  "mystery",
	10749: "romance",
	878:   "science fiction",
	10770: "tv movie",
	53:    "thriller",
	10752: "war",
	37:    "western",
}

// GenreName maps a genre ID to its display name, defaulting to "other".
func GenreName(id int64) string {
	if name, ok := genreNames[id]; ok {
		return name
	}
	return "other"
}

// BuildProfile reduces a session's liked movies into a compact taste
// profile. Movies with no resolvable summary must be dropped by the caller;
// malformed fields are dropped per-field and never fail the aggregation.
// An empty input yields an empty profile.
func BuildProfile(liked []models.MovieSummary) PreferenceProfile {
	var profile PreferenceProfile
	if len(liked) == 0 {
		return profile
	}

	profile.TopGenres = topGenres(liked)
	profile.Years = yearSpan(liked)
	profile.AvgScore = averageScore(liked)
	return profile
}

// topGenres ranks genre occurrence counts across the liked movies' genre
// tags and keeps the top 3. Weight is the genre's share of all occurrences.
// Ties are broken by genre ID ascending so the ranking is deterministic.
func topGenres(liked []models.MovieSummary) []GenreWeight {
	counts := make(map[int64]int)
	total := 0
	for i := range liked {
		for _, g := range liked[i].GenreIDs {
			counts[g]++
			total++
		}
	}
	if total == 0 {
		return nil
	}

	ranked := make([]GenreWeight, 0, len(counts))
	for id, count := range counts {
		ranked = append(ranked, GenreWeight{
			ID:     id,
			Name:   GenreName(id),
			Count:  count,
			Weight: float64(count) / float64(total),
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].ID < ranked[j].ID
	})

	if len(ranked) > maxTopGenres {
		ranked = ranked[:maxTopGenres]
	}
	return ranked
}

// yearSpan computes the (min, max) release-year range across liked movies
// with a parseable 4-digit year prefix. Returns nil when none parse.
func yearSpan(liked []models.MovieSummary) *YearSpan {
	var span *YearSpan
	for i := range liked {
		year, ok := parseYear(liked[i].ReleaseDate)
		if !ok {
			continue
		}
		if span == nil {
			span = &YearSpan{Min: year, Max: year}
			continue
		}
		if year < span.Min {
			span.Min = year
		}
		if year > span.Max {
			span.Max = year
		}
	}
	return span
}

// averageScore computes the mean quality score over liked movies that carry
// one. Returns nil when none do.
func averageScore(liked []models.MovieSummary) *float64 {
	sum := 0.0
	n := 0
	for i := range liked {
		if v, ok := liked[i].Vote(); ok {
			sum += v
			n++
		}
	}
	if n == 0 {
		return nil
	}
	avg := sum / float64(n)
	return &avg
}

// parseYear extracts a 4-digit year prefix from an ISO-style release date.
// Malformed dates are reported as absent, never as an error.
func parseYear(releaseDate string) (int, bool) {
	if len(releaseDate) < 4 {
		return 0, false
	}
	year, err := strconv.Atoi(releaseDate[:4])
	if err != nil || year <= 0 {
		return 0, false
	}
	return year, true
}
