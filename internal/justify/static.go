// QuickMatch - Session-Based Movie Preference Matching Engine
// Copyright 2026 FilMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatch/quickmatch

package justify

import (
	"context"
	"fmt"

	"github.com/filmatch/quickmatch/internal/models"
	"github.com/filmatch/quickmatch/internal/quickmatch"
)

// Static is the offline justification generator: phrase templates filled
// from the taste profile. Template choice mixes the seed with the movie ID,
// so identical inputs always produce identical output.
type Static struct {
	seed int64
}

// NewStatic creates a Static generator with the given template seed.
func NewStatic(seed int64) *Static {
	return &Static{seed: seed}
}

// genreTemplates are used when the profile carries at least one top genre.
var genreTemplates = []string{
	"Matches your taste for %s films.",
	"A strong pick if you enjoy %s.",
	"Right in your %s sweet spot.",
	"Fans of %s tend to love this one.",
}

// plainTemplates are used when the profile has no genre signal.
var plainTemplates = []string{
	"A highly rated pick based on your session.",
	"A crowd favorite that fits your recent choices.",
	"Well reviewed and close to what you liked.",
}

// Generate produces one templated justification per movie, in input order.
// It never fails.
func (s *Static) Generate(_ context.Context, summary quickmatch.ProfileSummary, movies []models.MovieSummary) ([]string, error) {
	if len(movies) == 0 {
		return nil, nil
	}

	genre := ""
	if len(summary.Profile.TopGenres) > 0 {
		genre = summary.Profile.TopGenres[0].Name
	}

	out := make([]string, len(movies))
	for i := range movies {
		mix := uint64(s.seed)*31 + uint64(movies[i].ID)
		if genre != "" {
			out[i] = fmt.Sprintf(genreTemplates[mix%uint64(len(genreTemplates))], genre)
		} else {
			out[i] = plainTemplates[mix%uint64(len(plainTemplates))]
		}
	}
	return out, nil
}
