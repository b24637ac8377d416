// QuickMatch - Session-Based Movie Preference Matching Engine
// Copyright 2026 FilMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatch/quickmatch

package quickmatch

import (
	"math/rand"
	"sync"

	"github.com/rs/zerolog"

	"github.com/filmatch/quickmatch/internal/metrics"
	"github.com/filmatch/quickmatch/internal/models"
)

// SelectorConfig holds the anti-repetition tuning for candidate selection.
// The thresholds are product-tuned, not derived.
type SelectorConfig struct {
	// GenreOverlapLimit is the genre intersection size at which two movies
	// count as "too similar".
	GenreOverlapLimit int `koanf:"genre_overlap_limit"`

	// GenreSaturationLimit is the number of occurrences of a genre across
	// the session history at which that genre is saturated.
	GenreSaturationLimit int `koanf:"genre_saturation_limit"`

	// MinSeriesPrefixLen is the minimum length of the shorter series key
	// for a prefix relationship to count as same-series.
	MinSeriesPrefixLen int `koanf:"min_series_prefix_len"`

	// Seed initializes the random source used for tie-breaking.
	Seed int64 `koanf:"seed"`
}

// DefaultSelectorConfig returns the production selection thresholds.
func DefaultSelectorConfig() SelectorConfig {
	return SelectorConfig{
		GenreOverlapLimit:    2,
		GenreSaturationLimit: 5,
		MinSeriesPrefixLen:   4,
		Seed:                 42,
	}
}

func (c *SelectorConfig) normalize() {
	if c.GenreOverlapLimit <= 0 {
		c.GenreOverlapLimit = 2
	}
	if c.GenreSaturationLimit <= 0 {
		c.GenreSaturationLimit = 5
	}
	if c.MinSeriesPrefixLen <= 0 {
		c.MinSeriesPrefixLen = 4
	}
}

// Selector picks one "next" movie from a wide candidate pool, favoring
// diversity against the session's viewing history. Filtering relaxes in
// three passes until a candidate survives.
type Selector struct {
	cfg    SelectorConfig
	logger zerolog.Logger

	// rng is the injectable random source for tie-breaking. Guarded by
	// rngMu because *rand.Rand is not safe for concurrent use.
	rng   *rand.Rand
	rngMu sync.Mutex
}

// NewSelector creates a Selector with the given thresholds and seed.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewSelector(cfg SelectorConfig, logger zerolog.Logger) *Selector {
	cfg.normalize()
	return &Selector{
		cfg:    cfg,
		logger: logger.With().Str("component", "selector").Logger(),
		rng:    rand.New(rand.NewSource(cfg.Seed)), //nolint:gosec // tie-breaking only, not security-sensitive
	}
}

// Pick selects exactly one movie from pool, given the full summaries of the
// movies already surfaced and rated in the session.
//
// Passes, first non-empty result wins:
//  1. strict: exclude same-series, too-similar and genre-saturated candidates
//  2. series: exclude same-series candidates only
//  3. any: the full pool
//
// Returns ErrNoCandidates when the pool itself is empty.
func (s *Selector) Pick(pool, history []models.MovieSummary) (*models.MovieSummary, error) {
	if len(pool) == 0 {
		metrics.SelectorPoolExhausted.Inc()
		return nil, ErrNoCandidates
	}
	metrics.SelectorPoolSize.Observe(float64(len(pool)))

	historyKeys := make([]string, 0, len(history))
	for i := range history {
		if key := BuildSeriesKey(history[i].Title); key != "" {
			historyKeys = append(historyKeys, key)
		}
	}
	genreCounts := countHistoryGenres(history)

	strict := make([]int, 0, len(pool))
	series := make([]int, 0, len(pool))
	for i := range pool {
		c := &pool[i]
		if s.sameSeriesAsHistory(c, historyKeys) {
			continue
		}
		series = append(series, i)
		if s.tooSimilarToHistory(c, history) || s.genreSaturated(c, genreCounts) {
			continue
		}
		strict = append(strict, i)
	}

	switch {
	case len(strict) > 0:
		metrics.SelectorPicks.WithLabelValues("strict").Inc()
		return &pool[s.randomIndex(strict)], nil
	case len(series) > 0:
		metrics.SelectorPicks.WithLabelValues("series").Inc()
		s.logger.Debug().Int("pool", len(pool)).Msg("strict pass empty, relaxed to series-only filter")
		return &pool[s.randomIndex(series)], nil
	default:
		metrics.SelectorPicks.WithLabelValues("any").Inc()
		s.logger.Debug().Int("pool", len(pool)).Msg("all filters exhausted, picking from full pool")
		all := make([]int, len(pool))
		for i := range pool {
			all[i] = i
		}
		return &pool[s.randomIndex(all)], nil
	}
}

// sameSeriesAsHistory reports whether the candidate shares a series key
// with any history item.
func (s *Selector) sameSeriesAsHistory(c *models.MovieSummary, historyKeys []string) bool {
	key := BuildSeriesKey(c.Title)
	if key == "" {
		return false
	}
	for _, hk := range historyKeys {
		if SameSeries(key, hk, s.cfg.MinSeriesPrefixLen) {
			return true
		}
	}
	return false
}

// tooSimilarToHistory reports whether the candidate's genre set intersects
// any single history item's genre set at or above the overlap limit.
func (s *Selector) tooSimilarToHistory(c *models.MovieSummary, history []models.MovieSummary) bool {
	if len(c.GenreIDs) == 0 {
		return false
	}
	candidate := make(map[int64]bool, len(c.GenreIDs))
	for _, g := range c.GenreIDs {
		candidate[g] = true
	}
	for i := range history {
		overlap := 0
		for _, g := range history[i].GenreIDs {
			if candidate[g] {
				overlap++
				if overlap >= s.cfg.GenreOverlapLimit {
					return true
				}
			}
		}
	}
	return false
}

// genreSaturated reports whether any of the candidate's genres has reached
// the saturation limit across the history's genre tags.
func (s *Selector) genreSaturated(c *models.MovieSummary, genreCounts map[int64]int) bool {
	for _, g := range c.GenreIDs {
		if genreCounts[g] >= s.cfg.GenreSaturationLimit {
			return true
		}
	}
	return false
}

// countHistoryGenres sums genre occurrences across all history items.
// Occurrences are counted per tag, not per distinct movie.
func countHistoryGenres(history []models.MovieSummary) map[int64]int {
	counts := make(map[int64]int)
	for i := range history {
		for _, g := range history[i].GenreIDs {
			counts[g]++
		}
	}
	return counts
}

func (s *Selector) randomIndex(candidates []int) int {
	if len(candidates) == 1 {
		return candidates[0]
	}
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return candidates[s.rng.Intn(len(candidates))]
}
