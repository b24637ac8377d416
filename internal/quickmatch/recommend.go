// QuickMatch - Session-Based Movie Preference Matching Engine
// Copyright 2026 FilMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatch/quickmatch

package quickmatch

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/filmatch/quickmatch/internal/metrics"
	"github.com/filmatch/quickmatch/internal/models"
)

// DefaultJustification is used for every entry the generator could not
// cover: short responses are padded with it, and a failed generator call
// degrades all entries to it.
const DefaultJustification = "A well-rated pick that lines up with your taste."

// BuilderConfig holds the recommendation tuning. The clamps and batch sizes
// are product-tuned, not derived.
type BuilderConfig struct {
	// BaseRatingFloor is the quality floor when no average is known.
	BaseRatingFloor float64 `koanf:"base_rating_floor"`

	// RatingFloorMargin is subtracted from the session's average quality
	// score before clamping.
	RatingFloorMargin float64 `koanf:"rating_floor_margin"`

	// RatingFloorMin and RatingFloorMax clamp the derived quality floor.
	RatingFloorMin float64 `koanf:"rating_floor_min"`
	RatingFloorMax float64 `koanf:"rating_floor_max"`

	// QueryLimit is the catalog page size for the primary and backfill queries.
	QueryLimit int `koanf:"query_limit"`

	// MaxResults is the number of recommendation entries to produce.
	MaxResults int `koanf:"max_results"`

	// BackfillThreshold triggers the broader second query when the primary
	// query yields fewer results.
	BackfillThreshold int `koanf:"backfill_threshold"`

	// DefaultJustification overrides the fixed fallback text when set.
	DefaultJustification string `koanf:"default_justification"`
}

// DefaultBuilderConfig returns the production recommendation tuning.
func DefaultBuilderConfig() BuilderConfig {
	return BuilderConfig{
		BaseRatingFloor:      6.5,
		RatingFloorMargin:    0.7,
		RatingFloorMin:       5.5,
		RatingFloorMax:       7.8,
		QueryLimit:           120,
		MaxResults:           10,
		BackfillThreshold:    5,
		DefaultJustification: DefaultJustification,
	}
}

func (c *BuilderConfig) normalize() {
	if c.BaseRatingFloor <= 0 {
		c.BaseRatingFloor = 6.5
	}
	if c.RatingFloorMargin <= 0 {
		c.RatingFloorMargin = 0.7
	}
	if c.RatingFloorMin <= 0 {
		c.RatingFloorMin = 5.5
	}
	if c.RatingFloorMax <= 0 {
		c.RatingFloorMax = 7.8
	}
	if c.QueryLimit <= 0 {
		c.QueryLimit = 120
	}
	if c.MaxResults <= 0 {
		c.MaxResults = 10
	}
	if c.BackfillThreshold <= 0 {
		c.BackfillThreshold = 5
	}
	if c.DefaultJustification == "" {
		c.DefaultJustification = DefaultJustification
	}
}

// Builder produces the ranked recommendation list for a finished (or
// in-flight) session: quality-floored catalog queries, seen-ID exclusion,
// backfill, and batched justifications with a mandatory fallback path.
type Builder struct {
	cfg       BuilderConfig
	catalog   Catalog
	generator Generator
	logger    zerolog.Logger
}

// NewBuilder creates a Builder. generator may be nil, in which case every
// entry receives the default justification.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewBuilder(cfg BuilderConfig, catalog Catalog, generator Generator, logger zerolog.Logger) *Builder {
	cfg.normalize()
	return &Builder{
		cfg:       cfg,
		catalog:   catalog,
		generator: generator,
		logger:    logger.With().Str("component", "recommender").Logger(),
	}
}

// Build produces up to MaxResults recommendation entries for the given
// taste profile, excluding every movie ID in seen. An empty selection is an
// empty list, not an error. Catalog failures are hard failures; generator
// failures degrade to the default justification.
func (b *Builder) Build(ctx context.Context, summary ProfileSummary, seen map[int64]struct{}) ([]RecommendationEntry, error) {
	floor := b.ratingFloor(summary.Profile.AvgScore)

	query := models.SearchQuery{
		MinRating: &floor,
		Page:      1,
		PageSize:  b.cfg.QueryLimit,
	}
	if topGenre, ok := summary.Profile.TopGenreID(); ok {
		query.GenreIDs = []int64{topGenre}
	}

	primary, err := b.catalog.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("primary recommendation query: %w", err)
	}

	selected := make([]models.MovieSummary, 0, b.cfg.MaxResults)
	picked := make(map[int64]struct{}, b.cfg.MaxResults)
	selected = appendCandidates(selected, primary.Movies, seen, picked, b.cfg.MaxResults)

	// Too few results from the genre-filtered query: widen to a genre-free
	// query at the same floor and top up.
	if len(selected) < b.cfg.BackfillThreshold {
		metrics.RecommendationBackfills.Inc()
		broad := models.SearchQuery{
			MinRating: &floor,
			Page:      1,
			PageSize:  b.cfg.QueryLimit,
		}
		backfill, err := b.catalog.Search(ctx, broad)
		if err != nil {
			return nil, fmt.Errorf("backfill recommendation query: %w", err)
		}
		selected = appendCandidates(selected, backfill.Movies, seen, picked, b.cfg.MaxResults)
	}

	metrics.RecommendationsBuilt.Observe(float64(len(selected)))
	if len(selected) == 0 {
		return []RecommendationEntry{}, nil
	}

	justifications := b.justify(ctx, summary, selected)

	entries := make([]RecommendationEntry, len(selected))
	for i := range selected {
		entries[i] = RecommendationEntry{
			MovieID:       selected[i].ID,
			Title:         selected[i].Title,
			PosterURL:     selected[i].PosterURL,
			Justification: justifications[i],
		}
	}
	return entries, nil
}

// ratingFloor computes the minimum-quality floor: the base floor when no
// average is known, otherwise the average minus the margin, clamped.
func (b *Builder) ratingFloor(avg *float64) float64 {
	if avg == nil {
		return b.cfg.BaseRatingFloor
	}
	floor := *avg - b.cfg.RatingFloorMargin
	if floor < b.cfg.RatingFloorMin {
		floor = b.cfg.RatingFloorMin
	}
	if floor > b.cfg.RatingFloorMax {
		floor = b.cfg.RatingFloorMax
	}
	return floor
}

// justify requests one justification per movie in a single batched call.
// Short responses are padded, long responses truncated, and a failed call
// degrades every entry to the default justification.
func (b *Builder) justify(ctx context.Context, summary ProfileSummary, movies []models.MovieSummary) []string {
	out := make([]string, len(movies))

	if b.generator == nil {
		for i := range out {
			out[i] = b.cfg.DefaultJustification
		}
		return out
	}

	reasons, err := b.generator.Generate(ctx, summary, movies)
	metrics.RecordGeneratorCall(err)
	if err != nil {
		b.logger.Warn().Err(err).Int("movies", len(movies)).Msg("justification generator failed, using default text")
		metrics.GeneratorFallbacks.Add(float64(len(movies)))
		for i := range out {
			out[i] = b.cfg.DefaultJustification
		}
		return out
	}

	for i := range out {
		if i < len(reasons) && reasons[i] != "" {
			out[i] = reasons[i]
			continue
		}
		metrics.GeneratorFallbacks.Inc()
		out[i] = b.cfg.DefaultJustification
	}
	return out
}

// appendCandidates appends pool movies preserving catalog ranking order,
// skipping seen IDs and duplicates, until limit entries are collected.
func appendCandidates(dst, pool []models.MovieSummary, seen map[int64]struct{}, picked map[int64]struct{}, limit int) []models.MovieSummary {
	for i := range pool {
		if len(dst) >= limit {
			break
		}
		id := pool[i].ID
		if _, ok := seen[id]; ok {
			continue
		}
		if _, ok := picked[id]; ok {
			continue
		}
		picked[id] = struct{}{}
		dst = append(dst, pool[i])
	}
	return dst
}
