// QuickMatch - Session-Based Movie Preference Matching Engine
// Copyright 2026 FilMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatch/quickmatch

package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/filmatch/quickmatch/internal/config"
	"github.com/filmatch/quickmatch/internal/metrics"
	"github.com/filmatch/quickmatch/internal/models"
	"github.com/filmatch/quickmatch/internal/quickmatch"
)

// maxErrorBodySize limits how much of an error response body is read for
// diagnostics. io.LimitReader keeps large upstream error pages bounded.
const maxErrorBodySize = 64 * 1024 // 64KB

// readBodyForError reads the response body for error reporting (max 64KB).
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}

// Client talks to the movie search index over JSON REST.
//
// Resilience:
//   - 30-second request timeout
//   - client-side rate limiting (token bucket)
//   - exponential backoff on HTTP 429 (1s, 2s, 4s, 8s, 16s), honoring
//     Retry-After, up to 5 retries
//   - context support on every request
//
// Thread safety: safe for concurrent use; each call builds its own request.
type Client struct {
	baseURL        string
	apiKey         string
	imageBaseURL   string
	client         *http.Client
	limiter        *rate.Limiter
	logger         zerolog.Logger
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewClient creates a catalog client from the configuration. Zero-valued
// tuning fields fall back to production defaults.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewClient(cfg *config.CatalogConfig, logger zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	rps := cfg.RateLimit
	if rps <= 0 {
		rps = 10
	}
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 20
	}

	return &Client{
		baseURL:        strings.TrimRight(cfg.URL, "/"),
		apiKey:         cfg.APIKey,
		imageBaseURL:   strings.TrimRight(cfg.ImageBaseURL, "/"),
		client:         &http.Client{Timeout: timeout},
		limiter:        rate.NewLimiter(rate.Limit(rps), burst),
		logger:         logger.With().Str("component", "catalog").Logger(),
		maxRetries:     5,
		retryBaseDelay: 1 * time.Second,
	}
}

// movieDoc is the wire shape of one movie in the search index.
type movieDoc struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Overview    string   `json:"overview"`
	PosterPath  string   `json:"posterPath"`
	GenreIDs    []int64  `json:"genreIds"`
	ReleaseDate string   `json:"releaseDate"`
	VoteAverage *float64 `json:"voteAverage"`
	Popularity  float64  `json:"popularity"`
	NowPlaying  bool     `json:"nowPlaying"`
}

type searchResponse struct {
	TotalCount int64      `json:"totalCount"`
	Movies     []movieDoc `json:"movies"`
}

type moviesResponse struct {
	Movies []movieDoc `json:"movies"`
}

// toSummary converts a wire document, expanding the poster path against the
// configured image base URL.
func (c *Client) toSummary(doc *movieDoc) models.MovieSummary {
	posterURL := ""
	if doc.PosterPath != "" {
		if c.imageBaseURL != "" {
			posterURL = c.imageBaseURL + "/" + strings.TrimLeft(doc.PosterPath, "/")
		} else {
			posterURL = doc.PosterPath
		}
	}
	return models.MovieSummary{
		ID:          doc.ID,
		Title:       doc.Title,
		Overview:    doc.Overview,
		PosterURL:   posterURL,
		GenreIDs:    doc.GenreIDs,
		ReleaseDate: doc.ReleaseDate,
		VoteAverage: doc.VoteAverage,
		Popularity:  doc.Popularity,
		NowPlaying:  doc.NowPlaying,
	}
}

// Search returns one ranked page of movies matching the filters.
func (c *Client) Search(ctx context.Context, query models.SearchQuery) (models.SearchResult, error) {
	start := time.Now()

	params := url.Values{}
	if query.Keyword != "" {
		params.Set("query", query.Keyword)
	}
	if query.NowPlaying {
		params.Set("nowPlaying", "true")
	}
	if len(query.GenreIDs) > 0 {
		ids := make([]string, len(query.GenreIDs))
		for i, id := range query.GenreIDs {
			ids[i] = strconv.FormatInt(id, 10)
		}
		params.Set("genres", strings.Join(ids, ","))
	}
	if query.MinRating != nil {
		params.Set("minRating", strconv.FormatFloat(*query.MinRating, 'f', -1, 64))
	}
	if query.ReleaseFrom != "" {
		params.Set("releaseFrom", query.ReleaseFrom)
	}
	if query.ReleaseTo != "" {
		params.Set("releaseTo", query.ReleaseTo)
	}
	if query.Page > 0 {
		params.Set("page", strconv.Itoa(query.Page))
	}
	if query.PageSize > 0 {
		params.Set("pageSize", strconv.Itoa(query.PageSize))
	}

	var decoded searchResponse
	err := c.getJSON(ctx, "search", "/api/v1/movies/search", params, &decoded)
	metrics.RecordCatalogRequest("search", time.Since(start), err)
	if err != nil {
		return models.SearchResult{}, err
	}

	movies := make([]models.MovieSummary, len(decoded.Movies))
	for i := range decoded.Movies {
		movies[i] = c.toSummary(&decoded.Movies[i])
	}
	return models.SearchResult{TotalCount: decoded.TotalCount, Movies: movies}, nil
}

// GetByID returns one movie summary or quickmatch.ErrMovieNotFound.
func (c *Client) GetByID(ctx context.Context, id int64) (*models.MovieSummary, error) {
	start := time.Now()

	var decoded movieDoc
	err := c.getJSON(ctx, "get_by_id", "/api/v1/movies/"+strconv.FormatInt(id, 10), nil, &decoded)
	metrics.RecordCatalogRequest("get_by_id", time.Since(start), err)
	if err != nil {
		return nil, err
	}
	summary := c.toSummary(&decoded)
	return &summary, nil
}

// GetByIDs resolves summaries in bulk. IDs the index does not know are
// absent from the result, not an error.
func (c *Client) GetByIDs(ctx context.Context, ids []int64) ([]models.MovieSummary, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	start := time.Now()

	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	params := url.Values{}
	params.Set("ids", strings.Join(parts, ","))

	var decoded moviesResponse
	err := c.getJSON(ctx, "get_by_ids", "/api/v1/movies", params, &decoded)
	metrics.RecordCatalogRequest("get_by_ids", time.Since(start), err)
	if err != nil {
		return nil, err
	}

	movies := make([]models.MovieSummary, len(decoded.Movies))
	for i := range decoded.Movies {
		movies[i] = c.toSummary(&decoded.Movies[i])
	}
	return movies, nil
}

// getJSON performs one GET against the index, handling status mapping and
// response decoding. A 404 maps to quickmatch.ErrMovieNotFound; every other
// failure is an UpstreamError.
func (c *Client) getJSON(ctx context.Context, operation, path string, params url.Values, result interface{}) error {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	resp, err := c.doRequestWithRateLimit(ctx, reqURL)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return &UpstreamError{Operation: operation, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return quickmatch.ErrMovieNotFound
	default:
		body := readBodyForError(resp.Body)
		return &UpstreamError{
			Operation:  operation,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%s", string(body)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return &UpstreamError{Operation: operation, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}

// doRequestWithRateLimit performs a GET with the client-side limiter and
// automatic HTTP 429 handling: exponential backoff (1s, 2s, 4s, 8s, 16s),
// Retry-After override, up to maxRetries attempts.
func (c *Client) doRequestWithRateLimit(ctx context.Context, reqURL string) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if c.apiKey != "" {
			req.Header.Set("X-Api-Key", c.apiKey)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("HTTP request failed: %w", err)
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}

		// Rate limited, close the body and retry with backoff.
		_ = resp.Body.Close()

		if attempt == c.maxRetries {
			lastErr = fmt.Errorf("rate limit exceeded after %d retries (HTTP 429)", c.maxRetries)
			break
		}

		delay := c.retryBaseDelay * time.Duration(1<<uint(attempt))
		if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
			if seconds, err := time.ParseDuration(retryAfter + "s"); err == nil {
				delay = seconds
			}
		}
		c.logger.Debug().
			Int("attempt", attempt+1).
			Dur("delay", delay).
			Msg("search index rate limited, backing off")

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, lastErr
}

// Ping verifies connectivity to the search index.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.doRequestWithRateLimit(ctx, c.baseURL+"/api/v1/health")
	if err != nil {
		return fmt.Errorf("failed to ping search index: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("search index ping failed with status: %d", resp.StatusCode)
	}
	return nil
}
