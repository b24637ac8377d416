// QuickMatch - Session-Based Movie Preference Matching Engine
// Copyright 2026 FilMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatch/quickmatch

package catalog

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/filmatch/quickmatch/internal/config"
	"github.com/filmatch/quickmatch/internal/logging"
	"github.com/filmatch/quickmatch/internal/models"
	"github.com/filmatch/quickmatch/internal/quickmatch"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := NewClient(&config.CatalogConfig{
		URL:          srv.URL,
		APIKey:       "test-key",
		ImageBaseURL: "https://img.example/w500",
		Timeout:      5 * time.Second,
		RateLimit:    1000,
		RateBurst:    1000,
	}, logging.NewTestLogger(io.Discard))
	client.retryBaseDelay = time.Millisecond
	return client
}

func TestClientSearch(t *testing.T) {
	var gotPath, gotKey string
	var gotQuery map[string]string

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("X-Api-Key")
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"totalCount": 2,
			"movies": [
				{"id": 1, "title": "Heat", "posterPath": "/heat.jpg", "genreIds": [80, 18], "releaseDate": "1995-12-15", "voteAverage": 7.9, "popularity": 41.2, "nowPlaying": true},
				{"id": 2, "title": "Ronin", "genreIds": [28], "releaseDate": "1998-09-25", "voteAverage": 6.9, "popularity": 18.5}
			]
		}`))
	}))

	minRating := 6.5
	result, err := client.Search(context.Background(), models.SearchQuery{
		Keyword:   "heist",
		GenreIDs:  []int64{80, 18},
		MinRating: &minRating,
		Page:      2,
		PageSize:  50,
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if gotPath != "/api/v1/movies/search" {
		t.Errorf("path = %s", gotPath)
	}
	if gotKey != "test-key" {
		t.Errorf("api key header = %q", gotKey)
	}
	wantQuery := map[string]string{
		"query":     "heist",
		"genres":    "80,18",
		"minRating": "6.5",
		"page":      "2",
		"pageSize":  "50",
	}
	for k, want := range wantQuery {
		if gotQuery[k] != want {
			t.Errorf("query %s = %q, want %q", k, gotQuery[k], want)
		}
	}

	if result.TotalCount != 2 || len(result.Movies) != 2 {
		t.Fatalf("result = %+v", result)
	}
	if result.Movies[0].PosterURL != "https://img.example/w500/heat.jpg" {
		t.Errorf("poster url = %q, want expanded image base", result.Movies[0].PosterURL)
	}
	if result.Movies[1].PosterURL != "" {
		t.Errorf("missing poster should stay empty, got %q", result.Movies[1].PosterURL)
	}
	if vote, ok := result.Movies[0].Vote(); !ok || vote != 7.9 {
		t.Errorf("vote = %v/%v, want 7.9", vote, ok)
	}
	if !result.Movies[0].NowPlaying {
		t.Error("expected first movie to carry the now-playing flag")
	}
	if result.Movies[1].NowPlaying {
		t.Error("second movie should not carry the now-playing flag")
	}
}

func TestClientGetByIDNotFound(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "no such movie", http.StatusNotFound)
	}))

	_, err := client.GetByID(context.Background(), 42)
	if !errors.Is(err, quickmatch.ErrMovieNotFound) {
		t.Errorf("err = %v, want ErrMovieNotFound", err)
	}
}

func TestClientServerErrorIsUpstream(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "index unavailable", http.StatusServiceUnavailable)
	}))

	_, err := client.Search(context.Background(), models.SearchQuery{})
	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("err = %v, want UpstreamError", err)
	}
	if upstream.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", upstream.StatusCode)
	}
	if upstream.Operation != "search" {
		t.Errorf("operation = %q, want search", upstream.Operation)
	}
}

func TestClientRetriesOnRateLimit(t *testing.T) {
	attempts := 0
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		if attempts <= 2 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"id": 7, "title": "Brick"}`))
	}))

	movie, err := client.GetByID(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3 (two 429s then success)", attempts)
	}
	if movie.ID != 7 || movie.Title != "Brick" {
		t.Errorf("movie = %+v", movie)
	}
}

func TestClientRateLimitExhaustsRetries(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Retry-After", "0")
		w.WriteHeader(http.StatusTooManyRequests)
	}))

	_, err := client.GetByID(context.Background(), 7)
	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("err = %v, want UpstreamError after retry exhaustion", err)
	}
}

func TestClientGetByIDs(t *testing.T) {
	var gotIDs string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotIDs = r.URL.Query().Get("ids")
		_, _ = w.Write([]byte(`{"movies": [{"id": 1, "title": "Heat"}, {"id": 3, "title": "Ronin"}]}`))
	}))

	// ID 2 is unknown to the index; it is simply absent from the result.
	movies, err := client.GetByIDs(context.Background(), []int64{1, 2, 3})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if gotIDs != "1,2,3" {
		t.Errorf("ids param = %q, want 1,2,3", gotIDs)
	}
	if len(movies) != 2 || movies[0].ID != 1 || movies[1].ID != 3 {
		t.Errorf("movies = %+v", movies)
	}
}

func TestClientGetByIDsEmpty(t *testing.T) {
	called := false
	client := newTestClient(t, http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	}))

	movies, err := client.GetByIDs(context.Background(), nil)
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if movies != nil || called {
		t.Errorf("empty input must not hit the index (movies=%v called=%v)", movies, called)
	}
}

func TestBreakerClientPassthrough(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"totalCount": 1, "movies": [{"id": 1, "title": "Heat"}]}`))
	}))
	breaker := NewBreakerClient(client, logging.NewTestLogger(io.Discard))

	result, err := breaker.Search(context.Background(), models.SearchQuery{})
	if err != nil {
		t.Fatalf("Search through breaker: %v", err)
	}
	if len(result.Movies) != 1 || result.Movies[0].ID != 1 {
		t.Errorf("result = %+v", result)
	}
}

func TestBreakerClientOpensAfterFailures(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	breaker := NewBreakerClient(client, logging.NewTestLogger(io.Discard))

	// Trip threshold: 60% failures over at least 10 requests.
	for i := 0; i < 10; i++ {
		if _, err := breaker.Search(context.Background(), models.SearchQuery{}); err == nil {
			t.Fatal("expected failure while index is down")
		}
	}

	_, err := breaker.Search(context.Background(), models.SearchQuery{})
	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("err = %v, want UpstreamError from open circuit", err)
	}
}
