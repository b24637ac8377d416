// QuickMatch - Session-Based Movie Preference Matching Engine
// Copyright 2026 FilMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatch/quickmatch

package justify

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/filmatch/quickmatch/internal/config"
	"github.com/filmatch/quickmatch/internal/models"
	"github.com/filmatch/quickmatch/internal/quickmatch"
)

// maxErrorBodySize bounds error-body reads from the completions endpoint.
const maxErrorBodySize = 64 * 1024 // 64KB

const systemPrompt = "You are a movie recommendation assistant. For each movie in the " +
	"list, write one short, friendly sentence explaining why it fits the " +
	"viewer's taste profile. Respond with a JSON object of the form " +
	`{"reasons": ["...", "..."]} with exactly one reason per movie, in input order.`

// OpenAI generates justifications through an OpenAI-compatible
// chat-completions endpoint. One call covers the whole recommendation
// batch; the response is requested as a JSON object and parsed into
// {"reasons": [...]}.
type OpenAI struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
	logger  zerolog.Logger
}

// NewOpenAI creates the generator from the configuration. The base URL
// should include the API version prefix (e.g. https://api.openai.com/v1).
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewOpenAI(cfg *config.GeneratorConfig, logger zerolog.Logger) *OpenAI {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &OpenAI{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		client:  &http.Client{Timeout: timeout},
		logger:  logger.With().Str("component", "justify").Logger(),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
	Temperature float64 `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type reasonsPayload struct {
	Reasons []string `json:"reasons"`
}

// Generate requests one justification per movie in a single batched call.
func (o *OpenAI) Generate(ctx context.Context, summary quickmatch.ProfileSummary, movies []models.MovieSummary) ([]string, error) {
	if len(movies) == 0 {
		return nil, nil
	}

	payload := chatRequest{
		Model: o.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildPrompt(summary, movies)},
		},
		Temperature: 0.7,
	}
	payload.ResponseFormat.Type = "json_object"

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if o.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+o.apiKey)
	}

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("completion request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return nil, fmt.Errorf("completion request failed with status %d: %s", resp.StatusCode, string(errBody))
	}

	var decoded chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decoding completion response: %w", err)
	}
	if len(decoded.Choices) == 0 {
		return nil, fmt.Errorf("completion response carried no choices")
	}

	var parsed reasonsPayload
	if err := json.Unmarshal([]byte(decoded.Choices[0].Message.Content), &parsed); err != nil {
		return nil, fmt.Errorf("parsing reasons payload: %w", err)
	}
	if len(parsed.Reasons) == 0 {
		return nil, fmt.Errorf("reasons payload was empty")
	}

	o.logger.Debug().
		Int("movies", len(movies)).
		Int("reasons", len(parsed.Reasons)).
		Msg("generated justifications")
	return parsed.Reasons, nil
}

// buildPrompt renders the taste profile and the recommendation batch into
// the user message.
func buildPrompt(summary quickmatch.ProfileSummary, movies []models.MovieSummary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Viewer profile: liked %d movies, disliked %d.\n", summary.LikedCount, summary.DislikedCount)
	if len(summary.Profile.TopGenres) > 0 {
		names := make([]string, len(summary.Profile.TopGenres))
		for i, g := range summary.Profile.TopGenres {
			names[i] = g.Name
		}
		fmt.Fprintf(&b, "Favorite genres: %s.\n", strings.Join(names, ", "))
	}
	if summary.Profile.Years != nil {
		fmt.Fprintf(&b, "Preferred release years: %d-%d.\n", summary.Profile.Years.Min, summary.Profile.Years.Max)
	}
	if summary.Profile.AvgScore != nil {
		fmt.Fprintf(&b, "Average score of liked movies: %.1f.\n", *summary.Profile.AvgScore)
	}

	b.WriteString("\nRecommended movies:\n")
	for i := range movies {
		fmt.Fprintf(&b, "%d. %s", i+1, movies[i].Title)
		if vote, ok := movies[i].Vote(); ok {
			fmt.Fprintf(&b, " (score %.1f)", vote)
		}
		if movies[i].Overview != "" {
			fmt.Fprintf(&b, " - %s", truncateOverview(movies[i].Overview, 280))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// truncateOverview caps an overview at max bytes, backing up to the nearest
// rune boundary so a multi-byte character is never cut in half.
func truncateOverview(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
