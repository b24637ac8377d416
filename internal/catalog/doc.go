// QuickMatch - Session-Based Movie Preference Matching Engine
// Copyright 2026 FilMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatch/quickmatch

// Package catalog implements the HTTP client for the movie search index
// service. Client provides the raw transport (rate limited, retrying on
// HTTP 429) and BreakerClient wraps it with a circuit breaker; both satisfy
// the engine's Catalog interface.
package catalog
