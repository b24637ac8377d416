// QuickMatch - Session-Based Movie Preference Matching Engine
// Copyright 2026 FilMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatch/quickmatch

// Package logging provides centralized zerolog-based structured logging.
//
// The package provides:
//   - Zero-allocation structured logging via zerolog
//   - JSON output format for production (machine-parseable)
//   - Console output format for development (human-readable)
//   - Context-aware logging with request ID propagation
//   - slog adapter for Suture v4 integration
//
// Initialize once from main() with logging.Init, then log through the
// package-level helpers or a component child logger:
//
//	logger := logging.WithComponent("selector")
//	logger.Info().Int("pool", n).Msg("candidates filtered")
package logging
