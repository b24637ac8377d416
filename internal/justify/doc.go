// QuickMatch - Session-Based Movie Preference Matching Engine
// Copyright 2026 FilMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatch/quickmatch

// Package justify implements the recommendation justification generators:
// OpenAI, a chat-completions client producing one batched response per
// recommendation list, and Static, a deterministic template fallback.
// Both satisfy the engine's Generator interface; any failure here is
// absorbed by the recommendation builder.
package justify
