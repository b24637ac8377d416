// QuickMatch - Session-Based Movie Preference Matching Engine
// Copyright 2026 FilMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatch/quickmatch

// Package models defines the data types shared across package boundaries:
// the movie summary consumed by the matching engine and the standard API
// response envelope used by every HTTP endpoint.
package models
