// QuickMatch - Session-Based Movie Preference Matching Engine
// Copyright 2026 FilMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatch/quickmatch

// Package config defines the application configuration and its layered
// loader: built-in defaults, an optional YAML file, then environment
// variables, with ENV taking the highest precedence.
package config
