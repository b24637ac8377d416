// QuickMatch - Session-Based Movie Preference Matching Engine
// Copyright 2026 FilMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatch/quickmatch

// Package metrics defines the Prometheus collectors for the service.
// Collectors are registered with promauto at package load and exported as
// package-level variables; components record directly against them.
package metrics
