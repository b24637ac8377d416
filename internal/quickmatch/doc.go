// QuickMatch - Session-Based Movie Preference Matching Engine
// Copyright 2026 FilMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatch/quickmatch

// Package quickmatch implements the matching engine: the session state
// machine, the diversity-constrained candidate selector, the preference
// aggregator, and the recommendation builder.
//
// The engine is assembled from injected collaborators (Store, Catalog,
// Generator) so the HTTP layer, the persistence layer, and the external
// services stay replaceable in tests.
package quickmatch
