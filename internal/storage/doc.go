// QuickMatch - Session-Based Movie Preference Matching Engine
// Copyright 2026 FilMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatch/quickmatch

// Package storage provides the session store implementations: an in-memory
// store for tests and single-node ephemeral deployments, and a BadgerDB
// store for persistent deployments. Both satisfy quickmatch.Store and share
// the same per-key locking discipline so the idempotency check-and-increment
// is atomic per session without cross-session blocking.
package storage
