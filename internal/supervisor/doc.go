// QuickMatch - Session-Based Movie Preference Matching Engine
// Copyright 2026 FilMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatch/quickmatch

// Package supervisor builds the suture/v4 supervision tree for the process.
//
// The tree has two layers: storage (the Badger value-log GC loop when the
// badger backend is active) and api (the HTTP server). A crash in one layer
// restarts only that layer's services; suture's failure threshold and
// backoff apply per supervisor.
//
// Supervisor events are logged through sutureslog, bridged into zerolog via
// logging.NewSlogLogger, so restarts and backoffs appear in the structured
// log with everything else.
//
// Typical wiring:
//
//	tree, err := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
//	tree.AddAPIService(supervisor.NewHTTPServerService(srv, 10*time.Second))
//	tree.AddStorageService(supervisor.NewBadgerGCService(store, cfg.Store.GCInterval, logger))
//	err = tree.Serve(ctx)
package supervisor
