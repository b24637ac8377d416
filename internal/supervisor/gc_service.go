// QuickMatch - Session-Based Movie Preference Matching Engine
// Copyright 2026 FilMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatch/quickmatch

package supervisor

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// GarbageCollector is the slice of the Badger store the GC loop needs.
// Satisfied by *storage.BadgerStore.
type GarbageCollector interface {
	// RunGC triggers one value-log GC cycle; reports whether a log file
	// was rewritten.
	RunGC() bool
}

// BadgerGCService periodically runs Badger value-log garbage collection.
// Badger never reclaims value-log space on its own; the embedding process
// is expected to drive GC on a timer.
type BadgerGCService struct {
	store    GarbageCollector
	interval time.Duration
	logger   zerolog.Logger
	name     string
}

// NewBadgerGCService creates the GC loop with the given interval.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewBadgerGCService(store GarbageCollector, interval time.Duration, logger zerolog.Logger) *BadgerGCService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &BadgerGCService{
		store:    store,
		interval: interval,
		logger:   logger.With().Str("component", "badger-gc").Logger(),
		name:     "badger-gc",
	}
}

// Serve implements suture.Service: tick, collect, repeat until canceled.
func (s *BadgerGCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			rewritten := s.store.RunGC()
			s.logger.Debug().Bool("rewritten", rewritten).Msg("value-log GC cycle finished")
		}
	}
}

// String implements fmt.Stringer; suture uses it in log messages.
func (s *BadgerGCService) String() string {
	return s.name
}
