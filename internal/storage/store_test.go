// QuickMatch - Session-Based Movie Preference Matching Engine
// Copyright 2026 FilMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatch/quickmatch

package storage

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/filmatch/quickmatch/internal/logging"
	"github.com/filmatch/quickmatch/internal/quickmatch"
)

// storeFactories returns every Store implementation under test. Both must
// satisfy the same contract.
func storeFactories(t *testing.T) map[string]func(t *testing.T) quickmatch.Store {
	t.Helper()
	return map[string]func(t *testing.T) quickmatch.Store{
		"memory": func(_ *testing.T) quickmatch.Store {
			return NewMemoryStore()
		},
		"badger": func(t *testing.T) quickmatch.Store {
			store, err := NewBadgerStore(t.TempDir(), logging.NewTestLogger(testWriter{t}))
			if err != nil {
				t.Fatalf("opening badger store: %v", err)
			}
			t.Cleanup(func() {
				if err := store.Close(); err != nil {
					t.Errorf("closing badger store: %v", err)
				}
			})
			return store
		},
	}
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}

func TestStoreCreateAndGet(t *testing.T) {
	for name, newStore := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			store := newStore(t)
			ctx := context.Background()

			created, err := store.CreateSession(ctx, "user-1", 25)
			if err != nil {
				t.Fatalf("CreateSession: %v", err)
			}
			if created.ID == "" {
				t.Fatal("expected generated session ID")
			}
			if created.Status != quickmatch.StatusInProgress {
				t.Errorf("status = %s, want IN_PROGRESS", created.Status)
			}
			if created.FeedbackCount != 0 {
				t.Errorf("feedback count = %d, want 0", created.FeedbackCount)
			}

			got, err := store.GetSession(ctx, created.ID)
			if err != nil {
				t.Fatalf("GetSession: %v", err)
			}
			if got.ID != created.ID || got.UserID != "user-1" || got.TargetCount != 25 {
				t.Errorf("round-trip mismatch: %+v", got)
			}
		})
	}
}

func TestStoreGetMissing(t *testing.T) {
	for name, newStore := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			store := newStore(t)

			_, err := store.GetSession(context.Background(), "nope")
			if !errors.Is(err, quickmatch.ErrSessionNotFound) {
				t.Errorf("err = %v, want ErrSessionNotFound", err)
			}
			_, err = store.ListFeedback(context.Background(), "nope")
			if !errors.Is(err, quickmatch.ErrSessionNotFound) {
				t.Errorf("ListFeedback err = %v, want ErrSessionNotFound", err)
			}
		})
	}
}

func TestStoreDuplicateFeedbackIsIdempotent(t *testing.T) {
	for name, newStore := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			store := newStore(t)
			ctx := context.Background()

			session, err := store.CreateSession(ctx, "user-1", 5)
			if err != nil {
				t.Fatalf("CreateSession: %v", err)
			}

			first, err := store.RecordFeedback(ctx, session.ID, "user-1", 100, quickmatch.ActionLike)
			if err != nil {
				t.Fatalf("first RecordFeedback: %v", err)
			}
			if first.FeedbackCount != 1 {
				t.Fatalf("count after first = %d, want 1", first.FeedbackCount)
			}

			second, err := store.RecordFeedback(ctx, session.ID, "user-1", 100, quickmatch.ActionDislike)
			if err != nil {
				t.Fatalf("duplicate RecordFeedback: %v", err)
			}
			if second.FeedbackCount != 1 {
				t.Errorf("count after duplicate = %d, want 1", second.FeedbackCount)
			}

			events, err := store.ListFeedback(ctx, session.ID)
			if err != nil {
				t.Fatalf("ListFeedback: %v", err)
			}
			if len(events) != 1 {
				t.Fatalf("events = %d, want 1", len(events))
			}
			if events[0].Action != quickmatch.ActionLike {
				t.Errorf("duplicate must not overwrite the original action, got %s", events[0].Action)
			}
		})
	}
}

func TestStoreCompletionAtTarget(t *testing.T) {
	for name, newStore := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			store := newStore(t)
			ctx := context.Background()

			session, err := store.CreateSession(ctx, "user-1", 2)
			if err != nil {
				t.Fatalf("CreateSession: %v", err)
			}

			if _, err := store.RecordFeedback(ctx, session.ID, "user-1", 1, quickmatch.ActionLike); err != nil {
				t.Fatalf("feedback 1: %v", err)
			}
			updated, err := store.RecordFeedback(ctx, session.ID, "user-1", 2, quickmatch.ActionDislike)
			if err != nil {
				t.Fatalf("feedback 2: %v", err)
			}

			if updated.Status != quickmatch.StatusCompleted {
				t.Errorf("status = %s, want COMPLETED", updated.Status)
			}
			if updated.CompletedAt == nil {
				t.Error("expected completion timestamp")
			}
			if updated.FeedbackCount != updated.TargetCount {
				t.Errorf("count %d != target %d", updated.FeedbackCount, updated.TargetCount)
			}

			_, err = store.RecordFeedback(ctx, session.ID, "user-1", 3, quickmatch.ActionLike)
			if !errors.Is(err, quickmatch.ErrSessionCompleted) {
				t.Errorf("feedback on completed session: err = %v, want ErrSessionCompleted", err)
			}
		})
	}
}

func TestStoreForcedCompletionOnNewSession(t *testing.T) {
	for name, newStore := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			store := newStore(t)
			ctx := context.Background()

			first, err := store.CreateSession(ctx, "user-1", 25)
			if err != nil {
				t.Fatalf("first CreateSession: %v", err)
			}
			if _, err := store.RecordFeedback(ctx, first.ID, "user-1", 7, quickmatch.ActionLike); err != nil {
				t.Fatalf("feedback on first session: %v", err)
			}

			second, err := store.CreateSession(ctx, "user-1", 25)
			if err != nil {
				t.Fatalf("second CreateSession: %v", err)
			}

			prior, err := store.GetSession(ctx, first.ID)
			if err != nil {
				t.Fatalf("GetSession prior: %v", err)
			}
			if prior.Status != quickmatch.StatusCompleted {
				t.Errorf("prior status = %s, want COMPLETED (forced)", prior.Status)
			}
			if prior.CompletedAt == nil {
				t.Error("forced completion must set completion timestamp")
			}
			if second.Status != quickmatch.StatusInProgress {
				t.Errorf("new session status = %s, want IN_PROGRESS", second.Status)
			}

			// Feedback history of the forced session survives.
			events, err := store.ListFeedback(ctx, first.ID)
			if err != nil {
				t.Fatalf("ListFeedback prior: %v", err)
			}
			if len(events) != 1 {
				t.Errorf("prior events = %d, want 1", len(events))
			}
		})
	}
}

func TestStoreFeedbackInsertionOrder(t *testing.T) {
	for name, newStore := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			store := newStore(t)
			ctx := context.Background()

			session, err := store.CreateSession(ctx, "user-1", 10)
			if err != nil {
				t.Fatalf("CreateSession: %v", err)
			}

			ids := []int64{42, 7, 99, 13}
			for _, id := range ids {
				if _, err := store.RecordFeedback(ctx, session.ID, "user-1", id, quickmatch.ActionLike); err != nil {
					t.Fatalf("feedback %d: %v", id, err)
				}
			}

			events, err := store.ListFeedback(ctx, session.ID)
			if err != nil {
				t.Fatalf("ListFeedback: %v", err)
			}
			if len(events) != len(ids) {
				t.Fatalf("events = %d, want %d", len(events), len(ids))
			}
			for i, id := range ids {
				if events[i].MovieID != id {
					t.Errorf("event %d movie = %d, want %d", i, events[i].MovieID, id)
				}
			}
		})
	}
}

func TestStoreConcurrentFeedbackNeverExceedsTarget(t *testing.T) {
	for name, newStore := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			store := newStore(t)
			ctx := context.Background()

			const target = 10
			session, err := store.CreateSession(ctx, "user-1", target)
			if err != nil {
				t.Fatalf("CreateSession: %v", err)
			}

			var wg sync.WaitGroup
			for i := 0; i < target*2; i++ {
				wg.Add(1)
				go func(movieID int64) {
					defer wg.Done()
					_, err := store.RecordFeedback(ctx, session.ID, "user-1", movieID, quickmatch.ActionLike)
					if err != nil && !errors.Is(err, quickmatch.ErrSessionCompleted) {
						t.Errorf("unexpected feedback error: %v", err)
					}
				}(int64(i))
			}
			wg.Wait()

			final, err := store.GetSession(ctx, session.ID)
			if err != nil {
				t.Fatalf("GetSession: %v", err)
			}
			if final.FeedbackCount != target {
				t.Errorf("final count = %d, want exactly %d", final.FeedbackCount, target)
			}
			if final.Status != quickmatch.StatusCompleted {
				t.Errorf("final status = %s, want COMPLETED", final.Status)
			}
		})
	}
}

func TestStoreConcurrentSameMovieCountsOnce(t *testing.T) {
	for name, newStore := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			store := newStore(t)
			ctx := context.Background()

			session, err := store.CreateSession(ctx, "user-1", 25)
			if err != nil {
				t.Fatalf("CreateSession: %v", err)
			}

			// All goroutines race to submit the same movie; the duplicate
			// check and the count increment must stay atomic.
			var wg sync.WaitGroup
			for i := 0; i < 20; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					if _, err := store.RecordFeedback(ctx, session.ID, "user-1", 7, quickmatch.ActionLike); err != nil {
						t.Errorf("RecordFeedback: %v", err)
					}
				}()
			}
			wg.Wait()

			final, err := store.GetSession(ctx, session.ID)
			if err != nil {
				t.Fatalf("GetSession: %v", err)
			}
			if final.FeedbackCount != 1 {
				t.Errorf("count = %d, want exactly 1", final.FeedbackCount)
			}
			events, err := store.ListFeedback(ctx, session.ID)
			if err != nil {
				t.Fatalf("ListFeedback: %v", err)
			}
			if len(events) != 1 {
				t.Errorf("events = %d, want exactly 1", len(events))
			}
		})
	}
}

func TestBadgerStoreSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	logger := logging.NewTestLogger(testWriter{t})
	ctx := context.Background()

	store, err := NewBadgerStore(dir, logger)
	if err != nil {
		t.Fatalf("opening badger store: %v", err)
	}
	session, err := store.CreateSession(ctx, "user-1", 5)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if _, err := store.RecordFeedback(ctx, session.ID, "user-1", 1, quickmatch.ActionLike); err != nil {
		t.Fatalf("RecordFeedback: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := NewBadgerStore(dir, logger)
	if err != nil {
		t.Fatalf("reopening badger store: %v", err)
	}
	defer func() {
		if err := reopened.Close(); err != nil {
			t.Errorf("closing reopened store: %v", err)
		}
	}()

	got, err := reopened.GetSession(ctx, session.ID)
	if err != nil {
		t.Fatalf("GetSession after reopen: %v", err)
	}
	if got.FeedbackCount != 1 {
		t.Errorf("count after reopen = %d, want 1", got.FeedbackCount)
	}
	events, err := reopened.ListFeedback(ctx, session.ID)
	if err != nil {
		t.Fatalf("ListFeedback after reopen: %v", err)
	}
	if len(events) != 1 || events[0].MovieID != 1 {
		t.Errorf("events after reopen = %+v, want one event for movie 1", events)
	}
}
