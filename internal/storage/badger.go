// QuickMatch - Session-Based Movie Preference Matching Engine
// Copyright 2026 FilMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatch/quickmatch

package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/filmatch/quickmatch/internal/metrics"
	"github.com/filmatch/quickmatch/internal/quickmatch"
)

// Key layout. Feedback is stored as one JSON array per session: sessions
// are bounded by their target count, so the array stays small and the
// session + feedback mutation commits in a single transaction.
const (
	sessionKeyPrefix    = "session/"
	feedbackKeyPrefix   = "feedback/"
	userActiveKeyPrefix = "user_active/"
)

// badgerGCDiscardRatio is the value-log rewrite threshold for RunGC.
const badgerGCDiscardRatio = 0.5

// BadgerStore is the persistent quickmatch.Store. Sessions and feedback
// survive restarts; the user's active-session pointer is kept as its own
// key so forced completion stays a point lookup.
type BadgerStore struct {
	db     *badger.DB
	locks  keyedMutex
	logger zerolog.Logger
	now    func() time.Time
}

// NewBadgerStore opens (or creates) the store at path.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewBadgerStore(path string, logger zerolog.Logger) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // badger's own logger is noisy; state changes are logged here

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening badger store at %s: %w", path, err)
	}

	return &BadgerStore{
		db:     db,
		logger: logger.With().Str("component", "badger_store").Logger(),
		now:    time.Now,
	}, nil
}

// Close releases the underlying database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// RunGC triggers one value-log garbage collection cycle. Returns true when
// a rewrite happened. Called periodically by the supervised GC service.
func (s *BadgerStore) RunGC() bool {
	err := s.db.RunValueLogGC(badgerGCDiscardRatio)
	if err != nil {
		if !errors.Is(err, badger.ErrNoRewrite) {
			s.logger.Warn().Err(err).Msg("value log GC failed")
		}
		return false
	}
	return true
}

// CreateSession creates a new IN_PROGRESS session, forcibly completing any
// prior IN_PROGRESS session of the same user in the same transaction.
func (s *BadgerStore) CreateSession(_ context.Context, userID string, targetCount int) (*quickmatch.MatchingSession, error) {
	start := time.Now()
	unlock := s.locks.Lock("user:" + userID)
	defer unlock()

	session := quickmatch.MatchingSession{
		ID:          uuid.New().String(),
		UserID:      userID,
		TargetCount: targetCount,
		Status:      quickmatch.StatusInProgress,
		CreatedAt:   s.now(),
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		priorID, err := readString(txn, userActiveKeyPrefix+userID)
		if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if priorID != "" {
			var prior quickmatch.MatchingSession
			found, err := readJSON(txn, sessionKeyPrefix+priorID, &prior)
			if err != nil {
				return err
			}
			if found && prior.Status == quickmatch.StatusInProgress {
				completed := s.now()
				prior.Status = quickmatch.StatusCompleted
				prior.CompletedAt = &completed
				if err := writeJSON(txn, sessionKeyPrefix+priorID, &prior); err != nil {
					return err
				}
				metrics.SessionsCompleted.WithLabelValues("forced").Inc()
			}
		}

		if err := writeJSON(txn, sessionKeyPrefix+session.ID, &session); err != nil {
			return err
		}
		return txn.Set([]byte(userActiveKeyPrefix+userID), []byte(session.ID))
	})
	metrics.RecordStoreOperation("create_session", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}

	metrics.SessionsCreated.Inc()
	return &session, nil
}

// GetSession returns the session or quickmatch.ErrSessionNotFound.
func (s *BadgerStore) GetSession(_ context.Context, sessionID string) (*quickmatch.MatchingSession, error) {
	var session quickmatch.MatchingSession
	err := s.db.View(func(txn *badger.Txn) error {
		found, err := readJSON(txn, sessionKeyPrefix+sessionID, &session)
		if err != nil {
			return err
		}
		if !found {
			return quickmatch.ErrSessionNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, quickmatch.ErrSessionNotFound) {
			return nil, quickmatch.ErrSessionNotFound
		}
		return nil, fmt.Errorf("reading session: %w", err)
	}
	return &session, nil
}

// RecordFeedback appends one feedback event. The stripe lock keeps the
// duplicate check and count increment atomic per session; the badger
// transaction keeps event and session updates atomic on disk.
func (s *BadgerStore) RecordFeedback(_ context.Context, sessionID, userID string, movieID int64, action quickmatch.FeedbackAction) (*quickmatch.MatchingSession, error) {
	start := time.Now()
	unlock := s.locks.Lock("session:" + sessionID)
	defer unlock()

	var session quickmatch.MatchingSession
	err := s.db.Update(func(txn *badger.Txn) error {
		found, err := readJSON(txn, sessionKeyPrefix+sessionID, &session)
		if err != nil {
			return err
		}
		if !found {
			return quickmatch.ErrSessionNotFound
		}
		if session.Status != quickmatch.StatusInProgress {
			return quickmatch.ErrSessionCompleted
		}

		var events []quickmatch.FeedbackEvent
		if _, err := readJSON(txn, feedbackKeyPrefix+sessionID, &events); err != nil {
			return err
		}
		for i := range events {
			if events[i].MovieID == movieID {
				// Idempotent no-op: no event, no count.
				metrics.FeedbackDuplicates.Inc()
				return nil
			}
		}

		events = append(events, quickmatch.FeedbackEvent{
			SessionID: sessionID,
			UserID:    userID,
			MovieID:   movieID,
			Action:    action,
			CreatedAt: s.now(),
		})
		session.FeedbackCount++
		metrics.FeedbackRecorded.WithLabelValues(string(action)).Inc()

		if session.FeedbackCount >= session.TargetCount {
			completed := s.now()
			session.Status = quickmatch.StatusCompleted
			session.CompletedAt = &completed
			metrics.SessionsCompleted.WithLabelValues("target_reached").Inc()
		}

		if err := writeJSON(txn, feedbackKeyPrefix+sessionID, events); err != nil {
			return err
		}
		return writeJSON(txn, sessionKeyPrefix+sessionID, &session)
	})
	metrics.RecordStoreOperation("record_feedback", time.Since(start), err)
	if err != nil {
		if errors.Is(err, quickmatch.ErrSessionNotFound) || errors.Is(err, quickmatch.ErrSessionCompleted) {
			return nil, err
		}
		return nil, fmt.Errorf("recording feedback: %w", err)
	}
	return &session, nil
}

// ListFeedback returns the session's events in insertion order.
func (s *BadgerStore) ListFeedback(_ context.Context, sessionID string) ([]quickmatch.FeedbackEvent, error) {
	var events []quickmatch.FeedbackEvent
	err := s.db.View(func(txn *badger.Txn) error {
		var session quickmatch.MatchingSession
		found, err := readJSON(txn, sessionKeyPrefix+sessionID, &session)
		if err != nil {
			return err
		}
		if !found {
			return quickmatch.ErrSessionNotFound
		}
		_, err = readJSON(txn, feedbackKeyPrefix+sessionID, &events)
		return err
	})
	if err != nil {
		if errors.Is(err, quickmatch.ErrSessionNotFound) {
			return nil, quickmatch.ErrSessionNotFound
		}
		return nil, fmt.Errorf("reading feedback: %w", err)
	}
	if events == nil {
		events = []quickmatch.FeedbackEvent{}
	}
	return events, nil
}

// readString reads a raw string value. Returns badger.ErrKeyNotFound when absent.
func readString(txn *badger.Txn, key string) (string, error) {
	item, err := txn.Get([]byte(key))
	if err != nil {
		return "", err
	}
	var out string
	err = item.Value(func(val []byte) error {
		out = string(val)
		return nil
	})
	return out, err
}

// readJSON unmarshals the value at key into v. Returns (false, nil) when absent.
func readJSON(txn *badger.Txn, key string, v interface{}) (bool, error) {
	item, err := txn.Get([]byte(key))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return false, nil
		}
		return false, err
	}
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, v)
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// writeJSON marshals v and sets it at key.
func writeJSON(txn *badger.Txn, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return txn.Set([]byte(key), data)
}
