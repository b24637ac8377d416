// QuickMatch - Session-Based Movie Preference Matching Engine
// Copyright 2026 FilMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatch/quickmatch

package storage

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/filmatch/quickmatch/internal/metrics"
	"github.com/filmatch/quickmatch/internal/quickmatch"
)

// MemoryStore is the map-backed quickmatch.Store. State does not survive
// restarts; it is the default for tests and throwaway deployments.
//
// A single RWMutex guards all three maps. Unlike BadgerStore, whose
// read-modify-write sequences span transactions and need per-key striping,
// every MemoryStore operation is one critical section.
type MemoryStore struct {
	mu           sync.RWMutex
	sessions     map[string]quickmatch.MatchingSession
	feedback     map[string][]quickmatch.FeedbackEvent
	activeByUser map[string]string

	now func() time.Time
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions:     make(map[string]quickmatch.MatchingSession),
		feedback:     make(map[string][]quickmatch.FeedbackEvent),
		activeByUser: make(map[string]string),
		now:          time.Now,
	}
}

// CreateSession creates a new IN_PROGRESS session, forcibly completing any
// prior IN_PROGRESS session of the same user first.
func (s *MemoryStore) CreateSession(_ context.Context, userID string, targetCount int) (*quickmatch.MatchingSession, error) {
	start := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	if priorID, ok := s.activeByUser[userID]; ok {
		if prior, exists := s.sessions[priorID]; exists && prior.Status == quickmatch.StatusInProgress {
			completed := s.now()
			prior.Status = quickmatch.StatusCompleted
			prior.CompletedAt = &completed
			s.sessions[priorID] = prior
			metrics.SessionsCompleted.WithLabelValues("forced").Inc()
		}
	}

	session := quickmatch.MatchingSession{
		ID:          uuid.New().String(),
		UserID:      userID,
		TargetCount: targetCount,
		Status:      quickmatch.StatusInProgress,
		CreatedAt:   s.now(),
	}
	s.sessions[session.ID] = session
	s.activeByUser[userID] = session.ID

	metrics.SessionsCreated.Inc()
	metrics.RecordStoreOperation("create_session", time.Since(start), nil)
	return &session, nil
}

// GetSession returns the session or quickmatch.ErrSessionNotFound.
func (s *MemoryStore) GetSession(_ context.Context, sessionID string) (*quickmatch.MatchingSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, quickmatch.ErrSessionNotFound
	}
	return &session, nil
}

// RecordFeedback appends one feedback event. The duplicate check and the
// count increment happen under the write lock, so concurrent submissions of
// the same movie cannot both count.
func (s *MemoryStore) RecordFeedback(_ context.Context, sessionID, userID string, movieID int64, action quickmatch.FeedbackAction) (*quickmatch.MatchingSession, error) {
	start := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		metrics.RecordStoreOperation("record_feedback", time.Since(start), quickmatch.ErrSessionNotFound)
		return nil, quickmatch.ErrSessionNotFound
	}
	if session.Status != quickmatch.StatusInProgress {
		metrics.RecordStoreOperation("record_feedback", time.Since(start), quickmatch.ErrSessionCompleted)
		return nil, quickmatch.ErrSessionCompleted
	}

	for i := range s.feedback[sessionID] {
		if s.feedback[sessionID][i].MovieID == movieID {
			// Idempotent no-op: no event, no count.
			metrics.FeedbackDuplicates.Inc()
			metrics.RecordStoreOperation("record_feedback", time.Since(start), nil)
			return &session, nil
		}
	}

	s.feedback[sessionID] = append(s.feedback[sessionID], quickmatch.FeedbackEvent{
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
	s.sessions[sessionID] = session

	metrics.RecordStoreOperation("record_feedback", time.Since(start), nil)
	return &session, nil
}

// ListFeedback returns the session's events in insertion order.
func (s *MemoryStore) ListFeedback(_ context.Context, sessionID string) ([]quickmatch.FeedbackEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.sessions[sessionID]; !ok {
		return nil, quickmatch.ErrSessionNotFound
	}

	events := make([]quickmatch.FeedbackEvent, len(s.feedback[sessionID]))
	copy(events, s.feedback[sessionID])
	return events, nil
}
