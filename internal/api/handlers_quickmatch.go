// QuickMatch - Session-Based Movie Preference Matching Engine
// Copyright 2026 FilMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatch/quickmatch

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/filmatch/quickmatch/internal/catalog"
	"github.com/filmatch/quickmatch/internal/quickmatch"
	"github.com/filmatch/quickmatch/internal/validation"
)

// CreateSessionRequest is the body of POST /api/v1/quickmatch/session.
type CreateSessionRequest struct {
	UserID      string `json:"userId" validate:"required,min=1,max=128"`
	TargetCount int    `json:"targetCount" validate:"omitempty,gte=1,lte=200"`
}

// FeedbackRequest is the body of POST /api/v1/quickmatch/feedback.
type FeedbackRequest struct {
	SessionID string `json:"sessionId" validate:"required,uuid4"`
	UserID    string `json:"userId" validate:"required,min=1,max=128"`
	MovieID   int64  `json:"movieId" validate:"required,gt=0"`
	Action    string `json:"action" validate:"required,oneof=LIKE DISLIKE"`
}

// feedbackResponse is the compact session view returned after feedback.
type feedbackResponse struct {
	SessionID   string                   `json:"sessionId"`
	RatedCount  int                      `json:"ratedCount"`
	TargetCount int                      `json:"targetCount"`
	Status      quickmatch.SessionStatus `json:"status"`
}

// CreateSession handles POST /api/v1/quickmatch/session.
// Starts a new matching session, forcibly completing any prior open session
// for the same user.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondValidationError(w, verr)
		return
	}

	session, err := h.engine.CreateSession(r.Context(), req.UserID, req.TargetCount)
	if err != nil {
		h.respondEngineError(w, err)
		return
	}

	respondSuccess(w, http.StatusCreated, session)
}

// GetSession handles GET /api/v1/quickmatch/session/{id}.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")

	session, err := h.engine.GetSession(r.Context(), sessionID)
	if err != nil {
		h.respondEngineError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, session)
}

// NextMovie handles GET /api/v1/quickmatch/next?sessionId=.
// Returns the next candidate to present plus the session progress.
func (h *Handler) NextMovie(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "sessionId query parameter is required", nil)
		return
	}

	candidate, err := h.engine.NextMovie(r.Context(), sessionID)
	if err != nil {
		h.respondEngineError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, candidate)
}

// SubmitFeedback handles POST /api/v1/quickmatch/feedback.
// Duplicate feedback for the same movie is acknowledged without effect, so
// client retries are safe.
func (h *Handler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var req FeedbackRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondValidationError(w, verr)
		return
	}

	session, err := h.engine.SubmitFeedback(r.Context(), req.SessionID, req.UserID, req.MovieID, quickmatch.FeedbackAction(req.Action))
	if err != nil {
		h.respondEngineError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, feedbackResponse{
		SessionID:   session.ID,
		RatedCount:  session.FeedbackCount,
		TargetCount: session.TargetCount,
		Status:      session.Status,
	})
}

// Result handles GET /api/v1/quickmatch/result?sessionId=.
// Builds the taste profile and recommendation list for the session.
func (h *Handler) Result(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "sessionId query parameter is required", nil)
		return
	}

	result, err := h.engine.Result(r.Context(), sessionID)
	if err != nil {
		h.respondEngineError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, result)
}

// respondEngineError maps engine and catalog errors onto the stable HTTP
// error codes.
func (h *Handler) respondEngineError(w http.ResponseWriter, err error) {
	var upstream *catalog.UpstreamError

	switch {
	case errors.Is(err, quickmatch.ErrSessionNotFound):
		respondError(w, http.StatusNotFound, "SESSION_NOT_FOUND", "Session does not exist", nil)
	case errors.Is(err, quickmatch.ErrMovieNotFound):
		respondError(w, http.StatusNotFound, "MOVIE_NOT_FOUND", "Movie does not exist in the catalog", nil)
	case errors.Is(err, quickmatch.ErrSessionCompleted):
		respondError(w, http.StatusConflict, "SESSION_COMPLETED", "Session no longer accepts feedback", nil)
	case errors.Is(err, quickmatch.ErrNoFeedback):
		respondError(w, http.StatusConflict, "NO_FEEDBACK", "Session has no feedback recorded yet", nil)
	case errors.Is(err, quickmatch.ErrNoCandidates):
		respondError(w, http.StatusNotFound, "NO_CANDIDATES", "No candidates left for this session", nil)
	case errors.As(err, &upstream):
		respondError(w, http.StatusBadGateway, "UPSTREAM_ERROR", "Movie catalog is unavailable", err)
	default:
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", err)
	}
}
