// QuickMatch - Session-Based Movie Preference Matching Engine
// Copyright 2026 FilMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatch/quickmatch

package api

import (
	"net/http"
	"time"
)

// HealthLive handles liveness probe requests (Kubernetes-style).
// Returns 200 OK if the process is alive, regardless of dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady handles readiness probe requests (Kubernetes-style).
// Returns 200 OK only when the movie catalog is reachable; the session store
// is in-process and carries no separate connectivity state.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	catalogConnected := h.catalog != nil && h.catalog.Ping(r.Context()) == nil

	statusCode := http.StatusOK
	status := "ready"
	if !catalogConnected {
		statusCode = http.StatusServiceUnavailable
		status = "not_ready"
	}

	respondJSON(w, statusCode, newStatusResponse(status, map[string]interface{}{
		"catalog_connected": catalogConnected,
		"ready_to_serve":    catalogConnected,
		"uptime":            time.Since(h.startTime).Seconds(),
	}))
}
