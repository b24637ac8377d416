// QuickMatch - Session-Based Movie Preference Matching Engine
// Copyright 2026 FilMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatch/quickmatch

// Package api is the thin HTTP layer over the matching engine.
//
// Routing is built on go-chi/chi with middleware from the chi ecosystem:
// request-ID propagation into the logging context, real-IP resolution,
// panic recovery, CORS (go-chi/cors), per-endpoint rate limiting
// (go-chi/httprate), security headers, and Prometheus request metrics.
//
// Every response uses the models.APIResponse envelope:
//
//	{"status": "success", "data": {...}, "metadata": {"timestamp": "..."}}
//	{"status": "error", "error": {"code": "SESSION_NOT_FOUND", "message": "..."}}
//
// Engine errors map onto stable error codes: SESSION_NOT_FOUND and
// NO_CANDIDATES to 404, SESSION_COMPLETED and NO_FEEDBACK to 409,
// catalog outages to 502 UPSTREAM_ERROR, malformed input to 400
// VALIDATION_ERROR.
package api
