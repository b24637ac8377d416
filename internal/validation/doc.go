// QuickMatch - Session-Based Movie Preference Matching Engine
// Copyright 2026 FilMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatch/quickmatch

// Package validation provides struct validation using go-playground/validator v10.
//
// This package wraps the go-playground/validator library in a thread-safe
// singleton with human-readable error translation matching the API's
// VALIDATION_ERROR envelope.
//
// # Quick Start
//
//	type CreateSessionRequest struct {
//	    UserID      string `validate:"required,min=1,max=128"`
//	    TargetCount int    `validate:"omitempty,min=1,max=200"`
//	}
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//	    var req CreateSessionRequest
//	    if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
//	        // handle decode error
//	    }
//
//	    if verr := validation.ValidateStruct(&req); verr != nil {
//	        apiErr := verr.ToAPIError()
//	        respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
//	        return
//	    }
//
//	    // proceed with valid request
//	}
//
// # Common Validation Tags
//
// String validations:
//   - required: field must not be empty
//   - min=n / max=n: length bounds
//   - uuid4: canonical UUID format
//
// Numeric validations:
//   - gte=n, lte=n, gt=n, lt=n, min=n, max=n
//
// Enum validations:
//   - oneof=LIKE DISLIKE: must be one of the listed values
//
// # Error Message Translation
//
// Human-readable messages are generated for the common tags:
//
//	required  -> "UserID is required"
//	min=1     -> "UserID must be at least 1 characters"
//	oneof=a b -> "Action must be one of: a b"
//
// # Thread Safety
//
// The singleton validator is initialized once and safe for concurrent use.
// It caches struct reflection metadata, so repeat validations of the same
// request type are cheap.
//
// # See Also
//
//   - internal/api: request handlers using validation
//   - github.com/go-playground/validator/v10: underlying library
package validation
