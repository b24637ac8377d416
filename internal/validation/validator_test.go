// QuickMatch - Session-Based Movie Preference Matching Engine
// Copyright 2026 FilMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatch/quickmatch

package validation

import (
	"strings"
	"testing"
)

func TestGetValidatorSingleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()

	if v1 == nil {
		t.Fatal("GetValidator() returned nil")
	}
	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}
}

type feedbackForm struct {
	SessionID string `validate:"required,uuid4"`
	UserID    string `validate:"required,min=1,max=128"`
	MovieID   int64  `validate:"required,gt=0"`
	Action    string `validate:"required,oneof=LIKE DISLIKE"`
}

func TestValidateStructValid(t *testing.T) {
	form := feedbackForm{
		SessionID: "6f1c8a9e-40b4-4c11-9a67-2e55bc0f3a21",
		UserID:    "user-1",
		MovieID:   550,
		Action:    "LIKE",
	}
	if err := ValidateStruct(&form); err != nil {
		t.Errorf("expected valid struct, got %v", err)
	}
}

func TestValidateStructSingleError(t *testing.T) {
	form := feedbackForm{
		SessionID: "6f1c8a9e-40b4-4c11-9a67-2e55bc0f3a21",
		UserID:    "user-1",
		MovieID:   550,
		Action:    "SKIP",
	}

	verr := ValidateStruct(&form)
	if verr == nil {
		t.Fatal("expected validation error for unsupported action")
	}
	if len(verr.Errors()) != 1 {
		t.Fatalf("errors = %d, want 1", len(verr.Errors()))
	}

	apiErr := verr.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("code = %s", apiErr.Code)
	}
	if !strings.Contains(apiErr.Message, "must be one of") {
		t.Errorf("message = %q, want oneof translation", apiErr.Message)
	}
	if apiErr.Details["field"] != "Action" {
		t.Errorf("details.field = %v, want Action", apiErr.Details["field"])
	}
}

func TestValidateStructMultipleErrors(t *testing.T) {
	form := feedbackForm{}

	verr := ValidateStruct(&form)
	if verr == nil {
		t.Fatal("expected validation errors for empty form")
	}
	if len(verr.Errors()) < 3 {
		t.Errorf("errors = %d, want at least 3", len(verr.Errors()))
	}

	apiErr := verr.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("code = %s", apiErr.Code)
	}
	fields, ok := apiErr.Details["fields"].([]map[string]interface{})
	if !ok || len(fields) != len(verr.Errors()) {
		t.Errorf("details.fields = %v", apiErr.Details["fields"])
	}
	if !strings.Contains(apiErr.Message, ";") {
		t.Errorf("combined message should join per-field messages, got %q", apiErr.Message)
	}
}

func TestTranslateErrorTemplates(t *testing.T) {
	type bounds struct {
		Name  string `validate:"required"`
		Count int    `validate:"gte=1,lte=100"`
		Tag   string `validate:"omitempty,min=3"`
	}

	verr := ValidateStruct(&bounds{Count: 500, Tag: "ab"})
	if verr == nil {
		t.Fatal("expected validation errors")
	}

	messages := verr.Error()
	for _, want := range []string{
		"Name is required",
		"Count must be less than or equal to 100",
		"Tag must be at least 3 characters",
	} {
		if !strings.Contains(messages, want) {
			t.Errorf("messages missing %q: %s", want, messages)
		}
	}
}
