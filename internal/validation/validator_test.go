// Folio - Collaborative Document Viewing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package validation

import (
	"strings"
	"testing"
)

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()

	if v1 == nil {
		t.Fatal("GetValidator() returned nil")
	}
	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}
}

type pageRequest struct {
	GroupID string `json:"groupId" validate:"required,groupid"`
	Page    int    `json:"page" validate:"min=1"`
	FileRef string `json:"fileRef" validate:"omitempty,max=16"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name      string
		input     pageRequest
		wantField string
		wantTag   string
	}{
		{"valid", pageRequest{GroupID: "g1", Page: 3}, "", ""},
		{"missing group", pageRequest{Page: 3}, "groupId", "required"},
		{"blank group", pageRequest{GroupID: "   ", Page: 3}, "groupId", "groupid"},
		{"control chars", pageRequest{GroupID: "g\x00", Page: 3}, "groupId", "groupid"},
		{"oversized group", pageRequest{GroupID: strings.Repeat("x", MaxGroupIDLength+1), Page: 1}, "groupId", "groupid"},
		{"zero page", pageRequest{GroupID: "g1"}, "page", "min"},
		{"long ref", pageRequest{GroupID: "g1", Page: 1, FileRef: strings.Repeat("a", 17)}, "fileRef", "max"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.input)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected validation error")
			}
			got := err.Errors()[0]
			if got.Field() != tt.wantField || got.Tag() != tt.wantTag {
				t.Errorf("got %s/%s, want %s/%s", got.Field(), got.Tag(), tt.wantField, tt.wantTag)
			}
		})
	}
}

func TestToAPIError(t *testing.T) {
	err := ValidateStruct(&pageRequest{})
	if err == nil {
		t.Fatal("expected errors")
	}

	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %s", apiErr.Code)
	}
	if !strings.Contains(apiErr.Message, "groupId is required") {
		t.Errorf("Message = %q", apiErr.Message)
	}
	if !strings.Contains(apiErr.Message, "page must be at least 1") {
		t.Errorf("Message = %q", apiErr.Message)
	}
	if _, ok := apiErr.Details["fields"]; !ok {
		t.Error("multi-error APIError should list fields")
	}
}

func TestValidGroupID(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"g1", true},
		{"Team Review #4", true},
		{"", false},
		{"\t", false},
		{strings.Repeat("a", MaxGroupIDLength), true},
		{strings.Repeat("a", MaxGroupIDLength+1), false},
	}
	for _, tt := range tests {
		if got := ValidGroupID(tt.in); got != tt.want {
			t.Errorf("ValidGroupID(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
