// Reelrank - Collaborative Filtering Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package validation

import (
	"strings"
	"testing"
)

type ratingBody struct {
	UserID int     `json:"userId" validate:"required,gte=1"`
	ItemID int     `json:"itemId" validate:"required,gte=1"`
	Rating float64 `json:"rating" validate:"required,gte=1,lte=5"`
	Review string  `json:"review,omitempty" validate:"max=20"`
	Mode   string  `json:"mode" validate:"omitempty,oneof=user item"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name       string
		body       ratingBody
		wantFields []string
		wantMsg    string
	}{
		{
			name: "valid",
			body: ratingBody{UserID: 1, ItemID: 2, Rating: 4.5},
		},
		{
			name:       "missing user",
			body:       ratingBody{ItemID: 2, Rating: 3},
			wantFields: []string{"userId"},
			wantMsg:    "userId is required",
		},
		{
			name:       "rating above range",
			body:       ratingBody{UserID: 1, ItemID: 2, Rating: 6},
			wantFields: []string{"rating"},
			wantMsg:    "rating must be less than or equal to 5",
		},
		{
			name:       "review too long",
			body:       ratingBody{UserID: 1, ItemID: 2, Rating: 3, Review: strings.Repeat("x", 21)},
			wantFields: []string{"review"},
			wantMsg:    "review must be at most 20 characters",
		},
		{
			name:       "bad mode",
			body:       ratingBody{UserID: 1, ItemID: 2, Rating: 3, Mode: "svd"},
			wantFields: []string{"mode"},
			wantMsg:    "mode must be one of: user item",
		},
		{
			name:       "several failures",
			body:       ratingBody{Rating: 0.5},
			wantFields: []string{"userId", "itemId", "rating"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			verr := ValidateStruct(&tt.body)
			if len(tt.wantFields) == 0 {
				if verr != nil {
					t.Fatalf("ValidateStruct() = %v, want nil", verr)
				}
				return
			}
			if verr == nil {
				t.Fatal("ValidateStruct() = nil, want error")
			}

			if len(verr.Fields) != len(tt.wantFields) {
				t.Fatalf("got %d field errors, want %d: %v", len(verr.Fields), len(tt.wantFields), verr)
			}
			for i, f := range verr.Fields {
				if f.Field != tt.wantFields[i] {
					t.Errorf("field %d = %q, want %q", i, f.Field, tt.wantFields[i])
				}
			}
			if tt.wantMsg != "" && verr.Error() != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", verr.Error(), tt.wantMsg)
			}
		})
	}
}

func TestValidateVar(t *testing.T) {
	if verr := ValidateVar("n", 5, "gte=1,lte=100"); verr != nil {
		t.Errorf("ValidateVar(5) = %v, want nil", verr)
	}

	verr := ValidateVar("n", 0, "gte=1,lte=100")
	if verr == nil {
		t.Fatal("ValidateVar(0) = nil, want error")
	}
	if got := verr.Error(); got != "n must be greater than or equal to 1" {
		t.Errorf("Error() = %q", got)
	}
}

func TestToAPIError(t *testing.T) {
	single := ValidateStruct(&ratingBody{UserID: 1, ItemID: 2, Rating: 9}).ToAPIError()
	if single.Code != CodeValidationError {
		t.Errorf("Code = %q, want %q", single.Code, CodeValidationError)
	}
	if single.Details["field"] != "rating" {
		t.Errorf("Details[field] = %v, want rating", single.Details["field"])
	}

	multi := ValidateStruct(&ratingBody{}).ToAPIError()
	fields, ok := multi.Details["fields"].([]FieldError)
	if !ok || len(fields) != 3 {
		t.Errorf("Details[fields] = %#v, want 3 field errors", multi.Details["fields"])
	}

	empty := (&RequestValidationError{}).ToAPIError()
	if empty.Message != "Validation failed" {
		t.Errorf("empty Message = %q", empty.Message)
	}
}
