// Reelrank - Collaborative Filtering Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

// Package validation wraps go-playground/validator v10 for request validation.
//
// Request structs declare constraints in `validate` tags:
//
//	type CreateRatingRequest struct {
//	    UserID int     `json:"userId" validate:"required,gte=1"`
//	    Rating float64 `json:"rating" validate:"required,gte=1,lte=5"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError() // Code "VALIDATION_ERROR"
//	}
//
// Error messages use the json field name ("userId is required"), so clients see
// the names they sent.
package validation
