// Reelrank - Collaborative Filtering Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package api

import "errors"

var (
	// ErrInvalidID is returned when a path ID is not a positive integer.
	ErrInvalidID = errors.New("invalid id")

	// ErrInvalidParameter is returned for malformed or out-of-range query parameters.
	ErrInvalidParameter = errors.New("invalid query parameter")

	// ErrInvalidBody is returned when a request body cannot be decoded.
	ErrInvalidBody = errors.New("invalid request body")
)
