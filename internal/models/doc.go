// Reelrank - Collaborative Filtering Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

// Package models defines the HTTP request and response shapes of the Reelrank API.
//
// Domain types (users, items, ratings, scores) live in package recommend; this
// package wraps them in the APIResponse envelope and resolves IDs into catalog
// records for clients.
package models
