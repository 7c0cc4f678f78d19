// Reelrank - Collaborative Filtering Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

// Package database implements catalog.Store on DuckDB.
//
// # Overview
//
// DB keeps users, items and ratings in three tables plus a single-row
// catalog_meta table holding the data version. Every write bumps the version
// inside the same transaction, so a snapshot built from a version always
// matches the rows that produced it.
//
// # Files
//
//   - database.go: connection lifecycle and pool configuration
//   - database_schema.go: table and sequence creation
//   - catalog_store.go: catalog.Store implementation
//   - errors.go: close helpers and DuckDB error classification
//
// # Ordering
//
// Users and items list in ID order; ratings list in insertion order via the
// rating_seq sequence.
//
// # Testing
//
// Tests open ":memory:" databases and run the shared catalogtest suite:
//
//	db, err := database.New(database.Options{Path: ":memory:"})
package database
