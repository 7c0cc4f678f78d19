// Reelrank - Collaborative Filtering Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createSchema creates tables, the rating sequence and the version row.
func (db *DB) createSchema() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range schemaQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}
	return nil
}

// schemaQueries returns the idempotent schema statements in execution order.
// Preferences and tags are stored as JSON text.
func schemaQueries() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGINT PRIMARY KEY,
			name TEXT NOT NULL,
			preferences TEXT NOT NULL DEFAULT '[]'
		)`,
		`CREATE TABLE IF NOT EXISTS items (
			id BIGINT PRIMARY KEY,
			name TEXT NOT NULL,
			category TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			tags TEXT NOT NULL DEFAULT '[]',
			image_url TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE SEQUENCE IF NOT EXISTS rating_seq START 1`,
		`CREATE TABLE IF NOT EXISTS ratings (
			seq BIGINT PRIMARY KEY DEFAULT nextval('rating_seq'),
			user_id BIGINT NOT NULL,
			item_id BIGINT NOT NULL,
			rating DOUBLE NOT NULL,
			review TEXT NOT NULL DEFAULT '',
			rated_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_ratings_user ON ratings(user_id)`,
		`CREATE TABLE IF NOT EXISTS catalog_meta (
			meta_key TEXT PRIMARY KEY,
			value BIGINT NOT NULL
		)`,
		`INSERT INTO catalog_meta (meta_key, value) VALUES ('data_version', 0) ON CONFLICT (meta_key) DO NOTHING`,
	}
}
