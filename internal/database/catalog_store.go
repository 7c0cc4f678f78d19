// Reelrank - Collaborative Filtering Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/reelrank/internal/catalog"
	"github.com/tomtom215/reelrank/internal/logging"
	"github.com/tomtom215/reelrank/internal/metrics"
	"github.com/tomtom215/reelrank/internal/recommend"
)

// maxWriteAttempts bounds retries of a write that hit a transaction conflict.
const maxWriteAttempts = 3

var _ catalog.Store = (*DB)(nil)

func observe(operation string, start time.Time, err error) {
	if errors.Is(err, catalog.ErrNotFound) {
		err = nil
	}
	metrics.RecordStoreQuery(Backend, operation, time.Since(start), err)
}

func encodeList(values []string) (string, error) {
	if len(values) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeList(raw string) ([]string, error) {
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

// Users implements recommend.DataProvider.
func (db *DB) Users(ctx context.Context) (users []recommend.User, err error) {
	defer func(start time.Time) { observe("list_users", start, err) }(time.Now())

	rows, err := db.conn.QueryContext(ctx, `SELECT id, name, preferences FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	users = []recommend.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (recommend.User, error) {
	var (
		u     recommend.User
		id    int64
		prefs string
	)
	if err := row.Scan(&id, &u.Name, &prefs); err != nil {
		return recommend.User{}, err
	}
	u.ID = int(id)
	list, err := decodeList(prefs)
	if err != nil {
		return recommend.User{}, fmt.Errorf("decode preferences for user %d: %w", u.ID, err)
	}
	u.Preferences = list
	return u, nil
}

// Items implements recommend.DataProvider.
func (db *DB) Items(ctx context.Context) (items []recommend.Item, err error) {
	defer func(start time.Time) { observe("list_items", start, err) }(time.Now())

	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, name, category, description, tags, image_url FROM items ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	items = []recommend.Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return items, nil
}

func scanItem(row rowScanner) (recommend.Item, error) {
	var (
		it   recommend.Item
		id   int64
		tags string
	)
	if err := row.Scan(&id, &it.Name, &it.Category, &it.Description, &tags, &it.ImageURL); err != nil {
		return recommend.Item{}, err
	}
	it.ID = int(id)
	list, err := decodeList(tags)
	if err != nil {
		return recommend.Item{}, fmt.Errorf("decode tags for item %d: %w", it.ID, err)
	}
	it.Tags = list
	return it, nil
}

const ratingColumns = `user_id, item_id, rating, review, rated_at`

func scanRatings(rows *sql.Rows) ([]recommend.Rating, error) {
	out := []recommend.Rating{}
	for rows.Next() {
		var (
			r              recommend.Rating
			userID, itemID int64
		)
		if err := rows.Scan(&userID, &itemID, &r.Score, &r.Review, &r.Timestamp); err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		r.UserID = int(userID)
		r.ItemID = int(itemID)
		r.Timestamp = r.Timestamp.UTC()
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ratings: %w", err)
	}
	return out, nil
}

// Ratings implements recommend.DataProvider.
func (db *DB) Ratings(ctx context.Context) (ratings []recommend.Rating, err error) {
	defer func(start time.Time) { observe("list_ratings", start, err) }(time.Now())

	rows, err := db.conn.QueryContext(ctx, `SELECT `+ratingColumns+` FROM ratings ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query ratings: %w", err)
	}
	defer rows.Close()
	return scanRatings(rows)
}

// Version implements recommend.DataProvider.
func (db *DB) Version(ctx context.Context) (uint64, error) {
	var version int64
	err := db.conn.QueryRowContext(ctx,
		`SELECT value FROM catalog_meta WHERE meta_key = 'data_version'`).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("query data version: %w", err)
	}
	return uint64(version), nil
}

// GetUser implements catalog.Store.
func (db *DB) GetUser(ctx context.Context, id int) (user recommend.User, err error) {
	defer func(start time.Time) { observe("get_user", start, err) }(time.Now())

	row := db.conn.QueryRowContext(ctx, `SELECT id, name, preferences FROM users WHERE id = ?`, id)
	user, err = scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return recommend.User{}, fmt.Errorf("user %d: %w", id, catalog.ErrNotFound)
	}
	if err != nil {
		return recommend.User{}, fmt.Errorf("get user %d: %w", id, err)
	}
	return user, nil
}

// GetItem implements catalog.Store.
func (db *DB) GetItem(ctx context.Context, id int) (item recommend.Item, err error) {
	defer func(start time.Time) { observe("get_item", start, err) }(time.Now())

	row := db.conn.QueryRowContext(ctx,
		`SELECT id, name, category, description, tags, image_url FROM items WHERE id = ?`, id)
	item, err = scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return recommend.Item{}, fmt.Errorf("item %d: %w", id, catalog.ErrNotFound)
	}
	if err != nil {
		return recommend.Item{}, fmt.Errorf("get item %d: %w", id, err)
	}
	return item, nil
}

// RatingsByUser implements catalog.Store.
func (db *DB) RatingsByUser(ctx context.Context, userID int) (ratings []recommend.Rating, err error) {
	defer func(start time.Time) { observe("ratings_by_user", start, err) }(time.Now())

	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+ratingColumns+` FROM ratings WHERE user_id = ? ORDER BY seq`, userID)
	if err != nil {
		return nil, fmt.Errorf("query ratings for user %d: %w", userID, err)
	}
	defer rows.Close()
	return scanRatings(rows)
}

// GetRating implements catalog.Store.
func (db *DB) GetRating(ctx context.Context, userID, itemID int) (rating recommend.Rating, err error) {
	defer func(start time.Time) { observe("get_rating", start, err) }(time.Now())

	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+ratingColumns+` FROM ratings WHERE user_id = ? AND item_id = ? ORDER BY seq DESC LIMIT 1`,
		userID, itemID)
	if err != nil {
		return recommend.Rating{}, fmt.Errorf("query rating: %w", err)
	}
	defer rows.Close()

	found, err := scanRatings(rows)
	if err != nil {
		return recommend.Rating{}, err
	}
	if len(found) == 0 {
		return recommend.Rating{}, fmt.Errorf("rating user=%d item=%d: %w", userID, itemID, catalog.ErrNotFound)
	}
	return found[0], nil
}

// AddRating implements catalog.Store.
func (db *DB) AddRating(ctx context.Context, r recommend.Rating) (stored recommend.Rating, err error) {
	defer func(start time.Time) { observe("add_rating", start, err) }(time.Now())

	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now()
	}
	// DuckDB TIMESTAMP has microsecond precision.
	r.Timestamp = r.Timestamp.UTC().Truncate(time.Microsecond)

	err = db.write(ctx, func(tx *sql.Tx) error {
		if err := requireRow(ctx, tx, `SELECT 1 FROM users WHERE id = ?`, r.UserID); err != nil {
			return fmt.Errorf("user %d: %w", r.UserID, err)
		}
		if err := requireRow(ctx, tx, `SELECT 1 FROM items WHERE id = ?`, r.ItemID); err != nil {
			return fmt.Errorf("item %d: %w", r.ItemID, err)
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO ratings (`+ratingColumns+`) VALUES (?, ?, ?, ?, ?)`,
			r.UserID, r.ItemID, r.Score, r.Review, r.Timestamp)
		if err != nil {
			return fmt.Errorf("insert rating: %w", err)
		}
		return nil
	})
	if err != nil {
		return recommend.Rating{}, err
	}
	return r, nil
}

func requireRow(ctx context.Context, tx *sql.Tx, query string, arg any) error {
	var one int
	err := tx.QueryRowContext(ctx, query, arg).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return catalog.ErrNotFound
	}
	return err
}

// PutUser implements catalog.Store.
func (db *DB) PutUser(ctx context.Context, u recommend.User) (err error) {
	defer func(start time.Time) { observe("put_user", start, err) }(time.Now())

	prefs, err := encodeList(u.Preferences)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	return db.write(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO users (id, name, preferences) VALUES (?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET name = excluded.name, preferences = excluded.preferences`,
			u.ID, u.Name, prefs)
		if err != nil {
			return fmt.Errorf("upsert user %d: %w", u.ID, err)
		}
		return nil
	})
}

// PutItem implements catalog.Store.
func (db *DB) PutItem(ctx context.Context, it recommend.Item) (err error) {
	defer func(start time.Time) { observe("put_item", start, err) }(time.Now())

	tags, err := encodeList(it.Tags)
	if err != nil {
		return fmt.Errorf("encode tags: %w", err)
	}
	return db.write(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO items (id, name, category, description, tags, image_url) VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET
				name = excluded.name,
				category = excluded.category,
				description = excluded.description,
				tags = excluded.tags,
				image_url = excluded.image_url`,
			it.ID, it.Name, it.Category, it.Description, tags, it.ImageURL)
		if err != nil {
			return fmt.Errorf("upsert item %d: %w", it.ID, err)
		}
		return nil
	})
}

// write runs fn and the version bump in one transaction, retrying on
// DuckDB transaction conflicts.
func (db *DB) write(ctx context.Context, fn func(tx *sql.Tx) error) error {
	db.writeMu.Lock()
	defer db.writeMu.Unlock()

	var err error
	for attempt := 1; attempt <= maxWriteAttempts; attempt++ {
		err = db.writeOnce(ctx, fn)
		if !isTransactionConflict(err) {
			return err
		}
		logging.Warn().Err(err).Int("attempt", attempt).Msg("DuckDB transaction conflict, retrying")
	}
	return err
}

func (db *DB) writeOnce(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE catalog_meta SET value = value + 1 WHERE meta_key = 'data_version'`); err != nil {
		return fmt.Errorf("bump data version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
