// Reelrank - Collaborative Filtering Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/reelrank/internal/metrics"
	"github.com/tomtom215/reelrank/internal/recommend"
)

// ErrNotFound is returned when a user, item or rating does not exist.
var ErrNotFound = errors.New("catalog: not found")

// Backend names used for metrics labels and configuration.
const (
	BackendMemory = "memory"
	BackendBadger = "badger"
)

// Store is a catalog backend. Users, Items and Ratings return full listings in
// a stable order; Version changes on every write.
type Store interface {
	recommend.DataProvider

	// GetUser returns a single user or ErrNotFound.
	GetUser(ctx context.Context, id int) (recommend.User, error)

	// GetItem returns a single item or ErrNotFound.
	GetItem(ctx context.Context, id int) (recommend.Item, error)

	// RatingsByUser returns the user's ratings in insertion order.
	// A user with no ratings yields an empty slice, not an error.
	RatingsByUser(ctx context.Context, userID int) ([]recommend.Rating, error)

	// GetRating returns the most recent rating for the pair or ErrNotFound.
	GetRating(ctx context.Context, userID, itemID int) (recommend.Rating, error)

	// AddRating appends a rating. The user and item must already exist
	// (ErrNotFound otherwise). A zero timestamp is stamped with the current time.
	AddRating(ctx context.Context, r recommend.Rating) (recommend.Rating, error)

	// PutUser inserts or replaces a user.
	PutUser(ctx context.Context, u recommend.User) error

	// PutItem inserts or replaces an item.
	PutItem(ctx context.Context, it recommend.Item) error

	// Backend names the storage implementation.
	Backend() string

	Close() error
}

// observe records the duration and outcome of one store operation.
func observe(backend, operation string, start time.Time, err error) {
	if errors.Is(err, ErrNotFound) {
		err = nil
	}
	metrics.RecordStoreQuery(backend, operation, time.Since(start), err)
}

// stampRating fills a missing timestamp.
func stampRating(r recommend.Rating) recommend.Rating {
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now().UTC()
	}
	return r
}
