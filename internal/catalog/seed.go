// Reelrank - Collaborative Filtering Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package catalog

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/tomtom215/reelrank/internal/logging"
	"github.com/tomtom215/reelrank/internal/recommend"
)

//go:embed seed.json
var seedJSON []byte

// SeedData is the sample catalog shipped with the binary.
type SeedData struct {
	Users   []recommend.User   `json:"users"`
	Items   []recommend.Item   `json:"items"`
	Ratings []recommend.Rating `json:"ratings"`
}

// LoadSeedData decodes the embedded sample catalog.
func LoadSeedData() (*SeedData, error) {
	var data SeedData
	if err := json.Unmarshal(seedJSON, &data); err != nil {
		return nil, fmt.Errorf("decode seed data: %w", err)
	}
	return &data, nil
}

// Seed loads the sample catalog into store when it has no users yet.
// It reports whether anything was written.
func Seed(ctx context.Context, store Store) (bool, error) {
	existing, err := store.Users(ctx)
	if err != nil {
		return false, fmt.Errorf("check existing users: %w", err)
	}
	if len(existing) > 0 {
		logging.Debug().Int("users", len(existing)).Msg("Catalog already populated, skipping seed")
		return false, nil
	}

	data, err := LoadSeedData()
	if err != nil {
		return false, err
	}
	if err := Apply(ctx, store, data); err != nil {
		return false, err
	}

	logging.Info().
		Str("backend", store.Backend()).
		Int("users", len(data.Users)).
		Int("items", len(data.Items)).
		Int("ratings", len(data.Ratings)).
		Msg("Seeded sample catalog")
	return true, nil
}

// Apply writes users, then items, then ratings into store.
func Apply(ctx context.Context, store Store, data *SeedData) error {
	for _, u := range data.Users {
		if err := store.PutUser(ctx, u); err != nil {
			return fmt.Errorf("seed user %d: %w", u.ID, err)
		}
	}
	for _, it := range data.Items {
		if err := store.PutItem(ctx, it); err != nil {
			return fmt.Errorf("seed item %d: %w", it.ID, err)
		}
	}
	for _, r := range data.Ratings {
		if _, err := store.AddRating(ctx, r); err != nil {
			return fmt.Errorf("seed rating user=%d item=%d: %w", r.UserID, r.ItemID, err)
		}
	}
	return nil
}
