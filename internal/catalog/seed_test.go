// Reelrank - Collaborative Filtering Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package catalog

import (
	"testing"
)

func TestLoadSeedData(t *testing.T) {
	data, err := LoadSeedData()
	if err != nil {
		t.Fatalf("LoadSeedData() error = %v", err)
	}

	if len(data.Users) != 10 {
		t.Errorf("users = %d, want 10", len(data.Users))
	}
	if len(data.Items) != 10 {
		t.Errorf("items = %d, want 10", len(data.Items))
	}
	if len(data.Ratings) != 50 {
		t.Errorf("ratings = %d, want 50", len(data.Ratings))
	}

	users := make(map[int]bool, len(data.Users))
	for _, u := range data.Users {
		users[u.ID] = true
	}
	items := make(map[int]bool, len(data.Items))
	for _, it := range data.Items {
		if it.Name == "" || it.Category == "" {
			t.Errorf("item %d missing name or category", it.ID)
		}
		items[it.ID] = true
	}

	for _, r := range data.Ratings {
		if !users[r.UserID] || !items[r.ItemID] {
			t.Errorf("rating references unknown user %d or item %d", r.UserID, r.ItemID)
		}
		if r.Score < 1 || r.Score > 5 {
			t.Errorf("rating user=%d item=%d score %v outside 1..5", r.UserID, r.ItemID, r.Score)
		}
		if r.Timestamp.IsZero() {
			t.Errorf("rating user=%d item=%d has zero timestamp", r.UserID, r.ItemID)
		}
	}
}

func TestLoadSeedData_FirstUser(t *testing.T) {
	data, err := LoadSeedData()
	if err != nil {
		t.Fatalf("LoadSeedData() error = %v", err)
	}
	if got := data.Users[0]; got.ID != 1 || got.Name != "Alice Johnson" {
		t.Errorf("Users[0] = %+v, want Alice Johnson", got)
	}
	if got := data.Items[0]; got.Name != "The Shawshank Redemption" || got.Category != "Drama" {
		t.Errorf("Items[0] = %+v, want The Shawshank Redemption", got)
	}
}
