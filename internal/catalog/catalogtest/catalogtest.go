// Reelrank - Collaborative Filtering Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

// Package catalogtest holds a behavioural test suite shared by every
// catalog.Store implementation.
package catalogtest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/tomtom215/reelrank/internal/catalog"
	"github.com/tomtom215/reelrank/internal/recommend"
)

// Factory returns a fresh, empty store. The suite closes it.
type Factory func(t *testing.T) catalog.Store

// RunStoreTests exercises the Store contract against stores built by newStore.
func RunStoreTests(t *testing.T, newStore Factory) {
	t.Helper()

	tests := []struct {
		name string
		fn   func(t *testing.T, s catalog.Store)
	}{
		{"Empty", testEmpty},
		{"UsersAndItems", testUsersAndItems},
		{"ReplaceKeepsCount", testReplaceKeepsCount},
		{"AddRatingRequiresCatalogEntries", testAddRatingRequiresCatalogEntries},
		{"AddRatingTimestamps", testAddRatingTimestamps},
		{"RatingsOrderAndLookup", testRatingsOrderAndLookup},
		{"VersionBumpsOnWrite", testVersionBumpsOnWrite},
		{"Seed", testSeed},
		{"ConcurrentAddRating", testConcurrentAddRating},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore(t)
			t.Cleanup(func() { _ = s.Close() })
			tt.fn(t, s)
		})
	}
}

func mustPutUsers(t *testing.T, s catalog.Store, ids ...int) {
	t.Helper()
	for _, id := range ids {
		if err := s.PutUser(context.Background(), recommend.User{ID: id, Name: "user"}); err != nil {
			t.Fatalf("PutUser(%d) error = %v", id, err)
		}
	}
}

func mustPutItems(t *testing.T, s catalog.Store, ids ...int) {
	t.Helper()
	for _, id := range ids {
		if err := s.PutItem(context.Background(), recommend.Item{ID: id, Name: "item", Category: "Drama"}); err != nil {
			t.Fatalf("PutItem(%d) error = %v", id, err)
		}
	}
}

func mustAddRating(t *testing.T, s catalog.Store, userID, itemID int, score float64) recommend.Rating {
	t.Helper()
	r, err := s.AddRating(context.Background(), recommend.Rating{
		UserID:    userID,
		ItemID:    itemID,
		Score:     score,
		Timestamp: time.Date(2023, 1, itemID, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("AddRating(%d, %d) error = %v", userID, itemID, err)
	}
	return r
}

func testEmpty(t *testing.T, s catalog.Store) {
	ctx := context.Background()

	users, err := s.Users(ctx)
	if err != nil {
		t.Fatalf("Users() error = %v", err)
	}
	if len(users) != 0 {
		t.Errorf("Users() = %d entries, want 0", len(users))
	}

	ratings, err := s.RatingsByUser(ctx, 1)
	if err != nil {
		t.Fatalf("RatingsByUser() error = %v", err)
	}
	if ratings == nil || len(ratings) != 0 {
		t.Errorf("RatingsByUser() = %#v, want empty non-nil slice", ratings)
	}

	if _, err := s.GetUser(ctx, 1); !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("GetUser(missing) error = %v, want ErrNotFound", err)
	}
	if _, err := s.GetItem(ctx, 1); !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("GetItem(missing) error = %v, want ErrNotFound", err)
	}
	if _, err := s.GetRating(ctx, 1, 1); !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("GetRating(missing) error = %v, want ErrNotFound", err)
	}
}

func testUsersAndItems(t *testing.T, s catalog.Store) {
	ctx := context.Background()

	alice := recommend.User{ID: 1, Name: "Alice Johnson", Preferences: []string{"Drama", "Crime"}}
	bob := recommend.User{ID: 2, Name: "Bob Smith"}
	for _, u := range []recommend.User{alice, bob} {
		if err := s.PutUser(ctx, u); err != nil {
			t.Fatalf("PutUser() error = %v", err)
		}
	}

	movie := recommend.Item{
		ID:          1,
		Name:        "The Shawshank Redemption",
		Category:    "Drama",
		Description: "Two imprisoned men bond over a number of years.",
		Tags:        []string{"prison", "classic"},
		ImageURL:    "https://example.com/shawshank.jpg",
	}
	if err := s.PutItem(ctx, movie); err != nil {
		t.Fatalf("PutItem() error = %v", err)
	}

	got, err := s.GetUser(ctx, 1)
	if err != nil {
		t.Fatalf("GetUser() error = %v", err)
	}
	if diff := cmp.Diff(alice, got); diff != "" {
		t.Errorf("GetUser() mismatch (-want +got):\n%s", diff)
	}

	users, err := s.Users(ctx)
	if err != nil {
		t.Fatalf("Users() error = %v", err)
	}
	if diff := cmp.Diff([]recommend.User{alice, bob}, users); diff != "" {
		t.Errorf("Users() mismatch (-want +got):\n%s", diff)
	}

	gotItem, err := s.GetItem(ctx, 1)
	if err != nil {
		t.Fatalf("GetItem() error = %v", err)
	}
	if diff := cmp.Diff(movie, gotItem); diff != "" {
		t.Errorf("GetItem() mismatch (-want +got):\n%s", diff)
	}

	items, err := s.Items(ctx)
	if err != nil {
		t.Fatalf("Items() error = %v", err)
	}
	if len(items) != 1 {
		t.Errorf("Items() = %d entries, want 1", len(items))
	}
}

func testReplaceKeepsCount(t *testing.T, s catalog.Store) {
	ctx := context.Background()
	mustPutUsers(t, s, 1, 2)

	if err := s.PutUser(ctx, recommend.User{ID: 1, Name: "Renamed"}); err != nil {
		t.Fatalf("PutUser() error = %v", err)
	}

	users, err := s.Users(ctx)
	if err != nil {
		t.Fatalf("Users() error = %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("Users() = %d entries, want 2", len(users))
	}
	if users[0].ID != 1 || users[0].Name != "Renamed" {
		t.Errorf("Users()[0] = %+v, want renamed user 1 first", users[0])
	}
}

func testAddRatingRequiresCatalogEntries(t *testing.T, s catalog.Store) {
	ctx := context.Background()
	mustPutUsers(t, s, 1)
	mustPutItems(t, s, 1)

	before, err := s.Version(ctx)
	if err != nil {
		t.Fatalf("Version() error = %v", err)
	}

	cases := []recommend.Rating{
		{UserID: 99, ItemID: 1, Score: 4},
		{UserID: 1, ItemID: 99, Score: 4},
	}
	for _, r := range cases {
		if _, err := s.AddRating(ctx, r); !errors.Is(err, catalog.ErrNotFound) {
			t.Errorf("AddRating(%d, %d) error = %v, want ErrNotFound", r.UserID, r.ItemID, err)
		}
	}

	after, err := s.Version(ctx)
	if err != nil {
		t.Fatalf("Version() error = %v", err)
	}
	if after != before {
		t.Errorf("Version() = %d after rejected writes, want %d", after, before)
	}
}

func testAddRatingTimestamps(t *testing.T, s catalog.Store) {
	ctx := context.Background()
	mustPutUsers(t, s, 1)
	mustPutItems(t, s, 1, 2)

	start := time.Now().Add(-time.Second)
	stamped, err := s.AddRating(ctx, recommend.Rating{UserID: 1, ItemID: 1, Score: 5, Review: "Absolutely incredible."})
	if err != nil {
		t.Fatalf("AddRating() error = %v", err)
	}
	if stamped.Timestamp.Before(start) {
		t.Errorf("Timestamp = %v, want stamped with current time", stamped.Timestamp)
	}

	explicit := time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC)
	kept, err := s.AddRating(ctx, recommend.Rating{UserID: 1, ItemID: 2, Score: 4, Timestamp: explicit})
	if err != nil {
		t.Fatalf("AddRating() error = %v", err)
	}
	if !kept.Timestamp.Equal(explicit) {
		t.Errorf("Timestamp = %v, want %v", kept.Timestamp, explicit)
	}

	got, err := s.GetRating(ctx, 1, 2)
	if err != nil {
		t.Fatalf("GetRating() error = %v", err)
	}
	if !got.Timestamp.Equal(explicit) {
		t.Errorf("stored Timestamp = %v, want %v", got.Timestamp, explicit)
	}

	review, err := s.GetRating(ctx, 1, 1)
	if err != nil {
		t.Fatalf("GetRating() error = %v", err)
	}
	if review.Review != "Absolutely incredible." {
		t.Errorf("Review = %q, want stored review", review.Review)
	}
}

func testRatingsOrderAndLookup(t *testing.T, s catalog.Store) {
	ctx := context.Background()
	mustPutUsers(t, s, 1, 2)
	mustPutItems(t, s, 1, 2, 3)

	mustAddRating(t, s, 1, 1, 5)
	mustAddRating(t, s, 2, 1, 3)
	mustAddRating(t, s, 1, 2, 4)
	mustAddRating(t, s, 1, 1, 2) // re-rate: latest wins for lookups

	all, err := s.Ratings(ctx)
	if err != nil {
		t.Fatalf("Ratings() error = %v", err)
	}
	type pair struct {
		User, Item int
		Score      float64
	}
	var gotPairs []pair
	for _, r := range all {
		gotPairs = append(gotPairs, pair{r.UserID, r.ItemID, r.Score})
	}
	wantPairs := []pair{{1, 1, 5}, {2, 1, 3}, {1, 2, 4}, {1, 1, 2}}
	if diff := cmp.Diff(wantPairs, gotPairs); diff != "" {
		t.Errorf("Ratings() insertion order mismatch (-want +got):\n%s", diff)
	}

	byUser, err := s.RatingsByUser(ctx, 1)
	if err != nil {
		t.Fatalf("RatingsByUser() error = %v", err)
	}
	if len(byUser) != 3 {
		t.Errorf("RatingsByUser(1) = %d entries, want 3", len(byUser))
	}

	latest, err := s.GetRating(ctx, 1, 1)
	if err != nil {
		t.Fatalf("GetRating() error = %v", err)
	}
	if latest.Score != 2 {
		t.Errorf("GetRating(1, 1).Score = %v, want latest score 2", latest.Score)
	}

	if _, err := s.GetRating(ctx, 2, 3); !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("GetRating(unrated) error = %v, want ErrNotFound", err)
	}
}

func testVersionBumpsOnWrite(t *testing.T, s catalog.Store) {
	ctx := context.Background()

	v0, err := s.Version(ctx)
	if err != nil {
		t.Fatalf("Version() error = %v", err)
	}
	mustPutUsers(t, s, 1)
	v1, _ := s.Version(ctx)
	mustPutItems(t, s, 1)
	v2, _ := s.Version(ctx)
	mustAddRating(t, s, 1, 1, 4)
	v3, _ := s.Version(ctx)

	if !(v0 < v1 && v1 < v2 && v2 < v3) {
		t.Errorf("versions = %d, %d, %d, %d, want strictly increasing", v0, v1, v2, v3)
	}

	if _, err := s.Users(ctx); err != nil {
		t.Fatalf("Users() error = %v", err)
	}
	v4, _ := s.Version(ctx)
	if v4 != v3 {
		t.Errorf("Version() = %d after a read, want %d", v4, v3)
	}
}

func testSeed(t *testing.T, s catalog.Store) {
	ctx := context.Background()

	seeded, err := catalog.Seed(ctx, s)
	if err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	if !seeded {
		t.Fatal("Seed() = false on empty store, want true")
	}

	users, _ := s.Users(ctx)
	items, _ := s.Items(ctx)
	ratings, _ := s.Ratings(ctx)
	if len(users) != 10 || len(items) != 10 || len(ratings) != 50 {
		t.Errorf("seeded %d users, %d items, %d ratings, want 10, 10, 50", len(users), len(items), len(ratings))
	}

	again, err := catalog.Seed(ctx, s)
	if err != nil {
		t.Fatalf("second Seed() error = %v", err)
	}
	if again {
		t.Error("second Seed() = true, want false")
	}
	ratings, _ = s.Ratings(ctx)
	if len(ratings) != 50 {
		t.Errorf("ratings after second Seed() = %d, want 50", len(ratings))
	}
}

func testConcurrentAddRating(t *testing.T, s catalog.Store) {
	ctx := context.Background()
	mustPutUsers(t, s, 1, 2, 3, 4)
	mustPutItems(t, s, 1, 2, 3, 4, 5)

	before, _ := s.Version(ctx)

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for u := 1; u <= 4; u++ {
		for i := 1; i <= 5; i++ {
			wg.Add(1)
			go func(u, i int) {
				defer wg.Done()
				if _, err := s.AddRating(ctx, recommend.Rating{UserID: u, ItemID: i, Score: 3}); err != nil {
					errs <- err
				}
			}(u, i)
		}
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("AddRating() error = %v", err)
	}

	ratings, err := s.Ratings(ctx)
	if err != nil {
		t.Fatalf("Ratings() error = %v", err)
	}
	if len(ratings) != 20 {
		t.Errorf("Ratings() = %d entries, want 20", len(ratings))
	}

	after, _ := s.Version(ctx)
	if after-before != 20 {
		t.Errorf("version delta = %d, want 20", after-before)
	}
}
