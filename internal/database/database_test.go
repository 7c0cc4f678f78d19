// Reelrank - Collaborative Filtering Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/tomtom215/reelrank/internal/catalog"
	"github.com/tomtom215/reelrank/internal/catalog/catalogtest"
	"github.com/tomtom215/reelrank/internal/recommend"
)

// setupTestDB creates a new in-memory test database.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(Options{Path: MemoryPath, MaxMemory: "256MB", Threads: 1})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return db
}

func TestDB_Store(t *testing.T) {
	catalogtest.RunStoreTests(t, func(t *testing.T) catalog.Store {
		return setupTestDB(t)
	})
}

func TestNew_RequiresPath(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Error("New() without path error = nil, want error")
	}
}

func TestNew_SchemaIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if err := db.createSchema(); err != nil {
		t.Fatalf("second createSchema() error = %v", err)
	}
	version, err := db.Version(context.Background())
	if err != nil {
		t.Fatalf("Version() error = %v", err)
	}
	if version != 0 {
		t.Errorf("Version() = %d after re-running schema, want 0", version)
	}
}

func TestDB_PersistsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "reelrank.duckdb")
	ctx := context.Background()

	db, err := New(Options{Path: path, Threads: 1})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := catalog.Seed(ctx, db); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := New(Options{Path: path, Threads: 1})
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer reopened.Close()

	users, err := reopened.Users(ctx)
	if err != nil {
		t.Fatalf("Users() error = %v", err)
	}
	if len(users) != 10 {
		t.Errorf("Users() after reopen = %d, want 10", len(users))
	}
}

func TestDB_TimestampPrecision(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	if err := db.PutUser(ctx, recommend.User{ID: 1, Name: "Alice"}); err != nil {
		t.Fatal(err)
	}
	if err := db.PutItem(ctx, recommend.Item{ID: 1, Name: "Inception", Category: "Sci-Fi"}); err != nil {
		t.Fatal(err)
	}

	ts := time.Date(2023, 2, 18, 12, 30, 45, 123456789, time.UTC)
	stored, err := db.AddRating(ctx, recommend.Rating{UserID: 1, ItemID: 1, Score: 5, Timestamp: ts})
	if err != nil {
		t.Fatalf("AddRating() error = %v", err)
	}

	got, err := db.GetRating(ctx, 1, 1)
	if err != nil {
		t.Fatalf("GetRating() error = %v", err)
	}
	if !got.Timestamp.Equal(stored.Timestamp) {
		t.Errorf("stored Timestamp = %v, returned %v; want equal", got.Timestamp, stored.Timestamp)
	}
}

func TestIsTransactionConflict(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("TransactionContext Error: Transaction conflict: cannot update"), true},
		{errors.New("Conflict on update!"), true},
		{errors.New("Catalog Error: table not found"), false},
	}
	for _, tt := range tests {
		if got := isTransactionConflict(tt.err); got != tt.want {
			t.Errorf("isTransactionConflict(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestDecodeList(t *testing.T) {
	got, err := decodeList("[]")
	if err != nil || got != nil {
		t.Errorf("decodeList([]) = %#v, %v; want nil, nil", got, err)
	}
	got, err = decodeList(`["Drama","Crime"]`)
	if err != nil || len(got) != 2 || got[1] != "Crime" {
		t.Errorf("decodeList() = %#v, %v", got, err)
	}
	if _, err := decodeList("not json"); err == nil {
		t.Error("decodeList(invalid) error = nil, want error")
	}
}
