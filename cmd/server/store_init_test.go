// Reelrank - Collaborative Filtering Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/reelrank/internal/config"
	"github.com/tomtom215/reelrank/internal/recommend"
)

func TestOpenStore_Backends(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.StorageConfig
		backend string
	}{
		{"memory", config.StorageConfig{Backend: config.BackendMemory}, "memory"},
		{"badger", config.StorageConfig{Backend: config.BackendBadger, Path: filepath.Join(t.TempDir(), "badger")}, "badger"},
		{"duckdb in memory", config.StorageConfig{Backend: config.BackendDuckDB, DuckDBMaxMemory: "256MB", DuckDBThreads: 1}, "duckdb"},
		{"duckdb file", config.StorageConfig{Backend: config.BackendDuckDB, Path: filepath.Join(t.TempDir(), "catalog.duckdb"), DuckDBThreads: 1}, "duckdb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := openStore(&tt.cfg)
			if err != nil {
				t.Fatalf("openStore() error = %v", err)
			}
			defer store.Close()

			if got := store.Backend(); got != tt.backend {
				t.Errorf("Backend() = %q, want %q", got, tt.backend)
			}

			if err := seedStore(store, true); err != nil {
				t.Fatalf("seedStore() error = %v", err)
			}
			users, err := store.Users(context.Background())
			if err != nil {
				t.Fatalf("Users() error = %v", err)
			}
			if len(users) != 10 {
				t.Errorf("seeded users = %d, want 10", len(users))
			}
		})
	}
}

func TestOpenStore_UnknownBackend(t *testing.T) {
	if _, err := openStore(&config.StorageConfig{Backend: "postgres"}); err == nil {
		t.Error("openStore() with unknown backend returned nil error")
	}
}

func TestSeedStore_Disabled(t *testing.T) {
	store, err := openStore(&config.StorageConfig{Backend: config.BackendMemory})
	if err != nil {
		t.Fatalf("openStore() error = %v", err)
	}
	defer store.Close()

	if err := seedStore(store, false); err != nil {
		t.Fatalf("seedStore() error = %v", err)
	}
	users, err := store.Users(context.Background())
	if err != nil {
		t.Fatalf("Users() error = %v", err)
	}
	if len(users) != 0 {
		t.Errorf("users = %d, want empty store", len(users))
	}
}

func TestInitEvents(t *testing.T) {
	store, err := openStore(&config.StorageConfig{Backend: config.BackendMemory})
	if err != nil {
		t.Fatalf("openStore() error = %v", err)
	}
	defer store.Close()

	engine, err := recommend.NewEngine(store, recommend.DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	t.Run("disabled", func(t *testing.T) {
		events, err := initEvents(&config.EventsConfig{Enabled: false}, engine)
		if err != nil {
			t.Fatalf("initEvents() error = %v", err)
		}
		if events != nil {
			t.Fatal("initEvents() returned components while disabled")
		}
		if pub := events.ratingPublisher(); pub != nil {
			t.Errorf("ratingPublisher() = %v, want nil interface", pub)
		}
		if err := events.Close(); err != nil {
			t.Errorf("Close() on nil components error = %v", err)
		}
	})

	t.Run("enabled", func(t *testing.T) {
		events, err := initEvents(&config.EventsConfig{Enabled: true, BufferSize: 16}, engine)
		if err != nil {
			t.Fatalf("initEvents() error = %v", err)
		}
		if events.ratingPublisher() == nil {
			t.Error("ratingPublisher() = nil with events enabled")
		}
		if events.consumer.String() != "rating-event-consumer" {
			t.Errorf("consumer = %q", events.consumer.String())
		}
		if err := events.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
}
