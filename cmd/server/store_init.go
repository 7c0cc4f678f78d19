// Reelrank - Collaborative Filtering Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/reelrank/internal/catalog"
	"github.com/tomtom215/reelrank/internal/config"
	"github.com/tomtom215/reelrank/internal/database"
	"github.com/tomtom215/reelrank/internal/logging"
)

const seedTimeout = 30 * time.Second

// openStore opens the catalog store selected by storage.backend.
func openStore(cfg *config.StorageConfig) (catalog.Store, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return catalog.NewMemoryStore(), nil

	case config.BackendBadger:
		store, err := catalog.NewBadgerStore(catalog.BadgerOptions{
			Path:   cfg.Path,
			Logger: logging.WithComponent("badger"),
		})
		if err != nil {
			return nil, fmt.Errorf("open badger store: %w", err)
		}
		return store, nil

	case config.BackendDuckDB:
		path := cfg.Path
		if path == "" {
			path = database.MemoryPath
		}
		db, err := database.New(database.Options{
			Path:      path,
			MaxMemory: cfg.DuckDBMaxMemory,
			Threads:   cfg.DuckDBThreads,
		})
		if err != nil {
			return nil, fmt.Errorf("open duckdb store: %w", err)
		}
		return db, nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// seedStore loads the bundled sample catalog when enabled and the store is empty.
func seedStore(store catalog.Store, enabled bool) error {
	if !enabled {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), seedTimeout)
	defer cancel()

	if _, err := catalog.Seed(ctx, store); err != nil {
		return fmt.Errorf("seed %s store: %w", store.Backend(), err)
	}
	return nil
}
