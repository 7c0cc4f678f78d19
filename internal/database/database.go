// Reelrank - Collaborative Filtering Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/tomtom215/reelrank/internal/logging"
)

// Backend is the metrics label and configuration name for this store.
const Backend = "duckdb"

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Options configures the DuckDB connection.
type Options struct {
	// Path is the database file, or ":memory:".
	Path string

	// MaxMemory caps DuckDB's buffer pool (e.g. "512MB"). Empty uses "1GB".
	MaxMemory string

	// Threads is DuckDB's worker thread count. Zero uses runtime.NumCPU().
	Threads int
}

// DB wraps the DuckDB connection and implements catalog.Store.
type DB struct {
	conn *sql.DB
	opts Options

	// writeMu serializes writers; every write updates the catalog_meta row.
	writeMu sync.Mutex
}

// New opens the database and creates the schema.
func New(opts Options) (*DB, error) {
	if opts.Path == "" {
		return nil, fmt.Errorf("duckdb path is required")
	}
	if opts.MaxMemory == "" {
		opts.MaxMemory = "1GB"
	}
	if opts.Threads <= 0 {
		opts.Threads = runtime.NumCPU()
	}

	// Ensure parent directory exists for database file
	if opts.Path != MemoryPath {
		dbDir := filepath.Dir(opts.Path)
		if dbDir != "" && dbDir != "." {
			if err := os.MkdirAll(dbDir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dbDir, err)
			}
		}
	}

	// Extensions are not needed; disable auto-install so startup never
	// reaches for the network.
	connStr := fmt.Sprintf("%s?access_mode=read_write&threads=%d&max_memory=%s&autoinstall_known_extensions=false&autoload_known_extensions=false",
		opts.Path, opts.Threads, opts.MaxMemory)

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := &DB{conn: conn, opts: opts}
	db.configureConnectionPool()

	if err := db.createSchema(); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	logging.Info().
		Str("path", opts.Path).
		Int("threads", opts.Threads).
		Str("max_memory", opts.MaxMemory).
		Msg("DuckDB catalog store opened")

	return db, nil
}

// configureConnectionPool sets connection pool parameters
func (db *DB) configureConnectionPool() {
	db.conn.SetMaxOpenConns(runtime.NumCPU())
	db.conn.SetMaxIdleConns(2)
	db.conn.SetConnMaxLifetime(time.Hour)
	db.conn.SetConnMaxIdleTime(5 * time.Minute)
}

// Conn returns the underlying SQL connection.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Backend implements catalog.Store.
func (db *DB) Backend() string {
	return Backend
}

// Close closes the connection pool.
func (db *DB) Close() error {
	if err := db.conn.Close(); err != nil {
		return fmt.Errorf("close duckdb: %w", err)
	}
	return nil
}
