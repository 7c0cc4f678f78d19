// Reelrank - Collaborative Filtering Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package config

import (
	"time"

	"github.com/tomtom215/reelrank/internal/recommend"
)

// Storage backends.
const (
	BackendMemory = "memory"
	BackendBadger = "badger"
	BackendDuckDB = "duckdb"
)

// Config holds all application configuration.
//
// Loading order (koanf v2):
//  1. Defaults from defaultConfig
//  2. Optional YAML file (CONFIG_PATH, then config.yaml / config.yml)
//  3. Environment variables, mapped through envTransformFunc
//
// Example:
//
//	cfg, err := config.LoadWithKoanf()
//	if err != nil {
//	    logging.Fatal().Err(err).Msg("invalid configuration")
//	}
//	engine, err := recommend.NewEngine(store, cfg.Recommend.EngineConfig(), logger)
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Storage   StorageConfig   `koanf:"storage"`
	Recommend RecommendConfig `koanf:"recommend"`
	Events    EventsConfig    `koanf:"events"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// StorageConfig selects and configures the catalog store.
//
// Path is a directory for badger and a database file for duckdb. An empty duckdb
// path opens an in-memory database.
type StorageConfig struct {
	Backend string `koanf:"backend"`
	Path    string `koanf:"path"`

	// Seed loads the bundled sample catalog into an empty store at startup.
	Seed bool `koanf:"seed"`

	// DuckDBMaxMemory is passed to DuckDB's max_memory setting, e.g. "1GB".
	DuckDBMaxMemory string `koanf:"duckdb_max_memory"`
	DuckDBThreads   int    `koanf:"duckdb_threads"`
}

// RecommendConfig configures the recommendation engine and its snapshot refresher.
type RecommendConfig struct {
	Neighbors     int     `koanf:"neighbors"`
	SeedThreshold float64 `koanf:"seed_threshold"`
	MinCoRaters   int     `koanf:"min_co_raters"`

	DefaultRecommendations int `koanf:"default_recommendations"`
	DefaultSimilarUsers    int `koanf:"default_similar_users"`
	DefaultSimilarItems    int `koanf:"default_similar_items"`
	MaxResults             int `koanf:"max_results"`

	CacheEnabled    bool          `koanf:"cache_enabled"`
	CacheTTL        time.Duration `koanf:"cache_ttl"`
	CacheMaxEntries int           `koanf:"cache_max_entries"`

	// RefreshInterval is how often the background refresher checks the store
	// version. Zero disables the refresher.
	RefreshInterval time.Duration `koanf:"refresh_interval"`
	LoadTimeout     time.Duration `koanf:"load_timeout"`

	BreakerFailureThreshold uint32        `koanf:"breaker_failure_threshold"`
	BreakerTimeout          time.Duration `koanf:"breaker_timeout"`
	BreakerInterval         time.Duration `koanf:"breaker_interval"`
	BreakerMaxRequests      uint32        `koanf:"breaker_max_requests"`
}

// EngineConfig converts the flat settings into a recommend.Config.
func (r *RecommendConfig) EngineConfig() *recommend.Config {
	return &recommend.Config{
		Neighbors:     r.Neighbors,
		SeedThreshold: r.SeedThreshold,
		MinCoRaters:   r.MinCoRaters,
		Limits: recommend.LimitsConfig{
			DefaultRecommendations: r.DefaultRecommendations,
			DefaultSimilarUsers:    r.DefaultSimilarUsers,
			DefaultSimilarItems:    r.DefaultSimilarItems,
			MaxResults:             r.MaxResults,
		},
		Cache: recommend.CacheConfig{
			Enabled:    r.CacheEnabled,
			TTL:        r.CacheTTL,
			MaxEntries: r.CacheMaxEntries,
		},
		Breaker: recommend.BreakerConfig{
			MaxRequests:      r.BreakerMaxRequests,
			Interval:         r.BreakerInterval,
			Timeout:          r.BreakerTimeout,
			FailureThreshold: r.BreakerFailureThreshold,
		},
		LoadTimeout: r.LoadTimeout,
	}
}

// EventsConfig configures the in-process rating event bus.
type EventsConfig struct {
	Enabled bool `koanf:"enabled"`

	// BufferSize is the per-subscriber channel buffer.
	BufferSize int64 `koanf:"buffer_size"`

	// HandlerTimeout bounds processing of a single event.
	HandlerTimeout time.Duration `koanf:"handler_timeout"`
}

// SecurityConfig holds HTTP-facing protections.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig mirrors logging.Config for file and env loading.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}
