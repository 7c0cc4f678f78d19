// Reelrank - Collaborative Filtering Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package recommend

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid recommend config")

// Config holds all configuration for the recommendation engine.
type Config struct {
	// Neighbors is the number of similar users the predictor consults.
	// Default: 3.
	Neighbors int `json:"neighbors"`

	// SeedThreshold is the minimum rating that seeds item-based recommendations.
	// Default: 4.
	SeedThreshold float64 `json:"seed_threshold"`

	// MinCoRaters is the minimum co-rater count for item-item similarity.
	// Default: 2.
	MinCoRaters int `json:"min_co_raters"`

	// Limits bounds result sizes.
	Limits LimitsConfig `json:"limits"`

	// Cache configures the ranked-result cache.
	Cache CacheConfig `json:"cache"`

	// Breaker configures the circuit breaker around data provider loads.
	Breaker BreakerConfig `json:"breaker"`

	// LoadTimeout bounds a full catalog load from the data provider.
	// Default: 30s.
	LoadTimeout time.Duration `json:"load_timeout"`
}

// LimitsConfig contains default and maximum result counts per operation.
type LimitsConfig struct {
	// DefaultRecommendations is n for recommendations when the caller passes 0.
	// Default: 5.
	DefaultRecommendations int `json:"default_recommendations"`

	// DefaultSimilarUsers is k for similar users when the caller passes 0.
	// Default: 3.
	DefaultSimilarUsers int `json:"default_similar_users"`

	// DefaultSimilarItems is n for similar items when the caller passes 0.
	// Default: 4.
	DefaultSimilarItems int `json:"default_similar_items"`

	// MaxResults caps every requested count.
	// Default: 100.
	MaxResults int `json:"max_results"`
}

// CacheConfig contains result cache settings.
type CacheConfig struct {
	// Enabled turns result caching on or off.
	// Default: true.
	Enabled bool `json:"enabled"`

	// TTL is the cache entry time-to-live.
	// Default: 5m.
	TTL time.Duration `json:"ttl"`

	// MaxEntries is the maximum number of cached results.
	// Default: 10000.
	MaxEntries int `json:"max_entries"`
}

// BreakerConfig contains circuit breaker settings for provider loads.
type BreakerConfig struct {
	// MaxRequests is the number of trial loads allowed while half-open.
	// Default: 1.
	MaxRequests uint32 `json:"max_requests"`

	// Interval is the cyclic period after which closed-state counts reset.
	// Default: 1m.
	Interval time.Duration `json:"interval"`

	// Timeout is how long the breaker stays open before probing again.
	// Default: 30s.
	Timeout time.Duration `json:"timeout"`

	// FailureThreshold is the number of consecutive failures that opens the breaker.
	// Default: 5.
	FailureThreshold uint32 `json:"failure_threshold"`
}

// DefaultConfig returns a Config with the reference neighbourhood parameters.
func DefaultConfig() *Config {
	return &Config{
		Neighbors:     DefaultNeighbors,
		SeedThreshold: DefaultSeedThreshold,
		MinCoRaters:   DefaultMinCoRaters,
		Limits: LimitsConfig{
			DefaultRecommendations: 5,
			DefaultSimilarUsers:    3,
			DefaultSimilarItems:    4,
			MaxResults:             100,
		},
		Cache: CacheConfig{
			Enabled:    true,
			TTL:        5 * time.Minute,
			MaxEntries: 10000,
		},
		Breaker: BreakerConfig{
			MaxRequests:      1,
			Interval:         time.Minute,
			Timeout:          30 * time.Second,
			FailureThreshold: 5,
		},
		LoadTimeout: 30 * time.Second,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Neighbors < 1 {
		return fmt.Errorf("%w: neighbors must be positive, got %d", ErrInvalidConfig, c.Neighbors)
	}
	if c.SeedThreshold <= 0 {
		return fmt.Errorf("%w: seed_threshold must be positive, got %f", ErrInvalidConfig, c.SeedThreshold)
	}
	if c.MinCoRaters < 1 {
		return fmt.Errorf("%w: min_co_raters must be positive, got %d", ErrInvalidConfig, c.MinCoRaters)
	}

	if c.Limits.MaxResults < 1 {
		return fmt.Errorf("%w: limits.max_results must be positive, got %d", ErrInvalidConfig, c.Limits.MaxResults)
	}
	for name, v := range map[string]int{
		"default_recommendations": c.Limits.DefaultRecommendations,
		"default_similar_users":   c.Limits.DefaultSimilarUsers,
		"default_similar_items":   c.Limits.DefaultSimilarItems,
	} {
		if v < 1 || v > c.Limits.MaxResults {
			return fmt.Errorf("%w: limits.%s must be in [1, %d], got %d", ErrInvalidConfig, name, c.Limits.MaxResults, v)
		}
	}

	if c.Cache.Enabled {
		if c.Cache.TTL <= 0 {
			return fmt.Errorf("%w: cache.ttl must be positive, got %v", ErrInvalidConfig, c.Cache.TTL)
		}
		if c.Cache.MaxEntries < 1 {
			return fmt.Errorf("%w: cache.max_entries must be positive, got %d", ErrInvalidConfig, c.Cache.MaxEntries)
		}
	}

	if c.Breaker.FailureThreshold < 1 {
		return fmt.Errorf("%w: breaker.failure_threshold must be positive, got %d", ErrInvalidConfig, c.Breaker.FailureThreshold)
	}
	if c.Breaker.Timeout <= 0 {
		return fmt.Errorf("%w: breaker.timeout must be positive, got %v", ErrInvalidConfig, c.Breaker.Timeout)
	}

	if c.LoadTimeout <= 0 {
		return fmt.Errorf("%w: load_timeout must be positive, got %v", ErrInvalidConfig, c.LoadTimeout)
	}

	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	// All nested structs contain only value types.
	clone := *c
	return &clone
}

// clampCount resolves a requested count: 0 selects def, anything above max is capped.
func clampCount(requested, def, maxResults int) int {
	if requested <= 0 {
		requested = def
	}
	if requested > maxResults {
		requested = maxResults
	}
	return requested
}
