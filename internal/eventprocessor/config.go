// Reelrank - Collaborative Filtering Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package eventprocessor

import (
	"fmt"
	"time"
)

// Config holds bus and router settings.
type Config struct {
	// BufferSize is the gochannel output buffer per subscriber.
	BufferSize int64

	// HandlerTimeout bounds processing of a single message.
	HandlerTimeout time.Duration

	// CloseTimeout is how long to wait for handlers to finish when closing.
	CloseTimeout time.Duration

	// Retry configuration
	RetryMaxRetries      int
	RetryInitialInterval time.Duration
	RetryMaxInterval     time.Duration
	RetryMultiplier      float64
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		BufferSize:           256,
		HandlerTimeout:       10 * time.Second,
		CloseTimeout:         10 * time.Second,
		RetryMaxRetries:      3,
		RetryInitialInterval: 100 * time.Millisecond,
		RetryMaxInterval:     2 * time.Second,
		RetryMultiplier:      2.0,
	}
}

// Validate reports whether the configuration is usable.
func (c Config) Validate() error {
	if c.BufferSize < 1 {
		return fmt.Errorf("%w: buffer size must be positive, got %d", ErrInvalidConfig, c.BufferSize)
	}
	if c.HandlerTimeout <= 0 {
		return fmt.Errorf("%w: handler timeout must be positive, got %v", ErrInvalidConfig, c.HandlerTimeout)
	}
	if c.RetryMaxRetries < 0 {
		return fmt.Errorf("%w: retry max retries must be >= 0, got %d", ErrInvalidConfig, c.RetryMaxRetries)
	}
	return nil
}
