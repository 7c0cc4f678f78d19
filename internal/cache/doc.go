// Reelrank - Collaborative Filtering Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

/*
Package cache provides a generic, thread-safe LRU cache with per-entry TTL.

The recommendation engine keeps computed results in an LRU keyed by mode,
subject, count and data version. A write to the catalog changes the version,
so stale entries are never served; Clear drops them eagerly on invalidation.

# Usage

	results := cache.NewLRU[Result](1000, 5*time.Minute)
	results.Add(key, res)
	if res, ok := results.Get(key); ok {
		return res
	}

Non-positive capacity or TTL falls back to 10000 entries and five minutes.

# Thread Safety

All methods take a single mutex; Get promotes the entry and therefore
needs the write lock.
*/
package cache
