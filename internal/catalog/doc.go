// Reelrank - Collaborative Filtering Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

/*
Package catalog stores users, items and ratings for the recommendation engine.

Every backend implements Store, which embeds recommend.DataProvider so a store
can be handed straight to recommend.NewEngine. Writes bump a monotonically
increasing data version; the engine compares versions to decide when its rating
matrix snapshot is stale.

Backends:

  - MemoryStore: process-local slices and maps, used by default and in tests
  - BadgerStore: durable key-value storage on dgraph-io/badger
  - database.DB (separate package): DuckDB tables for analytical workloads

Key layout (BadgerStore):

	user:<id>                   JSON recommend.User
	item:<id>                   JSON recommend.Item
	rating:<seq>                JSON recommend.Rating, seq is insertion order
	rating_user:<user>:<seq>    empty, secondary index for RatingsByUser
	meta:version                uint64 big-endian data version

IDs and sequence numbers are zero-padded to 20 digits so lexical key order
matches numeric order.

Seeding:

Seed loads the embedded sample catalog (10 users, 10 movies, 50 ratings) into a
store that has no users yet:

	store := catalog.NewMemoryStore()
	if _, err := catalog.Seed(ctx, store); err != nil {
	    return err
	}
*/
package catalog
