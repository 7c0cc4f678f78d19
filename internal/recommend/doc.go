// Reelrank - Collaborative Filtering Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

// Package recommend implements memory-based collaborative filtering over explicit ratings.
//
// # Architecture
//
// The package is layered in two parts:
//
//   - A pure core: BuildRatingMatrix, FindSimilarUsers, Predictor, ItemRecommender
//     and SimilarItems. These functions perform no I/O, never mutate their inputs and
//     are safe to call concurrently on a shared *RatingMatrix.
//   - The Engine: a calling layer that loads catalogs through a DataProvider, memoizes
//     one RatingMatrix per data version and caches ranked results.
//
// # Sentinel Zero
//
// A zero cell in the rating matrix means "unrated". Ratings are expected to be strictly
// positive (1-5 in practice); a genuine rating of 0 cannot be represented.
//
// # Failure Model
//
// The core never returns errors. Unknown users or items, degenerate similarities and
// empty candidate sets all produce empty result slices. Callers that need to
// distinguish "unknown user" from "no recommendations" consult the catalog directly.
//
// # Usage
//
//	matrix := recommend.BuildRatingMatrix(ratings, users, items)
//
//	neighbors := recommend.FindSimilarUsers(matrix, userID, 3)
//	predicted := recommend.NewPredictor(3).Predict(matrix, userID, 5)
//	similar := recommend.NewItemRecommender(4, 2).Recommend(matrix, userID, 5)
//
// # Thread Safety
//
// RatingMatrix is immutable after construction. The Engine is safe for concurrent use;
// snapshot rebuilds are collapsed with singleflight so concurrent readers share one load.
package recommend
