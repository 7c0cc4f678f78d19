// Reelrank - Collaborative Filtering Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

// Package eventprocessor carries rating events from the API to the
// recommendation engine over an in-process Watermill bus.
//
// # Flow
//
//	POST /api/v1/ratings
//	        │ store.AddRating
//	        ▼
//	  Publisher.PublishRatingAdded ──► gochannel topic "rating.added"
//	                                          │
//	                                          ▼
//	                         Router (Recoverer, Timeout, Retry)
//	                                          │
//	                                          ▼
//	                   InvalidationHandler ──► engine.Invalidate()
//
// The engine also notices store writes on its own through the data version,
// so the event path only shortens the window before the next request sees a
// rebuilt rating matrix and clears cached results eagerly.
//
// # Delivery
//
// The bus is a non-persistent gochannel: events published while no consumer
// is subscribed are dropped. Malformed payloads are acknowledged and counted
// as "dropped" so they are never redelivered.
//
// # Correlation
//
// The publisher copies the request's correlation ID into the message
// metadata (watermill's correlation_id key); the handler logs with it.
package eventprocessor
