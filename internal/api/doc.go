// Reelrank - Collaborative Filtering Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

/*
Package api provides the HTTP REST API for the reelrank service.

Every route lives under /api/v1 and answers with the models.APIResponse
envelope:

	{"status":"success","data":...,"metadata":{"timestamp":...}}
	{"status":"error","data":null,"error":{"code":"NOT_FOUND","message":...}}

# Endpoints

Health:
  - GET /api/v1/health/live: process liveness
  - GET /api/v1/health/ready: 200 once a rating snapshot can be served, 503 otherwise

Catalog:
  - GET /api/v1/users, GET /api/v1/users/{userID}
  - GET /api/v1/items, GET /api/v1/items/{itemID}
  - GET /api/v1/ratings, GET /api/v1/ratings/{userID}, GET /api/v1/ratings/{userID}/{itemID}
  - POST /api/v1/ratings

Recommendations:
  - GET /api/v1/recommendations/{userID}?n=5&mode=user|item
  - GET /api/v1/similar-users/{userID}?n=3
  - GET /api/v1/similar-items/{itemID}?n=4

Prometheus metrics are exposed at /metrics outside the versioned tree.

# Middleware

The chi router applies, in order: request IDs, RealIP, panic recovery, CORS
and the access log globally, then rate limiting, Prometheus instrumentation
and gzip compression on the /api/v1 tree. See chi_router.go.
*/
package api
