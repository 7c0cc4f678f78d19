// Reelrank - Collaborative Filtering Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

/*
Package middleware provides HTTP middleware for the recommendation API.

Components:

  - RequestID: assigns or propagates X-Request-ID and seeds the logging context
  - PrometheusMetrics: request count, latency and in-flight gauge, labelled by
    chi route pattern
  - AccessLog: one structured zerolog entry per request, escalating slow
    requests to warn and 5xx responses to error

All middleware share the func(http.HandlerFunc) http.HandlerFunc shape. The API
router adapts them to chi with a small wrapper:

	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chiMiddleware(middleware.PrometheusMetrics))
	r.Use(chiMiddleware(middleware.AccessLog(500 * time.Millisecond)))

RequestID must run before AccessLog so log entries carry request_id and
correlation_id.
*/
package middleware
