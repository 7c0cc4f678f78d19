// Reelrank - Collaborative Filtering Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

/*
Package metrics provides Prometheus metrics for the reelrank service.

All collectors are registered on the default registry through promauto and
exposed at /metrics in Prometheus text format:

	curl http://localhost:5000/metrics

# Available Metrics

API Metrics:
  - api_requests_total: Requests by method, endpoint and status_code (counter)
  - api_request_duration_seconds: Request latency by method and endpoint (histogram)
  - api_active_requests: In-flight requests (gauge)

The endpoint label is the chi route pattern, not the raw path, so
/api/v1/recommendations/{userID} is one series regardless of user.

Store Metrics:
  - store_query_duration_seconds: Catalog operation latency by backend and operation
  - store_query_errors_total: Failed catalog operations by backend and operation

ErrNotFound is not counted as a failure.

Recommendation Metrics:
  - recommend_requests_total, recommend_empty_results_total: by mode
  - recommend_result_size, recommend_duration_seconds: by mode
  - snapshot_builds_total: by result (success, failure)
  - snapshot_build_duration_seconds
  - snapshot_users, snapshot_items, snapshot_ratings, snapshot_data_version

Cache Metrics:
  - cache_hits_total, cache_misses_total, cache_entries: by cache_type

Event Metrics:
  - events_published_total: by topic
  - events_consumed_total: by topic and result (ack, nack, dropped)

Circuit Breaker Metrics:
  - circuit_breaker_state: 0=closed, 1=half-open, 2=open
  - circuit_breaker_state_transitions_total: by name, from_state, to_state

Build Metrics:
  - app_info: constant 1 labelled with version and go_version

# Usage

	start := time.Now()
	snap, err := buildSnapshot(ctx)
	metrics.RecordSnapshotBuild(time.Since(start), snap.Version, users, items, ratings, err)
*/
package metrics
