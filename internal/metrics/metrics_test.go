// Reelrank - Collaborative Filtering Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

// TestRecordStoreQuery tests store operation metric recording
func TestRecordStoreQuery(t *testing.T) {
	tests := []struct {
		name      string
		backend   string
		operation string
		err       error
		wantErr   float64
	}{
		{name: "successful list", backend: "test_memory", operation: "list_users", wantErr: 0},
		{name: "failed insert", backend: "test_memory", operation: "add_rating", err: errors.New("disk full"), wantErr: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(StoreQueryErrors.WithLabelValues(tt.backend, tt.operation))
			RecordStoreQuery(tt.backend, tt.operation, 2*time.Millisecond, tt.err)
			after := testutil.ToFloat64(StoreQueryErrors.WithLabelValues(tt.backend, tt.operation))

			if got := after - before; got != tt.wantErr {
				t.Errorf("error counter delta = %v, want %v", got, tt.wantErr)
			}
		})
	}
}

// TestRecordAPIRequest tests API request metric recording
func TestRecordAPIRequest(t *testing.T) {
	counter := APIRequestsTotal.WithLabelValues("GET", "/api/v1/test-endpoint", "200")
	before := testutil.ToFloat64(counter)

	RecordAPIRequest("GET", "/api/v1/test-endpoint", "200", 15*time.Millisecond)
	RecordAPIRequest("GET", "/api/v1/test-endpoint", "200", 25*time.Millisecond)

	if got := testutil.ToFloat64(counter) - before; got != 2 {
		t.Errorf("api_requests_total delta = %v, want 2", got)
	}
}

// TestTrackActiveRequest verifies the gauge returns to its starting value
func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			TrackActiveRequest(true)
			TrackActiveRequest(false)
		}()
	}
	wg.Wait()

	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("api_active_requests = %v, want %v", got, before)
	}
}

func TestRecordRecommendation(t *testing.T) {
	tests := []struct {
		name      string
		mode      string
		results   int
		wantEmpty float64
	}{
		{name: "non-empty result", mode: "test_user_based", results: 3, wantEmpty: 0},
		{name: "empty result", mode: "test_item_based", results: 0, wantEmpty: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reqBefore := testutil.ToFloat64(RecommendRequests.WithLabelValues(tt.mode))
			emptyBefore := testutil.ToFloat64(RecommendEmptyResults.WithLabelValues(tt.mode))

			RecordRecommendation(tt.mode, tt.results, time.Millisecond)

			if got := testutil.ToFloat64(RecommendRequests.WithLabelValues(tt.mode)) - reqBefore; got != 1 {
				t.Errorf("recommend_requests_total delta = %v, want 1", got)
			}
			if got := testutil.ToFloat64(RecommendEmptyResults.WithLabelValues(tt.mode)) - emptyBefore; got != tt.wantEmpty {
				t.Errorf("recommend_empty_results_total delta = %v, want %v", got, tt.wantEmpty)
			}
		})
	}
}

func TestRecordSnapshotBuild(t *testing.T) {
	RecordSnapshotBuild(10*time.Millisecond, 7, 10, 12, 50, nil)

	if got := testutil.ToFloat64(SnapshotUsers); got != 10 {
		t.Errorf("snapshot_users = %v, want 10", got)
	}
	if got := testutil.ToFloat64(SnapshotItems); got != 12 {
		t.Errorf("snapshot_items = %v, want 12", got)
	}
	if got := testutil.ToFloat64(SnapshotRatings); got != 50 {
		t.Errorf("snapshot_ratings = %v, want 50", got)
	}
	if got := testutil.ToFloat64(SnapshotDataVersion); got != 7 {
		t.Errorf("snapshot_data_version = %v, want 7", got)
	}

	// A failed build must not overwrite the shape gauges.
	failuresBefore := testutil.ToFloat64(SnapshotBuilds.WithLabelValues("failure"))
	RecordSnapshotBuild(time.Millisecond, 8, 0, 0, 0, errors.New("store unavailable"))

	if got := testutil.ToFloat64(SnapshotUsers); got != 10 {
		t.Errorf("snapshot_users after failure = %v, want 10", got)
	}
	if got := testutil.ToFloat64(SnapshotBuilds.WithLabelValues("failure")) - failuresBefore; got != 1 {
		t.Errorf("failure builds delta = %v, want 1", got)
	}
}

func TestRecordCacheLookup(t *testing.T) {
	hitsBefore := testutil.ToFloat64(CacheHits.WithLabelValues("test_cache"))
	missesBefore := testutil.ToFloat64(CacheMisses.WithLabelValues("test_cache"))

	RecordCacheLookup("test_cache", true)
	RecordCacheLookup("test_cache", false)
	RecordCacheLookup("test_cache", false)

	if got := testutil.ToFloat64(CacheHits.WithLabelValues("test_cache")) - hitsBefore; got != 1 {
		t.Errorf("hits delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(CacheMisses.WithLabelValues("test_cache")) - missesBefore; got != 2 {
		t.Errorf("misses delta = %v, want 2", got)
	}
}

func TestRecordBreakerTransition(t *testing.T) {
	tests := []struct {
		to   string
		want float64
	}{
		{to: "open", want: 2},
		{to: "half-open", want: 1},
		{to: "closed", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.to, func(t *testing.T) {
			RecordBreakerTransition("test_breaker", "closed", tt.to)
			if got := testutil.ToFloat64(CircuitBreakerState.WithLabelValues("test_breaker")); got != tt.want {
				t.Errorf("circuit_breaker_state = %v, want %v", got, tt.want)
			}
		})
	}
}
