// Reelrank - Collaborative Filtering Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/reelrank/internal/catalog"
	"github.com/tomtom215/reelrank/internal/models"
	"github.com/tomtom215/reelrank/internal/recommend"
)

// TestHealthLive_MethodNotAllowed tests HealthLive with invalid HTTP methods
func TestHealthLive_MethodNotAllowed(t *testing.T) {
	t.Parallel()

	handler := &Handler{startTime: time.Now()}

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			req := httptest.NewRequest(method, "/api/v1/health/live", nil)
			w := httptest.NewRecorder()

			handler.HealthLive(w, req)

			if w.Code != http.StatusMethodNotAllowed {
				t.Errorf("Expected status 405 for %s, got %d", method, w.Code)
			}
		})
	}
}

// TestHealthLive_Success tests successful liveness check
func TestHealthLive_Success(t *testing.T) {
	t.Parallel()

	handler := &Handler{startTime: time.Now().Add(-1 * time.Hour)}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health/live", nil)
	w := httptest.NewRecorder()

	handler.HealthLive(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	env := decode[map[string]interface{}](t, w)
	if alive, _ := env.Data["alive"].(bool); !alive {
		t.Errorf("alive = %v, want true", env.Data["alive"])
	}
	if uptime, _ := env.Data["uptime"].(float64); uptime < 3600 {
		t.Errorf("uptime = %v, want >= 3600", uptime)
	}
}

func TestHealthReady_Seeded(t *testing.T) {
	srv := newTestServer(t, nil)

	w := srv.do(t, http.MethodGet, "/api/v1/health/ready", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", w.Code, w.Body.String())
	}

	env := decode[models.HealthResponse](t, w)
	if env.Data.Status != "ready" {
		t.Errorf("Status = %q, want ready", env.Data.Status)
	}
	if env.Data.Storage != catalog.BackendMemory {
		t.Errorf("Storage = %q, want %q", env.Data.Storage, catalog.BackendMemory)
	}
	if env.Data.Engine.Users != 10 || env.Data.Engine.Items != 10 || env.Data.Engine.Ratings != 50 {
		t.Errorf("Engine = %+v, want 10 users, 10 items, 50 ratings", env.Data.Engine)
	}
}

func TestHealthReady_NoEngine(t *testing.T) {
	t.Parallel()

	handler := &Handler{startTime: time.Now()}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health/ready", nil)
	w := httptest.NewRecorder()

	handler.HealthReady(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}
	if got := decode[models.HealthResponse](t, w).Data.Status; got != "not_ready" {
		t.Errorf("Status = %q, want not_ready", got)
	}
}

func TestHealthReady_ClosedStore(t *testing.T) {
	t.Parallel()

	store := catalog.NewMemoryStore()
	engine, err := recommend.NewEngine(store, recommend.DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	_ = store.Close()

	handler := NewHandler(store, engine, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health/ready", nil)
	w := httptest.NewRecorder()

	handler.HealthReady(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", w.Code)
	}
}
