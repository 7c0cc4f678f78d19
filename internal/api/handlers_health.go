// Reelrank - Collaborative Filtering Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/reelrank/internal/logging"
	"github.com/tomtom215/reelrank/internal/models"
)

const readinessTimeout = 5 * time.Second

// HealthLive handles liveness probe requests. It only reports that the
// process is serving HTTP.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"alive":  true,
			"uptime": time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// HealthReady handles readiness probe requests.
// Returns 200 once the store answers and a rating snapshot can be served,
// 503 otherwise.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	ready := h.store != nil && h.engine != nil
	storage := "unavailable"
	if ready {
		storage = h.store.Backend()
		if _, err := h.store.Version(ctx); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Msg("readiness: store unavailable")
			ready = false
		} else if !h.engine.Ready() {
			// Building on demand lets a cold process become ready on first probe.
			if _, err := h.engine.Snapshot(ctx); err != nil {
				logging.Ctx(ctx).Warn().Err(err).Msg("readiness: no rating snapshot")
				ready = false
			}
		}
	}

	resp := models.HealthResponse{
		Status:    "ready",
		Uptime:    time.Since(h.startTime).Seconds(),
		Storage:   storage,
		Timestamp: time.Now(),
	}
	if h.engine != nil {
		resp.Engine = h.engine.Stats()
	}

	status := http.StatusOK
	if !ready {
		status = http.StatusServiceUnavailable
		resp.Status = "not_ready"
	}

	respondJSON(w, status, &models.APIResponse{
		Status: "success",
		Data:   resp,
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}
