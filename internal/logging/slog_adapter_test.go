// Reelrank - Collaborative Filtering Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestSlogHandler_Levels(t *testing.T) {
	withGlobalLevel(t, zerolog.TraceLevel)

	tests := []struct {
		level slog.Level
		want  string
	}{
		{level: slog.LevelDebug, want: "debug"},
		{level: slog.LevelInfo, want: "info"},
		{level: slog.LevelWarn, want: "warn"},
		{level: slog.LevelError, want: "error"},
		{level: slog.LevelError + 4, want: "error"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(NewSlogHandler(NewTestLogger(&buf).Level(zerolog.DebugLevel)))

			logger.Log(context.Background(), tt.level, "supervisor event")

			entry := decodeLine(t, strings.TrimSpace(buf.String()))
			if entry["level"] != tt.want {
				t.Errorf("level = %v, want %s", entry["level"], tt.want)
			}
		})
	}
}

func TestSlogHandler_Enabled(t *testing.T) {
	h := NewSlogHandler(zerolog.New(nil).Level(zerolog.WarnLevel))

	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info enabled on warn logger")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Error("error disabled on warn logger")
	}
}

func TestSlogHandler_AttrsAndGroups(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewSlogHandler(NewTestLogger(&buf))).
		With("supervisor", "reelrank").
		WithGroup("service")

	logger.Info("service restarted",
		"name", "http-server",
		"restarts", 2,
		"backoff", 15*time.Second,
		"healthy", false,
		"err", errors.New("bind: address in use"),
		slog.Group("limits", "max", 5),
	)

	entry := decodeLine(t, strings.TrimSpace(buf.String()))

	checks := map[string]interface{}{
		"supervisor":         "reelrank",
		"service.name":       "http-server",
		"service.restarts":   float64(2),
		"service.healthy":    false,
		"service.err":        "bind: address in use",
		"service.limits.max": float64(5),
	}
	for key, want := range checks {
		if got := entry[key]; got != want {
			t.Errorf("%s = %v, want %v", key, got, want)
		}
	}
	if _, ok := entry["service.backoff"]; !ok {
		t.Error("duration attribute missing")
	}
}

func TestNewSlogLogger_Component(t *testing.T) {
	buf := captureGlobal(t, Config{Level: "info", Format: "json"})

	NewSlogLogger("supervisor").Info("tree started")

	entry := decodeLine(t, strings.TrimSpace(buf.String()))
	if entry["component"] != "supervisor" {
		t.Errorf("component = %v, want supervisor", entry["component"])
	}
}
