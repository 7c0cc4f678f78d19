// Reelrank - Collaborative Filtering Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadWithKoanf_Defaults(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, "")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf: %v", err)
	}

	if cfg.Server.Port != 5000 {
		t.Errorf("Server.Port = %d, want 5000", cfg.Server.Port)
	}
	if cfg.Storage.Backend != BackendMemory || !cfg.Storage.Seed {
		t.Errorf("Storage = %+v, want seeded memory store", cfg.Storage)
	}
	if cfg.Recommend.Neighbors != 3 || cfg.Recommend.DefaultRecommendations != 5 {
		t.Errorf("Recommend = %+v", cfg.Recommend)
	}
	if cfg.Recommend.CacheTTL != 5*time.Minute {
		t.Errorf("CacheTTL = %v, want 5m", cfg.Recommend.CacheTTL)
	}
	if diff := cmp.Diff([]string{"*"}, cfg.Security.CORSOrigins); diff != "" {
		t.Errorf("CORSOrigins mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadWithKoanf_EnvOverrides(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, "")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("STORAGE_BACKEND", "duckdb")
	t.Setenv("SEED_DATA", "false")
	t.Setenv("RECOMMEND_NEIGHBORS", "7")
	t.Setenv("RECOMMEND_SEED_THRESHOLD", "3.5")
	t.Setenv("RECOMMEND_CACHE_TTL", "45s")
	t.Setenv("RECOMMEND_BREAKER_FAILURE_THRESHOLD", "9")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Storage.Backend != BackendDuckDB || cfg.Storage.Seed {
		t.Errorf("Storage = %+v", cfg.Storage)
	}
	if cfg.Recommend.Neighbors != 7 || cfg.Recommend.SeedThreshold != 3.5 {
		t.Errorf("Recommend neighbours/threshold = %d/%v", cfg.Recommend.Neighbors, cfg.Recommend.SeedThreshold)
	}
	if cfg.Recommend.CacheTTL != 45*time.Second {
		t.Errorf("CacheTTL = %v, want 45s", cfg.Recommend.CacheTTL)
	}
	if cfg.Recommend.BreakerFailureThreshold != 9 {
		t.Errorf("BreakerFailureThreshold = %d, want 9", cfg.Recommend.BreakerFailureThreshold)
	}
	want := []string{"https://a.example", "https://b.example"}
	if diff := cmp.Diff(want, cfg.Security.CORSOrigins); diff != "" {
		t.Errorf("CORSOrigins mismatch (-want +got):\n%s", diff)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
}

func TestLoadWithKoanf_FileThenEnv(t *testing.T) {
	path := writeConfigFile(t, strings.Join([]string{
		"server:",
		"  port: 7000",
		"storage:",
		"  backend: badger",
		"  path: /tmp/reelrank-badger",
		"recommend:",
		"  neighbors: 4",
		"  max_results: 20",
		"security:",
		"  cors_origins:",
		"    - https://ui.example",
	}, "\n"))

	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("RECOMMEND_NEIGHBORS", "6")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf: %v", err)
	}

	if cfg.Server.Port != 7000 {
		t.Errorf("Server.Port = %d, want 7000 from file", cfg.Server.Port)
	}
	if cfg.Storage.Backend != BackendBadger || cfg.Storage.Path != "/tmp/reelrank-badger" {
		t.Errorf("Storage = %+v", cfg.Storage)
	}
	if cfg.Recommend.Neighbors != 6 {
		t.Errorf("Neighbors = %d, want env override 6", cfg.Recommend.Neighbors)
	}
	if cfg.Recommend.MaxResults != 20 {
		t.Errorf("MaxResults = %d, want 20", cfg.Recommend.MaxResults)
	}
	if diff := cmp.Diff([]string{"https://ui.example"}, cfg.Security.CORSOrigins); diff != "" {
		t.Errorf("CORSOrigins mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadWithKoanf_InvalidFails(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, "")
	t.Setenv("STORAGE_BACKEND", "postgres")

	if _, err := LoadWithKoanf(); err == nil {
		t.Fatal("LoadWithKoanf accepted an unknown backend")
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{key: "HTTP_PORT", want: "server.port"},
		{key: "storage_backend", want: "storage.backend"},
		{key: "RECOMMEND_DEFAULT_N", want: "recommend.default_recommendations"},
		{key: "PATH", want: ""},
		{key: "HOME", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := envTransformFunc(tt.key); got != tt.want {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}
