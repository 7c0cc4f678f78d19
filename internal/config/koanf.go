// Reelrank - Collaborative Filtering Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/reelrank/internal/recommend"
)

// DefaultConfigPaths are searched in order when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/reelrank/config.yaml",
	"/etc/reelrank/config.yml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	engine := recommend.DefaultConfig()

	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            5000,
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Storage: StorageConfig{
			Backend:         BackendMemory,
			Path:            "",
			Seed:            true,
			DuckDBMaxMemory: "1GB",
			DuckDBThreads:   0, // 0 = DuckDB default
		},
		Recommend: RecommendConfig{
			Neighbors:               engine.Neighbors,
			SeedThreshold:           engine.SeedThreshold,
			MinCoRaters:             engine.MinCoRaters,
			DefaultRecommendations:  engine.Limits.DefaultRecommendations,
			DefaultSimilarUsers:     engine.Limits.DefaultSimilarUsers,
			DefaultSimilarItems:     engine.Limits.DefaultSimilarItems,
			MaxResults:              engine.Limits.MaxResults,
			CacheEnabled:            engine.Cache.Enabled,
			CacheTTL:                engine.Cache.TTL,
			CacheMaxEntries:         engine.Cache.MaxEntries,
			RefreshInterval:         30 * time.Second,
			LoadTimeout:             engine.LoadTimeout,
			BreakerFailureThreshold: engine.Breaker.FailureThreshold,
			BreakerTimeout:          engine.Breaker.Timeout,
			BreakerInterval:         engine.Breaker.Interval,
			BreakerMaxRequests:      engine.Breaker.MaxRequests,
		},
		Events: EventsConfig{
			Enabled:        true,
			BufferSize:     256,
			HandlerTimeout: 10 * time.Second,
		},
		Security: SecurityConfig{
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads defaults, then the config file, then environment variables,
// and validates the result.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths accept comma-separated strings from the environment.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
// Variables not listed are ignored.
var envMappings = map[string]string{
	"http_host":             "server.host",
	"http_port":             "server.port",
	"http_timeout":          "server.timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",

	"storage_backend":   "storage.backend",
	"storage_path":      "storage.path",
	"seed_data":         "storage.seed",
	"duckdb_max_memory": "storage.duckdb_max_memory",
	"duckdb_threads":    "storage.duckdb_threads",

	"recommend_neighbors":                 "recommend.neighbors",
	"recommend_seed_threshold":            "recommend.seed_threshold",
	"recommend_min_co_raters":             "recommend.min_co_raters",
	"recommend_default_n":                 "recommend.default_recommendations",
	"recommend_default_similar_users":     "recommend.default_similar_users",
	"recommend_default_similar_items":     "recommend.default_similar_items",
	"recommend_max_results":               "recommend.max_results",
	"recommend_cache_enabled":             "recommend.cache_enabled",
	"recommend_cache_ttl":                 "recommend.cache_ttl",
	"recommend_cache_max_entries":         "recommend.cache_max_entries",
	"recommend_refresh_interval":          "recommend.refresh_interval",
	"recommend_load_timeout":              "recommend.load_timeout",
	"recommend_breaker_failure_threshold": "recommend.breaker_failure_threshold",
	"recommend_breaker_timeout":           "recommend.breaker_timeout",
	"recommend_breaker_interval":          "recommend.breaker_interval",
	"recommend_breaker_max_requests":      "recommend.breaker_max_requests",

	"events_enabled":         "events.enabled",
	"events_buffer_size":     "events.buffer_size",
	"events_handler_timeout": "events.handler_timeout",

	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc returns "" for unknown variables so koanf skips them.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
