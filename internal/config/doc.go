// Reelrank - Collaborative Filtering Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

// Package config loads Reelrank configuration with koanf v2.
//
// Values come from three layers, each overriding the previous one:
//
//  1. Built-in defaults (defaultConfig)
//  2. An optional YAML file: $CONFIG_PATH, config.yaml, config.yml, /etc/reelrank/config.yaml
//  3. Environment variables
//
// # Environment Variables
//
// Server:
//
//	HTTP_HOST, HTTP_PORT (default 5000), HTTP_TIMEOUT, HTTP_SHUTDOWN_TIMEOUT
//
// Storage:
//
//	STORAGE_BACKEND   memory | badger | duckdb (default memory)
//	STORAGE_PATH      badger directory or DuckDB file ("" = in-memory DuckDB)
//	SEED_DATA         load the sample catalog into an empty store (default true)
//	DUCKDB_MAX_MEMORY, DUCKDB_THREADS
//
// Recommendations:
//
//	RECOMMEND_NEIGHBORS (3), RECOMMEND_SEED_THRESHOLD (4), RECOMMEND_MIN_CO_RATERS (2)
//	RECOMMEND_DEFAULT_N (5), RECOMMEND_DEFAULT_SIMILAR_USERS (3), RECOMMEND_DEFAULT_SIMILAR_ITEMS (4)
//	RECOMMEND_MAX_RESULTS (100)
//	RECOMMEND_CACHE_ENABLED, RECOMMEND_CACHE_TTL, RECOMMEND_CACHE_MAX_ENTRIES
//	RECOMMEND_REFRESH_INTERVAL, RECOMMEND_LOAD_TIMEOUT
//	RECOMMEND_BREAKER_FAILURE_THRESHOLD, RECOMMEND_BREAKER_TIMEOUT,
//	RECOMMEND_BREAKER_INTERVAL, RECOMMEND_BREAKER_MAX_REQUESTS
//
// Events:
//
//	EVENTS_ENABLED, EVENTS_BUFFER_SIZE, EVENTS_HANDLER_TIMEOUT
//
// Security:
//
//	CORS_ORIGINS (comma-separated), RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT
//
// Logging:
//
//	LOG_LEVEL, LOG_FORMAT, LOG_CALLER
//
// # Example config.yaml
//
//	server:
//	  port: 8080
//	storage:
//	  backend: badger
//	  path: /data/reelrank
//	recommend:
//	  neighbors: 5
//	  cache_ttl: 10m
package config
