// Reelrank - Collaborative Filtering Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

// Package logging provides the process-wide zerolog logger for Reelrank.
//
// Every component derives its logger from the global one so that level,
// format and the service field are configured in a single place:
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	storeLog := logging.WithComponent("catalog")
//	storeLog.Info().Int("users", n).Msg("catalog seeded")
//
// # Request Scoping
//
// HTTP middleware stores a request ID and a short correlation ID on the request
// context. Ctx returns a logger carrying both:
//
//	logging.Ctx(r.Context()).Warn().Int("user_id", id).Msg("user not found")
//
// # Adapters
//
// Two adapters route third-party logging into zerolog:
//
//   - NewSlogLogger returns a *slog.Logger for the suture supervisor (via sutureslog).
//   - NewWatermillLogger returns a watermill.LoggerAdapter for the rating event bus.
//
// # Configuration
//
//	LOG_LEVEL   trace, debug, info, warn, error (default: info)
//	LOG_FORMAT  json, console (default: json)
//	LOG_CALLER  include caller file:line (default: false)
//
// Always terminate event chains with Msg or Send; an unterminated chain is never written.
package logging
