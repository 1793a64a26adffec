// Folio - Collaborative Document Viewing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

/*
Package middleware holds Folio's own HTTP middleware. Everything else in the
stack (RealIP, Recoverer, CORS, rate limiting, compression) comes from the chi
ecosystem and is assembled in internal/api.

  - RequestID: honours or mints X-Request-ID and stores it for logging.Ctx
  - AccessLog: one structured zerolog line per request
  - PrometheusMetrics: api_requests_total / api_request_duration_seconds,
    labelled by chi route pattern so path parameters do not explode
    cardinality

Order matters: RequestID must run before AccessLog so the log line carries
the id.

	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog)
	r.Use(middleware.PrometheusMetrics)
*/
package middleware
