// Folio - Collaborative Document Viewing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

/*
Package api is Folio's HTTP surface, routed with chi.

Routes:

	GET  /                          index.html from server.static_dir
	GET  /static/*                  static assets
	GET  /uploads/*                 stored documents (disk backend only)
	POST /upload                    multipart upload, returns {"filePath": ref}
	GET  /ws                        websocket upgrade into a session connection
	GET  /api/v1/groups/{id}        current members of a group
	GET  /api/v1/stats              connection and group counts
	GET  /api/v1/health/live        liveness probe
	GET  /api/v1/health/ready       readiness probe (session manager + storage)
	GET  /metrics                   Prometheus exposition

Global middleware, in order: request id, access log, RealIP, Recoverer, CORS.
The /api/v1 and /upload routes add IP rate limiting (go-chi/httprate),
security headers and Prometheus instrumentation. /ws is rate limited on
upgrade only; frame rate limiting is per connection in internal/websocket.

When POST /upload carries a groupId form field, the stored reference is also
fanned out to that group as a server originated newDocument message, so every
member, including the uploader, loads it.

JSON endpoints under /api/v1 answer with models.APIResponse.
*/
package api
