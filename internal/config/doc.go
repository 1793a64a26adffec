// Folio - Collaborative Document Viewing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

/*
Package config provides centralized configuration management for Folio.

Configuration is layered with Koanf v2:

 1. Defaults from defaultConfig()
 2. Optional YAML file (CONFIG_PATH, then config.yaml, /etc/folio/config.yaml)
 3. Environment variables (highest priority)

# Environment Variables

Server:
  - PORT / HTTP_PORT: Listen port (default: 3000)
  - HTTP_HOST: Bind address (default: 0.0.0.0)
  - STATIC_DIR: Directory holding index.html and assets (default: ./public)
  - SHUTDOWN_TIMEOUT: Graceful shutdown budget (default: 10s)

Session:
  - PAGE_CHANGE_ECHO: Echo page changes back to the sender (default: false)
  - REQUIRE_MEMBERSHIP: Drop events from non-members (default: false)
  - ANNOUNCE_JOINS / ANNOUNCE_DEPARTURES: memberJoined / memberLeft fan-out
  - WS_RATE_LIMIT / WS_RATE_BURST: Inbound frames per second per connection

Upload:
  - UPLOAD_BACKEND: disk or s3 (default: disk)
  - UPLOAD_DIR: Disk store directory (default: ./uploads)
  - UPLOAD_MAX_SIZE: Max bytes per file (default: 50MB)
  - UPLOAD_FORM_FIELD: Multipart field name (default: pdf)
  - UPLOAD_ALLOWED_TYPES: Comma-separated MIME types (default: application/pdf)
  - S3_BUCKET, S3_REGION, S3_PREFIX, S3_ENDPOINT, S3_PUBLIC_URL

Security:
  - CORS_ORIGINS: Comma-separated allowed origins (default: *)
  - RATE_LIMIT_REQUESTS / RATE_LIMIT_WINDOW / DISABLE_RATE_LIMIT

Logging:
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER

Unknown environment variables are ignored.
*/
package config
