// Folio - Collaborative Document Viewing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

/*
Package main is the entry point for the Folio server.

Folio lets a group of people look at the same PDF at the same time: one
member uploads or opens a document, and every page turn and annotation is
relayed to the rest of the group over a websocket.

# Application Architecture

The process is a Suture v4 supervisor tree:

	RootSupervisor ("folio")
	├── MessagingSupervisor ("messaging-layer")
	│   ├── Session Manager (group registry, directory, router)
	│   ├── WebSocket Hub (connection fan-out)
	│   └── Presence Consumer (optional, lifecycle audit log)
	└── APISupervisor ("api-layer")
	    └── HTTP Server (upload, websocket, health, static viewer)

Component initialization order:

 1. Configuration: Koanf v2 with defaults, config.yaml and environment variables
 2. Logging: zerolog, level hot-reloaded when the config file changes
 3. Upload store: local disk or S3, behind a circuit breaker
 4. Presence bus: Watermill gochannel for lifecycle transitions
 5. Session manager and websocket hub
 6. Chi router and HTTP server

# Configuration

Common environment variables:

	PORT=3000                 # HTTP listen port
	STATIC_DIR=./public       # viewer assets, index.html served at /
	UPLOAD_BACKEND=disk       # disk or s3
	UPLOAD_DIR=./uploads      # disk backend directory
	UPLOAD_MAX_SIZE=52428800  # bytes
	LOG_LEVEL=info
	LOG_FORMAT=json

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains
in-flight requests for SHUTDOWN_TIMEOUT, then the session manager
and hub stop and close every websocket.
*/
package main
