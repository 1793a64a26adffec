// Folio - Collaborative Document Viewing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package api

import (
	"context"
	"net/http"
	"time"

	gws "github.com/gorilla/websocket"

	"github.com/tomtom215/folio/internal/config"
	"github.com/tomtom215/folio/internal/logging"
	"github.com/tomtom215/folio/internal/session"
	"github.com/tomtom215/folio/internal/storage"
	ws "github.com/tomtom215/folio/internal/websocket"
)

// Sessions is the session manager surface the HTTP layer uses.
// Satisfied by *session.Manager.
type Sessions interface {
	ws.Sessions
	Members(ctx context.Context, group session.GroupID) ([]session.ConnID, error)
	Stats(ctx context.Context) (session.Stats, error)
}

// Handler holds the dependencies of every route.
type Handler struct {
	config    *config.Config
	sessions  Sessions
	hub       *ws.Hub
	store     storage.Store
	upgrader  gws.Upgrader
	startTime time.Time
}

// NewHandler wires a handler. store may be nil, which disables uploads.
func NewHandler(cfg *config.Config, sessions Sessions, hub *ws.Hub, store storage.Store) *Handler {
	h := &Handler{
		config:    cfg,
		sessions:  sessions,
		hub:       hub,
		store:     store,
		startTime: time.Now(),
	}
	h.upgrader = gws.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		HandshakeTimeout: 10 * time.Second,
		CheckOrigin:      h.checkWebSocketOrigin,
	}
	return h
}

// checkWebSocketOrigin allows any origin under a wildcard CORS policy
// (including non-browser clients without Origin) and otherwise requires an
// exact match.
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	if h.config.HasWildcardCORS() {
		return true
	}

	origin := r.Header.Get("Origin")
	if origin == "" {
		logging.Warn().Msg("WebSocket connection rejected: missing Origin header")
		return false
	}
	for _, allowed := range h.config.Security.CORSOrigins {
		if allowed == origin {
			return true
		}
	}

	logging.Warn().Str("origin", sanitizeLogValue(origin)).Msg("WebSocket connection rejected from unauthorized origin")
	return false
}
