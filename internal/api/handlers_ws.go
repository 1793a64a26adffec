// Folio - Collaborative Document Viewing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package api

import (
	"net/http"

	"github.com/tomtom215/folio/internal/logging"
	ws "github.com/tomtom215/folio/internal/websocket"
)

// WebSocket upgrades the request and hands the connection to a session client.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		logging.Ctx(r.Context()).Debug().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	client := ws.NewClient(h.hub, h.sessions, conn, ws.ClientOptions{
		SendBuffer: h.config.Session.SendBuffer,
		RateLimit:  h.config.Session.RateLimit,
		RateBurst:  h.config.Session.RateBurst,
	})
	if err := client.Start(); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("WebSocket client rejected")
		return
	}
	logging.Ctx(r.Context()).Debug().Str("conn_id", string(client.ID())).Msg("WebSocket client connected")
}
