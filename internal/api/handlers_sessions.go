// Folio - Collaborative Document Viewing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/folio/internal/models"
	"github.com/tomtom215/folio/internal/session"
	"github.com/tomtom215/folio/internal/validation"
)

// GroupMembers returns the member snapshot of a group. Unknown groups are
// not an error; they have no members.
func (h *Handler) GroupMembers(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !validation.ValidGroupID(id) {
		respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid group id", nil)
		return
	}

	members, err := h.sessions.Members(r.Context(), session.GroupID(id))
	if err != nil {
		h.respondSessionError(w, r, err)
		return
	}

	ids := make([]string, len(members))
	for i, m := range members {
		ids[i] = string(m)
	}
	respondJSON(w, r, http.StatusOK, models.Success(models.GroupMembers{
		GroupID: id,
		Members: ids,
		Count:   len(ids),
	}))
}

// Stats returns live connection and group counts.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.sessions.Stats(r.Context())
	if err != nil {
		h.respondSessionError(w, r, err)
		return
	}

	backend := ""
	if h.store != nil {
		backend = h.store.Backend()
	}
	respondJSON(w, r, http.StatusOK, models.Success(models.SessionStats{
		Connections:   stats.Connections,
		Groups:        stats.Groups,
		HubClients:    h.hub.GetClientCount(),
		UploadStore:   backend,
		UptimeSeconds: time.Since(h.startTime).Seconds(),
	}))
}

func (h *Handler) respondSessionError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, session.ErrStopped) {
		respondError(w, r, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Session manager is not running", err)
		return
	}
	respondError(w, r, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Session query failed", err)
}
