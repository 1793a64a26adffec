// Folio - Collaborative Document Viewing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/folio/internal/models"
	"github.com/tomtom215/folio/internal/storage"
)

// readyProbeTimeout bounds the session manager round trip in HealthReady.
const readyProbeTimeout = 2 * time.Second

// HealthLive returns 200 while the process is serving HTTP.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, models.Success(models.HealthStatus{
		Alive:  true,
		Uptime: time.Since(h.startTime).Seconds(),
	}))
}

// HealthReady returns 200 only when the session manager answers and the
// upload store reports healthy; otherwise 503.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyProbeTimeout)
	defer cancel()

	_, err := h.sessions.Stats(ctx)
	sessionsReady := err == nil
	storageReady := h.store != nil && storage.Healthy(h.store)

	status := models.HealthStatus{
		Alive:         true,
		Ready:         sessionsReady && storageReady,
		SessionsReady: sessionsReady,
		StorageReady:  storageReady,
		Uptime:        time.Since(h.startTime).Seconds(),
	}

	code := http.StatusOK
	resp := models.Success(status)
	if !status.Ready {
		code = http.StatusServiceUnavailable
		resp.Status = "not_ready"
	}
	respondJSON(w, r, code, resp)
}
