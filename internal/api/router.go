// Folio - Collaborative Document Viewing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package api

import (
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/folio/internal/config"
	"github.com/tomtom215/folio/internal/middleware"
	"github.com/tomtom215/folio/internal/storage"
)

// NewRouter builds the chi router for h.
func NewRouter(h *Handler) http.Handler {
	mw := NewChiMiddleware(h.config.Security)
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(mw.CORS())

	// Health and metrics
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(mw.RateLimitCustom(RateLimitHealth))
		r.Use(APISecurityHeaders())
		r.Get("/live", h.HealthLive)
		r.Get("/ready", h.HealthReady)
	})
	r.Handle("/metrics", promhttp.Handler())

	// Session queries
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(mw.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)
		r.Get("/groups/{id}", h.GroupMembers)
		r.Get("/stats", h.Stats)
	})

	// Document intake
	r.Group(func(r chi.Router) {
		r.Use(mw.RateLimitCustom(RateLimitUpload))
		r.Use(middleware.PrometheusMetrics)
		r.Post("/upload", h.Upload)
	})

	r.With(mw.RateLimitCustom(RateLimitWebSocket)).Get("/ws", h.WebSocket)

	// Static content
	static := h.config.Server.StaticDir
	r.Group(func(r chi.Router) {
		r.Use(chimiddleware.Compress(5, "text/html", "text/css", "application/javascript", "image/svg+xml"))
		r.Get("/", func(w http.ResponseWriter, req *http.Request) {
			http.ServeFile(w, req, filepath.Join(static, "index.html"))
		})
		r.Handle("/static/*", http.StripPrefix("/static/", fileServer(static)))
	})

	if h.config.Upload.Backend == config.BackendDisk {
		r.Handle(storage.DiskRefPrefix+"*", http.StripPrefix(storage.DiskRefPrefix, fileServer(h.config.Upload.Dir)))
	}

	return r
}
