// Folio - Collaborative Document Viewing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/tomtom215/folio/internal/api"
	"github.com/tomtom215/folio/internal/config"
	"github.com/tomtom215/folio/internal/logging"
	"github.com/tomtom215/folio/internal/presence"
	"github.com/tomtom215/folio/internal/session"
	"github.com/tomtom215/folio/internal/storage"
	"github.com/tomtom215/folio/internal/supervisor"
	"github.com/tomtom215/folio/internal/supervisor/services"
	ws "github.com/tomtom215/folio/internal/websocket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logging.Info().
		Str("addr", cfg.Server.Addr()).
		Str("upload_backend", cfg.Upload.Backend).
		Bool("presence", cfg.Presence.Enabled).
		Msg("Starting Folio")

	watchLogLevel()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(ctx, &cfg.Upload)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open upload store")
	}

	tree := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})

	hub := ws.NewHub()

	var notifier session.Notifier
	if cfg.Presence.Enabled {
		bus := presence.NewBus(cfg.Presence)
		defer closeBus(bus)
		notifier = presence.NewPublisher(bus)
		tree.AddMessagingService(services.NewRunnerService("presence-consumer", presence.NewAuditConsumer(bus)))
	}

	manager := session.NewManager(sessionConfig(&cfg.Session), hub, notifier)
	tree.AddMessagingService(services.NewRunnerService("session-manager", manager))
	tree.AddMessagingService(services.NewRunnerService("websocket-hub", hub))

	server := newHTTPServer(cfg, api.NewRouter(api.NewHandler(cfg, manager, hub, store)))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Folio stopped")
}

// sessionConfig maps the session section of the process config onto the manager.
func sessionConfig(c *config.SessionConfig) session.Config {
	return session.Config{
		PageChangeEcho:     c.PageChangeEcho,
		RequireMembership:  c.RequireMembership,
		AnnounceJoins:      c.AnnounceJoins,
		AnnounceDepartures: c.AnnounceDepartures,
		QueueSize:          c.QueueSize,
	}
}

func newHTTPServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           handler,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}
}

// watchLogLevel reapplies the log level whenever the active config file changes.
// Everything else needs a restart.
func watchLogLevel() {
	path := config.ActiveConfigFile()
	if path == "" {
		return
	}
	err := config.WatchConfigFile(path, func() {
		next, err := config.Load()
		if err != nil {
			logging.Warn().Err(err).Str("file", path).Msg("Ignoring invalid config reload")
			return
		}
		logging.SetLevelString(next.Logging.Level)
		logging.Info().Str("level", next.Logging.Level).Msg("Log level reloaded")
	})
	if err != nil {
		logging.Warn().Err(err).Str("file", path).Msg("Config file watch disabled")
	}
}

func closeBus(bus *gochannel.GoChannel) {
	if err := bus.Close(); err != nil {
		logging.Warn().Err(err).Msg("Failed to close presence bus")
	}
}
