// Folio - Collaborative Document Viewing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

/*
Package services adapts Folio components to suture.Service.

Two shapes cover every long-running component:

  - RunnerService wraps anything with RunWithContext(ctx) error: the session
    manager, the websocket hub and the presence audit consumer.
  - HTTPServerService turns ListenAndServe/Shutdown into a context-driven
    Serve with a bounded drain period.

Both implement fmt.Stringer so suture events carry a readable service name.

	tree.AddMessagingService(services.NewRunnerService("session-manager", manager))
	tree.AddAPIService(services.NewHTTPServerService(srv, cfg.Server.ShutdownTimeout))
*/
package services
