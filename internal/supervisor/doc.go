// Folio - Collaborative Document Viewing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

/*
Package supervisor runs Folio's long-lived services under a suture v4 tree.

	RootSupervisor ("folio")
	├── MessagingSupervisor ("messaging-layer")
	│   ├── session-manager
	│   ├── websocket-hub
	│   └── presence-consumer (if PRESENCE_ENABLED)
	└── APISupervisor ("api-layer")
	    └── http-server

Crashed services are restarted with suture's backoff; each layer counts its
own failures. Cancelling the root context stops everything, giving each
service TreeConfig.ShutdownTimeout to return.

Supervisor events (start, fail, backoff) are written through sutureslog,
which main wires to the zerolog global logger:

	tree := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddMessagingService(services.NewRunnerService("session-manager", manager))
	tree.AddAPIService(services.NewHTTPServerService(srv, cfg.Server.ShutdownTimeout))
	err := tree.Serve(ctx)

Service wrappers live in the services subpackage.
*/
package supervisor
