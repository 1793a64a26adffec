// Folio - Collaborative Document Viewing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

// Package presence publishes session lifecycle transitions (connected, joined,
// left, disconnected) on an in-process Watermill pub/sub topic.
//
// The session manager calls Publisher.Notify from its own goroutine, so
// publishing never blocks on consumers: the gochannel backend hands each
// message to subscribers asynchronously and drops it when nobody listens.
//
//	bus := presence.NewBus(cfg.Presence)
//	manager := session.NewManager(sessCfg, hub, presence.NewPublisher(bus))
//	consumer := presence.NewAuditConsumer(bus)
//	go consumer.RunWithContext(ctx)
package presence
