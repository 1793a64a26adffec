// Folio - Collaborative Document Viewing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package presence

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"

	"github.com/tomtom215/folio/internal/config"
	"github.com/tomtom215/folio/internal/logging"
	"github.com/tomtom215/folio/internal/metrics"
	"github.com/tomtom215/folio/internal/session"
)

// Topic carries JSON encoded session.Transition values.
const Topic = "session.lifecycle"

// Metadata keys set on every published message.
const (
	MetadataTransition = "transition"
	MetadataGroup      = "group_id"
)

// NewBus creates the in-process pub/sub used for lifecycle events.
func NewBus(cfg config.PresenceConfig) *gochannel.GoChannel {
	return gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: cfg.BufferSize},
		logging.NewWatermillAdapter(),
	)
}

// Publisher adapts a Watermill publisher to session.Notifier.
type Publisher struct {
	pub message.Publisher
}

// NewPublisher returns a Notifier that publishes to Topic on pub.
func NewPublisher(pub message.Publisher) *Publisher {
	return &Publisher{pub: pub}
}

// Notify implements session.Notifier. Failures are logged and dropped.
func (p *Publisher) Notify(t session.Transition) {
	payload, err := json.Marshal(t)
	if err != nil {
		logging.Error().Err(err).Str("transition", string(t.Type)).Msg("Failed to encode lifecycle event")
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set(MetadataTransition, string(t.Type))
	if t.Group != "" {
		msg.Metadata.Set(MetadataGroup, string(t.Group))
	}

	if err := p.pub.Publish(Topic, msg); err != nil {
		logging.Warn().Err(err).Str("transition", string(t.Type)).Msg("Failed to publish lifecycle event")
		return
	}
	metrics.PresenceEvents.WithLabelValues("published", string(t.Type)).Inc()
}
