// Folio - Collaborative Document Viewing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package presence

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"

	"github.com/tomtom215/folio/internal/logging"
	"github.com/tomtom215/folio/internal/metrics"
	"github.com/tomtom215/folio/internal/session"
)

// AuditConsumer writes every lifecycle transition to the log.
type AuditConsumer struct {
	sub     message.Subscriber
	handled atomic.Int64
	ready   chan struct{}
}

// NewAuditConsumer creates a consumer reading Topic from sub.
func NewAuditConsumer(sub message.Subscriber) *AuditConsumer {
	return &AuditConsumer{sub: sub, ready: make(chan struct{})}
}

// Handled returns the number of transitions processed so far.
func (c *AuditConsumer) Handled() int64 { return c.handled.Load() }

// Ready is closed once the subscription is active.
func (c *AuditConsumer) Ready() <-chan struct{} { return c.ready }

// RunWithContext consumes until ctx is cancelled.
func (c *AuditConsumer) RunWithContext(ctx context.Context) error {
	msgs, err := c.sub.Subscribe(ctx, Topic)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", Topic, err)
	}
	select {
	case <-c.ready:
	default:
		close(c.ready)
	}

	log := logging.With().Str("component", "presence").Logger()
	log.Info().Str("topic", Topic).Msg("Presence audit consumer started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Presence audit consumer stopped")
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			var t session.Transition
			if err := json.Unmarshal(msg.Payload, &t); err != nil {
				log.Warn().Err(err).Str("message_uuid", msg.UUID).Msg("Dropping malformed lifecycle event")
				msg.Ack()
				continue
			}

			ev := log.Info().Str("transition", string(t.Type)).Str("conn_id", string(t.Conn)).Time("at", t.At)
			if t.Group != "" {
				ev = ev.Str("group_id", string(t.Group))
			}
			ev.Msg("Session lifecycle")

			metrics.PresenceEvents.WithLabelValues("consumed", string(t.Type)).Inc()
			c.handled.Add(1)
			msg.Ack()
		}
	}
}
