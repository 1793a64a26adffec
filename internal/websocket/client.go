// Folio - Collaborative Document Viewing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package websocket

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/folio/internal/logging"
	"github.com/tomtom215/folio/internal/metrics"
	"github.com/tomtom215/folio/internal/session"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512 * 1024 // 512 KB

	defaultSendBuffer = 256
)

// Sessions is the part of the session manager a client drives.
type Sessions interface {
	Connect(conn session.ConnID) error
	Disconnect(conn session.ConnID) error
	Join(conn session.ConnID, group session.GroupID) error
	Leave(conn session.ConnID, group session.GroupID) error
	Submit(ev session.Event) error
}

// ClientOptions tunes per-connection limits. Zero values use defaults.
type ClientOptions struct {
	// SendBuffer is the outbound queue length.
	SendBuffer int

	// RateLimit is the sustained inbound frames per second; <= 0 disables limiting.
	RateLimit float64

	// RateBurst is the inbound burst size.
	RateBurst int
}

// Client is a middleman between the websocket connection and the session manager.
type Client struct {
	id       session.ConnID
	hub      *Hub
	sessions Sessions
	conn     *websocket.Conn
	send     chan Message
	limiter  *rate.Limiter
	log      zerolog.Logger

	registered chan struct{} // closed by the hub once the client is addressable
}

// NewClient creates a Client with a fresh UUID connection id.
func NewClient(hub *Hub, sessions Sessions, conn *websocket.Conn, opts ClientOptions) *Client {
	if opts.SendBuffer <= 0 {
		opts.SendBuffer = defaultSendBuffer
	}
	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}
	if opts.RateBurst <= 0 {
		opts.RateBurst = 1
	}

	id := session.ConnID(uuid.NewString())
	return &Client{
		id:       id,
		hub:      hub,
		sessions: sessions,
		conn:     conn,
		send:     make(chan Message, opts.SendBuffer),
		limiter:  rate.NewLimiter(limit, opts.RateBurst),
		log:      logging.With().Str("conn_id", string(id)).Logger(),

		registered: make(chan struct{}),
	}
}

// ID returns the connection id used for group membership.
func (c *Client) ID() session.ConnID {
	return c.id
}

// Start registers the client with the hub and the session manager, sends
// the welcome frame and starts the pumps. On error the connection is closed.
func (c *Client) Start() error {
	if err := c.hub.register(c); err != nil {
		_ = c.conn.Close()
		return err
	}
	if err := c.sessions.Connect(c.id); err != nil {
		c.hub.unregister(c)
		_ = c.conn.Close()
		return err
	}

	c.reply(Message{Type: MessageTypeWelcome, Data: WelcomeData{ConnID: string(c.id)}})

	go c.writePump()
	go c.readPump()
	return nil
}

// readPump pumps frames from the websocket connection into the session manager.
// Its exit is the disconnect signal for this connection.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		if err := c.sessions.Disconnect(c.id); err != nil && !errors.Is(err, session.ErrStopped) {
			c.log.Warn().Err(err).Msg("failed to signal disconnect")
		}
		_ = c.conn.Close() // best-effort cleanup
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.log.Error().Err(err).Msg("failed to set read deadline")
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.log.Error().Err(err).Msg("unexpected websocket close error")
			}
			return
		}

		if !c.limiter.Allow() {
			metrics.WSErrors.WithLabelValues("rate_limited").Inc()
			c.reply(Message{Type: MessageTypeError, Data: ErrorData{Code: CodeRateLimited, Message: "too many messages"}})
			continue
		}

		c.handle(raw)
	}
}

// handle decodes one frame and forwards it to the session manager.
func (c *Client) handle(raw []byte) {
	in, err := Decode(raw)
	if err != nil {
		var vf *ValidationFailure
		if errors.As(err, &vf) {
			metrics.WSErrors.WithLabelValues("validation").Inc()
		} else {
			metrics.WSErrors.WithLabelValues("decode").Inc()
		}
		c.log.Debug().Err(err).Msg("rejected frame")
		c.reply(errorMessage(err))
		return
	}
	metrics.WSMessagesReceived.WithLabelValues(in.Type).Inc()

	switch in.Type {
	case MessageTypePing:
		c.reply(Message{Type: MessageTypePong})
		return
	case TypeCreateGroup, TypeJoinGroup:
		err = c.sessions.Join(c.id, in.Group)
	case TypeLeaveGroup:
		err = c.sessions.Leave(c.id, in.Group)
	case TypeDocumentReady:
		err = c.submit(session.KindDocumentReady, in)
	case TypeRenderDocument:
		err = c.submit(session.KindRenderDocument, in)
	case TypePageChange:
		err = c.submit(session.KindPageChange, in)
	case TypeAnnotate:
		err = c.submit(session.KindAnnotation, in)
	}

	if errors.Is(err, session.ErrStopped) {
		c.log.Warn().Str("type", in.Type).Msg("Dropping frame, session manager stopped")
		c.reply(Message{Type: MessageTypeError, Data: ErrorData{Code: CodeUnavailable, Message: "server is shutting down"}})
	}
}

func (c *Client) submit(kind session.Kind, in Inbound) error {
	return c.sessions.Submit(session.Event{
		Kind:    kind,
		Group:   in.Group,
		Origin:  c.id,
		Payload: in.Payload,
	})
}

// reply sends a message to this client only, dropping it if the buffer is full.
func (c *Client) reply(msg Message) {
	if err := c.hub.deliver(c.id, msg); err != nil {
		c.log.Debug().Err(err).Str("type", msg.Type).Msg("dropping reply")
	}
}

// writePump pumps messages from the send queue to the websocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close() // best-effort cleanup
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.Error().Err(err).Msg("failed to set write deadline")
				return
			}

			if !ok {
				// The hub closed the channel
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}

			payload, err := MarshalMessage(message)
			if err != nil {
				c.log.Error().Err(err).Str("type", message.Type).Msg("failed to encode message")
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				metrics.WSErrors.WithLabelValues("write").Inc()
				c.log.Debug().Err(err).Msg("failed to write message")
				return
			}
			metrics.WSMessagesSent.Inc()

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.Error().Err(err).Msg("failed to set write deadline for ping")
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
