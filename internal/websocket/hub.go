// Folio - Collaborative Document Viewing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package websocket

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/tomtom215/folio/internal/logging"
	"github.com/tomtom215/folio/internal/metrics"
	"github.com/tomtom215/folio/internal/session"
)

// ShutdownReason identifies why the hub is shutting down.
type ShutdownReason string

const (
	// ShutdownReasonContextCanceled indicates the parent context was canceled.
	ShutdownReasonContextCanceled ShutdownReason = "context_canceled"

	// ShutdownReasonContextDeadline indicates the context deadline was exceeded.
	ShutdownReasonContextDeadline ShutdownReason = "context_deadline"
)

// Hub errors
var (
	ErrHubStopped     = errors.New("websocket: hub stopped")
	ErrClientNotFound = errors.New("websocket: client not connected")
	ErrBufferFull     = errors.New("websocket: client send buffer full")
)

// Hub tracks live clients by connection id and delivers messages to them.
// It implements session.Sender.
type Hub struct {
	clients    map[session.ConnID]*Client
	Register   chan *Client
	Unregister chan *Client
	done       chan struct{}
	doneOnce   sync.Once
	mu         sync.RWMutex
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[session.ConnID]*Client),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// RunWithContext processes client lifecycle events until ctx is canceled,
// then closes every client and returns ctx.Err(). Designed for suture.
//
// Lifecycle events are drained before a blocking wait so that a pending
// unregister is never starved by a burst of registrations.
func (h *Hub) RunWithContext(ctx context.Context) error {
	for {
		// Priority 1: shutdown
		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()
		default:
		}

		// Priority 2: unregister before register
		select {
		case client := <-h.Unregister:
			h.remove(client)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()
		case client := <-h.Unregister:
			h.remove(client)
		case client := <-h.Register:
			h.add(client)
		}
	}
}

func (h *Hub) add(client *Client) {
	h.mu.Lock()
	h.clients[client.id] = client
	total := len(h.clients)
	h.mu.Unlock()
	close(client.registered)

	metrics.WSConnections.Set(float64(total))
	logging.Info().
		Str("conn_id", string(client.id)).
		Int("total_clients", total).
		Msg("websocket client connected")
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	if existing, ok := h.clients[client.id]; ok && existing == client {
		delete(h.clients, client.id)
		close(client.send)
	}
	total := len(h.clients)
	h.mu.Unlock()

	metrics.WSConnections.Set(float64(total))
	logging.Info().
		Str("conn_id", string(client.id)).
		Int("total_clients", total).
		Msg("websocket client disconnected")
}

// register hands client to the hub loop and waits until it is addressable.
func (h *Hub) register(client *Client) error {
	select {
	case h.Register <- client:
		<-client.registered
		return nil
	case <-h.done:
		return ErrHubStopped
	}
}

// unregister hands client to the hub loop. After shutdown it is a no-op:
// shutdown already closed every client.
func (h *Hub) unregister(client *Client) {
	select {
	case h.Unregister <- client:
	case <-h.done:
	}
}

// shutdown closes all clients and logs why.
func (h *Hub) shutdown(ctx context.Context) {
	h.doneOnce.Do(func() { close(h.done) })
	clientCount := h.GetClientCount()
	h.closeAllClients()

	logging.Info().
		Str("component", "websocket-hub").
		Str("reason", string(getShutdownReason(ctx))).
		Int("clients_closed", clientCount).
		Msg("websocket hub stopped")
}

func getShutdownReason(ctx context.Context) ShutdownReason {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ShutdownReasonContextDeadline
	}
	return ShutdownReasonContextCanceled
}

// closeAllClients closes clients in id order.
func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()

	ids := make([]session.ConnID, 0, len(h.clients))
	for id := range h.clients {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		close(h.clients[id].send)
		delete(h.clients, id)
	}
	metrics.WSConnections.Set(0)
}

// deliver enqueues msg for conn without blocking. The read lock keeps the
// send channel from being closed underneath us.
func (h *Hub) deliver(conn session.ConnID, msg Message) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	client, ok := h.clients[conn]
	if !ok {
		return ErrClientNotFound
	}
	select {
	case client.send <- msg:
		return nil
	default:
		metrics.WSErrors.WithLabelValues("buffer_full").Inc()
		return ErrBufferFull
	}
}

// Send implements session.Sender.
func (h *Hub) Send(conn session.ConnID, msg session.Outbound) error {
	return h.deliver(conn, Message{Type: msg.Name, Data: msg.Payload})
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
