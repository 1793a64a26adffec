// Folio - Collaborative Document Viewing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package websocket

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/tomtom215/folio/internal/logging"
	"github.com/tomtom215/folio/internal/session"
)

//nolint:gochecknoinits // init ensures consistent logging for tests
func init() {
	logging.Init(logging.Config{
		Level:  "info",
		Format: "console",
		Output: io.Discard,
	})
}

// setupHub creates and starts a hub that stops when the test ends.
func setupHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = hub.RunWithContext(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return hub
}

// createTestClient creates a client without a network connection.
func createTestClient(id session.ConnID, buffer int) *Client {
	return &Client{
		id:         id,
		send:       make(chan Message, buffer),
		registered: make(chan struct{}),
	}
}

func TestNewHub(t *testing.T) {
	hub := NewHub()

	checks := []struct {
		name   string
		check  bool
		errMsg string
	}{
		{"clients map", hub.clients != nil, "clients map not initialized"},
		{"Register channel", hub.Register != nil, "Register channel not initialized"},
		{"Unregister channel", hub.Unregister != nil, "Unregister channel not initialized"},
		{"empty clients", hub.GetClientCount() == 0, "clients map should be empty"},
	}

	for _, c := range checks {
		if !c.check {
			t.Error(c.errMsg)
		}
	}
}

func TestHub_RegisterAndSend(t *testing.T) {
	hub := setupHub(t)
	client := createTestClient("a", 4)

	if err := hub.register(client); err != nil {
		t.Fatalf("register: %v", err)
	}
	if hub.GetClientCount() != 1 {
		t.Fatalf("GetClientCount() = %d, want 1", hub.GetClientCount())
	}

	if err := hub.Send("a", session.Outbound{Name: session.OutPageChanged, Payload: 7}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	msg := <-client.send
	if msg.Type != "pageChanged" || msg.Data != 7 {
		t.Errorf("got %+v", msg)
	}
}

func TestHub_SendFailures(t *testing.T) {
	hub := setupHub(t)

	if err := hub.Send("ghost", session.Outbound{Name: "x"}); !errors.Is(err, ErrClientNotFound) {
		t.Errorf("Send to unknown = %v, want ErrClientNotFound", err)
	}

	client := createTestClient("slow", 1)
	if err := hub.register(client); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := hub.Send("slow", session.Outbound{Name: "x"}); err != nil {
		t.Fatalf("first Send: %v", err)
	}
	if err := hub.Send("slow", session.Outbound{Name: "x"}); !errors.Is(err, ErrBufferFull) {
		t.Errorf("second Send = %v, want ErrBufferFull", err)
	}
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	hub := setupHub(t)
	client := createTestClient("a", 1)
	if err := hub.register(client); err != nil {
		t.Fatalf("register: %v", err)
	}

	hub.unregister(client)

	select {
	case _, ok := <-client.send:
		if ok {
			t.Error("expected closed send channel")
		}
	case <-time.After(time.Second):
		t.Fatal("send channel not closed")
	}
	if err := hub.Send("a", session.Outbound{Name: "x"}); !errors.Is(err, ErrClientNotFound) {
		t.Errorf("Send after unregister = %v", err)
	}
}

func TestHub_ShutdownClosesClients(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- hub.RunWithContext(ctx) }()

	clients := []*Client{createTestClient("a", 1), createTestClient("b", 1)}
	for _, c := range clients {
		if err := hub.register(c); err != nil {
			t.Fatalf("register: %v", err)
		}
	}

	cancel()
	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Errorf("RunWithContext = %v, want context.Canceled", err)
	}
	for _, c := range clients {
		if _, ok := <-c.send; ok {
			t.Errorf("client %s still open after shutdown", c.id)
		}
	}

	if err := hub.register(createTestClient("late", 1)); !errors.Is(err, ErrHubStopped) {
		t.Errorf("register after shutdown = %v, want ErrHubStopped", err)
	}
	// must not block
	hub.unregister(clients[0])
}

func TestGetShutdownReason(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if got := getShutdownReason(ctx); got != ShutdownReasonContextCanceled {
		t.Errorf("canceled ctx reason = %s", got)
	}

	ctx, cancel = context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()
	if got := getShutdownReason(ctx); got != ShutdownReasonContextDeadline {
		t.Errorf("deadline ctx reason = %s", got)
	}
}
