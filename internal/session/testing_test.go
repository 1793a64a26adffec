// Folio - Collaborative Document Viewing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package session

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/folio/internal/logging"
)

//nolint:gochecknoinits // init ensures consistent logging for tests
func init() {
	logging.Init(logging.Config{
		Level:  "info",
		Format: "console",
		Output: io.Discard,
	})
}

var errClosed = errors.New("connection closed")

type delivery struct {
	conn ConnID
	msg  Outbound
}

// recordingSender records every delivery and fails for conns in failing.
type recordingSender struct {
	mu         sync.Mutex
	deliveries []delivery
	failing    map[ConnID]bool
}

func newRecordingSender(failing ...ConnID) *recordingSender {
	s := &recordingSender{failing: make(map[ConnID]bool)}
	for _, c := range failing {
		s.failing[c] = true
	}
	return s
}

func (s *recordingSender) Send(conn ConnID, msg Outbound) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing[conn] {
		return errClosed
	}
	s.deliveries = append(s.deliveries, delivery{conn: conn, msg: msg})
	return nil
}

// received returns the messages delivered to conn, in order.
func (s *recordingSender) received(conn ConnID) []Outbound {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Outbound
	for _, d := range s.deliveries {
		if d.conn == conn {
			out = append(out, d.msg)
		}
	}
	return out
}

func (s *recordingSender) total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.deliveries)
}

// recordingNotifier collects transitions.
type recordingNotifier struct {
	mu          sync.Mutex
	transitions []Transition
}

func (n *recordingNotifier) Notify(t Transition) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.transitions = append(n.transitions, t)
}

func (n *recordingNotifier) types() []TransitionType {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]TransitionType, 0, len(n.transitions))
	for _, t := range n.transitions {
		out = append(out, t.Type)
	}
	return out
}

// startManager runs a Manager until the test ends.
func startManager(t *testing.T, cfg Config, sender Sender, notifier Notifier) *Manager {
	t.Helper()
	m := NewManager(cfg, sender, notifier)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = m.RunWithContext(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Error("manager did not stop")
		}
	})
	return m
}

// flush waits until every previously enqueued command has been applied.
func flush(t *testing.T, m *Manager) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if _, err := m.Stats(ctx); err != nil {
		t.Fatalf("Stats: %v", err)
	}
}

func mustNoErr(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
