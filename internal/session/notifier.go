// Folio - Collaborative Document Viewing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package session

import "time"

// TransitionType names a connection lifecycle transition.
type TransitionType string

// Lifecycle transitions
const (
	TransitionConnected    TransitionType = "connected"
	TransitionJoined       TransitionType = "joined"
	TransitionLeft         TransitionType = "left"
	TransitionDisconnected TransitionType = "disconnected"
)

// Transition is one lifecycle change. Group is empty for connected and
// disconnected.
type Transition struct {
	Type  TransitionType `json:"type"`
	Conn  ConnID         `json:"conn_id"`
	Group GroupID        `json:"group_id,omitempty"`
	At    time.Time      `json:"at"`
}

// Notifier receives lifecycle transitions from the Manager loop.
// Notify runs on the manager goroutine and must return quickly.
type Notifier interface {
	Notify(t Transition)
}

// NopNotifier discards transitions.
type NopNotifier struct{}

// Notify does nothing.
func (NopNotifier) Notify(Transition) {}
