// Folio - Collaborative Document Viewing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package session

import "errors"

// ConnID identifies one live transport connection. Opaque to this package.
type ConnID string

// GroupID is a caller-supplied collaborative session token.
type GroupID string

// Kind is the type of a routed event.
type Kind string

// Event kinds
const (
	KindJoin           Kind = "join"
	KindDocumentReady  Kind = "document_ready"
	KindRenderDocument Kind = "render_document"
	KindPageChange     Kind = "page_change"
	KindAnnotation     Kind = "annotation_stroke"
	KindMemberLeft     Kind = "member_left"
)

// Outbound message names as seen by clients.
const (
	OutNewDocument    = "newDocument"
	OutRenderDocument = "renderDocument"
	OutPageChanged    = "pageChanged"
	OutAnnotate       = "annotate"
	OutMemberJoined   = "memberJoined"
	OutMemberLeft     = "memberLeft"
)

// Errors returned by the Manager.
var (
	// ErrStopped is returned when a command is sent after the manager stopped.
	ErrStopped = errors.New("session: manager stopped")

	// ErrEmptyConnID is returned for commands without a connection id.
	ErrEmptyConnID = errors.New("session: empty connection id")

	// ErrEmptyGroupID is returned for commands without a group id.
	ErrEmptyGroupID = errors.New("session: empty group id")
)

// Event is one message submitted into a group. Payload is opaque to the router:
// a file reference, a page number or a stroke primitive.
type Event struct {
	Kind    Kind
	Group   GroupID
	Origin  ConnID // empty for server-originated events
	Payload interface{}
}

// Outbound is what a recipient receives: a message name and the payload.
type Outbound struct {
	Name    string
	Payload interface{}
}

// outboundName maps an event kind to the client-facing message name.
func outboundName(k Kind) string {
	switch k {
	case KindDocumentReady:
		return OutNewDocument
	case KindRenderDocument:
		return OutRenderDocument
	case KindPageChange:
		return OutPageChanged
	case KindAnnotation:
		return OutAnnotate
	case KindJoin:
		return OutMemberJoined
	case KindMemberLeft:
		return OutMemberLeft
	default:
		return string(k)
	}
}

// Message returns the outbound form of e.
func (e Event) Message() Outbound {
	return Outbound{Name: outboundName(e.Kind), Payload: e.Payload}
}
