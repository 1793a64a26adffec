// Folio - Collaborative Document Viewing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package session

import (
	"github.com/tomtom215/folio/internal/logging"
	"github.com/tomtom215/folio/internal/metrics"
)

// Sender delivers one outbound message to one connection. It must not block:
// the transport is expected to enqueue and return an error when it cannot.
type Sender interface {
	Send(conn ConnID, msg Outbound) error
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(conn ConnID, msg Outbound) error

// Send calls f.
func (f SenderFunc) Send(conn ConnID, msg Outbound) error {
	return f(conn, msg)
}

// Policy decides, per event kind, whether the origin is skipped during fan-out.
type Policy struct {
	excludeOrigin map[Kind]bool
}

// DefaultPolicy excludes the origin for every client-originated kind: the
// sender already holds the state locally.
func DefaultPolicy() Policy {
	return Policy{excludeOrigin: map[Kind]bool{
		KindDocumentReady:  true,
		KindRenderDocument: true,
		KindPageChange:     true,
		KindAnnotation:     true,
		KindJoin:           true,
		KindMemberLeft:     true,
	}}
}

// WithExclusion returns a copy of p with the exclusion for kind set.
func (p Policy) WithExclusion(kind Kind, exclude bool) Policy {
	next := make(map[Kind]bool, len(p.excludeOrigin)+1)
	for k, v := range p.excludeOrigin {
		next[k] = v
	}
	next[kind] = exclude
	return Policy{excludeOrigin: next}
}

// WithPageChangeEcho returns a copy of p where page changes are echoed back
// to the origin (echo=true) or skip it (echo=false).
func (p Policy) WithPageChangeEcho(echo bool) Policy {
	return p.WithExclusion(KindPageChange, !echo)
}

// ExcludesOrigin reports whether events of kind skip their origin.
func (p Policy) ExcludesOrigin(kind Kind) bool {
	return p.excludeOrigin[kind]
}

// Result reports the outcome of one fan-out.
type Result struct {
	Delivered []ConnID
	Failed    []ConnID
}

// Recipients returns the number of connections delivery was attempted to.
func (r Result) Recipients() int {
	return len(r.Delivered) + len(r.Failed)
}

// Router fans events out to the members of their target group.
type Router struct {
	directory *Directory
	sender    Sender
	policy    Policy
}

// NewRouter creates a Router reading membership from directory.
func NewRouter(directory *Directory, sender Sender, policy Policy) *Router {
	return &Router{directory: directory, sender: sender, policy: policy}
}

// Route delivers ev to every current member of ev.Group, skipping the origin
// when the policy says so. Failed recipients are collected, not retried.
func (r *Router) Route(ev Event) Result {
	var res Result
	members := r.directory.Members(ev.Group)
	skipOrigin := ev.Origin != "" && r.policy.ExcludesOrigin(ev.Kind)
	msg := ev.Message()

	for _, conn := range members {
		if skipOrigin && conn == ev.Origin {
			continue
		}
		if err := r.sender.Send(conn, msg); err != nil {
			logging.Debug().
				Err(err).
				Str("conn_id", string(conn)).
				Str("group_id", string(ev.Group)).
				Str("kind", string(ev.Kind)).
				Msg("dropping recipient")
			res.Failed = append(res.Failed, conn)
			continue
		}
		res.Delivered = append(res.Delivered, conn)
	}

	metrics.RecordDelivery(string(ev.Kind), len(res.Delivered), len(res.Failed))
	return res
}
