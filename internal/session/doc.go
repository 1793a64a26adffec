// Folio - Collaborative Document Viewing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

/*
Package session tracks which connections belong to which collaborative group
and fans document, page and annotation events out to the right members.

Key Components:

  - Registry: connection id -> groups it belongs to (reverse index)
  - Directory: group id -> member connection ids
  - Router: snapshots a group's members and delivers one event to each,
    optionally skipping the origin
  - Manager: single-writer actor that owns Registry and Directory and
    serializes every lifecycle transition and route

Architecture:

	transport (websocket)          Manager goroutine
	┌──────────────┐  commands   ┌────────────────────────┐
	│ read pump A  │────────────▶│ Registry   Directory   │
	│ read pump B  │────────────▶│        Router ─────────┼──▶ Sender.Send(conn, msg)
	└──────────────┘   (FIFO)    └────────────────────────┘

Registry and Directory are not safe for concurrent use on their own. They are
only ever touched from the Manager loop, so no reaction can observe a partial
join, leave or disconnect. Events are routed in the order they are submitted,
which keeps one origin's events in order for every common recipient.

Delivery is fire-and-forget. A Sender error for one recipient is recorded in
the Result and never stops delivery to the others.

Group ids are free-form client tokens. Joining an unknown group creates it,
routing to an unknown group reaches nobody, and a group is dropped as soon as
its last member leaves.
*/
package session
