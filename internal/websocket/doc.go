// Folio - Collaborative Document Viewing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

/*
Package websocket is the real-time transport for collaborative viewing.

It adapts gorilla/websocket connections to the session manager: each
connection gets a UUID connection id, inbound frames become lifecycle
commands or routed events, and the Hub delivers fan-out messages back to
individual connections.

Key Components:

  - Hub: connection id -> Client map; implements session.Sender
  - Client: one websocket connection with read/write goroutines
  - Decode: validates inbound frames and resolves legacy aliases

Architecture:

	browser ──frame──▶ Client.readPump ──Join/Submit──▶ session.Manager
	                                                         │
	browser ◀──frame── Client.writePump ◀── Hub.Send ◀───────┘

Each client has two goroutines:
  - readPump: reads frames, enforces the rate limit, signals disconnect on exit
  - writePump: writes queued messages and keepalive pings

Wire Format:

Every frame is a JSON object {"type": ..., "data": ...}.

	{"type":"joinGroup","data":"g1"}
	{"type":"pageChange","data":{"groupId":"g1","page":7}}
	{"type":"annotate","data":{"groupId":"g1","stroke":{"x":[1,2],"y":[3,4]}}}

Inbound: createGroup, joinGroup, leaveGroup, documentReady (uploadPdf),
renderDocument (renderPdf), pageChange, annotate (draw), ping.

Outbound: welcome, newDocument, renderDocument, pageChanged, annotate,
memberJoined, memberLeft, pong, error.

Delivery:

Hub.Send never blocks. A full send buffer or an already removed client is
reported to the router as a failed delivery and the message is dropped.

Configuration:

  - writeWait: 10 seconds (time allowed to write message)
  - pongWait: 60 seconds (time allowed to read pong)
  - pingPeriod: 54 seconds (ping interval, must be < pongWait)
  - maxMessageSize: 512 KB (max inbound frame)
*/
package websocket
