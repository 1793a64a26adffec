// Folio - Collaborative Document Viewing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package session

import (
	"context"
	"sync"
	"time"

	"github.com/tomtom215/folio/internal/logging"
	"github.com/tomtom215/folio/internal/metrics"
)

// DefaultQueueSize is the command buffer used when Config.QueueSize is zero.
const DefaultQueueSize = 1024

// Config controls Manager behavior.
type Config struct {
	// PageChangeEcho delivers page changes back to their origin as well.
	PageChangeEcho bool

	// RequireMembership drops events whose origin is not a member of the
	// target group. Off by default: any connection may route into any group.
	RequireMembership bool

	// AnnounceJoins fans memberJoined(connId) out to existing members.
	AnnounceJoins bool

	// AnnounceDepartures fans memberLeft(connId) out to remaining members
	// on leave and disconnect.
	AnnounceDepartures bool

	// QueueSize bounds the command channel.
	QueueSize int
}

// Stats is a point-in-time view of the manager state.
type Stats struct {
	Connections int `json:"connections"`
	Groups      int `json:"groups"`
}

type opKind int

const (
	opConnect opKind = iota
	opDisconnect
	opJoin
	opLeave
	opSubmit
	opMembers
	opStats
)

type reply struct {
	result  Result
	members []ConnID
	stats   Stats
}

type command struct {
	op    opKind
	conn  ConnID
	group GroupID
	event Event
	reply chan reply // nil for fire-and-forget commands
}

// Manager is the single writer of the Registry and Directory. All commands
// go through one FIFO channel and are applied one at a time by
// RunWithContext.
type Manager struct {
	cfg       Config
	registry  *Registry
	directory *Directory
	router    *Router
	notifier  Notifier

	commands chan command
	stopped  chan struct{}
	stopOnce sync.Once
	now      func() time.Time
}

// NewManager creates a Manager delivering through sender. A nil notifier
// is replaced with NopNotifier.
func NewManager(cfg Config, sender Sender, notifier Notifier) *Manager {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultQueueSize
	}
	if notifier == nil {
		notifier = NopNotifier{}
	}

	directory := NewDirectory()
	policy := DefaultPolicy().WithPageChangeEcho(cfg.PageChangeEcho)

	return &Manager{
		cfg:       cfg,
		registry:  NewRegistry(),
		directory: directory,
		router:    NewRouter(directory, sender, policy),
		notifier:  notifier,
		commands:  make(chan command, cfg.QueueSize),
		stopped:   make(chan struct{}),
		now:       time.Now,
	}
}

// RunWithContext applies commands until ctx is cancelled. It implements
// suture.Service via the supervisor wrapper.
func (m *Manager) RunWithContext(ctx context.Context) error {
	logging.Info().
		Bool("page_change_echo", m.cfg.PageChangeEcho).
		Bool("require_membership", m.cfg.RequireMembership).
		Msg("Session manager started")

	for {
		select {
		case <-ctx.Done():
			m.stopOnce.Do(func() { close(m.stopped) })
			logging.Info().Msg("Session manager stopped")
			return ctx.Err()
		case cmd := <-m.commands:
			m.apply(cmd)
		}
	}
}

func (m *Manager) apply(cmd command) {
	var r reply

	switch cmd.op {
	case opConnect:
		m.handleConnect(cmd.conn)
	case opDisconnect:
		m.handleDisconnect(cmd.conn)
	case opJoin:
		m.handleJoin(cmd.conn, cmd.group)
	case opLeave:
		m.handleLeave(cmd.conn, cmd.group)
	case opSubmit:
		r.result = m.handleSubmit(cmd.event)
	case opMembers:
		r.members = m.directory.Members(cmd.group)
	case opStats:
		r.stats = Stats{Connections: m.registry.Len(), Groups: m.directory.Len()}
	}

	if cmd.reply != nil {
		cmd.reply <- r
	}
}

func (m *Manager) handleConnect(conn ConnID) {
	if m.registry.Has(conn) {
		return
	}
	m.registry.Register(conn)
	m.transition(TransitionConnected, conn, "")
}

func (m *Manager) handleDisconnect(conn ConnID) {
	if !m.registry.Has(conn) {
		return
	}
	groups := m.registry.Unregister(conn)
	for _, group := range groups {
		m.directory.Leave(group, conn)
		m.transition(TransitionLeft, conn, group)
		m.announceDeparture(conn, group)
	}
	m.transition(TransitionDisconnected, conn, "")

	logging.Debug().
		Str("conn_id", string(conn)).
		Int("groups", len(groups)).
		Msg("connection disconnected")
}

func (m *Manager) handleJoin(conn ConnID, group GroupID) {
	if !m.registry.AddMembership(conn, group) {
		logging.Debug().
			Str("conn_id", string(conn)).
			Str("group_id", string(group)).
			Msg("ignoring join from unregistered connection")
		return
	}
	if m.directory.Contains(group, conn) {
		return
	}
	members := m.directory.Join(group, conn)
	m.transition(TransitionJoined, conn, group)

	logging.Debug().
		Str("conn_id", string(conn)).
		Str("group_id", string(group)).
		Int("members", len(members)).
		Msg("group joined")

	if m.cfg.AnnounceJoins {
		m.router.Route(Event{Kind: KindJoin, Group: group, Origin: conn, Payload: string(conn)})
	}
}

func (m *Manager) handleLeave(conn ConnID, group GroupID) {
	if !m.directory.Contains(group, conn) {
		return
	}
	m.registry.RemoveMembership(conn, group)
	m.directory.Leave(group, conn)
	m.transition(TransitionLeft, conn, group)
	m.announceDeparture(conn, group)
}

func (m *Manager) announceDeparture(conn ConnID, group GroupID) {
	if !m.cfg.AnnounceDepartures {
		return
	}
	m.router.Route(Event{Kind: KindMemberLeft, Group: group, Origin: conn, Payload: string(conn)})
}

func (m *Manager) handleSubmit(ev Event) Result {
	if m.cfg.RequireMembership && ev.Origin != "" && !m.directory.Contains(ev.Group, ev.Origin) {
		metrics.EventsRejected.WithLabelValues("not_member").Inc()
		logging.Debug().
			Str("conn_id", string(ev.Origin)).
			Str("group_id", string(ev.Group)).
			Str("kind", string(ev.Kind)).
			Msg("dropping event from non-member")
		return Result{}
	}
	return m.router.Route(ev)
}

func (m *Manager) transition(t TransitionType, conn ConnID, group GroupID) {
	metrics.SessionTransitions.WithLabelValues(string(t)).Inc()
	metrics.SessionConnections.Set(float64(m.registry.Len()))
	metrics.SessionGroups.Set(float64(m.directory.Len()))
	m.notifier.Notify(Transition{Type: t, Conn: conn, Group: group, At: m.now()})
}

// enqueue hands cmd to the loop. Blocks while the queue is full.
func (m *Manager) enqueue(cmd command) error {
	select {
	case <-m.stopped:
		return ErrStopped
	default:
	}
	select {
	case m.commands <- cmd:
		return nil
	case <-m.stopped:
		return ErrStopped
	}
}

// request enqueues cmd and waits for its reply.
func (m *Manager) request(ctx context.Context, cmd command) (reply, error) {
	cmd.reply = make(chan reply, 1)
	if err := m.enqueue(cmd); err != nil {
		return reply{}, err
	}
	select {
	case r := <-cmd.reply:
		return r, nil
	case <-ctx.Done():
		return reply{}, ctx.Err()
	case <-m.stopped:
		return reply{}, ErrStopped
	}
}

// Connect registers a new live connection.
func (m *Manager) Connect(conn ConnID) error {
	if conn == "" {
		return ErrEmptyConnID
	}
	return m.enqueue(command{op: opConnect, conn: conn})
}

// Disconnect unregisters conn and removes it from every group it joined.
// Unknown connections are ignored.
func (m *Manager) Disconnect(conn ConnID) error {
	if conn == "" {
		return ErrEmptyConnID
	}
	return m.enqueue(command{op: opDisconnect, conn: conn})
}

// Join adds conn to group, creating the group if needed. Repeated joins are
// no-ops. Joins from connections that were never registered, or have
// already disconnected, are ignored.
func (m *Manager) Join(conn ConnID, group GroupID) error {
	if conn == "" {
		return ErrEmptyConnID
	}
	if group == "" {
		return ErrEmptyGroupID
	}
	return m.enqueue(command{op: opJoin, conn: conn, group: group})
}

// Leave removes conn from group.
func (m *Manager) Leave(conn ConnID, group GroupID) error {
	if conn == "" {
		return ErrEmptyConnID
	}
	if group == "" {
		return ErrEmptyGroupID
	}
	return m.enqueue(command{op: opLeave, conn: conn, group: group})
}

// Submit queues ev for routing without waiting for the fan-out.
func (m *Manager) Submit(ev Event) error {
	if ev.Group == "" {
		return ErrEmptyGroupID
	}
	err := m.enqueue(command{op: opSubmit, event: ev})
	if err != nil {
		metrics.EventsRejected.WithLabelValues("stopped").Inc()
		logging.Warn().
			Str("group_id", string(ev.Group)).
			Str("kind", string(ev.Kind)).
			Msg("dropping event submitted after shutdown")
	}
	return err
}

// SubmitAndWait routes ev and returns the fan-out result.
func (m *Manager) SubmitAndWait(ctx context.Context, ev Event) (Result, error) {
	if ev.Group == "" {
		return Result{}, ErrEmptyGroupID
	}
	r, err := m.request(ctx, command{op: opSubmit, event: ev})
	return r.result, err
}

// Members returns a snapshot of group's members, sorted. Unknown groups
// return an empty slice.
func (m *Manager) Members(ctx context.Context, group GroupID) ([]ConnID, error) {
	r, err := m.request(ctx, command{op: opMembers, group: group})
	return r.members, err
}

// Stats returns connection and group counts.
func (m *Manager) Stats(ctx context.Context) (Stats, error) {
	r, err := m.request(ctx, command{op: opStats})
	return r.stats, err
}
