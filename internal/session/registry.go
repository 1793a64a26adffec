// Folio - Collaborative Document Viewing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package session

import "sort"

// Registry maps each live connection to the groups it currently belongs to.
// Not safe for concurrent use; owned by the Manager loop.
type Registry struct {
	conns map[ConnID]map[GroupID]struct{}
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{conns: make(map[ConnID]map[GroupID]struct{})}
}

// Register records a live connection. No-op if already present.
func (r *Registry) Register(id ConnID) {
	if _, ok := r.conns[id]; ok {
		return
	}
	r.conns[id] = make(map[GroupID]struct{})
}

// Unregister removes the connection and returns the groups it was in,
// sorted. Unknown ids return nil.
func (r *Registry) Unregister(id ConnID) []GroupID {
	groups, ok := r.conns[id]
	if !ok {
		return nil
	}
	delete(r.conns, id)
	return sortedGroups(groups)
}

// Has reports whether id is registered.
func (r *Registry) Has(id ConnID) bool {
	_, ok := r.conns[id]
	return ok
}

// AddMembership records that id joined group. Returns false if id is not registered.
func (r *Registry) AddMembership(id ConnID, group GroupID) bool {
	groups, ok := r.conns[id]
	if !ok {
		return false
	}
	groups[group] = struct{}{}
	return true
}

// RemoveMembership drops group from id's memberships.
func (r *Registry) RemoveMembership(id ConnID, group GroupID) {
	if groups, ok := r.conns[id]; ok {
		delete(groups, group)
	}
}

// Groups returns the sorted groups id belongs to.
func (r *Registry) Groups(id ConnID) []GroupID {
	return sortedGroups(r.conns[id])
}

// Len returns the number of registered connections.
func (r *Registry) Len() int {
	return len(r.conns)
}

func sortedGroups(set map[GroupID]struct{}) []GroupID {
	if len(set) == 0 {
		return nil
	}
	out := make([]GroupID, 0, len(set))
	for g := range set {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
