// Folio - Collaborative Document Viewing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package session

import "sort"

// Directory maps each group to its member connections.
// Not safe for concurrent use; owned by the Manager loop.
type Directory struct {
	groups map[GroupID]map[ConnID]struct{}
}

// NewDirectory creates an empty Directory.
func NewDirectory() *Directory {
	return &Directory{groups: make(map[GroupID]map[ConnID]struct{})}
}

// Join adds conn to group, creating the group if needed, and returns the
// updated member snapshot. Repeated joins are no-ops.
func (d *Directory) Join(group GroupID, conn ConnID) []ConnID {
	members, ok := d.groups[group]
	if !ok {
		members = make(map[ConnID]struct{})
		d.groups[group] = members
	}
	members[conn] = struct{}{}
	return sortedConns(members)
}

// Leave removes conn from group. The group entry is deleted once empty.
func (d *Directory) Leave(group GroupID, conn ConnID) {
	members, ok := d.groups[group]
	if !ok {
		return
	}
	delete(members, conn)
	if len(members) == 0 {
		delete(d.groups, group)
	}
}

// Members returns a sorted snapshot of group's members; nil for unknown groups.
func (d *Directory) Members(group GroupID) []ConnID {
	return sortedConns(d.groups[group])
}

// Contains reports whether conn is currently a member of group.
func (d *Directory) Contains(group GroupID, conn ConnID) bool {
	_, ok := d.groups[group][conn]
	return ok
}

// Len returns the number of non-empty groups.
func (d *Directory) Len() int {
	return len(d.groups)
}

// sortedConns gives fan-out a stable iteration order.
func sortedConns(set map[ConnID]struct{}) []ConnID {
	if len(set) == 0 {
		return nil
	}
	out := make([]ConnID, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
