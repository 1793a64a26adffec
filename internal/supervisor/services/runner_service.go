// Folio - Collaborative Document Viewing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package services

import "context"

// ContextRunner is satisfied by *session.Manager, *websocket.Hub and
// *presence.AuditConsumer.
type ContextRunner interface {
	RunWithContext(ctx context.Context) error
}

// RunnerService supervises a ContextRunner under a fixed name.
type RunnerService struct {
	runner ContextRunner
	name   string
}

// NewRunnerService creates a named wrapper around runner.
func NewRunnerService(name string, runner ContextRunner) *RunnerService {
	return &RunnerService{runner: runner, name: name}
}

// Serve implements suture.Service.
func (r *RunnerService) Serve(ctx context.Context) error {
	return r.runner.RunWithContext(ctx)
}

// String implements fmt.Stringer.
func (r *RunnerService) String() string {
	return r.name
}
