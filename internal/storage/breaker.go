// Folio - Collaborative Document Viewing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/folio/internal/logging"
	"github.com/tomtom215/folio/internal/metrics"
)

// BreakerSettings tunes the circuit breaker around a backend.
type BreakerSettings struct {
	Timeout     time.Duration // open -> half-open delay
	MinRequests uint32        // requests in the window before the ratio is considered
	FailureRate float64       // trip when failures/requests >= FailureRate
}

// BreakerStore fails fast while the wrapped backend keeps erroring.
type BreakerStore struct {
	next Store
	cb   *gobreaker.CircuitBreaker[string]
	name string
}

// NewBreakerStore wraps next with a circuit breaker named "upload-<backend>".
func NewBreakerStore(next Store, s BreakerSettings) *BreakerStore {
	name := "upload-" + next.Backend()

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     s.Timeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < s.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			if ratio >= s.FailureRate {
				logging.Warn().Str("breaker", name).Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", ratio*100).Msg("[CIRCUIT BREAKER] Opening circuit")
				return true
			}
			return false
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("[CIRCUIT BREAKER] State transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},

		IsSuccessful: func(err error) bool {
			return err == nil || isClientError(err)
		},
	})

	return &BreakerStore{next: next, cb: cb, name: name}
}

// Backend implements Store.
func (b *BreakerStore) Backend() string { return b.next.Backend() }

// State returns the current breaker state.
func (b *BreakerStore) State() gobreaker.State { return b.cb.State() }

// Healthy is false while the circuit is open or the backend reports trouble.
func (b *BreakerStore) Healthy() bool {
	return b.cb.State() != gobreaker.StateOpen && Healthy(b.next)
}

// Put implements Store.
func (b *BreakerStore) Put(ctx context.Context, name, contentType string, r io.Reader) (string, error) {
	ref, err := b.cb.Execute(func() (string, error) {
		return b.next.Put(ctx, name, contentType, r)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
			logging.Warn().Err(err).Str("breaker", b.name).Msg("[CIRCUIT BREAKER] Request rejected")
			return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		if isClientError(err) {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
		}
		return "", err
	}
	metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	return ref, nil
}

// isClientError reports rejections caused by the upload itself; they say
// nothing about backend health.
func isClientError(err error) bool {
	return errors.Is(err, ErrTooLarge) ||
		errors.Is(err, ErrUnsupportedType) ||
		errors.Is(err, ErrEmptyFile) ||
		errors.Is(err, context.Canceled)
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
