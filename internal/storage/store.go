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
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/folio/internal/config"
	"github.com/tomtom215/folio/internal/metrics"
)

var (
	// ErrTooLarge is returned when the upload exceeds the configured size limit.
	ErrTooLarge = errors.New("storage: file too large")

	// ErrUnsupportedType is returned when the sniffed content type is not allowed.
	ErrUnsupportedType = errors.New("storage: unsupported content type")

	// ErrEmptyFile is returned for zero-length uploads.
	ErrEmptyFile = errors.New("storage: empty file")

	// ErrUnavailable is returned while the backend circuit breaker is open.
	ErrUnavailable = errors.New("storage: backend unavailable")
)

// Store persists a document and returns a reference clients can load it from.
type Store interface {
	Put(ctx context.Context, name, contentType string, r io.Reader) (string, error)
	Backend() string
}

// Healthy reports whether store can currently accept writes. Stores that do
// not track health are assumed healthy.
func Healthy(store Store) bool {
	if h, ok := store.(interface{ Healthy() bool }); ok {
		return h.Healthy()
	}
	return true
}

// Open builds the store described by cfg with type filtering, circuit
// breaking and metrics applied.
func Open(ctx context.Context, cfg *config.UploadConfig) (Store, error) {
	var backend Store
	switch cfg.Backend {
	case config.BackendDisk, "":
		disk, err := NewDiskStore(cfg.Dir, cfg.MaxSize)
		if err != nil {
			return nil, err
		}
		backend = disk
	case config.BackendS3:
		s3store, err := NewS3Store(ctx, &cfg.S3, cfg.MaxSize)
		if err != nil {
			return nil, err
		}
		backend = s3store
	default:
		return nil, fmt.Errorf("storage: unknown backend %q", cfg.Backend)
	}

	breaker := NewBreakerStore(backend, BreakerSettings{
		Timeout:     cfg.BreakerTimeout,
		MinRequests: cfg.BreakerMinRequests,
		FailureRate: cfg.BreakerFailureRate,
	})
	return &instrumented{next: newTypeFilter(breaker, cfg.AllowedTypes)}, nil
}

// objectName returns a collision-free name that keeps a sanitized extension
// of the client supplied filename.
func objectName(original string) string {
	return uuid.New().String() + safeExt(original)
}

func safeExt(name string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(name)))
	if len(ext) < 2 || len(ext) > 10 {
		return ""
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}

// instrumented records upload metrics around the wrapped store.
type instrumented struct {
	next Store
}

func (s *instrumented) Backend() string { return s.next.Backend() }

func (s *instrumented) Healthy() bool { return Healthy(s.next) }

func (s *instrumented) Put(ctx context.Context, name, contentType string, r io.Reader) (string, error) {
	start := time.Now()
	cr := &countingReader{r: r}
	ref, err := s.next.Put(ctx, name, contentType, cr)
	metrics.RecordUpload(s.next.Backend(), cr.n, time.Since(start), err)
	return ref, err
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
