// Folio - Collaborative Document Viewing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package storage

import (
	"context"
	"io"
	"sync"

	"github.com/tomtom215/folio/internal/logging"
)

func init() {
	logging.Init(logging.Config{Level: "info", Format: "console", Output: io.Discard})
}

// samplePDF is the smallest body mimetype recognizes as application/pdf.
var samplePDF = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")

// fakeStore records Put calls and returns err when set.
type fakeStore struct {
	mu          sync.Mutex
	calls       int
	body        []byte
	contentType string
	err         error
}

func (f *fakeStore) Backend() string { return "fake" }

func (f *fakeStore) Put(_ context.Context, _, contentType string, r io.Reader) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	f.body = body
	f.contentType = contentType
	return "/fake/ref", nil
}
