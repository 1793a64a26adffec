// Folio - Collaborative Document Viewing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package storage

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/gabriel-vasile/mimetype"
)

func TestAllowedType(t *testing.T) {
	tests := []struct {
		name    string
		head    []byte
		allowed []string
		want    bool
	}{
		{"pdf allowed", samplePDF, []string{"application/pdf"}, true},
		{"pdf alias", samplePDF, []string{"application/x-pdf"}, true},
		{"text rejected", []byte("just some words"), []string{"application/pdf"}, false},
		{"text via parent", []byte("just some words"), []string{"text/plain"}, true},
		{"octet-stream root", []byte{0x00, 0x01, 0x02, 0x03}, []string{"application/octet-stream"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, got := allowedType(mimetype.Detect(tt.head), tt.allowed); got != tt.want {
				t.Errorf("allowedType() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTypeFilter_PassesWholeBody(t *testing.T) {
	next := &fakeStore{}
	filter := newTypeFilter(next, []string{"application/pdf"})

	// Well past mimetype's 3072 byte read window, so the tee and splice are exercised.
	body := append(append([]byte{}, samplePDF...), bytes.Repeat([]byte("0"), 16<<10)...)

	ref, err := filter.Put(context.Background(), "doc.pdf", "text/html", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if ref != "/fake/ref" {
		t.Errorf("ref = %q", ref)
	}
	if !bytes.Equal(next.body, body) {
		t.Errorf("forwarded %d bytes, want %d", len(next.body), len(body))
	}
	if next.contentType != "application/pdf" {
		t.Errorf("content type = %q, want detected application/pdf", next.contentType)
	}
}

func TestTypeFilter_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		body    []byte
		wantErr error
	}{
		{"wrong type", []byte("<html><body>hi</body></html>"), ErrUnsupportedType},
		{"empty", nil, ErrEmptyFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := &fakeStore{}
			filter := newTypeFilter(next, []string{"application/pdf"})

			_, err := filter.Put(context.Background(), "x.pdf", "application/pdf", bytes.NewReader(tt.body))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if next.calls != 0 {
				t.Error("rejected upload reached the backend")
			}
		})
	}
}

var errReadFailed = errors.New("connection reset")

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errReadFailed }

func TestTypeFilter_ReadError(t *testing.T) {
	next := &fakeStore{}
	filter := newTypeFilter(next, []string{"application/pdf"})

	_, err := filter.Put(context.Background(), "x.pdf", "application/pdf", failingReader{})
	if !errors.Is(err, errReadFailed) {
		t.Fatalf("error = %v, want wrapped read error", err)
	}
	if next.calls != 0 {
		t.Error("failed read reached the backend")
	}
}
