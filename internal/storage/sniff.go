// Folio - Collaborative Document Viewing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/gabriel-vasile/mimetype"

	"github.com/tomtom215/folio/internal/logging"
)

// typeFilter rejects uploads whose content does not match an allowed type.
// The client supplied Content-Type is ignored for the decision and replaced
// by the detected one.
type typeFilter struct {
	next    Store
	allowed []string
}

func newTypeFilter(next Store, allowed []string) *typeFilter {
	return &typeFilter{next: next, allowed: allowed}
}

func (f *typeFilter) Backend() string { return f.next.Backend() }

func (f *typeFilter) Healthy() bool { return Healthy(f.next) }

func (f *typeFilter) Put(ctx context.Context, name, _ string, r io.Reader) (string, error) {
	// mimetype reads only its detection window; the tee keeps those bytes
	// so the backend still receives the whole upload.
	var head bytes.Buffer
	mt, err := mimetype.DetectReader(io.TeeReader(r, &head))
	if err != nil {
		return "", fmt.Errorf("storage: read upload: %w", err)
	}
	if head.Len() == 0 {
		return "", ErrEmptyFile
	}

	detected, ok := allowedType(mt, f.allowed)
	if !ok {
		logging.Debug().Str("detected", detected).Str("file", name).Msg("Upload rejected by type filter")
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, detected)
	}

	return f.next.Put(ctx, name, detected, io.MultiReader(&head, r))
}

// allowedType returns mt as a string and whether it, or one of its
// parents, is in allowed.
func allowedType(mt *mimetype.MIME, allowed []string) (string, bool) {
	for m := mt; m != nil; m = m.Parent() {
		for _, a := range allowed {
			if m.Is(a) {
				return mt.String(), true
			}
		}
	}
	return mt.String(), false
}
