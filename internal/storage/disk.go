// Folio - Collaborative Document Viewing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/tomtom215/folio/internal/config"
	"github.com/tomtom215/folio/internal/logging"
)

// DiskRefPrefix is the URL path under which disk uploads are served.
const DiskRefPrefix = "/uploads/"

// DiskStore writes uploads to a local directory.
type DiskStore struct {
	dir     string
	maxSize int64
}

// NewDiskStore creates dir if needed. maxSize <= 0 disables the size limit.
func NewDiskStore(dir string, maxSize int64) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("storage: create upload dir: %w", err)
	}
	return &DiskStore{dir: dir, maxSize: maxSize}, nil
}

// Dir returns the directory files are written to.
func (s *DiskStore) Dir() string { return s.dir }

// Backend implements Store.
func (s *DiskStore) Backend() string { return config.BackendDisk }

// Healthy checks that the upload directory still exists.
func (s *DiskStore) Healthy() bool {
	info, err := os.Stat(s.dir)
	return err == nil && info.IsDir()
}

// Put implements Store.
func (s *DiskStore) Put(ctx context.Context, name, _ string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	stored := objectName(name)
	path := filepath.Join(s.dir, stored)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return "", fmt.Errorf("storage: create file: %w", err)
	}

	src := r
	if s.maxSize > 0 {
		src = io.LimitReader(r, s.maxSize+1)
	}
	n, copyErr := io.Copy(f, src)
	closeErr := f.Close()

	switch {
	case copyErr != nil:
		err = fmt.Errorf("storage: write file: %w", copyErr)
	case closeErr != nil:
		err = fmt.Errorf("storage: close file: %w", closeErr)
	case n == 0:
		err = ErrEmptyFile
	case s.maxSize > 0 && n > s.maxSize:
		err = ErrTooLarge
	}
	if err != nil {
		if rmErr := os.Remove(path); rmErr != nil {
			logging.Warn().Err(rmErr).Str("path", path).Msg("Failed to remove partial upload")
		}
		return "", err
	}

	logging.Debug().Str("file", stored).Int64("bytes", n).Msg("Upload written to disk")
	return DiskRefPrefix + stored, nil
}
