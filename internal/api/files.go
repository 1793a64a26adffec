// Folio - Collaborative Document Viewing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package api

import (
	"net/http"
	"os"
)

// filesOnly is an http.FileSystem that refuses to open directories, so
// http.FileServer answers 404 instead of rendering a listing.
type filesOnly struct {
	fs http.FileSystem
}

func (f filesOnly) Open(name string) (http.File, error) {
	file, err := f.fs.Open(name)
	if err != nil {
		return nil, err
	}

	info, err := file.Stat()
	if err != nil || info.IsDir() {
		_ = file.Close()
		return nil, os.ErrNotExist
	}
	return file, nil
}

// fileServer serves the regular files under dir with no directory listings.
func fileServer(dir string) http.Handler {
	return http.FileServer(filesOnly{fs: http.Dir(dir)})
}
