// Folio - Collaborative Document Viewing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

/*
Package storage stores uploaded documents and hands back an opaque reference.

The session layer never looks inside a reference; it only forwards it to group
members in a newDocument message. What a reference means is up to the backend:

  - DiskStore writes under upload.dir and returns "/uploads/<name>", which the
    HTTP layer serves as static files.
  - S3Store writes objects with aws-sdk-go-v2 and returns either
    "<public_url>/<key>" or "/<key>".

Open composes the configured backend with the shared decorators:

	instrumented (upload metrics)
	  -> typeFilter (content sniffing with gabriel-vasile/mimetype)
	    -> BreakerStore (sony/gobreaker)
	      -> DiskStore | S3Store

Rejections caused by the upload itself (too large, wrong type, empty) are
returned as sentinel errors and do not count against the circuit breaker.

Usage:

	store, err := storage.Open(ctx, &cfg.Upload)
	ref, err := store.Put(ctx, header.Filename, header.Header.Get("Content-Type"), file)
	if errors.Is(err, storage.ErrTooLarge) { ... }
*/
package storage
