// Folio - Collaborative Document Viewing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

/*
Package models holds the JSON shapes of Folio's HTTP API.

Every /api/v1 endpoint answers with an APIResponse envelope:

	respondJSON(w, http.StatusOK, models.Success(models.GroupMembers{...}))
	respondJSON(w, http.StatusNotFound, models.Failure("NOT_FOUND", "no such group"))

POST /upload is the exception: it returns a bare UploadResponse so that
viewer clients can read filePath directly.

Websocket frames are not defined here; see internal/websocket.
*/
package models
