// Folio - Collaborative Document Viewing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tomtom215/folio/internal/logging"
	"github.com/tomtom215/folio/internal/models"
	"github.com/tomtom215/folio/internal/session"
	"github.com/tomtom215/folio/internal/storage"
	"github.com/tomtom215/folio/internal/validation"
)

const (
	// multipartOverhead is headroom for boundaries and small form fields.
	multipartOverhead = 1 << 20

	// multipartMemory is kept in RAM before multipart spills to temp files.
	multipartMemory = 8 << 20

	// groupIDField optionally names a group to announce the upload to.
	groupIDField = "groupId"
)

// Upload stores the file in the configured form field and returns its
// reference as {"filePath": ref}. With a groupId field the reference is
// also announced to that group.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		respondError(w, r, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "Uploads are disabled", nil)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.config.Upload.MaxSize+multipartOverhead)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, r, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "File exceeds the upload size limit", nil)
			return
		}
		respondError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Expected a multipart form", err)
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			logging.Ctx(r.Context()).Debug().Err(err).Msg("Failed to remove multipart temp files")
		}
	}()

	groupID := r.FormValue(groupIDField)
	if groupID != "" && !validation.ValidGroupID(groupID) {
		respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid group id", nil)
		return
	}

	field := h.config.Upload.FormField
	file, header, err := r.FormFile(field)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "BAD_REQUEST", fmt.Sprintf("No file uploaded in field %q", field), nil)
		return
	}
	defer file.Close()

	ref, err := h.store.Put(r.Context(), header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		h.respondStorageError(w, r, err)
		return
	}

	log := logging.Ctx(r.Context())
	log.Info().Str("file_path", ref).Str("original_name", sanitizeLogValue(header.Filename)).Int64("bytes", header.Size).Msg("Document uploaded")

	if groupID != "" {
		// Server originated: no origin, so every member receives it.
		err := h.sessions.Submit(session.Event{
			Kind:    session.KindDocumentReady,
			Group:   session.GroupID(groupID),
			Payload: ref,
		})
		if err != nil {
			log.Warn().Err(err).Str("group_id", groupID).Msg("Upload stored but not announced")
		}
	}

	writeJSON(w, r, http.StatusOK, models.UploadResponse{Message: "Document uploaded successfully", FilePath: ref})
}

func (h *Handler) respondStorageError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, storage.ErrTooLarge):
		respondError(w, r, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "File exceeds the upload size limit", nil)
	case errors.Is(err, storage.ErrUnsupportedType):
		respondError(w, r, http.StatusUnsupportedMediaType, "UNSUPPORTED_MEDIA_TYPE", "File type is not accepted", err)
	case errors.Is(err, storage.ErrEmptyFile):
		respondError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Uploaded file is empty", nil)
	case errors.Is(err, storage.ErrUnavailable):
		respondError(w, r, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "Storage is temporarily unavailable", err)
	default:
		respondError(w, r, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to store file", err)
	}
}
