// Folio - Collaborative Document Viewing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package models

import "time"

// Response status values
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// APIResponse is the envelope for every JSON endpoint under /api/v1.
//
//	{
//	  "status": "success",
//	  "data": {"groupId": "book-club", "members": ["c1", "c2"]},
//	  "metadata": {"timestamp": "2026-01-10T12:00:00Z"}
//	}
//
// On failure Status is "error", Data is null and Error is set.
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata is attached to every response.
type Metadata struct {
	Timestamp time.Time `json:"timestamp"`
}

// APIError is the body of a failed request.
//
// Error codes:
//   - VALIDATION_ERROR: malformed group id or form fields
//   - BAD_REQUEST: missing multipart file
//   - FILE_TOO_LARGE: upload exceeds upload.max_size
//   - UNSUPPORTED_MEDIA_TYPE: sniffed type not in upload.allowed_types
//   - STORAGE_UNAVAILABLE: upload backend circuit open
//   - STORAGE_ERROR: upload backend failure
//   - SERVICE_UNAVAILABLE: session manager stopped
//   - RATE_LIMIT_EXCEEDED: too many requests
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Success wraps data in a success envelope stamped with the current time.
func Success(data interface{}) *APIResponse {
	return &APIResponse{
		Status:   StatusSuccess,
		Data:     data,
		Metadata: Metadata{Timestamp: time.Now().UTC()},
	}
}

// Failure builds an error envelope.
func Failure(code, message string) *APIResponse {
	return &APIResponse{
		Status:   StatusError,
		Metadata: Metadata{Timestamp: time.Now().UTC()},
		Error:    &APIError{Code: code, Message: message},
	}
}
