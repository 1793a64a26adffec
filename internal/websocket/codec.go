// Folio - Collaborative Document Viewing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package websocket

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/tomtom215/folio/internal/session"
	"github.com/tomtom215/folio/internal/validation"
)

// Inbound message types. The legacy names (uploadPdf, renderPdf, draw) are
// accepted as aliases for older viewers.
const (
	TypeCreateGroup    = "createGroup"
	TypeJoinGroup      = "joinGroup"
	TypeLeaveGroup     = "leaveGroup"
	TypeDocumentReady  = "documentReady"
	TypeUploadPdf      = "uploadPdf"
	TypeRenderDocument = "renderDocument"
	TypeRenderPdf      = "renderPdf"
	TypePageChange     = "pageChange"
	TypeAnnotate       = "annotate"
	TypeDraw           = "draw"
	MessageTypePing    = "ping"
)

// Server-generated message types. Fan-out names come from session.Out*.
const (
	MessageTypePong    = "pong"
	MessageTypeError   = "error"
	MessageTypeWelcome = "welcome"
)

// Error codes sent in error frames.
const (
	CodeBadFrame    = "BAD_FRAME"
	CodeUnknownType = "UNKNOWN_TYPE"
	CodeValidation  = "VALIDATION_ERROR"
	CodeRateLimited = "RATE_LIMITED"
	CodeUnavailable = "UNAVAILABLE"
)

// Codec errors
var (
	ErrMalformedFrame = errors.New("websocket: malformed frame")
	ErrUnknownType    = errors.New("websocket: unknown message type")
)

// Message is an outbound frame.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// ErrorData is the body of an error frame.
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WelcomeData is sent once after the upgrade.
type WelcomeData struct {
	ConnID string `json:"connId"`
}

// frame is an inbound frame before its data is decoded.
type frame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Inbound is a decoded and validated client frame.
type Inbound struct {
	Type    string // canonical type, aliases resolved
	Group   session.GroupID
	Payload interface{}
}

type groupRequest struct {
	GroupID string `json:"groupId" validate:"required,groupid"`
}

type documentRequest struct {
	GroupID  string `json:"groupId" validate:"required,groupid"`
	FileRef  string `json:"fileRef" validate:"required,max=1024"`
	FilePath string `json:"filePath,omitempty" validate:"-"`
}

type renderRequest struct {
	GroupID string `json:"groupId" validate:"required,groupid"`
	DocRef  string `json:"docRef" validate:"required,max=1024"`
	PdfPath string `json:"pdfPath,omitempty" validate:"-"`
}

type pageRequest struct {
	GroupID string `json:"groupId" validate:"required,groupid"`
	Page    int    `json:"page" validate:"min=1,max=1000000"`
}

type annotateRequest struct {
	GroupID string          `json:"groupId" validate:"required,groupid"`
	Stroke  json.RawMessage `json:"stroke" validate:"required,max=262144"`
}

// ValidationFailure wraps a validator error so callers can report its fields.
type ValidationFailure struct {
	Err *validation.RequestValidationError
}

func (f *ValidationFailure) Error() string { return f.Err.Error() }

// Decode parses one client frame. Errors are ErrMalformedFrame,
// ErrUnknownType or *ValidationFailure.
func Decode(raw []byte) (Inbound, error) {
	var f frame
	if err := json.Unmarshal(raw, &f); err != nil {
		return Inbound{}, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}

	switch f.Type {
	case MessageTypePing:
		return Inbound{Type: MessageTypePing}, nil

	case TypeCreateGroup, TypeJoinGroup, TypeLeaveGroup:
		var req groupRequest
		if err := decodeGroupData(f.Data, &req); err != nil {
			return Inbound{}, err
		}
		return Inbound{Type: f.Type, Group: session.GroupID(req.GroupID)}, nil

	case TypeDocumentReady, TypeUploadPdf:
		var req documentRequest
		if err := unmarshalData(f.Data, &req); err != nil {
			return Inbound{}, err
		}
		if req.FileRef == "" {
			req.FileRef = req.FilePath
		}
		if err := check(&req); err != nil {
			return Inbound{}, err
		}
		return Inbound{Type: TypeDocumentReady, Group: session.GroupID(req.GroupID), Payload: req.FileRef}, nil

	case TypeRenderDocument, TypeRenderPdf:
		var req renderRequest
		if err := unmarshalData(f.Data, &req); err != nil {
			return Inbound{}, err
		}
		if req.DocRef == "" {
			req.DocRef = req.PdfPath
		}
		if err := check(&req); err != nil {
			return Inbound{}, err
		}
		return Inbound{Type: TypeRenderDocument, Group: session.GroupID(req.GroupID), Payload: req.DocRef}, nil

	case TypePageChange:
		req, err := decodePageData(f.Data)
		if err != nil {
			return Inbound{}, err
		}
		return Inbound{Type: TypePageChange, Group: session.GroupID(req.GroupID), Payload: req.Page}, nil

	case TypeAnnotate, TypeDraw:
		var req annotateRequest
		if err := unmarshalData(f.Data, &req); err != nil {
			return Inbound{}, err
		}
		// draw frames carry the stroke as the whole data object
		if f.Type == TypeDraw && isEmptyJSON(req.Stroke) {
			req.Stroke = append(json.RawMessage(nil), f.Data...)
		}
		if isEmptyJSON(req.Stroke) {
			req.Stroke = nil
		}
		if err := check(&req); err != nil {
			return Inbound{}, err
		}
		return Inbound{Type: TypeAnnotate, Group: session.GroupID(req.GroupID), Payload: req.Stroke}, nil

	default:
		return Inbound{}, fmt.Errorf("%w: %q", ErrUnknownType, f.Type)
	}
}

// decodeGroupData accepts either a bare group id string or {"groupId": ...}.
func decodeGroupData(data json.RawMessage, req *groupRequest) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		if err := json.Unmarshal(trimmed, &req.GroupID); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedFrame, err)
		}
	} else if err := unmarshalData(data, req); err != nil {
		return err
	}
	return check(req)
}

// decodePageData accepts {"groupId","page"} or the positional ["g1", 7] form.
func decodePageData(data json.RawMessage) (pageRequest, error) {
	var req pageRequest
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var args []json.RawMessage
		if err := json.Unmarshal(trimmed, &args); err != nil || len(args) != 2 {
			return req, fmt.Errorf("%w: pageChange expects [groupId, page]", ErrMalformedFrame)
		}
		if err := json.Unmarshal(args[0], &req.GroupID); err != nil {
			return req, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
		}
		if err := json.Unmarshal(args[1], &req.Page); err != nil {
			return req, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
		}
	} else if err := unmarshalData(data, &req); err != nil {
		return req, err
	}
	return req, check(&req)
}

func unmarshalData(data json.RawMessage, v interface{}) error {
	if isEmptyJSON(data) {
		return fmt.Errorf("%w: missing data", ErrMalformedFrame)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}
	return nil
}

func check(v interface{}) error {
	if verr := validation.ValidateStruct(v); verr != nil {
		return &ValidationFailure{Err: verr}
	}
	return nil
}

func isEmptyJSON(data json.RawMessage) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// errorMessage builds the error frame for a Decode failure.
func errorMessage(err error) Message {
	data := ErrorData{Code: CodeBadFrame, Message: err.Error()}

	var vf *ValidationFailure
	switch {
	case errors.As(err, &vf):
		apiErr := vf.Err.ToAPIError()
		data = ErrorData{Code: apiErr.Code, Message: apiErr.Message}
	case errors.Is(err, ErrUnknownType):
		data.Code = CodeUnknownType
	}
	return Message{Type: MessageTypeError, Data: data}
}

// MarshalMessage converts a message to JSON
func MarshalMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}
