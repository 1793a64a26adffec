// Folio - Collaborative Document Viewing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package models

import (
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

func TestEnvelopeShapes(t *testing.T) {
	tests := []struct {
		name     string
		resp     *APIResponse
		contains []string
		absent   []string
	}{
		{
			name:     "success",
			resp:     Success(GroupMembers{GroupID: "g1", Members: []string{"c1"}, Count: 1}),
			contains: []string{`"status":"success"`, `"groupId":"g1"`, `"members":["c1"]`, `"timestamp"`},
			absent:   []string{`"error"`},
		},
		{
			name:     "failure",
			resp:     Failure("NOT_FOUND", "no such group"),
			contains: []string{`"status":"error"`, `"data":null`, `"code":"NOT_FOUND"`, `"message":"no such group"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := json.Marshal(tt.resp)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			out := string(raw)
			for _, want := range tt.contains {
				if !strings.Contains(out, want) {
					t.Errorf("%s missing %s", out, want)
				}
			}
			for _, no := range tt.absent {
				if strings.Contains(out, no) {
					t.Errorf("%s should not contain %s", out, no)
				}
			}
		})
	}
}

func TestUploadResponseFieldName(t *testing.T) {
	raw, err := json.Marshal(UploadResponse{FilePath: "/uploads/a.pdf"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(raw) != `{"filePath":"/uploads/a.pdf"}` {
		t.Errorf("got %s", raw)
	}
}
