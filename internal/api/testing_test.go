// Folio - Collaborative Document Viewing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package api

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	gws "github.com/gorilla/websocket"

	"github.com/tomtom215/folio/internal/config"
	"github.com/tomtom215/folio/internal/logging"
	"github.com/tomtom215/folio/internal/models"
	"github.com/tomtom215/folio/internal/session"
	"github.com/tomtom215/folio/internal/storage"
	ws "github.com/tomtom215/folio/internal/websocket"
)

func init() {
	logging.Init(logging.Config{Level: "info", Format: "console", Output: io.Discard})
}

var samplePDF = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")

type testEnv struct {
	cfg     *config.Config
	manager *session.Manager
	server  *httptest.Server
	stop    context.CancelFunc
}

// newTestEnv runs a session manager, hub and disk store behind the real router.
func newTestEnv(t *testing.T, mutate func(*config.Config)) *testEnv {
	t.Helper()

	cfg := config.Default()
	cfg.Server.StaticDir = t.TempDir()
	cfg.Upload.Dir = t.TempDir()
	cfg.Security.RateLimitDisabled = true
	if mutate != nil {
		mutate(cfg)
	}

	hub := ws.NewHub()
	manager := session.NewManager(session.Config{QueueSize: cfg.Session.QueueSize}, hub, nil)
	store, err := storage.Open(context.Background(), &cfg.Upload)
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	hubDone := make(chan struct{})
	managerDone := make(chan struct{})
	go func() { _ = hub.RunWithContext(ctx); close(hubDone) }()
	go func() { _ = manager.RunWithContext(ctx); close(managerDone) }()

	server := httptest.NewServer(NewRouter(NewHandler(cfg, manager, hub, store)))

	var stopped bool
	stop := func() {
		if stopped {
			return
		}
		stopped = true
		cancel()
		<-hubDone
		<-managerDone
	}
	t.Cleanup(func() {
		server.Close()
		stop()
	})
	return &testEnv{cfg: cfg, manager: manager, server: server, stop: stop}
}

func (e *testEnv) get(t *testing.T, path string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(e.server.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp, body
}

// upload posts a multipart form with the file under field and optional extra fields.
func (e *testEnv) upload(t *testing.T, field, filename string, content []byte, extra map[string]string) (*http.Response, []byte) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range extra {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("WriteField: %v", err)
		}
	}
	if field != "" {
		part, err := mw.CreateFormFile(field, filename)
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		_, _ = part.Write(content)
	}
	_ = mw.Close()

	resp, err := http.Post(e.server.URL+"/upload", mw.FormDataContentType(), &buf)
	if err != nil {
		t.Fatalf("POST /upload: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp, body
}

type envelope struct {
	Status string           `json:"status"`
	Data   json.RawMessage  `json:"data"`
	Error  *models.APIError `json:"error"`
}

// decodeEnvelope parses an APIResponse body and, if data is non-nil, its data field.
func decodeEnvelope(t *testing.T, body []byte, data interface{}) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		t.Fatalf("decode %s: %v", body, err)
	}
	if data != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, data); err != nil {
			t.Fatalf("decode data %s: %v", env.Data, err)
		}
	}
	return env
}

type wsConn struct {
	t    *testing.T
	conn *gws.Conn
	id   string
}

type frame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// dial opens /ws and consumes the welcome frame.
func (e *testEnv) dial(t *testing.T, header http.Header) *wsConn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(e.server.URL, "http") + "/ws"
	conn, resp, err := gws.DefaultDialer.Dial(url, header)
	if resp != nil && resp.Body != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	c := &wsConn{t: t, conn: conn}
	welcome := c.read()
	if welcome.Type != ws.MessageTypeWelcome {
		t.Fatalf("first frame %s, want welcome", welcome.Type)
	}
	var data ws.WelcomeData
	if err := json.Unmarshal(welcome.Data, &data); err != nil {
		t.Fatalf("welcome: %v", err)
	}
	c.id = data.ConnID
	return c
}

func (c *wsConn) send(raw string) {
	c.t.Helper()
	if err := c.conn.WriteMessage(gws.TextMessage, []byte(raw)); err != nil {
		c.t.Fatalf("write: %v", err)
	}
}

func (c *wsConn) read() frame {
	c.t.Helper()
	_ = c.conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := c.conn.ReadMessage()
	if err != nil {
		c.t.Fatalf("read: %v", err)
	}
	var f frame
	if err := json.Unmarshal(raw, &f); err != nil {
		c.t.Fatalf("decode %s: %v", raw, err)
	}
	return f
}

func (e *testEnv) waitMembers(t *testing.T, group string, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		members, err := e.manager.Members(context.Background(), session.GroupID(group))
		if err == nil && len(members) == n {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("group %s never reached %d members", group, n)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}
