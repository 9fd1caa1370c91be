package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/knowbot/knowbot/internal/chat"
	"github.com/knowbot/knowbot/internal/config"
	"github.com/knowbot/knowbot/internal/embedding"
	"github.com/knowbot/knowbot/internal/extract"
	"github.com/knowbot/knowbot/internal/history"
	"github.com/knowbot/knowbot/internal/ingest"
	"github.com/knowbot/knowbot/internal/vector"
)

type stubGenerator struct {
	answer string
}

func (g *stubGenerator) Generate(context.Context, string) (string, error) {
	return g.answer, nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	embedder := embedding.NewMockEmbedder(8)
	idx, err := vector.NewMemoryIndex(8)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = idx.Close() })

	engine := chat.NewEngine(
		embedder, idx, history.NewMemoryStore(),
		&stubGenerator{answer: "stub answer"},
		&config.ChatConfig{},
	)
	ingestor := ingest.NewIngestor(extract.NewExtractor(), embedder, idx, 2)
	return NewServer(engine, ingestor, idx, &config.ServerConfig{Host: "localhost", Port: 8080}, zap.NewNop())
}

func multipartBody(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	_ = mw.Close()
	return &buf, mw.FormDataContentType()
}

func TestHandleUpload(t *testing.T) {
	srv := newTestServer(t)
	body, contentType := multipartBody(t, "doc.txt", "alpha beta gamma delta epsilon")

	r := httptest.NewRequest(http.MethodPost, "/api/v1/documents", body)
	r.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	srv.handleUpload(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var out struct {
		Status   string `json:"status"`
		Passages int    `json:"passages"`
	}
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Status != "ingested" || out.Passages != 3 {
		t.Errorf("response = %+v", out)
	}
	if srv.index.Size() != 3 {
		t.Errorf("index size = %d", srv.index.Size())
	}
}

func TestHandleUpload_MissingFile(t *testing.T) {
	srv := newTestServer(t)
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("other", "value")
	_ = mw.Close()

	r := httptest.NewRequest(http.MethodPost, "/api/v1/documents", &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	srv.handleUpload(w, r)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d", w.Code)
	}
}

func TestHandleAsk(t *testing.T) {
	srv := newTestServer(t)
	body := strings.NewReader(`{"session_id": "s1", "question": "what is this?"}`)

	r := httptest.NewRequest(http.MethodPost, "/api/v1/ask", body)
	w := httptest.NewRecorder()
	srv.handleAsk(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var out askResponse
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Answer != "stub answer" {
		t.Errorf("answer = %q", out.Answer)
	}
}

func TestHandleAsk_MissingFields(t *testing.T) {
	srv := newTestServer(t)
	r := httptest.NewRequest(http.MethodPost, "/api/v1/ask", strings.NewReader(`{"question": "hi"}`))
	w := httptest.NewRecorder()
	srv.handleAsk(w, r)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d", w.Code)
	}
}

func TestHandleReset(t *testing.T) {
	srv := newTestServer(t)

	r := httptest.NewRequest(http.MethodPost, "/api/v1/reset?session_id=s1", nil)
	w := httptest.NewRecorder()
	srv.handleReset(w, r)
	if w.Code != http.StatusOK {
		t.Errorf("query reset: status = %d", w.Code)
	}

	r = httptest.NewRequest(http.MethodPost, "/api/v1/reset", strings.NewReader(`{"session_id": "s1"}`))
	w = httptest.NewRecorder()
	srv.handleReset(w, r)
	if w.Code != http.StatusOK {
		t.Errorf("body reset: status = %d", w.Code)
	}

	r = httptest.NewRequest(http.MethodPost, "/api/v1/reset", strings.NewReader(`{}`))
	w = httptest.NewRecorder()
	srv.handleReset(w, r)
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing session: status = %d", w.Code)
	}
}

func TestHandleHealthAndStatus(t *testing.T) {
	srv := newTestServer(t)

	w := httptest.NewRecorder()
	srv.handleHealth(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Errorf("health status = %d", w.Code)
	}

	w = httptest.NewRecorder()
	srv.handleStatus(w, httptest.NewRequest(http.MethodGet, "/api/v1/status", nil))
	if w.Code != http.StatusOK {
		t.Errorf("status status = %d", w.Code)
	}
	var out struct {
		Passages int `json:"passages"`
	}
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Passages != 0 {
		t.Errorf("passages = %d", out.Passages)
	}
}

func TestRouter_CORS(t *testing.T) {
	srv := newTestServer(t)
	router := srv.router()

	r := httptest.NewRequest(http.MethodOptions, "/api/v1/ask", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	if w.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("allow-origin = %q", got)
	}
}
