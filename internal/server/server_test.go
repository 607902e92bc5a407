package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/flowpad/flowpad/pkg/graph"
	"github.com/flowpad/flowpad/pkg/pipeline"
	"github.com/flowpad/flowpad/pkg/store"
)

// newTestServer builds a server on a memory store with deterministic IDs
// and timestamps.
func newTestServer() (*Server, http.Handler) {
	s := New(store.NewMemoryStore(), pipeline.NewRunner(nil, nil), nil)
	n := 0
	s.newID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	s.now = func() time.Time {
		return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	}
	return s, s.Router()
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (%s)", err, w.Body.String())
	}
	return env
}

func TestHealth(t *testing.T) {
	_, h := newTestServer()
	w := doJSON(t, h, http.MethodGet, "/healthz", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if env := decodeEnvelope(t, w); !env.Success {
		t.Errorf("envelope = %+v", env)
	}
}

func TestCreateDiagram(t *testing.T) {
	_, h := newTestServer()

	w := doJSON(t, h, http.MethodPost, "/api/diagrams/", map[string]any{
		"title":  "Login flow",
		"source": "graph TD\n    A[Start] --> B[End]",
		"tags":   []string{"auth"},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	env := decodeEnvelope(t, w)
	if !env.Success || env.Message != "diagram created" {
		t.Errorf("envelope = %+v", env)
	}

	doc := env.Data.(map[string]any)
	if doc["id"] != "id-1" || doc["title"] != "Login flow" {
		t.Errorf("doc = %+v", doc)
	}
}

func TestCreateDiagramValidation(t *testing.T) {
	_, h := newTestServer()

	// Missing title
	w := doJSON(t, h, http.MethodPost, "/api/diagrams/", map[string]any{"source": "A[x]"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d", w.Code)
	}
	if env := decodeEnvelope(t, w); env.Success || env.Message != "title is required" {
		t.Errorf("envelope = %+v", env)
	}

	// Malformed body
	req := httptest.NewRequest(http.MethodPost, "/api/diagrams/", strings.NewReader("{nope"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestGetDiagramNotFound(t *testing.T) {
	_, h := newTestServer()
	w := doJSON(t, h, http.MethodGet, "/api/diagrams/nope/", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d", w.Code)
	}
	if env := decodeEnvelope(t, w); env.Success {
		t.Errorf("envelope = %+v", env)
	}
}

func TestListDiagrams(t *testing.T) {
	_, h := newTestServer()
	for _, title := range []string{"one", "two"} {
		doJSON(t, h, http.MethodPost, "/api/diagrams/", map[string]any{"title": title})
	}

	w := doJSON(t, h, http.MethodGet, "/api/diagrams/", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	env := decodeEnvelope(t, w)
	list := env.Data.([]any)
	if len(list) != 2 {
		t.Errorf("list len = %d", len(list))
	}
}

func TestUpdateDiagramPartial(t *testing.T) {
	_, h := newTestServer()
	doJSON(t, h, http.MethodPost, "/api/diagrams/", map[string]any{
		"title":  "orig",
		"source": "A[one]",
	})

	w := doJSON(t, h, http.MethodPut, "/api/diagrams/id-1/", map[string]any{"title": "renamed"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	env := decodeEnvelope(t, w)
	doc := env.Data.(map[string]any)
	if doc["title"] != "renamed" {
		t.Errorf("title = %v", doc["title"])
	}
	// Fields not in the request keep their values.
	if doc["source"] != "A[one]" {
		t.Errorf("source = %v", doc["source"])
	}
}

func TestUpdateDiagramNotFound(t *testing.T) {
	_, h := newTestServer()
	w := doJSON(t, h, http.MethodPut, "/api/diagrams/nope/", map[string]any{"title": "x"})
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d", w.Code)
	}
}

func TestDeleteDiagram(t *testing.T) {
	_, h := newTestServer()
	doJSON(t, h, http.MethodPost, "/api/diagrams/", map[string]any{"title": "gone soon"})

	w := doJSON(t, h, http.MethodDelete, "/api/diagrams/id-1/", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	w = doJSON(t, h, http.MethodGet, "/api/diagrams/id-1/", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status after delete = %d", w.Code)
	}
}

func TestParseEndpoint(t *testing.T) {
	_, h := newTestServer()
	w := doJSON(t, h, http.MethodPost, "/api/parse", map[string]string{
		"text": "graph TD\n    A[Start] --> B[End]",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var env struct {
		Success bool        `json:"success"`
		Data    graph.Graph `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatal(err)
	}
	g := env.Data
	if len(g.Nodes) != 2 || len(g.Edges) != 1 {
		t.Fatalf("graph = %+v", g)
	}
	if g.Nodes[0].X != 100 || g.Nodes[1].X != 300 {
		t.Errorf("positions not assigned: %+v", g.Nodes)
	}
}

func TestParseEndpointLenient(t *testing.T) {
	_, h := newTestServer()
	w := doJSON(t, h, http.MethodPost, "/api/parse", map[string]string{"text": "complete garbage ((("})
	if w.Code != http.StatusOK {
		t.Fatalf("malformed text should still parse, status = %d", w.Code)
	}
}

func TestSerializeEndpoint(t *testing.T) {
	_, h := newTestServer()
	w := doJSON(t, h, http.MethodPost, "/api/serialize", map[string]any{
		"nodes": []graph.Node{
			{ID: "n1", Shape: graph.ShapeCircle, Label: "X"},
			{ID: "n2", Shape: graph.ShapeHexagon, Label: "Y"},
		},
		"edges": []graph.Edge{{ID: "n1-n2", Source: "n1", Target: "n2"}},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	env := decodeEnvelope(t, w)
	data := env.Data.(map[string]any)
	want := "graph TD\n    n1((X))\n    n2{{Y}}\n    n1 --> n2"
	if data["text"] != want {
		t.Errorf("text = %q, want %q", data["text"], want)
	}
}

func TestExportFormats(t *testing.T) {
	_, h := newTestServer()
	doJSON(t, h, http.MethodPost, "/api/diagrams/", map[string]any{
		"title":       "Flow",
		"description": "A flow.",
		"source":      "graph TD\n    A[x]",
	})

	// JSON (default)
	w := doJSON(t, h, http.MethodGet, "/api/diagrams/id-1/export", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("json export status = %d", w.Code)
	}
	env := decodeEnvelope(t, w)
	if env.Data.(map[string]any)["title"] != "Flow" {
		t.Errorf("json export = %+v", env.Data)
	}

	// Markdown wraps the source in a mermaid fence
	w = doJSON(t, h, http.MethodGet, "/api/diagrams/id-1/export?format=markdown", nil)
	env = decodeEnvelope(t, w)
	md := env.Data.(map[string]any)
	wantContent := "# Flow\n\nA flow.\n\n```mermaid\ngraph TD\n    A[x]\n```\n"
	if md["content"] != wantContent {
		t.Errorf("markdown = %q, want %q", md["content"], wantContent)
	}
	if md["filename"] != "Flow.md" {
		t.Errorf("filename = %v", md["filename"])
	}

	// Mermaid returns raw source as text/plain
	w = doJSON(t, h, http.MethodGet, "/api/diagrams/id-1/export?format=mermaid", nil)
	if w.Code != http.StatusOK || w.Body.String() != "graph TD\n    A[x]" {
		t.Errorf("mermaid export = %d %q", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("content type = %q", ct)
	}

	// Unknown format
	w = doJSON(t, h, http.MethodGet, "/api/diagrams/id-1/export?format=tiff", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown format status = %d", w.Code)
	}
}

func TestExportMissingDiagram(t *testing.T) {
	_, h := newTestServer()
	w := doJSON(t, h, http.MethodGet, "/api/diagrams/nope/export", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d", w.Code)
	}
}

func TestRenderEndpointBadBody(t *testing.T) {
	_, h := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/api/render", strings.NewReader("{"))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d", w.Code)
	}
}
