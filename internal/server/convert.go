package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/flowpad/flowpad/pkg/graph"
	"github.com/flowpad/flowpad/pkg/mermaid"
	"github.com/flowpad/flowpad/pkg/pipeline"
	"github.com/flowpad/flowpad/pkg/render"
)

// textRequest carries raw diagram text.
type textRequest struct {
	Text string `json:"text"`
}

// serializeRequest carries a graph to turn back into text.
type serializeRequest struct {
	Nodes []graph.Node `json:"nodes"`
	Edges []graph.Edge `json:"edges"`
}

// handleParse converts diagram text into a positioned graph. Malformed
// text is not an error; it yields a partial (possibly empty) graph.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	g := mermaid.Parse(req.Text)
	mermaid.AssignPositions(g.Nodes)
	respond(w, http.StatusOK, g)
}

// handleSerialize converts a graph into canonical diagram text.
func (s *Server) handleSerialize(w http.ResponseWriter, r *http.Request) {
	var req serializeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	text := mermaid.Serialize(req.Nodes, req.Edges)
	respond(w, http.StatusOK, map[string]string{"text": text})
}

// handleRender renders diagram text to SVG through the pipeline. A render
// failure reports the extracted {message, line, column} rather than a bare
// string; it never affects stored state.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result, err := s.runner.Run(r.Context(), req.Text, pipeline.Options{
		Format: pipeline.FormatSVG,
		Logger: s.logger,
	})
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, envelope{
			Success: false,
			Data:    render.ExtractError(err.Error()),
			Message: "render failed",
		})
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifact)
}

// Export formats for stored diagrams.
const (
	exportJSON     = "json"
	exportMarkdown = "markdown"
	exportMermaid  = "mermaid"
	exportSVG      = "svg"
)

// handleExportDiagram exports a stored diagram. JSON returns the document,
// markdown wraps the source in a fenced block, mermaid returns the raw
// source, and svg renders through the pipeline (and its cache).
func (s *Server) handleExportDiagram(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.storeError(w, err)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = exportJSON
	}

	switch format {
	case exportJSON:
		respond(w, http.StatusOK, doc)

	case exportMarkdown:
		content := fmt.Sprintf("# %s\n\n%s\n\n```mermaid\n%s\n```\n", doc.Title, doc.Description, doc.Source)
		respond(w, http.StatusOK, map[string]string{
			"content":  content,
			"filename": doc.Title + ".md",
		})

	case exportMermaid:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprint(w, doc.Source)

	case exportSVG:
		result, err := s.runner.Run(r.Context(), doc.Source, pipeline.Options{
			Format: pipeline.FormatSVG,
			Logger: s.logger,
		})
		if err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, envelope{
				Success: false,
				Data:    render.ExtractError(err.Error()),
				Message: "render failed",
			})
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(result.Artifact)

	default:
		respondError(w, http.StatusBadRequest, fmt.Sprintf("export format %q not supported", format))
	}
}
