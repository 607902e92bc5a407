package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	flowerrors "github.com/flowpad/flowpad/pkg/errors"
	"github.com/flowpad/flowpad/pkg/store"
)

// newDocumentID generates a random document ID.
func newDocumentID() string {
	return uuid.NewString()
}

// createRequest is the body for creating a diagram document.
type createRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Source      string   `json:"source"`
	Tags        []string `json:"tags"`
}

// updateRequest carries a partial update; nil fields are left unchanged.
type updateRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Source      *string   `json:"source"`
	Tags        *[]string `json:"tags"`
}

func (s *Server) handleListDiagrams(w http.ResponseWriter, r *http.Request) {
	docs, err := s.store.List(r.Context())
	if err != nil {
		s.storeError(w, err)
		return
	}
	respond(w, http.StatusOK, docs)
}

func (s *Server) handleCreateDiagram(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Title == "" {
		respondError(w, http.StatusBadRequest, "title is required")
		return
	}

	now := s.now()
	doc := store.Document{
		ID:          s.newID(),
		Title:       req.Title,
		Description: req.Description,
		Source:      req.Source,
		Tags:        req.Tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.Create(r.Context(), doc); err != nil {
		s.storeError(w, err)
		return
	}
	respondMessage(w, http.StatusCreated, doc, "diagram created")
}

func (s *Server) handleGetDiagram(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.storeError(w, err)
		return
	}
	respond(w, http.StatusOK, doc)
}

func (s *Server) handleUpdateDiagram(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	doc, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.storeError(w, err)
		return
	}

	if req.Title != nil {
		doc.Title = *req.Title
	}
	if req.Description != nil {
		doc.Description = *req.Description
	}
	if req.Source != nil {
		doc.Source = *req.Source
	}
	if req.Tags != nil {
		doc.Tags = *req.Tags
	}
	doc.UpdatedAt = s.now()

	if err := s.store.Update(r.Context(), doc); err != nil {
		s.storeError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, doc, "diagram updated")
}

func (s *Server) handleDeleteDiagram(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.storeError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, nil, "diagram deleted")
}

// storeError maps store failures onto HTTP responses.
func (s *Server) storeError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "diagram not found")
		return
	}
	s.logger.Error("store failure", "err", err)
	wrapped := flowerrors.Wrap(flowerrors.ErrCodeStore, err, "store operation failed")
	respondError(w, http.StatusInternalServerError, fmt.Sprintf("%s", flowerrors.UserMessage(wrapped)))
}
