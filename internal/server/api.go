package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/yiblet/sipp/internal/store"
)

// SnippetInput is the request body for create and update.
type SnippetInput struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

func decodeInput(w http.ResponseWriter, r *http.Request) (SnippetInput, error) {
	var in SnippetInput
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		return in, badRequest("Invalid JSON body")
	}
	if strings.TrimSpace(in.Name) == "" {
		return in, badRequest("Name cannot be empty")
	}
	return in, nil
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	snippets, err := s.store.List()
	if err != nil {
		s.writeError(w, err)
		return
	}
	if snippets == nil {
		snippets = []*store.Snippet{}
	}
	writeJSON(w, http.StatusOK, snippets)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	in, err := decodeInput(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	snippet, err := s.store.Create(in.Name, in.Content)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, snippet)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	snippet, err := s.store.GetByShortID(chi.URLParam(r, "shortID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snippet)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	in, err := decodeInput(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	snippet, err := s.store.UpdateByShortID(chi.URLParam(r, "shortID"), in.Name, in.Content)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snippet)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	deleted, err := s.store.DeleteByShortID(chi.URLParam(r, "shortID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	if !deleted {
		s.writeError(w, store.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
