package server

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/yiblet/sipp/internal/store"
)

type snippetPage struct {
	Name        string
	ShortID     string
	Content     string
	Highlighted template.HTML
}

func (s *Server) render(w http.ResponseWriter, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.pages.ExecuteTemplate(w, name, data); err != nil {
		s.logger.Error("failed to render page",
			slog.String("template", name),
			slog.String("error", err.Error()),
		)
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "index.html", nil)
}

func (s *Server) handleAbout(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "about.html", nil)
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	snippet, err := s.store.GetByShortID(chi.URLParam(r, "shortID"))
	if errors.Is(err, store.ErrNotFound) {
		s.render(w, http.StatusNotFound, "notfound.html", nil)
		return
	}
	if err != nil {
		s.logger.Error("failed to load snippet", slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	s.render(w, http.StatusOK, "snippet.html", snippetPage{
		Name:        snippet.Name,
		ShortID:     snippet.ShortID,
		Content:     snippet.Content,
		Highlighted: s.highlighter.HTML(snippet.Name, snippet.Content),
	})
}

func (s *Server) handleFormCreate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	name := r.PostFormValue("name")
	if strings.TrimSpace(name) == "" {
		http.Error(w, "Name cannot be empty", http.StatusBadRequest)
		return
	}

	snippet, err := s.store.Create(name, r.PostFormValue("content"))
	if err != nil {
		s.logger.Error("failed to create snippet", slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/s/"+snippet.ShortID, http.StatusSeeOther)
}
