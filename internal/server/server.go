// Package server serves snippets over HTTP: a small web UI for reading and
// posting snippets, and the JSON API used by remote clients.
//
// Routes:
//
//	GET    /                          create form (HTML)
//	GET    /about                     about page (HTML)
//	GET    /s/{shortID}               highlighted snippet (HTML)
//	POST   /snippets                  form create, redirects to /s/{shortID}
//	GET    /static/*                  embedded assets
//	GET    /api/snippets              list (API key)
//	POST   /api/snippets              create
//	GET    /api/snippets/{shortID}    get one
//	PUT    /api/snippets/{shortID}    update (API key)
//	DELETE /api/snippets/{shortID}    delete (API key)
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/yiblet/sipp/internal/highlight"
	"github.com/yiblet/sipp/internal/store"
)

//go:embed web/templates/*.html
var templateFS embed.FS

//go:embed web/static
var staticFS embed.FS

// Default listen address.
const (
	DefaultHost = "0.0.0.0"
	DefaultPort = 3000
)

// maxBodyBytes caps request bodies for both forms and JSON.
const maxBodyBytes = 10 << 20

// Config holds server configuration.
type Config struct {
	Host string
	Port int
	// APIKey is the shared secret for protected API routes. Empty means no
	// key is configured and protected routes answer 403.
	APIKey string
	// Style is the chroma style for the web view.
	Style string
}

// Addr returns host:port.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Server represents the HTTP server and its dependencies.
// The store is owned by the caller.
type Server struct {
	router      *chi.Mux
	config      Config
	logger      *slog.Logger
	store       store.SnippetStore
	highlighter *highlight.Highlighter
	pages       *template.Template
}

// New creates a Server over st.
func New(cfg Config, st store.SnippetStore, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	pages, err := template.ParseFS(templateFS, "web/templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	s := &Server{
		router:      chi.NewRouter(),
		config:      cfg,
		logger:      logger,
		store:       st,
		highlighter: highlight.New(cfg.Style),
		pages:       pages,
	}
	if err := s.setupRoutes(); err != nil {
		return nil, fmt.Errorf("setting up routes: %w", err)
	}
	return s, nil
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(Logger(s.logger))

	static, err := fs.Sub(staticFS, "web/static")
	if err != nil {
		return fmt.Errorf("opening static files: %w", err)
	}
	s.router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	s.router.Get("/", s.handleIndex)
	s.router.Get("/about", s.handleAbout)
	s.router.Get("/s/{shortID}", s.handleView)
	s.router.Post("/snippets", s.handleFormCreate)

	requireKey := RequireAPIKey(s.config.APIKey)
	s.router.Route("/api/snippets", func(r chi.Router) {
		r.With(requireKey).Get("/", s.handleList)
		r.Post("/", s.handleCreate)
		r.Get("/{shortID}", s.handleGet)
		r.With(requireKey).Put("/{shortID}", s.handleUpdate)
		r.With(requireKey).Delete("/{shortID}", s.handleDelete)
	})

	return nil
}

// Start serves until ctx is cancelled, then shuts down gracefully, giving
// in-flight requests up to 10 seconds to finish.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.config.Addr(),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.String("addr", s.config.Addr()),
			slog.Bool("api_key_configured", s.config.APIKey != ""),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		s.logger.Info("shutdown requested")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}
	return nil
}
