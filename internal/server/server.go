// Package server exposes extracted hierarchy artifacts over HTTP.
//
// The server reads the graph document from disk on each request, so a
// re-extraction is picked up without a restart. SVG rendering is cached
// by document content hash.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/njfio/issuegraph/pkg/cache"
	"github.com/njfio/issuegraph/pkg/hierarchy"
	"github.com/njfio/issuegraph/pkg/render"
)

// Config holds server dependencies and options.
type Config struct {
	// DocumentPath is the graph JSON artifact to serve.
	DocumentPath string

	// Cache stores rendered SVGs. Nil disables caching.
	Cache cache.Cache

	// Logger receives request and render logs. Nil means a default logger.
	Logger *log.Logger
}

// Server serves hierarchy artifacts.
type Server struct {
	docPath string
	cache   cache.Cache
	logger  *log.Logger
}

// New creates a Server from config.
func New(cfg Config) *Server {
	c := cfg.Cache
	if c == nil {
		c = cache.NewNullCache()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		docPath: cfg.DocumentPath,
		cache:   c,
		logger:  logger,
	}
}

// Router builds the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", s.handleHealth)
	r.Get("/api/graph", s.handleGraph)
	r.Get("/api/summary", s.handleSummary)
	r.Get("/api/outline", s.handleOutline)
	r.Get("/api/svg", s.handleSVG)

	return r
}

// ListenAndServe runs the server until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintln(w, `{"status":"ok"}`)
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	doc, err := hierarchy.ReadDocumentFile(s.docPath)
	if err != nil {
		s.logger.Error("load document", "err", err)
		http.Error(w, "graph document not available", http.StatusNotFound)
		return
	}

	data, err := doc.Marshal()
	if err != nil {
		http.Error(w, "encode failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	doc, err := hierarchy.ReadDocumentFile(s.docPath)
	if err != nil {
		http.Error(w, "graph document not available", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(doc.Summary); err != nil {
		s.logger.Error("encode summary", "err", err)
	}
}

func (s *Server) handleOutline(w http.ResponseWriter, r *http.Request) {
	doc, err := hierarchy.ReadDocumentFile(s.docPath)
	if err != nil {
		http.Error(w, "graph document not available", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	fmt.Fprint(w, hierarchy.RenderOutline(doc))
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	doc, err := hierarchy.ReadDocumentFile(s.docPath)
	if err != nil {
		http.Error(w, "graph document not available", http.StatusNotFound)
		return
	}

	opts := render.Options{
		Detailed:       r.URL.Query().Get("detailed") == "true",
		IncludeOrphans: r.URL.Query().Get("orphans") == "true",
	}

	data, err := doc.Marshal()
	if err != nil {
		http.Error(w, "encode failed", http.StatusInternalServerError)
		return
	}

	key := cache.ArtifactKey(cache.Hash(data), cache.ArtifactKeyOpts{
		Format:         "svg",
		Detailed:       opts.Detailed,
		IncludeOrphans: opts.IncludeOrphans,
	})
	if svg, hit, err := s.cache.Get(r.Context(), key); err == nil && hit {
		w.Header().Set("Content-Type", "image/svg+xml")
		_, _ = w.Write(svg)
		return
	}

	dot := render.ToDOT(doc, opts)
	svg, err := render.RenderSVG(r.Context(), dot)
	if err != nil {
		s.logger.Error("render svg", "err", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	_ = s.cache.Set(r.Context(), key, svg, cache.TTLArtifact)

	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(svg)
}
