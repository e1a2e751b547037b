package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/siit-asr/faqserve/internal/config"
	"github.com/siit-asr/faqserve/internal/index"
	"github.com/siit-asr/faqserve/internal/linkcheck"
	"github.com/siit-asr/faqserve/internal/store"
)

// Server is the HTTP API server for faqserve.
type Server struct {
	router  chi.Router
	store   *store.Store
	checker *linkcheck.Checker
	log     *slog.Logger
	cfg     config.Config

	mu         sync.RWMutex
	index      *index.Index
	lastReport *linkcheck.Report
}

// NewServer creates and configures the HTTP server.
func NewServer(st *store.Store, idx *index.Index, checker *linkcheck.Checker, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		store:   st,
		index:   idx,
		checker: checker,
		log:     log,
		cfg:     cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public read API.
	r.Get("/health", s.handleHealth)
	r.Get("/api/topics", s.handleTopics)
	r.Get("/api/search", s.handleSearch)
	r.Get("/api/entries", s.handleGetEntry)
	r.Get("/api/documents", s.handleListDocuments)
	r.Get("/api/documents/{docID}", s.handleGetDocument)
	r.Get("/api/links/report", s.handleLinkReport)

	// Admin endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.FAQServeAPIKey, s.log))

		r.Post("/api/documents", s.handleUploadDocument)
		r.Delete("/api/documents/{docID}", s.handleDeleteDocument)
		r.Post("/api/links/check", s.handleCheckLinks)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	idx := s.getIndex()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"entries": idx.Count(),
	})
}

// getIndex returns the current index snapshot.
func (s *Server) getIndex() *index.Index {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index
}

// rebuildIndex derives a fresh index from the store and swaps it in.
func (s *Server) rebuildIndex() error {
	idx, err := index.Build(s.store.List())
	if err != nil {
		return fmt.Errorf("rebuild index: %w", err)
	}
	s.mu.Lock()
	old := s.index
	s.index = idx
	s.mu.Unlock()
	if old != nil {
		old.Close()
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, status, map[string]string{"error": msg})
}
