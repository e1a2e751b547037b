package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/siit-asr/faqserve/internal/faq"
	"github.com/siit-asr/faqserve/internal/index"
	"github.com/siit-asr/faqserve/internal/store"
)

// handleTopics lists distinct topic headings in document order.
func (s *Server) handleTopics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"topics": s.getIndex().Topics(),
	})
}

// handleSearch runs a keyword search over all entries.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		jsonError(w, "q query parameter is required", http.StatusBadRequest)
		return
	}
	results, err := s.getIndex().Search(q)
	if err != nil {
		jsonError(w, "search failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if results == nil {
		results = []faq.Entry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"query":   q,
		"results": results,
	})
}

// handleGetEntry looks up a single entry by topic and question.
// A miss is a 404 with an explicit error body, never a panic.
func (s *Server) handleGetEntry(w http.ResponseWriter, r *http.Request) {
	topic := r.URL.Query().Get("topic")
	question := r.URL.Query().Get("question")
	if topic == "" || question == "" {
		jsonError(w, "topic and question query parameters are required", http.StatusBadRequest)
		return
	}
	entry, err := s.getIndex().GetEntry(topic, question)
	if err != nil {
		if errors.Is(err, index.ErrNotFound) {
			jsonError(w, err.Error(), http.StatusNotFound)
			return
		}
		jsonError(w, "lookup failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// handleListDocuments lists loaded documents with summary counts.
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	var docs []map[string]any
	for _, d := range s.store.List() {
		docs = append(docs, map[string]any{
			"id":       d.ID,
			"title":    d.Title,
			"sections": len(d.Sections),
			"entries":  d.EntryCount(),
		})
	}
	if docs == nil {
		docs = []map[string]any{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": docs})
}

// handleGetDocument returns one full document.
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	doc, err := s.store.Get(docID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			jsonError(w, err.Error(), http.StatusNotFound)
			return
		}
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}
