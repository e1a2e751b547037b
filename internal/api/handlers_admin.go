package api

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/siit-asr/faqserve/internal/parser"
)

// handleUploadDocument loads or replaces a whole FAQ document and
// rebuilds the index over the new corpus.
func (s *Server) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !parser.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}

	doc, err := s.store.Load(file, filename)
	if err != nil {
		var perr *parser.ParseError
		if errors.As(err, &perr) {
			jsonError(w, perr.Error(), http.StatusBadRequest)
			return
		}
		jsonError(w, "load failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if err := s.rebuildIndex(); err != nil {
		s.log.Error("index rebuild failed", "doc_id", doc.ID, "error", err)
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.log.Info("document loaded", "doc_id", doc.ID, "sections", len(doc.Sections), "entries", doc.EntryCount())
	writeJSON(w, http.StatusCreated, map[string]any{
		"doc_id":   doc.ID,
		"title":    doc.Title,
		"sections": len(doc.Sections),
		"entries":  doc.EntryCount(),
	})
}

// handleDeleteDocument removes a document and reindexes the rest.
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	if !s.store.Delete(docID) {
		jsonError(w, fmt.Sprintf("document %q not found", docID), http.StatusNotFound)
		return
	}
	if err := s.rebuildIndex(); err != nil {
		s.log.Error("index rebuild failed", "doc_id", docID, "error", err)
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"deleted": docID})
}

// handleCheckLinks runs the link validator over the whole corpus and
// returns the report. The report is also kept for later retrieval.
func (s *Server) handleCheckLinks(w http.ResponseWriter, r *http.Request) {
	report := s.checker.CheckAll(r.Context(), s.store.List())

	s.mu.Lock()
	s.lastReport = report
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, report)
}

// handleLinkReport returns the most recent link validation report.
func (s *Server) handleLinkReport(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	report := s.lastReport
	s.mu.RUnlock()

	if report == nil {
		jsonError(w, "no link report yet, POST /api/links/check first", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// sanitizeFilename strips any path components from an uploaded name.
func sanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	return strings.TrimSpace(name)
}
