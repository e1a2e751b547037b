package store

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/siit-asr/faqserve/internal/faq"
	"github.com/siit-asr/faqserve/internal/parser"
)

// ErrNotFound is returned when a document id has no loaded document.
var ErrNotFound = errors.New("document not found")

// Store holds loaded FAQ documents. Documents are immutable once
// installed; loading an existing id replaces the whole document. The
// mutex only guards the map itself, never document contents.
type Store struct {
	mu    sync.RWMutex
	docs  map[string]*faq.Document
	order []string
}

func New() *Store {
	return &Store{docs: make(map[string]*faq.Document)}
}

// Load parses a source document and installs it. A malformed document
// fails with a *parser.ParseError and leaves the store untouched.
func (s *Store) Load(r io.Reader, filename string) (*faq.Document, error) {
	p, err := parser.ForFile(filename)
	if err != nil {
		return nil, err
	}
	doc, err := p.Parse(r, filename)
	if err != nil {
		return nil, err
	}
	s.install(doc)
	return doc, nil
}

// LoadFile loads a single document from disk.
func (s *Store) LoadFile(path string) (*faq.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return s.Load(f, filepath.Base(path))
}

// LoadDir loads every supported file under dir. A parse failure aborts
// only the offending document; it is logged and the rest still load.
func (s *Store) LoadDir(dir string, log *slog.Logger) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read data dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && parser.IsSupportedExtension(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		doc, err := s.LoadFile(filepath.Join(dir, name))
		if err != nil {
			log.Error("skipping document", "file", name, "error", err)
			continue
		}
		log.Info("loaded document", "doc_id", doc.ID, "sections", len(doc.Sections), "entries", doc.EntryCount())
	}
	return nil
}

func (s *Store) install(doc *faq.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.docs[doc.ID]; !exists {
		s.order = append(s.order, doc.ID)
	}
	s.docs[doc.ID] = doc
}

// Get returns the document with the given id.
func (s *Store) Get(id string) (*faq.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[id]
	if !ok {
		return nil, fmt.Errorf("document %q: %w", id, ErrNotFound)
	}
	return doc, nil
}

// List returns all documents in insertion order. A replaced document
// keeps its original position.
func (s *Store) List() []*faq.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*faq.Document, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.docs[id])
	}
	return out
}

// Delete removes a document. It reports whether the id was present.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[id]; !ok {
		return false
	}
	delete(s.docs, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}
