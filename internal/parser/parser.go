package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/siit-asr/faqserve/internal/faq"
)

// Parser converts raw FAQ source bytes into a Document.
type Parser interface {
	Parse(r io.Reader, filename string) (*faq.Document, error)
}

// ParseError reports a malformed source document. It is fatal to
// loading that document only; other documents are unaffected.
type ParseError struct {
	Filename string
	Reason   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %s", e.Filename, e.Reason)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
	".csv":      true,
	".docx":     true,
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".csv":
		return &CSVParser{}, nil
	case ".docx":
		return &DOCXParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// DocID derives a document id from a filename by stripping the
// directory and extension.
func DocID(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
