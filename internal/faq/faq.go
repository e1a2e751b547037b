package faq

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"path"
	"strings"
)

// Document is a loaded FAQ document. Documents are immutable after
// construction; updating content means replacing the whole Document.
type Document struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Sections []Section `json:"sections"`
}

// Section groups entries under one topic heading.
type Section struct {
	Heading string  `json:"heading"`
	Entries []Entry `json:"entries"`
}

// Entry is one question/answer pair. Topic names the owning section
// heading; it is a lookup reference, the section owns the entry.
type Entry struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Topic    string `json:"topic"`
	Links    []Link `json:"links,omitempty"`
}

// LinkKind classifies an external reference embedded in an answer.
type LinkKind string

const (
	LinkPDF     LinkKind = "pdf"
	LinkEmail   LinkKind = "email"
	LinkWebsite LinkKind = "website"
)

// Link is a labeled external reference owned by a single entry.
type Link struct {
	Label string   `json:"label"`
	URL   string   `json:"url"`
	Kind  LinkKind `json:"kind"`
}

// ClassifyLink assigns a kind from the URL shape: mailto addresses are
// Email, http(s) URLs whose path ends in .pdf are PDF, everything else
// is Website.
func ClassifyLink(rawURL string) LinkKind {
	if strings.HasPrefix(strings.ToLower(rawURL), "mailto:") {
		return LinkEmail
	}
	if u, err := url.Parse(rawURL); err == nil {
		if strings.EqualFold(path.Ext(u.Path), ".pdf") {
			return LinkPDF
		}
	}
	return LinkWebsite
}

// EntryID derives a stable identifier for an entry from its document,
// topic and question. Used as the index document key.
func EntryID(docID, heading, question string) string {
	sum := sha256.Sum256([]byte(docID + "\x00" + heading + "\x00" + question))
	return hex.EncodeToString(sum[:])[:16]
}

// SectionFor returns the section of d whose heading matches, if any.
func (d *Document) SectionFor(heading string) (*Section, bool) {
	for i := range d.Sections {
		if strings.EqualFold(d.Sections[i].Heading, heading) {
			return &d.Sections[i], true
		}
	}
	return nil, false
}

// EntryCount returns the total number of entries across all sections.
func (d *Document) EntryCount() int {
	n := 0
	for _, s := range d.Sections {
		n += len(s.Entries)
	}
	return n
}
