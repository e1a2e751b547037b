package parser

import (
	"strings"
	"testing"

	"github.com/siit-asr/faqserve/internal/faq"
)

func TestHTMLParser_Structure(t *testing.T) {
	input := `<html><head><title>Registrar FAQ</title></head><body>
<nav><a href="/home">Home</a></nav>
<h2>Registration</h2>
<h3>How do I register online?</h3>
<p>Through the portal. See the <a href="http://example.com/x.pdf">Guide</a>.</p>
<h3>When does registration open?</h3>
<p>Dates are in the <a href="https://www.siit.tu.ac.th/academic-calendar">academic calendar</a>.</p>
<h2>Contact</h2>
<h3>Who do I email?</h3>
<p>Write to <a href="mailto:asr@siit.tu.ac.th">the ASR office</a>.</p>
<footer><a href="/privacy">Privacy</a></footer>
</body></html>`

	p := &HTMLParser{}
	doc, err := p.Parse(strings.NewReader(input), "registrar-faq.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.Title != "Registrar FAQ" {
		t.Errorf("expected title from <title>, got %q", doc.Title)
	}
	if len(doc.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(doc.Sections))
	}
	if got := len(doc.Sections[0].Entries); got != 2 {
		t.Fatalf("expected 2 entries in first section, got %d", got)
	}

	e := doc.Sections[0].Entries[0]
	if !strings.Contains(e.Answer, "Through the portal") {
		t.Errorf("unexpected answer: %q", e.Answer)
	}
	if len(e.Links) != 1 || e.Links[0].URL != "http://example.com/x.pdf" || e.Links[0].Kind != faq.LinkPDF {
		t.Errorf("unexpected links: %+v", e.Links)
	}

	contact := doc.Sections[1].Entries[0]
	if len(contact.Links) != 1 || contact.Links[0].Kind != faq.LinkEmail {
		t.Errorf("expected mailto anchor as email link, got %+v", contact.Links)
	}
	if contact.Links[0].Label != "the ASR office" {
		t.Errorf("expected anchor text as label, got %q", contact.Links[0].Label)
	}

	// Nav and footer anchors must not leak into any entry.
	for _, sec := range doc.Sections {
		for _, e := range sec.Entries {
			for _, l := range e.Links {
				if l.URL == "/home" || l.URL == "/privacy" {
					t.Errorf("boilerplate anchor leaked into entry %q: %+v", e.Question, l)
				}
			}
		}
	}
}

func TestHTMLParser_IgnoresOrphanH3(t *testing.T) {
	input := `<body><h3>Stray question?</h3><p>Text.</p><h2>Topic</h2><h3>Real?</h3><p>Yes.</p></body>`
	p := &HTMLParser{}
	doc, err := p.Parse(strings.NewReader(input), "x.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.EntryCount() != 1 {
		t.Fatalf("expected orphan h3 to be skipped, got %d entries", doc.EntryCount())
	}
}

func TestForFile(t *testing.T) {
	tests := []struct {
		filename string
		wantErr  bool
	}{
		{"faq.md", false},
		{"faq.markdown", false},
		{"faq.html", false},
		{"faq.htm", false},
		{"faq.csv", false},
		{"faq.docx", false},
		{"faq.pdf", true},
		{"faq.txt", true},
	}
	for _, tt := range tests {
		_, err := ForFile(tt.filename)
		if (err != nil) != tt.wantErr {
			t.Errorf("ForFile(%q) error = %v, wantErr %v", tt.filename, err, tt.wantErr)
		}
		if IsSupportedExtension(tt.filename) == tt.wantErr {
			t.Errorf("IsSupportedExtension(%q) inconsistent with ForFile", tt.filename)
		}
	}
}
