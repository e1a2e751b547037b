package parser

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fumiama/go-docx"
	"github.com/siit-asr/faqserve/internal/faq"
)

// DOCXParser handles Word FAQ sheets. Heading 2 styled paragraphs open
// topic sections, Heading 3 styled paragraphs open entry questions, and
// body paragraphs become the answer. URLs pasted into answer text are
// recovered with the inline scanner.
type DOCXParser struct{}

func (p *DOCXParser) Parse(r io.Reader, filename string) (*faq.Document, error) {
	// go-docx needs a ReadSeeker+size, so write to a temp file.
	tmp, err := os.CreateTemp("", "faqserve-docx-*.docx")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("seek temp file: %w", err)
	}

	wordDoc, err := docx.Parse(tmp, int64(size))
	tmp.Close()
	if err != nil {
		return nil, &ParseError{Filename: filename, Reason: err.Error()}
	}

	docID := DocID(filename)
	doc := &faq.Document{ID: docID, Title: docID}
	titleSet := false

	curSec := -1
	curEntry := -1
	var answerParts []string

	flushAnswer := func() {
		if curSec >= 0 && curEntry >= 0 {
			e := &doc.Sections[curSec].Entries[curEntry]
			e.Answer = strings.TrimSpace(strings.Join(answerParts, "\n\n"))
			e.Links = faq.ExtractInlineLinks(e.Answer)
		}
		answerParts = nil
	}

	for _, item := range wordDoc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}

		level := docxHeadingLevel(para)
		text := docxParagraphText(para)
		if text == "" {
			continue
		}

		switch level {
		case 1:
			if !titleSet {
				doc.Title = text
				titleSet = true
			}
		case 2:
			flushAnswer()
			doc.Sections = append(doc.Sections, faq.Section{Heading: text})
			curSec = len(doc.Sections) - 1
			curEntry = -1
		case 3:
			flushAnswer()
			if curSec < 0 {
				return nil, &ParseError{Filename: filename, Reason: "question heading outside any topic section"}
			}
			sec := &doc.Sections[curSec]
			sec.Entries = append(sec.Entries, faq.Entry{
				ID:       faq.EntryID(docID, sec.Heading, text),
				Question: text,
				Topic:    sec.Heading,
			})
			curEntry = len(sec.Entries) - 1
		default:
			if curEntry >= 0 {
				answerParts = append(answerParts, text)
			}
		}
	}
	flushAnswer()

	return doc, nil
}

func docxHeadingLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	style := para.Properties.Style.Val
	switch {
	case strings.EqualFold(style, "Heading1") || strings.EqualFold(style, "heading 1"):
		return 1
	case strings.EqualFold(style, "Heading2") || strings.EqualFold(style, "heading 2"):
		return 2
	case strings.EqualFold(style, "Heading3") || strings.EqualFold(style, "heading 3"):
		return 3
	case strings.EqualFold(style, "Heading4") || strings.EqualFold(style, "heading 4"):
		return 4
	}
	return 0
}

func docxParagraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
