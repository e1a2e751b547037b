package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/siit-asr/faqserve/internal/faq"
)

// CSVParser handles spreadsheet exports with topic,question,answer
// columns. Rows sharing a topic are grouped into one section, in
// first-seen order. Links embedded in answer text are recovered with
// the inline scanner.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string) (*faq.Document, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, &ParseError{Filename: filename, Reason: err.Error()}
	}

	docID := DocID(filename)
	doc := &faq.Document{ID: docID, Title: docID}

	start := 0
	if len(records) > 0 && isHeaderRow(records[0]) {
		start = 1
	}

	secIdx := map[string]int{}
	for i, row := range records[start:] {
		if len(row) < 3 {
			return nil, &ParseError{Filename: filename, Reason: fmt.Sprintf("row %d: want topic,question,answer columns, got %d fields", start+i+1, len(row))}
		}
		topic := strings.TrimSpace(row[0])
		question := strings.TrimSpace(row[1])
		answer := strings.TrimSpace(row[2])
		if topic == "" || question == "" {
			return nil, &ParseError{Filename: filename, Reason: fmt.Sprintf("row %d: empty topic or question", start+i+1)}
		}

		idx, ok := secIdx[topic]
		if !ok {
			doc.Sections = append(doc.Sections, faq.Section{Heading: topic})
			idx = len(doc.Sections) - 1
			secIdx[topic] = idx
		}
		sec := &doc.Sections[idx]
		sec.Entries = append(sec.Entries, faq.Entry{
			ID:       faq.EntryID(docID, topic, question),
			Question: question,
			Answer:   answer,
			Topic:    topic,
			Links:    faq.ExtractInlineLinks(answer),
		})
	}

	return doc, nil
}

func isHeaderRow(row []string) bool {
	if len(row) < 3 {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(row[0]), "topic") &&
		strings.EqualFold(strings.TrimSpace(row[1]), "question") &&
		strings.EqualFold(strings.TrimSpace(row[2]), "answer")
}
