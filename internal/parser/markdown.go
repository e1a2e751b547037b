package parser

import (
	"bytes"
	"io"
	"strings"

	"github.com/siit-asr/faqserve/internal/faq"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown FAQ files using goldmark.
// `#` sets the document title, `##` opens a topic section, `###` opens
// an entry question, and following blocks become the entry's answer.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*faq.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(src))

	docID := DocID(filename)
	doc := &faq.Document{ID: docID, Title: docID}
	titleSet := false

	// Indices into doc.Sections / its entries; -1 means none open yet.
	curSec := -1
	curEntry := -1

	var answerParts []string
	var links []faq.Link
	linkSeen := map[string]bool{}

	flushAnswer := func() {
		if curSec < 0 || curEntry < 0 {
			answerParts = nil
			links = nil
			linkSeen = map[string]bool{}
			return
		}
		e := &doc.Sections[curSec].Entries[curEntry]
		e.Answer = strings.TrimSpace(strings.Join(answerParts, "\n\n"))
		e.Links = links
		answerParts = nil
		links = nil
		linkSeen = map[string]bool{}
	}

	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		heading, ok := n.(*ast.Heading)
		if !ok {
			// Answer content for the open entry; text before the
			// first question (intro prose) is not part of any entry.
			if curEntry >= 0 {
				if t := blockText(n, src); t != "" {
					answerParts = append(answerParts, t)
				}
				collectLinks(n, src, &links, linkSeen)
			}
			continue
		}

		title := strings.TrimSpace(string(heading.Text(src)))

		switch heading.Level {
		case 1:
			if !titleSet && title != "" {
				doc.Title = title
				titleSet = true
			}
		case 2:
			flushAnswer()
			if title == "" {
				return nil, &ParseError{Filename: filename, Reason: "empty topic heading"}
			}
			doc.Sections = append(doc.Sections, faq.Section{Heading: title})
			curSec = len(doc.Sections) - 1
			curEntry = -1
		case 3:
			flushAnswer()
			if curSec < 0 {
				return nil, &ParseError{Filename: filename, Reason: "question heading outside any topic section"}
			}
			if title == "" {
				return nil, &ParseError{Filename: filename, Reason: "empty question heading"}
			}
			sec := &doc.Sections[curSec]
			sec.Entries = append(sec.Entries, faq.Entry{
				ID:       faq.EntryID(docID, sec.Heading, title),
				Question: title,
				Topic:    sec.Heading,
			})
			curEntry = len(sec.Entries) - 1
		default:
			// Deeper headings fold into the current answer as
			// sub-structure rather than opening a new entry.
			if curEntry >= 0 && title != "" {
				answerParts = append(answerParts, title)
			}
		}
	}
	flushAnswer()

	return doc, nil
}

// blockText returns the raw source text of a block node, preserving
// inline link syntax so rendered output re-parses to the same entries.
func blockText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	writeBlockLines(&buf, n, src)
	return strings.TrimSpace(buf.String())
}

func writeBlockLines(buf *bytes.Buffer, n ast.Node, src []byte) {
	if n.Type() == ast.TypeBlock {
		if lines := n.Lines(); lines.Len() > 0 {
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				buf.Write(seg.Value(src))
			}
			return
		}
	}
	// Container blocks (lists) carry no lines of their own.
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		writeBlockLines(buf, c, src)
	}
}

// collectLinks walks a block's inlines for links and autolinks.
func collectLinks(n ast.Node, src []byte, links *[]faq.Link, seen map[string]bool) {
	ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch l := node.(type) {
		case *ast.Link:
			addLink(links, seen, string(l.Text(src)), string(l.Destination))
		case *ast.AutoLink:
			dest := string(l.URL(src))
			if l.AutoLinkType == ast.AutoLinkEmail && !strings.HasPrefix(strings.ToLower(dest), "mailto:") {
				dest = "mailto:" + dest
			}
			addLink(links, seen, string(l.Label(src)), dest)
		}
		return ast.WalkContinue, nil
	})
}

func addLink(links *[]faq.Link, seen map[string]bool, label, rawURL string) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" || seen[rawURL] {
		return
	}
	seen[rawURL] = true
	label = strings.TrimSpace(label)
	if label == "" {
		label = rawURL
	}
	*links = append(*links, faq.Link{Label: label, URL: rawURL, Kind: faq.ClassifyLink(rawURL)})
}
