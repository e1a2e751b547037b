package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/siit-asr/faqserve/internal/faq"
	"golang.org/x/net/html"
)

// HTMLParser handles saved FAQ web pages. h2 elements open topic
// sections, h3 elements open entry questions, and flow content in
// between becomes the answer. Anchors inside an answer become links.
//
// Unlike the markdown parser it is lenient about structure: real pages
// carry navigation and boilerplate headings, so stray elements are
// skipped instead of failing the document.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*faq.Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	docID := DocID(filename)
	doc := &faq.Document{ID: docID, Title: docID}
	if title := findTitle(root); title != "" {
		doc.Title = title
	}

	curSec := -1
	curEntry := -1
	var answerParts []string
	var links []faq.Link
	linkSeen := map[string]bool{}

	flushAnswer := func() {
		if curSec >= 0 && curEntry >= 0 {
			e := &doc.Sections[curSec].Entries[curEntry]
			e.Answer = strings.TrimSpace(strings.Join(answerParts, "\n\n"))
			e.Links = links
		}
		answerParts = nil
		links = nil
		linkSeen = map[string]bool{}
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "nav", "footer", "header":
				return
			case "h2":
				flushAnswer()
				heading := textContent(n)
				if heading == "" {
					return
				}
				doc.Sections = append(doc.Sections, faq.Section{Heading: heading})
				curSec = len(doc.Sections) - 1
				curEntry = -1
				return
			case "h3":
				flushAnswer()
				question := textContent(n)
				if curSec < 0 || question == "" {
					return
				}
				sec := &doc.Sections[curSec]
				sec.Entries = append(sec.Entries, faq.Entry{
					ID:       faq.EntryID(docID, sec.Heading, question),
					Question: question,
					Topic:    sec.Heading,
				})
				curEntry = len(sec.Entries) - 1
				return
			case "p", "li", "td", "blockquote":
				if curEntry >= 0 {
					if t := textContent(n); t != "" {
						answerParts = append(answerParts, t)
					}
					collectAnchors(n, &links, linkSeen)
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	if body := findBody(root); body != nil {
		walk(body)
	} else {
		walk(root)
	}
	flushAnswer()

	return doc, nil
}

func collectAnchors(n *html.Node, links *[]faq.Link, seen map[string]bool) {
	if n.Type == html.ElementNode && n.Data == "a" {
		for _, attr := range n.Attr {
			if attr.Key == "href" {
				addLink(links, seen, textContent(n), attr.Val)
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectAnchors(c, links, seen)
	}
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.Join(strings.Fields(buf.String()), " ")
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		return textContent(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
