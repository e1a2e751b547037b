package faq

import (
	"regexp"
	"strings"
)

var (
	inlineLinkRe = regexp.MustCompile(`\[([^\]]+)\]\(([^)\s]+)\)`)
	bareURLRe    = regexp.MustCompile(`(?:https?://|mailto:)[^\s<>()\[\]]+`)
)

// ExtractInlineLinks recovers links from answer text that carries them
// as markdown-style `[label](url)` spans or bare URLs. Used by the
// parsers whose source format has no structured hyperlinks (CSV, DOCX).
func ExtractInlineLinks(text string) []Link {
	var links []Link
	seen := map[string]bool{}

	for _, m := range inlineLinkRe.FindAllStringSubmatch(text, -1) {
		label, rawURL := strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
		if rawURL == "" || seen[rawURL] {
			continue
		}
		seen[rawURL] = true
		links = append(links, Link{Label: label, URL: rawURL, Kind: ClassifyLink(rawURL)})
	}

	// Bare URLs outside of []() spans.
	stripped := inlineLinkRe.ReplaceAllString(text, "$1")
	for _, rawURL := range bareURLRe.FindAllString(stripped, -1) {
		rawURL = strings.TrimRight(rawURL, ".,;:")
		if seen[rawURL] {
			continue
		}
		seen[rawURL] = true
		links = append(links, Link{Label: rawURL, URL: rawURL, Kind: ClassifyLink(rawURL)})
	}

	return links
}
