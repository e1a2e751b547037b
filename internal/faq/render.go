package faq

import "strings"

// Render writes a document back out as canonical markdown: `#` title,
// `##` section headings, `###` entry questions, answers verbatim.
// Parsing the rendered text yields an equal set of entries.
func Render(d *Document) string {
	var b strings.Builder

	if d.Title != "" {
		b.WriteString("# ")
		b.WriteString(d.Title)
		b.WriteString("\n\n")
	}

	for _, sec := range d.Sections {
		b.WriteString("## ")
		b.WriteString(sec.Heading)
		b.WriteString("\n\n")

		for _, e := range sec.Entries {
			b.WriteString("### ")
			b.WriteString(e.Question)
			b.WriteString("\n\n")
			if a := strings.TrimSpace(e.Answer); a != "" {
				b.WriteString(a)
				b.WriteString("\n\n")
			}
		}
	}

	return b.String()
}
