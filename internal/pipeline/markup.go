package pipeline

import (
	"fmt"
	"html"
	"strings"
)

// OutlineNav renders the "on this page" list of an outline. Entries carry
// their heading level as a class so level 3 can be indented under level 2.
// An empty outline renders nothing.
func OutlineNav(headings []Heading, title string) string {
	if len(headings) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(`<nav class="outline" aria-label="On this page">`)
	if title != "" {
		fmt.Fprintf(&b, `<p class="outline-title">%s</p>`, html.EscapeString(title))
	}
	b.WriteString(`<ul class="outline-list">`)
	for _, h := range headings {
		fmt.Fprintf(&b, `<li class="outline-item outline-level-%d"><a href="#%s">%s</a></li>`,
			h.Level, html.EscapeString(h.ID), html.EscapeString(h.Text))
	}
	b.WriteString(`</ul></nav>`)
	return b.String()
}

// SubstitutePlaceholders swaps every placeholder of markup found in
// htmlContent for its replacement in a single pass. Unknown placeholders
// stay.
func SubstitutePlaceholders(htmlContent string, markup map[string]string) string {
	if len(markup) == 0 {
		return htmlContent
	}
	pairs := make([]string, 0, len(markup)*2)
	for placeholder, replacement := range markup {
		pairs = append(pairs, placeholder, replacement)
	}
	return strings.NewReplacer(pairs...).Replace(htmlContent)
}
