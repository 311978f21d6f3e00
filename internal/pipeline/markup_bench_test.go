//go:build bench

package pipeline

import (
	"fmt"
	"strings"
	"testing"
)

func BenchmarkOutlineNav(b *testing.B) {
	headings := make([]Heading, 0, 50)
	for i := range 50 {
		text := fmt.Sprintf("Section %d", i+1)
		headings = append(headings, Heading{ID: Slugify(text), Text: text, Level: 2 + i%2})
	}

	b.ReportAllocs()
	for b.Loop() {
		_ = OutlineNav(headings, "On this page")
	}
}

func BenchmarkSubstitutePlaceholders(b *testing.B) {
	var sb strings.Builder
	markup := make(map[string]string)
	for i := range 20 {
		sb.WriteString("<p>text</p>")
		sb.WriteString(diagramPlaceholder("bench", i))
		markup[diagramPlaceholder("bench", i)] = "<svg></svg>"
	}
	html := sb.String()

	b.ReportAllocs()
	for b.Loop() {
		_ = SubstitutePlaceholders(html, markup)
	}
}

func BenchmarkExtractHeadings(b *testing.B) {
	body := article(100)

	b.ReportAllocs()
	for b.Loop() {
		_ = ExtractHeadings(body)
	}
}
