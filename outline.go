package md2blog

import (
	"github.com/alnah/go-md2blog/internal/pipeline"
	"github.com/alnah/go-md2blog/internal/progress"
)

// Slugify turns heading text into an anchor id: lowercased, trimmed,
// stripped of everything but letters, digits, spaces and hyphens, with
// whitespace and hyphen runs collapsed to one hyphen.
//
// Duplicate texts produce duplicate ids.
func Slugify(text string) string {
	return pipeline.Slugify(text)
}

// ExtractHeadings returns the "## " and "### " headings of a markdown body
// in document order, with the ids the rendered page gives them.
func ExtractHeadings(body string) []Heading {
	return pipeline.ExtractHeadings(body)
}

// ComputeProgress returns how far a reader has scrolled through a page,
// between 0 and 1.
func ComputeProgress(m Metrics) float64 {
	return progress.Compute(m)
}
