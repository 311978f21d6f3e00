// Package progress computes how far a reader has scrolled through an article.
package progress

import "math"

// Metrics are the scroll measurements of a page, in CSS pixels.
type Metrics struct {
	ScrollTop      float64 // distance scrolled from the top
	DocumentHeight float64 // total scrollable height
	ViewportHeight float64 // visible height
}

// Compute returns the reading progress in [0, 1]:
// scrollTop / (documentHeight - viewportHeight), clamped. A document that
// fits in the viewport reports 0.
func Compute(m Metrics) float64 {
	scrollable := m.DocumentHeight - m.ViewportHeight
	if scrollable <= 0 {
		return 0
	}
	p := m.ScrollTop / scrollable
	switch {
	case p < 0 || math.IsNaN(p):
		return 0
	case p > 1:
		return 1
	}
	return p
}
