package pipeline

import (
	"regexp"
	"strings"
)

// Heading levels reported by ExtractHeadings.
const (
	HeadingLevel2 = 2
	HeadingLevel3 = 3
)

// Heading is one entry of an article outline.
type Heading struct {
	ID    string // anchor id, Slugify(Text)
	Text  string // heading text as written in the source
	Level int    // 2 or 3
}

var (
	h2Line = regexp.MustCompile(`^##\s+(.*)$`)
	h3Line = regexp.MustCompile(`^###\s+(.*)$`)
)

// ExtractHeadings scans raw markdown line by line and returns the level 2
// and level 3 headings in document order.
//
// This pass is independent of rendering: it only looks at "## " and "### "
// line prefixes. "#### " and deeper lines are not part of the outline even
// though the renderer gives them anchors. Returns nil when there are none.
func ExtractHeadings(body string) []Heading {
	var headings []Heading
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSuffix(line, "\r")

		if m := h2Line.FindStringSubmatch(line); m != nil {
			headings = append(headings, newHeading(m[1], HeadingLevel2))
			continue
		}
		if m := h3Line.FindStringSubmatch(line); m != nil {
			headings = append(headings, newHeading(m[1], HeadingLevel3))
		}
	}
	return headings
}

func newHeading(raw string, level int) Heading {
	text := strings.TrimSpace(raw)
	return Heading{ID: Slugify(text), Text: text, Level: level}
}
