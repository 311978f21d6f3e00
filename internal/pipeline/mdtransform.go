package pipeline

import (
	"context"
	"regexp"
	"strings"
)

// Highlight markers. Private Use Area runes pass through goldmark untouched
// and become <mark> tags once the HTML is rendered.
const (
	MarkStartPlaceholder = "\uE000"
	MarkEndPlaceholder   = "\uE001"
)

var (
	highlightPattern = regexp.MustCompile(`==(.*?)==`)

	// Code fence delimiter: ``` or ~~~, indented at most three spaces.
	fencePattern = regexp.MustCompile("^ {0,3}(`{3,}|~{3,})")

	lineEndings  = strings.NewReplacer("\r\n", "\n", "\r", "\n")
	markReplacer = strings.NewReplacer(MarkStartPlaceholder, "<mark>", MarkEndPlaceholder, "</mark>")
)

// Fence follows fenced code blocks through a line-by-line scan. The zero
// value is outside any fence.
type Fence struct {
	delim string // opening delimiter, "" outside
}

// Step consumes line and reports whether it is fenced content or a fence
// delimiter. A fence closes on a line holding only a delimiter of the same
// character that is at least as long as the opening one.
func (f *Fence) Step(line string) bool {
	m := fencePattern.FindStringSubmatch(line)
	switch {
	case m == nil:
		return f.delim != ""
	case f.delim == "":
		f.delim = m[1]
	case m[1][0] == f.delim[0] && len(m[1]) >= len(f.delim) &&
		strings.TrimSpace(line[len(m[0]):]) == "":
		f.delim = ""
	}
	return true
}

// MarkdownPreprocessor rewrites markdown before conversion.
type MarkdownPreprocessor interface {
	PreprocessMarkdown(ctx context.Context, content string) string
}

// CommonMarkPreprocessor prepares article bodies for goldmark.
type CommonMarkPreprocessor struct{}

// PreprocessMarkdown normalizes line endings to \n. Outside fenced code it
// turns ==text== into highlight markers and keeps at most one empty line
// in a row. Fenced code is copied verbatim, so "==>" arrows in diagram
// sources reach the engine intact.
func (p *CommonMarkPreprocessor) PreprocessMarkdown(ctx context.Context, content string) string {
	if ctx.Err() != nil {
		return content
	}

	lines := strings.Split(lineEndings.Replace(content), "\n")
	out := lines[:0]
	var fence Fence
	empty := 0
	for _, line := range lines {
		if fence.Step(line) {
			out = append(out, line)
			empty = 0
			continue
		}
		if line == "" {
			if empty++; empty > 1 {
				continue
			}
		} else {
			empty = 0
		}
		if strings.Contains(line, "==") {
			line = highlightPattern.ReplaceAllString(line, MarkStartPlaceholder+"$1"+MarkEndPlaceholder)
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// ConvertMarkPlaceholders turns highlight markers in rendered HTML into
// <mark> tags.
func ConvertMarkPlaceholders(content string) string {
	return markReplacer.Replace(content)
}
