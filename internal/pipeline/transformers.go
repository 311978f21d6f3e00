package pipeline

import (
	"bytes"
	"strings"

	"github.com/google/uuid"
	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Heading levels that receive anchor ids at render time.
const (
	minAnchoredLevel = 2
	maxAnchoredLevel = 4
)

// headingIDTransformer assigns Slugify(text) ids to level 2-4 headings.
// Repeated texts keep repeated ids.
type headingIDTransformer struct{}

// Transform implements parser.ASTTransformer.
func (t *headingIDTransformer) Transform(doc *ast.Document, reader text.Reader, _ parser.Context) {
	source := reader.Source()
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		if h.Level >= minAnchoredLevel && h.Level <= maxAnchoredLevel {
			h.SetAttributeString("id", []byte(Slugify(textContent(h, source))))
		}
		return ast.WalkSkipChildren, nil
	})
}

// textContent concatenates the text of n's inline descendants, the way a
// browser would report the element's text.
func textContent(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := c.(type) {
		case *ast.Text:
			buf.Write(v.Segment.Value(source))
			if v.SoftLineBreak() || v.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(v.Value)
		case *ast.AutoLink:
			buf.Write(v.Label(source))
		case *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

// tableScrollTransformer wraps every GFM table in a TableScroll block.
type tableScrollTransformer struct{}

// Transform implements parser.ASTTransformer.
func (t *tableScrollTransformer) Transform(doc *ast.Document, _ text.Reader, _ parser.Context) {
	var tables []ast.Node
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering && n.Kind() == extast.KindTable {
			tables = append(tables, n)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	for _, table := range tables {
		parent := table.Parent()
		if parent == nil {
			continue
		}
		wrapper := &TableScroll{}
		parent.ReplaceChild(parent, table, wrapper)
		wrapper.AppendChild(wrapper, table)
	}
}

// diagramTransformer replaces fenced code blocks tagged with language
// (case-insensitive) by DiagramBlock nodes numbered in document order.
type diagramTransformer struct {
	language string
}

// Transform implements parser.ASTTransformer.
func (t *diagramTransformer) Transform(doc *ast.Document, reader text.Reader, _ parser.Context) {
	if t.language == "" {
		return
	}
	source := reader.Source()

	var blocks []*ast.FencedCodeBlock
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if fcb, ok := n.(*ast.FencedCodeBlock); ok {
			if isDiagramLanguage(string(fcb.Language(source)), t.language) {
				blocks = append(blocks, fcb)
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	if len(blocks) == 0 {
		return
	}
	token := uuid.NewString()
	for i, fcb := range blocks {
		parent := fcb.Parent()
		if parent == nil {
			continue
		}
		diagram := &DiagramBlock{
			Index:    i,
			Language: string(fcb.Language(source)),
			Source:   blockSource(fcb, source),
			Slot:     diagramPlaceholder(token, i),
		}
		parent.ReplaceChild(parent, fcb, diagram)
	}
}

// isDiagramLanguage reports whether a fence language tag names the diagram language.
func isDiagramLanguage(tag, language string) bool {
	return language != "" && strings.EqualFold(strings.TrimSpace(tag), language)
}

// blockSource joins the raw lines of a code block and drops the final newline.
func blockSource(n ast.Node, source []byte) string {
	return strings.TrimSuffix(rawLines(n, source), "\n")
}

// classTransformer applies the ClassMap to nodes that have no class yet.
type classTransformer struct {
	classes ClassMap
}

// Transform implements parser.ASTTransformer.
func (t *classTransformer) Transform(doc *ast.Document, _ text.Reader, _ parser.Context) {
	if len(t.classes) == 0 {
		return
	}
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if class := t.classes.lookup(n); class != "" {
			if _, exists := n.AttributeString("class"); !exists {
				n.SetAttributeString("class", []byte(class))
			}
		}
		return ast.WalkContinue, nil
	})
}
