package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// ErrHTMLConversion indicates HTML conversion failed.
var ErrHTMLConversion = errors.New("HTML conversion failed")

// Defaults for ConverterConfig.
const (
	DefaultDiagramLanguage = "mermaid"
	DefaultHighlightStyle  = "github"
)

// HTMLConverter abstracts Markdown to HTML conversion.
type HTMLConverter interface {
	ToHTML(ctx context.Context, content string) (string, error)
}

// ConverterConfig configures a GoldmarkConverter.
type ConverterConfig struct {
	// RawHTML lets HTML embedded in the markdown pass through unescaped.
	RawHTML bool
	// HighlightStyle is the chroma style name used for code blocks.
	HighlightStyle string
	// DiagramLanguage is the fence language turned into diagram nodes.
	// Empty disables diagram detection.
	DiagramLanguage string
	// Classes maps element names to presentation classes. Nil means none.
	Classes ClassMap
}

// DefaultConverterConfig returns the configuration used by NewGoldmarkConverter.
func DefaultConverterConfig() ConverterConfig {
	return ConverterConfig{
		RawHTML:         true,
		HighlightStyle:  DefaultHighlightStyle,
		DiagramLanguage: DefaultDiagramLanguage,
		Classes:         DefaultClasses(),
	}
}

// DiagramRef locates a diagram found during conversion.
type DiagramRef struct {
	Index       int    // ordinal position in the document
	Language    string // fence language as written
	Source      string // diagram definition, trailing newline removed
	Placeholder string // exact markup standing in for the diagram in Document.HTML
}

// Document is the result of one conversion.
type Document struct {
	HTML     string
	Tree     *Node
	Diagrams []DiagramRef
}

// GoldmarkConverter converts Markdown to HTML using goldmark (pure Go).
type GoldmarkConverter struct {
	md goldmark.Markdown
}

// NewGoldmarkConverter creates a GoldmarkConverter with the default configuration.
func NewGoldmarkConverter() *GoldmarkConverter {
	return NewGoldmarkConverterWithConfig(DefaultConverterConfig())
}

// NewGoldmarkConverterWithConfig creates a GoldmarkConverter with GFM extensions,
// syntax highlighting and the blog AST transformers.
func NewGoldmarkConverterWithConfig(cfg ConverterConfig) *GoldmarkConverter {
	style := cfg.HighlightStyle
	if style == "" {
		style = DefaultHighlightStyle
	}

	transformers := []util.PrioritizedValue{
		util.Prioritized(&diagramTransformer{language: strings.ToLower(strings.TrimSpace(cfg.DiagramLanguage))}, 100),
		util.Prioritized(&headingIDTransformer{}, 200),
		util.Prioritized(&tableScrollTransformer{}, 300),
	}
	if len(cfg.Classes) > 0 {
		transformers = append(transformers, util.Prioritized(&classTransformer{classes: cfg.Classes.Clone()}, 400))
	}

	rendererOpts := []renderer.Option{
		html.WithXHTML(),
		renderer.WithNodeRenderers(util.Prioritized(&blockRenderer{}, 100)),
	}
	if cfg.RawHTML {
		rendererOpts = append(rendererOpts, html.WithUnsafe())
	}

	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,      // Tables, strikethrough, autolinks, task lists
			extension.Footnote, // [^1] footnotes
			highlighting.NewHighlighting(
				highlighting.WithStyle(style),
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true), // paired with HighlightCSS
				),
			),
		),
		goldmark.WithParserOptions(
			parser.WithASTTransformers(transformers...),
		),
		goldmark.WithRendererOptions(rendererOpts...),
	)
	return &GoldmarkConverter{md: md}
}

// Convert parses content once and returns the HTML fragment, the node tree
// and the diagrams found in it. Goldmark is not context-aware, so the work
// runs in a goroutine and the caller stops waiting when ctx ends.
func (c *GoldmarkConverter) Convert(ctx context.Context, content string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type result struct {
		doc *Document
		err error
	}

	done := make(chan result, 1)

	go func() {
		doc, err := c.convert([]byte(content))
		done <- result{doc: doc, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		return r.doc, r.err
	}
}

func (c *GoldmarkConverter) convert(source []byte) (doc *Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", ErrHTMLConversion, r)
		}
	}()

	root := c.md.Parser().Parse(text.NewReader(source))

	var buf bytes.Buffer
	if err := c.md.Renderer().Render(&buf, source, root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHTMLConversion, err)
	}

	tree, diagrams := BuildTree(root, source)
	return &Document{
		HTML:     buf.String(),
		Tree:     tree,
		Diagrams: diagrams,
	}, nil
}

// ToHTML converts Markdown content to an HTML fragment. Diagram blocks are
// left as placeholders.
func (c *GoldmarkConverter) ToHTML(ctx context.Context, content string) (string, error) {
	doc, err := c.Convert(ctx, content)
	if err != nil {
		return "", err
	}
	return doc.HTML, nil
}

// HighlightCSS returns the stylesheet for the chroma classes emitted by the
// converter. Unknown style names fall back to chroma's default style.
func HighlightCSS(styleName string) (string, error) {
	style := styles.Get(styleName)
	var buf bytes.Buffer
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(&buf, style); err != nil {
		return "", fmt.Errorf("writing highlight CSS: %w", err)
	}
	return buf.String(), nil
}
