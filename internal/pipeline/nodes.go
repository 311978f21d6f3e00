package pipeline

import (
	"strconv"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// KindDiagramBlock is the node kind of a fenced block handed to the diagram renderer.
var KindDiagramBlock = ast.NewNodeKind("DiagramBlock")

// DiagramBlock replaces a fenced code block tagged with the diagram language.
// It renders as a placeholder that is substituted once the diagram resolves.
type DiagramBlock struct {
	ast.BaseBlock
	Index    int    // ordinal among the document's diagrams
	Language string // language tag as written
	Source   string // block content without the trailing newline
	Slot     string // placeholder markup, unique to one conversion
}

// Kind implements ast.Node.
func (n *DiagramBlock) Kind() ast.NodeKind { return KindDiagramBlock }

// IsRaw implements ast.Node.
func (n *DiagramBlock) IsRaw() bool { return true }

// Dump implements ast.Node.
func (n *DiagramBlock) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Index":    strconv.Itoa(n.Index),
		"Language": n.Language,
	}, nil)
}

// KindTableScroll is the node kind of the horizontal-scroll wrapper around tables.
var KindTableScroll = ast.NewNodeKind("TableScroll")

// TableScroll wraps a table so narrow viewports can scroll it horizontally.
type TableScroll struct {
	ast.BaseBlock
}

// Kind implements ast.Node.
func (n *TableScroll) Kind() ast.NodeKind { return KindTableScroll }

// Dump implements ast.Node.
func (n *TableScroll) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, nil, nil)
}

// diagramPlaceholder is the markup a DiagramBlock renders to. token is drawn
// once per conversion so markup written by the author never matches a slot.
func diagramPlaceholder(token string, index int) string {
	return `<div data-diagram-slot="` + token + "-" + strconv.Itoa(index) + `"></div>` + "\n"
}

// blockRenderer renders the custom block nodes.
type blockRenderer struct{}

// RegisterFuncs implements renderer.NodeRenderer.
func (r *blockRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindDiagramBlock, r.renderDiagramBlock)
	reg.Register(KindTableScroll, r.renderTableScroll)
}

func (r *blockRenderer) renderDiagramBlock(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		n := node.(*DiagramBlock)
		_, _ = w.WriteString(n.Slot)
	}
	return ast.WalkSkipChildren, nil
}

func (r *blockRenderer) renderTableScroll(w util.BufWriter, _ []byte, _ ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString(`<div class="table-scroll">` + "\n")
	} else {
		_, _ = w.WriteString("</div>\n")
	}
	return ast.WalkContinue, nil
}
