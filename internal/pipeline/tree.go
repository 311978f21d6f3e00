package pipeline

import (
	"strings"

	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"
)

// NodeKind identifies the type of a Node.
type NodeKind string

// Node kinds.
const (
	KindDocument      NodeKind = "document"
	KindParagraph     NodeKind = "paragraph"
	KindHeading       NodeKind = "heading"
	KindList          NodeKind = "list"
	KindListItem      NodeKind = "list-item"
	KindTable         NodeKind = "table"
	KindTableRow      NodeKind = "table-row"
	KindTableCell     NodeKind = "table-cell"
	KindCodeBlock     NodeKind = "code-block"
	KindInlineCode    NodeKind = "inline-code"
	KindEmphasis      NodeKind = "emphasis"
	KindStrong        NodeKind = "strong"
	KindStrikethrough NodeKind = "strikethrough"
	KindLink          NodeKind = "link"
	KindImage         NodeKind = "image"
	KindText          NodeKind = "text"
	KindBlockquote    NodeKind = "blockquote"
	KindThematicBreak NodeKind = "thematic-break"
	KindHTML          NodeKind = "html"
)

// Node is a simplified, renderer-independent view of the parsed markdown.
// Trees are rebuilt on every conversion and never shared.
type Node struct {
	Kind        NodeKind
	Level       int    // heading level
	ID          string // heading anchor, levels 2-4
	Ordered     bool   // list
	Language    string // code block
	IsDiagram   bool   // code block replaced by a diagram
	Destination string // link or image target
	Text        string // text, inline code, code block and html content
	Children    []*Node
}

// Headings returns the anchored headings of the tree in document order.
func (n *Node) Headings() []*Node {
	var out []*Node
	n.walk(func(c *Node) {
		if c.Kind == KindHeading && c.ID != "" {
			out = append(out, c)
		}
	})
	return out
}

// PlainText concatenates the text of n and its descendants.
func (n *Node) PlainText() string {
	var b strings.Builder
	n.walk(func(c *Node) {
		if c.Kind == KindText || c.Kind == KindInlineCode {
			b.WriteString(c.Text)
		}
	})
	return b.String()
}

func (n *Node) walk(fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, c := range n.Children {
		c.walk(fn)
	}
}

// BuildTree converts a transformed goldmark AST into a Node tree and
// collects its diagrams in document order.
func BuildTree(root ast.Node, source []byte) (*Node, []DiagramRef) {
	b := &treeBuilder{source: source}
	tree := b.build(root)
	if tree == nil {
		tree = &Node{Kind: KindDocument}
	}
	return tree, b.diagrams
}

type treeBuilder struct {
	source   []byte
	diagrams []DiagramRef
}

func (b *treeBuilder) build(n ast.Node) *Node {
	var node *Node

	switch v := n.(type) {
	case *ast.Document:
		node = &Node{Kind: KindDocument}
	case *ast.Paragraph, *ast.TextBlock:
		node = &Node{Kind: KindParagraph}
	case *ast.Heading:
		node = &Node{Kind: KindHeading, Level: v.Level}
		if id, ok := v.AttributeString("id"); ok {
			if s, ok := id.([]byte); ok {
				node.ID = string(s)
			}
		}
	case *ast.List:
		node = &Node{Kind: KindList, Ordered: v.IsOrdered()}
	case *ast.ListItem:
		node = &Node{Kind: KindListItem}
	case *ast.Blockquote:
		node = &Node{Kind: KindBlockquote}
	case *ast.ThematicBreak:
		return &Node{Kind: KindThematicBreak}
	case *ast.FencedCodeBlock:
		return &Node{Kind: KindCodeBlock, Language: string(v.Language(b.source)), Text: rawLines(v, b.source)}
	case *ast.CodeBlock:
		return &Node{Kind: KindCodeBlock, Text: rawLines(v, b.source)}
	case *DiagramBlock:
		b.diagrams = append(b.diagrams, DiagramRef{
			Index:       v.Index,
			Language:    v.Language,
			Source:      v.Source,
			Placeholder: v.Slot,
		})
		return &Node{Kind: KindCodeBlock, Language: v.Language, IsDiagram: true, Text: v.Source}
	case *ast.HTMLBlock:
		return &Node{Kind: KindHTML, Text: rawLines(v, b.source)}
	case *ast.RawHTML:
		var raw strings.Builder
		for i := 0; i < v.Segments.Len(); i++ {
			seg := v.Segments.At(i)
			raw.Write(seg.Value(b.source))
		}
		return &Node{Kind: KindHTML, Text: raw.String()}
	case *ast.CodeSpan:
		return &Node{Kind: KindInlineCode, Text: textContent(v, b.source)}
	case *ast.Emphasis:
		if v.Level >= 2 {
			node = &Node{Kind: KindStrong}
		} else {
			node = &Node{Kind: KindEmphasis}
		}
	case *extast.Strikethrough:
		node = &Node{Kind: KindStrikethrough}
	case *ast.Link:
		node = &Node{Kind: KindLink, Destination: string(v.Destination)}
	case *ast.AutoLink:
		label := string(v.Label(b.source))
		return &Node{
			Kind:        KindLink,
			Destination: string(v.URL(b.source)),
			Children:    []*Node{{Kind: KindText, Text: label}},
		}
	case *ast.Image:
		node = &Node{Kind: KindImage, Destination: string(v.Destination)}
	case *ast.Text:
		t := string(v.Segment.Value(b.source))
		if v.SoftLineBreak() || v.HardLineBreak() {
			t += " "
		}
		return &Node{Kind: KindText, Text: t}
	case *ast.String:
		return &Node{Kind: KindText, Text: string(v.Value)}
	case *TableScroll:
		// The scroll wrapper is presentation only; surface the table itself.
		if c := n.FirstChild(); c != nil {
			return b.build(c)
		}
		return nil
	case *extast.Table:
		node = &Node{Kind: KindTable}
	case *extast.TableHeader, *extast.TableRow:
		node = &Node{Kind: KindTableRow}
	case *extast.TableCell:
		node = &Node{Kind: KindTableCell}
	default:
		// Unknown containers (footnotes, task checkboxes) are flattened.
		var children []*Node
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			if cn := b.build(c); cn != nil {
				children = append(children, cn)
			}
		}
		if len(children) == 0 {
			return nil
		}
		if len(children) == 1 {
			return children[0]
		}
		return &Node{Kind: KindParagraph, Children: children}
	}

	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if cn := b.build(c); cn != nil {
			node.Children = append(node.Children, cn)
		}
	}
	return node
}

// rawLines returns the literal lines of a block node.
func rawLines(n ast.Node, source []byte) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(source))
	}
	return b.String()
}
