package pipeline

import (
	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"
)

// Element names accepted as ClassMap keys.
const (
	ElementParagraph     = "p"
	ElementHeading       = "heading" // anchored headings, levels 2-4
	ElementUnorderedList = "ul"
	ElementOrderedList   = "ol"
	ElementBlockquote    = "blockquote"
	ElementTable         = "table"
	ElementTableHeader   = "th"
	ElementTableCell     = "td"
	ElementInlineCode    = "code"
	ElementLink          = "a"
)

// ClassMap maps element names to the CSS classes rendered on them.
type ClassMap map[string]string

// DefaultClasses returns the presentation classes used by the built-in style.
func DefaultClasses() ClassMap {
	return ClassMap{
		ElementParagraph:     "prose-p",
		ElementHeading:       "anchor-heading",
		ElementUnorderedList: "prose-list prose-list-disc",
		ElementOrderedList:   "prose-list prose-list-decimal",
		ElementBlockquote:    "prose-quote",
		ElementTable:         "prose-table",
		ElementTableHeader:   "prose-th",
		ElementTableCell:     "prose-td",
		ElementInlineCode:    "inline-code",
	}
}

// Clone returns a copy of m that can be modified independently.
func (m ClassMap) Clone() ClassMap {
	c := make(ClassMap, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

// lookup returns the class for n, or "" when none applies.
func (m ClassMap) lookup(n ast.Node) string {
	switch v := n.(type) {
	case *ast.Paragraph:
		return m[ElementParagraph]
	case *ast.Heading:
		if v.Level >= minAnchoredLevel && v.Level <= maxAnchoredLevel {
			return m[ElementHeading]
		}
	case *ast.List:
		if v.IsOrdered() {
			return m[ElementOrderedList]
		}
		return m[ElementUnorderedList]
	case *ast.Blockquote:
		return m[ElementBlockquote]
	case *ast.CodeSpan:
		return m[ElementInlineCode]
	case *ast.Link:
		return m[ElementLink]
	case *extast.Table:
		return m[ElementTable]
	case *extast.TableCell:
		if _, header := v.Parent().(*extast.TableHeader); header {
			return m[ElementTableHeader]
		}
		return m[ElementTableCell]
	}
	return ""
}
