package md2blog

import (
	"github.com/alnah/go-md2blog/internal/content"
	"github.com/alnah/go-md2blog/internal/diagram"
	"github.com/alnah/go-md2blog/internal/pipeline"
	"github.com/alnah/go-md2blog/internal/progress"
)

// Article is one blog article with its front matter metadata.
type Article = content.Article

// Heading is one entry of an article outline.
type Heading = pipeline.Heading

// Node is a node of the structural tree built alongside the HTML.
type Node = pipeline.Node

// ClassMap maps element names to presentation classes.
type ClassMap = pipeline.ClassMap

// Metrics are the scroll measurements reading progress is computed from.
type Metrics = progress.Metrics

// DiagramEngine turns diagram sources into SVG markup.
// The default engine drives headless Chrome.
type DiagramEngine = diagram.Engine

// DiagramStore persists rendered diagrams across runs.
type DiagramStore = diagram.Store

// Element names accepted as ClassMap keys.
const (
	ElementParagraph     = pipeline.ElementParagraph
	ElementHeading       = pipeline.ElementHeading
	ElementUnorderedList = pipeline.ElementUnorderedList
	ElementOrderedList   = pipeline.ElementOrderedList
	ElementBlockquote    = pipeline.ElementBlockquote
	ElementTable         = pipeline.ElementTable
	ElementTableHeader   = pipeline.ElementTableHeader
	ElementTableCell     = pipeline.ElementTableCell
	ElementInlineCode    = pipeline.ElementInlineCode
	ElementLink          = pipeline.ElementLink
)

// Input is the content of one render.
type Input struct {
	// Markdown is the article body. When empty, Article.Body is used.
	Markdown string
	// Article supplies the page metadata (title, date, tags, reading time).
	// Optional: without it the page is titled after the first heading.
	Article *Article
	// Related articles listed at the end of the page.
	Related []Article
	// Fragment skips the page template and returns the body HTML only.
	Fragment bool
	// CSS is appended after the renderer style.
	CSS string
}

// DiagramStatus reports how one diagram of a document was resolved.
type DiagramStatus struct {
	Index int    // ordinal position in the document
	Key   string // content key, also the lazy endpoint path segment
	State string // "pending", "loading", "rendered" or "errored"
	Err   error  // render error when State is "errored"
}

// Result holds the output of a render.
type Result struct {
	HTML     []byte        // full page, or body fragment when Input.Fragment is set
	Headings []Heading     // outline shortcuts, document order
	Tree     *Node         // structural tree of the article body
	Diagrams []DiagramStatus
}

// Failed reports whether any diagram of the document failed to render.
func (r *Result) Failed() bool {
	for _, d := range r.Diagrams {
		if d.Err != nil {
			return true
		}
	}
	return false
}

// Site describes the blog the pages belong to.
type Site struct {
	Title    string // shown in the header and the page title suffix
	Lang     string // html lang attribute, "en" when empty
	BlogPath string // URL path of the article listing, "/blog" when empty
}

// IndexInput is the content of a listing page.
type IndexInput struct {
	Title     string    // page heading, the site title when empty
	Articles  []Article // listed in order
	Tags      []string  // tag filter links
	ActiveTag string    // highlighted tag, if the listing is filtered
	Message   string    // shown instead of the list when Articles is empty

	Featured   []Article // listed in a separate block above Articles
	Searchable bool      // render a search form submitting "q"
	Query      string    // current search term, echoed in the form
}

// Asset is a static file the pages reference when assets are linked rather
// than inlined. See WithAssetBase.
type Asset struct {
	Name        string
	ContentType string
	Body        []byte
}
