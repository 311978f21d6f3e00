// Package md2blog renders markdown articles into blog pages.
//
// # Quick Start
//
// Create a renderer, render markdown, and close when done:
//
//	r, err := md2blog.NewRenderer()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
//	result, err := r.Render(ctx, md2blog.Input{
//	    Markdown: "## Hello\n\nWorld",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("index.html", result.HTML, 0644)
//
// The result carries the page (result.HTML), the outline shortcuts
// (result.Headings), a structural tree of the body (result.Tree) and the
// status of every diagram (result.Diagrams).
//
// # Rendering Pipeline
//
// The rendering process follows these stages:
//
//  1. Markdown preprocessing (line normalization, ==highlight== syntax)
//  2. Outline extraction from the raw text ("## " and "### " lines)
//  3. Markdown to HTML conversion via Goldmark (GFM, footnotes, syntax
//     highlighting, heading anchors, scrollable tables, presentation classes)
//  4. Diagram resolution: mermaid fences rendered to SVG in headless Chrome,
//     or left as placeholders the page fetches on demand
//  5. Page template (title, metadata, tags, outline, reading progress bar,
//     related articles)
//
// Heading anchors and outline entries share one slug function, so every
// outline link resolves to a heading of the page.
//
// # Configuration
//
// Use functional options to customize the renderer:
//
//	r, err := md2blog.NewRenderer(
//	    md2blog.WithTimeout(time.Minute),
//	    md2blog.WithStyle("default"),
//	    md2blog.WithDiagramCacheFile("diagrams.db"),
//	)
//
// Per-render content is passed via Input:
//
//	result, err := r.Render(ctx, md2blog.Input{
//	    Article: &article,
//	    Related: related,
//	    CSS:     ".article-title { color: red; }",
//	})
//
// # Diagrams
//
// Fenced code blocks tagged mermaid become diagrams. Identical sources share
// one render and one cache entry. A diagram that fails to render is replaced
// by an inline error block; the rest of the page is unaffected.
//
// With WithLazyDiagrams, uncached diagrams are rendered when they scroll
// into view: the page requests prefix/{key}, which a server answers with
// Renderer.RenderDiagram. Without a browser, use WithoutDiagrams to render
// the fences as plain code.
//
// # Error Handling
//
// Errors can be checked with errors.Is:
//
//	if errors.Is(err, md2blog.ErrEmptyMarkdown) {
//	    // handle empty input
//	}
//
// Diagram failures are reported per diagram in Result.Diagrams, wrapping
// ErrDiagramRender or ErrBrowserConnect.
package md2blog
