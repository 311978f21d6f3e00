package server

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/alnah/go-md2blog"
	"github.com/alnah/go-md2blog/internal/content"
)

// ErrNotFound reports a page, tag, diagram or asset that does not exist.
var ErrNotFound = errors.New("not found")

// Site produces the pages the server answers with.
type Site interface {
	// Index renders the listing narrowed by q.
	Index(ctx context.Context, q IndexQuery) ([]byte, error)
	// Article renders one article page.
	Article(ctx context.Context, id string) ([]byte, error)
	// NotFound renders the page shown for unknown articles and routes.
	NotFound(ctx context.Context) ([]byte, error)
	// Diagram renders one diagram by key. A failed render returns the
	// inline error block together with the error.
	Diagram(ctx context.Context, key string) (string, error)
	// Asset returns a linked stylesheet or script.
	Asset(name string) (md2blog.Asset, bool)
}

// IndexQuery narrows a listing. Both filters compose; zero values list
// everything.
type IndexQuery struct {
	Tag    string // tag name or slug
	Search string // matched against title, excerpt and tags, ignoring case
}

// Messages of the listing pages.
const (
	emptyMessage    = "No articles yet."
	noMatchMessage  = "No articles match your search."
	notFoundTitle   = "Article not found"
	notFoundMessage = "The article you are looking for does not exist. Here are some others."
)

// Blog is the Site over a content store.
type Blog struct {
	store    *content.Store
	renderer *md2blog.Renderer
	related  int
	search   bool
}

var _ Site = (*Blog)(nil)

// BlogOption configures a Blog.
type BlogOption func(*Blog)

// WithSearch renders a search form on listings. Only a server can answer
// it; static builds leave it off.
func WithSearch() BlogOption {
	return func(b *Blog) { b.search = true }
}

// NewBlog creates a Blog. related bounds the related articles listed under
// each article; zero lists none.
func NewBlog(store *content.Store, renderer *md2blog.Renderer, related int, opts ...BlogOption) *Blog {
	b := &Blog{store: store, renderer: renderer, related: related}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Index renders the listing narrowed by q. The tag is matched by slug, so
// "/blog/tags/web-dev" finds "Web Dev". The unfiltered listing also shows
// the featured articles in their own block.
func (b *Blog) Index(ctx context.Context, q IndexQuery) ([]byte, error) {
	term := strings.TrimSpace(q.Search)
	in := md2blog.IndexInput{Tags: b.store.Tags(), Searchable: b.search, Query: term}

	if q.Tag == "" {
		in.Articles = b.store.All()
	} else {
		name, ok := b.findTag(q.Tag)
		if !ok {
			return nil, fmt.Errorf("%w: tag %q", ErrNotFound, q.Tag)
		}
		in.Title = "Tagged: " + name
		in.ActiveTag = name
		in.Articles = b.store.ByTag(name)
	}

	switch {
	case term != "":
		in.Articles = slices.DeleteFunc(in.Articles, func(a content.Article) bool { return !a.Matches(term) })
		if len(in.Articles) == 0 {
			in.Message = noMatchMessage
		}
	case len(in.Articles) == 0:
		in.Message = emptyMessage
	case q.Tag == "":
		in.Featured = b.store.Featured()
	}

	return b.renderer.RenderIndex(ctx, in)
}

// Article renders one article page with its related articles.
func (b *Blog) Article(ctx context.Context, id string) ([]byte, error) {
	a, ok := b.store.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: article %q", ErrNotFound, id)
	}

	res, err := b.renderer.Render(ctx, md2blog.Input{
		Article: &a,
		Related: b.store.Related(id, b.related),
	})
	if err != nil {
		return nil, fmt.Errorf("rendering %q: %w", id, err)
	}
	return res.HTML, nil
}

// NotFound renders the missing-article page, suggesting featured articles
// or, without any, the latest ones.
func (b *Blog) NotFound(ctx context.Context) ([]byte, error) {
	suggestions := b.store.Featured()
	if len(suggestions) == 0 {
		suggestions = b.store.All()
	}
	if n := max(b.related, 1); len(suggestions) > n {
		suggestions = suggestions[:n]
	}

	return b.renderer.RenderIndex(ctx, md2blog.IndexInput{
		Title:    notFoundTitle,
		Message:  notFoundMessage,
		Articles: suggestions,
	})
}

// Diagram renders one diagram by key.
func (b *Blog) Diagram(ctx context.Context, key string) (string, error) {
	markup, err := b.renderer.RenderDiagram(ctx, key)
	if errors.Is(err, md2blog.ErrDiagramNotFound) {
		return "", fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return markup, err
}

// Asset returns a linked stylesheet or script by file name.
func (b *Blog) Asset(name string) (md2blog.Asset, bool) {
	for _, a := range b.renderer.Assets() {
		if a.Name == name {
			return a, true
		}
	}
	return md2blog.Asset{}, false
}

func (b *Blog) findTag(tag string) (string, bool) {
	slug := md2blog.Slugify(tag)
	for _, name := range b.store.Tags() {
		if name == tag || md2blog.Slugify(name) == slug {
			return name, true
		}
	}
	return "", false
}
