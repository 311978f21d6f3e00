package pipeline

import (
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// URLRewrite describes how relative references in an article are published.
type URLRewrite struct {
	// MediaPrefix replaces the article directory for images and files,
	// e.g. "/media/".
	MediaPrefix string
	// ArticlePrefix is prepended to the slug of linked markdown files,
	// e.g. "/blog/".
	ArticlePrefix string
}

var bodyContext = &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}

// RewriteRelativeURLs rewrites relative img[src] and a[href] references of
// an HTML fragment so they resolve on the published site. Links to
// markdown files become ArticlePrefix + the slug of the file name; other
// relative paths are rebased under MediaPrefix. URLs, absolute paths,
// anchors and paths leaving the content directory are kept.
func RewriteRelativeURLs(fragment string, rw URLRewrite) (string, error) {
	if rw == (URLRewrite{}) {
		return fragment, nil
	}

	nodes, err := html.ParseFragment(strings.NewReader(fragment), bodyContext)
	if err != nil {
		return "", err
	}
	root := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		root.AppendChild(n)
	}

	doc := goquery.NewDocumentFromNode(root)
	doc.Find("img[src]").Each(func(_ int, s *goquery.Selection) {
		if v, ok := rw.media(s.AttrOr("src", "")); ok {
			s.SetAttr("src", v)
		}
	})
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		if v, ok := rw.link(s.AttrOr("href", "")); ok {
			s.SetAttr("href", v)
		}
	})

	var b strings.Builder
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&b, c); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

// media maps a relative file reference under MediaPrefix.
func (rw URLRewrite) media(ref string) (string, bool) {
	p, fragment, ok := relativeRef(ref)
	if !ok || rw.MediaPrefix == "" {
		return "", false
	}
	return withFragment(joinPrefix(rw.MediaPrefix, p), fragment), true
}

// link maps a markdown reference to its article URL and anything else
// like media.
func (rw URLRewrite) link(ref string) (string, bool) {
	p, fragment, ok := relativeRef(ref)
	switch {
	case !ok:
		return "", false
	case !isMarkdownFile(p):
		return rw.media(ref)
	case rw.ArticlePrefix == "":
		return "", false
	}
	base := path.Base(p)
	slug := Slugify(strings.TrimSuffix(base, path.Ext(base)))
	return withFragment(joinPrefix(rw.ArticlePrefix, slug), fragment), true
}

// relativeRef splits a reference relative to the article into its cleaned
// path and fragment. ok is false for URLs, absolute paths, bare anchors and
// paths climbing out of the content directory.
func relativeRef(ref string) (p, fragment string, ok bool) {
	u, err := url.Parse(ref)
	if err != nil || u.Scheme != "" || u.Host != "" || u.Opaque != "" {
		return "", "", false
	}
	p, fragment, _ = strings.Cut(ref, "#")
	if p == "" || strings.HasPrefix(p, "/") {
		return "", "", false
	}
	p = path.Clean(p)
	if p == ".." || strings.HasPrefix(p, "../") {
		return "", "", false
	}
	return p, fragment, true
}

func withFragment(p, fragment string) string {
	if fragment == "" {
		return p
	}
	return p + "#" + fragment
}

func joinPrefix(prefix, p string) string {
	return strings.TrimSuffix(prefix, "/") + "/" + strings.TrimPrefix(p, "/")
}

func isMarkdownFile(p string) bool {
	ext := strings.ToLower(path.Ext(p))
	return ext == ".md" || ext == ".markdown"
}
