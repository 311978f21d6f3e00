package md2blog

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"
	"strings"

	"github.com/alnah/go-md2blog/internal/dateutil"
	"github.com/alnah/go-md2blog/internal/pipeline"
)

// isoDateLayout is the machine-readable date of the <time> element.
const isoDateLayout = "2006-01-02"

// untitled titles pages with no front matter title and no top-level heading.
const untitled = "Untitled"

// pageTemplates holds the parsed template set.
type pageTemplates struct {
	article *template.Template
	index   *template.Template
}

func parseTemplates(name, article, index string) (*pageTemplates, error) {
	a, err := template.New(name + "/article").Parse(article)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing article template: %v", ErrTemplateRender, err)
	}
	i, err := template.New(name + "/index").Parse(index)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing index template: %v", ErrTemplateRender, err)
	}
	return &pageTemplates{article: a, index: i}, nil
}

// layout is the part of the page data shared by articles and listings.
type layout struct {
	Lang        string
	Title       string
	SiteTitle   string
	HomeURL     string
	Stylesheets []string
	CSS         template.CSS
}

type articlePage struct {
	layout
	Description string
	Date        string
	DateISO     string
	ReadingTime int
	Tags        []tagLink
	Outline     template.HTML
	Content     template.HTML
	Related     []articleLink
	ScriptURLs  []string
	Scripts     []template.JS
}

type indexPage struct {
	layout
	Message   string
	Tags      []tagLink
	Articles  []articleLink
	Featured  []articleLink
	SearchURL string
	Query     string
}

type tagLink struct {
	Name   string
	URL    string
	Active bool
}

type articleLink struct {
	URL         string
	Title       string
	Excerpt     string
	Date        string
	ReadingTime int
	Featured    bool
}

func execute(t *template.Template, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplateRender, err)
	}
	return buf.Bytes(), nil
}

// ArticleURL returns the path of an article page.
func (r *Renderer) ArticleURL(id string) string {
	return r.cfg.site.BlogPath + "/" + url.PathEscape(id)
}

// TagURL returns the path of the listing filtered by tag.
func (r *Renderer) TagURL(tag string) string {
	return r.cfg.site.BlogPath + "/tags/" + url.PathEscape(pipeline.Slugify(tag))
}

// BlogURL returns the path of the article listing.
func (r *Renderer) BlogURL() string {
	return r.cfg.site.BlogPath
}

func (r *Renderer) layout(title, extraCSS string) layout {
	l := layout{
		Lang:      r.cfg.site.Lang,
		Title:     title,
		SiteTitle: r.cfg.site.Title,
		HomeURL:   r.cfg.site.BlogPath,
	}
	css := extraCSS
	if r.cfg.assetBase != "" {
		l.Stylesheets = []string{r.assetURL(styleAsset)}
	} else {
		css = joinCSS(r.css, extraCSS)
	}
	if css != "" {
		l.CSS = template.CSS(sanitizeCSS(css)) // #nosec G203 -- style and user CSS are trusted configuration
	}
	return l
}

func (r *Renderer) assetURL(name string) string {
	return strings.TrimSuffix(r.cfg.assetBase, "/") + "/" + name
}

// formatDate renders a published date, or "" for articles without one.
func (r *Renderer) formatDate(a *Article) (date, iso string) {
	if a == nil || a.PublishedDate.IsZero() {
		return "", ""
	}
	formatted, err := dateutil.FormatDate(a.PublishedDate, r.cfg.dateFormat)
	if err != nil {
		// dateFormat is validated in NewRenderer
		formatted = a.PublishedDate.Format(isoDateLayout)
	}
	return formatted, a.PublishedDate.Format(isoDateLayout)
}

func (r *Renderer) tagLinks(tags []string, active string) []tagLink {
	if len(tags) == 0 {
		return nil
	}
	links := make([]tagLink, len(tags))
	for i, tag := range tags {
		links[i] = tagLink{Name: tag, URL: r.TagURL(tag), Active: tag == active}
	}
	return links
}

func (r *Renderer) articleLinks(articles []Article) []articleLink {
	if len(articles) == 0 {
		return nil
	}
	links := make([]articleLink, len(articles))
	for i := range articles {
		a := &articles[i]
		date, _ := r.formatDate(a)
		links[i] = articleLink{
			URL:         r.ArticleURL(a.ID),
			Title:       a.Title,
			Excerpt:     a.Excerpt,
			Date:        date,
			ReadingTime: a.ReadingTime,
			Featured:    a.Featured,
		}
	}
	return links
}

// articleTitle picks the page title: front matter first, then the first
// top-level heading of the body.
func articleTitle(a *Article, tree *Node) string {
	if a != nil && a.Title != "" {
		return a.Title
	}
	if tree != nil {
		for _, n := range tree.Children {
			if n.Kind != pipeline.KindHeading || n.Level != 1 {
				continue
			}
			if text := strings.TrimSpace(n.PlainText()); text != "" {
				return text
			}
		}
	}
	return untitled
}

func joinCSS(parts ...string) string {
	var nonEmpty []string
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, "\n")
}

// sanitizeCSS escapes sequences that could break out of a <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

// sanitizeJS escapes sequences that could break out of a <script> block.
func sanitizeJS(js string) string {
	return strings.ReplaceAll(js, "</script", `<\/script`)
}
