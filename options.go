package md2blog

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Option configures a Renderer.
type Option func(*Renderer)

// rendererConfig holds internal configuration for Renderer.
type rendererConfig struct {
	timeout        time.Duration
	styleInput     string
	resolvedStyle  string
	assetPath      string
	templateSet    string
	assetBase      string
	mediaPrefix    string
	dateFormat     string
	site           Site
	rawHTML        bool
	highlightStyle string
	classes        ClassMap

	diagramsOff        bool
	diagramLanguage    string
	diagramScriptURL   string
	diagramTheme       string
	diagramCacheSize   int
	diagramCacheFile   string
	diagramConcurrency int
	lazyPrefix         string
	browserBin         string
	noSandbox          bool
}

// Defaults used when no option overrides them.
const (
	defaultTimeout    = 30 * time.Second
	defaultDateFormat = "MMMM D, YYYY"
	defaultBlogPath   = "/blog"
	defaultLang       = "en"
	outlineTitle      = "On this page"
)

// WithTimeout bounds one diagram render.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("md2blog: WithTimeout duration must be positive")
	}
	return func(r *Renderer) {
		r.cfg.timeout = d
	}
}

// WithLogger sets the logger. Warnings and errors go to stderr by default.
func WithLogger(l *logrus.Logger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.log = l
		}
	}
}

// WithStyle sets the page style: a built-in style name or a path to a CSS file.
func WithStyle(style string) Option {
	return func(r *Renderer) {
		r.cfg.styleInput = style
	}
}

// WithAssetPath sets a directory whose styles, scripts and templates take
// precedence over the built-in ones.
func WithAssetPath(path string) Option {
	return func(r *Renderer) {
		r.cfg.assetPath = path
	}
}

// WithTemplateSet selects the page template set by name.
func WithTemplateSet(name string) Option {
	return func(r *Renderer) {
		r.cfg.templateSet = name
	}
}

// WithAssetBase links the stylesheet and scripts from base (e.g. "/assets")
// instead of inlining them into every page. Serve the files returned by
// Renderer.Assets under that path.
func WithAssetBase(base string) Option {
	return func(r *Renderer) {
		r.cfg.assetBase = base
	}
}

// WithMediaPrefix rebases relative image and file references under prefix.
func WithMediaPrefix(prefix string) Option {
	return func(r *Renderer) {
		r.cfg.mediaPrefix = prefix
	}
}

// WithDateFormat sets the format of published dates, e.g. "MMMM D, YYYY".
func WithDateFormat(format string) Option {
	return func(r *Renderer) {
		r.cfg.dateFormat = format
	}
}

// WithSite sets the blog title, language and listing path.
func WithSite(site Site) Option {
	return func(r *Renderer) {
		r.cfg.site = site
	}
}

// WithRawHTML controls whether HTML embedded in the markdown passes through.
// Enabled by default.
func WithRawHTML(enabled bool) Option {
	return func(r *Renderer) {
		r.cfg.rawHTML = enabled
	}
}

// WithHighlightStyle sets the chroma style of code blocks.
func WithHighlightStyle(style string) Option {
	return func(r *Renderer) {
		r.cfg.highlightStyle = style
	}
}

// WithClasses overrides presentation classes per element.
// An empty class removes the default for that element.
func WithClasses(classes ClassMap) Option {
	return func(r *Renderer) {
		for k, v := range classes {
			r.cfg.classes[k] = v
		}
	}
}

// WithDiagramLanguage sets the fence language rendered as a diagram.
func WithDiagramLanguage(lang string) Option {
	return func(r *Renderer) {
		r.cfg.diagramLanguage = lang
	}
}

// WithoutDiagrams renders diagram fences as plain code blocks and never
// starts a browser.
func WithoutDiagrams() Option {
	return func(r *Renderer) {
		r.cfg.diagramsOff = true
	}
}

// WithDiagramEngine replaces the headless Chrome engine.
func WithDiagramEngine(e DiagramEngine) Option {
	return func(r *Renderer) {
		r.engine = e
	}
}

// WithDiagramScriptURL sets the URL of the diagram library loaded by the
// default engine.
func WithDiagramScriptURL(url string) Option {
	return func(r *Renderer) {
		r.cfg.diagramScriptURL = url
	}
}

// WithDiagramTheme sets the diagram library theme ("dark" by default).
func WithDiagramTheme(theme string) Option {
	return func(r *Renderer) {
		r.cfg.diagramTheme = theme
	}
}

// WithBrowser sets the Chrome binary used by the default engine and whether
// its sandbox is disabled.
func WithBrowser(bin string, noSandbox bool) Option {
	return func(r *Renderer) {
		r.cfg.browserBin = bin
		r.cfg.noSandbox = noSandbox
	}
}

// WithDiagramCacheSize sets how many rendered diagrams are kept in memory.
func WithDiagramCacheSize(n int) Option {
	return func(r *Renderer) {
		r.cfg.diagramCacheSize = n
	}
}

// WithDiagramStore persists rendered diagrams in s. The caller owns s.
func WithDiagramStore(s DiagramStore) Option {
	return func(r *Renderer) {
		r.store = s
	}
}

// WithDiagramCacheFile persists rendered diagrams in a SQLite database at
// path. The renderer closes it on Close.
func WithDiagramCacheFile(path string) Option {
	return func(r *Renderer) {
		r.cfg.diagramCacheFile = path
	}
}

// WithLazyDiagrams leaves uncached diagrams as placeholders fetched from
// prefix + "/" + key by the page script. Use with RenderDiagram.
func WithLazyDiagrams(prefix string) Option {
	return func(r *Renderer) {
		r.cfg.lazyPrefix = prefix
	}
}

// WithDiagramConcurrency bounds simultaneous diagram renders per document.
func WithDiagramConcurrency(n int) Option {
	return func(r *Renderer) {
		r.cfg.diagramConcurrency = n
	}
}
