package md2blog

import (
	"context"
	"errors"
	"fmt"
	"html"
	"html/template"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/alnah/go-md2blog/internal/assets"
	"github.com/alnah/go-md2blog/internal/dateutil"
	"github.com/alnah/go-md2blog/internal/diagram"
	"github.com/alnah/go-md2blog/internal/fileutil"
	"github.com/alnah/go-md2blog/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.MarkdownPreprocessor = (*pipeline.CommonMarkPreprocessor)(nil)
	_ pipeline.HTMLConverter        = (*pipeline.GoldmarkConverter)(nil)
	_ DiagramEngine                 = (*diagram.RodEngine)(nil)
	_ DiagramStore                  = (*diagram.SQLiteStore)(nil)
)

// Renderer turns markdown articles into blog pages.
// Create with NewRenderer, use Render for articles and RenderIndex for
// listings, and Close when done. A Renderer is safe for concurrent use.
type Renderer struct {
	cfg          rendererConfig
	log          *logrus.Logger
	assetLoader  *assets.AssetResolver
	preprocessor pipeline.MarkdownPreprocessor
	converter    *pipeline.GoldmarkConverter
	templates    *pageTemplates
	css          string
	scripts      map[string]string

	engine     DiagramEngine
	store      DiagramStore
	ownedStore *diagram.SQLiteStore
	diagrams   *diagram.Renderer
}

// NewRenderer creates a Renderer with default configuration.
// Use options to customize behavior (e.g., WithStyle, WithLazyDiagrams).
// Returns error if asset loading, template parsing or cache setup fails.
// The diagram engine is not started until the first diagram needs it.
func NewRenderer(opts ...Option) (*Renderer, error) {
	r := &Renderer{
		cfg: rendererConfig{
			timeout:          defaultTimeout,
			dateFormat:       defaultDateFormat,
			rawHTML:          true,
			highlightStyle:   pipeline.DefaultHighlightStyle,
			classes:          pipeline.DefaultClasses(),
			templateSet:      DefaultTemplateSet,
			diagramCacheSize: diagram.DefaultCacheSize,
			diagramLanguage:  pipeline.DefaultDiagramLanguage,
		},
		preprocessor: &pipeline.CommonMarkPreprocessor{},
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.log == nil {
		r.log = defaultLogger()
	}
	if r.cfg.site.Lang == "" {
		r.cfg.site.Lang = defaultLang
	}
	if r.cfg.site.BlogPath == "" {
		r.cfg.site.BlogPath = defaultBlogPath
	}
	if r.cfg.dateFormat == "" {
		r.cfg.dateFormat = defaultDateFormat
	}
	if err := dateutil.ValidateFormat(r.cfg.dateFormat); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDateFormat, err)
	}

	resolver, err := assets.NewAssetResolver(r.cfg.assetPath)
	if err != nil {
		return nil, convertAssetError(err)
	}
	r.assetLoader = resolver
	if root := resolver.CustomRoot(); root != "" {
		r.log.WithField("dir", root).Debug("using custom assets")
	}

	if err := r.loadAssets(); err != nil {
		return nil, err
	}

	r.converter = pipeline.NewGoldmarkConverterWithConfig(pipeline.ConverterConfig{
		RawHTML:         r.cfg.rawHTML,
		HighlightStyle:  r.cfg.highlightStyle,
		DiagramLanguage: r.cfg.diagramLanguage,
		Classes:         r.cfg.classes,
	})

	if !r.cfg.diagramsOff {
		if err := r.initDiagrams(); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// loadAssets resolves the style, scripts and templates.
func (r *Renderer) loadAssets() error {
	if err := r.resolveStyle(); err != nil {
		return err
	}

	highlight, err := pipeline.HighlightCSS(r.cfg.highlightStyle)
	if err != nil {
		return err
	}
	r.css = joinCSS(r.cfg.resolvedStyle, highlight)

	r.scripts = make(map[string]string, 2)
	for _, name := range []string{assets.ProgressScript, assets.DiagramScript} {
		js, err := r.assetLoader.LoadScript(name)
		if err != nil {
			return fmt.Errorf("loading script %q: %w", name, convertAssetError(err))
		}
		r.scripts[name] = js
	}

	ts, err := r.assetLoader.LoadTemplateSet(r.cfg.templateSet)
	if err != nil {
		return fmt.Errorf("loading template set %q: %w", r.cfg.templateSet, convertAssetError(err))
	}
	r.templates, err = parseTemplates(ts.Name, ts.Article, ts.Index)
	return err
}

// resolveStyle resolves the style input (name or path) to CSS content.
func (r *Renderer) resolveStyle() error {
	input := r.cfg.styleInput
	if input == "" {
		input = DefaultStyle
	}

	if fileutil.IsFilePath(input) {
		content, err := os.ReadFile(input) // #nosec G304 -- user-provided path
		if err != nil {
			return fmt.Errorf("%w: loading style file %q: %v", ErrStyleNotFound, input, err)
		}
		r.cfg.resolvedStyle = string(content)
		return nil
	}

	css, err := r.assetLoader.LoadStyle(input)
	if err != nil {
		return fmt.Errorf("loading style %q: %w", input, convertAssetError(err))
	}
	r.cfg.resolvedStyle = css
	return nil
}

// initDiagrams builds the diagram cache, store and engine.
func (r *Renderer) initDiagrams() error {
	if r.store == nil && r.cfg.diagramCacheFile != "" {
		s, err := diagram.OpenSQLiteStore(r.cfg.diagramCacheFile)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrDiagramStore, err)
		}
		r.ownedStore = s
		r.store = s
	}

	cache, err := diagram.NewCache(r.cfg.diagramCacheSize, r.store, r.log)
	if err != nil {
		_ = r.closeStore()
		return fmt.Errorf("creating diagram cache: %w", err)
	}

	if r.engine == nil {
		r.engine = diagram.NewRodEngine(diagram.RodEngineConfig{
			ScriptURL:  r.cfg.diagramScriptURL,
			InitConfig: initConfig(r.cfg.diagramTheme),
			Timeout:    r.cfg.timeout,
			BrowserBin: r.cfg.browserBin,
			NoSandbox:  r.cfg.noSandbox,
		})
	}

	r.diagrams, err = diagram.NewRenderer(diagram.Config{
		Engine:  r.engine,
		Cache:   cache,
		Logger:  r.log,
		Timeout: r.cfg.timeout,
	})
	if err != nil {
		_ = r.closeStore()
		return fmt.Errorf("creating diagram renderer: %w", err)
	}
	return nil
}

// initConfig returns the diagram library configuration for theme. Theme
// variables only apply to the built-in dark palette.
func initConfig(theme string) map[string]any {
	cfg := diagram.DefaultInitConfig()
	if theme != "" && theme != cfg["theme"] {
		cfg["theme"] = theme
		delete(cfg, "themeVariables")
	}
	return cfg
}

// Render runs the full pipeline and returns the page (or fragment) with the
// outline, the structural tree and the status of every diagram.
// A failed diagram is replaced by an inline error block and never fails the
// render. Recovers from internal panics to prevent crashes from propagating
// to callers.
func (r *Renderer) Render(ctx context.Context, input Input) (result *Result, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("internal error: %v", rec)
		}
	}()

	markdown := input.Markdown
	if markdown == "" && input.Article != nil {
		markdown = input.Article.Body
	}
	if markdown == "" {
		return nil, ErrEmptyMarkdown
	}

	// Preprocess markdown
	mdContent := r.preprocessor.PreprocessMarkdown(ctx, markdown)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	// The outline comes from the raw text, independently of the render pass.
	headings := pipeline.ExtractHeadings(markdown)

	doc, err := r.converter.Convert(ctx, mdContent)
	if err != nil {
		if errors.Is(err, pipeline.ErrHTMLConversion) {
			return nil, fmt.Errorf("%w: %v", ErrHTMLConversion, err)
		}
		return nil, err
	}

	// Rewrite links to other articles and media before diagram markup is
	// substituted, so SVG never goes through the HTML parser.
	body, err := pipeline.RewriteRelativeURLs(doc.HTML, pipeline.URLRewrite{
		MediaPrefix:   r.cfg.mediaPrefix,
		ArticlePrefix: r.cfg.site.BlogPath + "/",
	})
	if err != nil {
		return nil, fmt.Errorf("rewriting relative URLs: %w", err)
	}

	statuses, err := r.resolveDiagrams(ctx, doc.Diagrams, &body)
	if err != nil {
		return nil, err
	}

	// Convert highlight placeholders to <mark> tags.
	body = pipeline.ConvertMarkPlaceholders(body)

	res := &Result{
		Headings: headings,
		Tree:     doc.Tree,
		Diagrams: statuses,
	}

	if input.Fragment {
		res.HTML = []byte(body)
		return res, nil
	}

	res.HTML, err = r.articlePage(input, body, headings, doc.Tree, len(doc.Diagrams) > 0)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// resolveDiagrams substitutes every diagram placeholder of body.
func (r *Renderer) resolveDiagrams(ctx context.Context, refs []pipeline.DiagramRef, body *string) ([]DiagramStatus, error) {
	if len(refs) == 0 {
		return nil, nil
	}

	markup := make(map[string]string, len(refs))
	statuses := make([]DiagramStatus, len(refs))

	if r.diagrams == nil {
		for i, ref := range refs {
			markup[ref.Placeholder] = codeBlockHTML(ref.Language, ref.Source)
			statuses[i] = DiagramStatus{Index: ref.Index, Key: diagram.Key(ref.Source), State: diagram.StatePending.String()}
		}
		*body = pipeline.SubstitutePlaceholders(*body, markup)
		return statuses, nil
	}

	sources := make([]string, len(refs))
	for i, ref := range refs {
		sources[i] = ref.Source
	}

	outcomes, err := r.diagrams.Resolve(ctx, sources, diagram.ResolveOptions{
		Lazy:        r.cfg.lazyPrefix != "",
		Endpoint:    r.cfg.lazyPrefix,
		Concurrency: r.cfg.diagramConcurrency,
	})
	if err != nil {
		return nil, err
	}

	for i, o := range outcomes {
		markup[refs[i].Placeholder] = o.HTML
		statuses[i] = DiagramStatus{Index: refs[i].Index, Key: o.Key, State: o.State.String(), Err: o.Err}
		if errors.Is(o.Err, diagram.ErrBrowserConnect) {
			statuses[i].Err = fmt.Errorf("%w: %w", ErrBrowserConnect, o.Err)
		} else if o.Err != nil {
			statuses[i].Err = fmt.Errorf("%w: %w", ErrDiagramRender, o.Err)
		}
	}

	*body = pipeline.SubstitutePlaceholders(*body, markup)
	return statuses, nil
}

// codeBlockHTML renders a diagram source as a plain code block.
func codeBlockHTML(language, source string) string {
	return `<pre><code class="language-` + html.EscapeString(language) + `">` +
		html.EscapeString(source) + "\n</code></pre>\n"
}

func (r *Renderer) articlePage(input Input, body string, headings []Heading, tree *Node, hasDiagrams bool) ([]byte, error) {
	a := input.Article
	date, iso := r.formatDate(a)

	page := articlePage{
		layout:  r.layout(articleTitle(a, tree), input.CSS),
		Date:    date,
		DateISO: iso,
		Outline: template.HTML(pipeline.OutlineNav(headings, outlineTitle)), // #nosec G203 -- escaped by OutlineNav
		Content: template.HTML(body),                                        // #nosec G203 -- rendered article body
		Related: r.articleLinks(input.Related),
	}
	if a != nil {
		page.Description = a.Excerpt
		page.ReadingTime = a.ReadingTime
		page.Tags = r.tagLinks(a.Tags, "")
	}

	scripts := []string{assets.ProgressScript}
	if hasDiagrams && r.cfg.lazyPrefix != "" && r.diagrams != nil {
		scripts = append(scripts, assets.DiagramScript)
	}
	for _, name := range scripts {
		if r.cfg.assetBase != "" {
			page.ScriptURLs = append(page.ScriptURLs, r.assetURL(name+".js"))
			continue
		}
		page.Scripts = append(page.Scripts, template.JS(sanitizeJS(r.scripts[name]))) // #nosec G203 -- embedded or configured script
	}

	return execute(r.templates.article, page)
}

// RenderIndex renders an article listing page.
func (r *Renderer) RenderIndex(ctx context.Context, input IndexInput) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	title := input.Title
	if title == "" {
		title = r.cfg.site.Title
	}
	if title == "" {
		title = "Blog"
	}

	page := indexPage{
		layout:   r.layout(title, ""),
		Message:  input.Message,
		Tags:     r.tagLinks(input.Tags, input.ActiveTag),
		Articles: r.articleLinks(input.Articles),
		Featured: r.articleLinks(input.Featured),
		Query:    input.Query,
	}
	if input.Searchable {
		page.SearchURL = r.BlogURL()
		if input.ActiveTag != "" {
			page.SearchURL = r.TagURL(input.ActiveTag)
		}
	}
	return execute(r.templates.index, page)
}

// RenderDiagram renders one diagram by key for the lazy endpoint. The key
// must come from a page rendered by this Renderer, or from the cache.
//
// Unknown keys return ErrDiagramNotFound. A failed render returns the inline
// error block together with an error wrapping ErrDiagramRender.
func (r *Renderer) RenderDiagram(ctx context.Context, key string) (string, error) {
	if r.diagrams == nil || !diagram.ValidKey(key) {
		return "", fmt.Errorf("%w: %q", ErrDiagramNotFound, key)
	}

	res, err := r.diagrams.RenderKey(ctx, key)
	switch {
	case errors.Is(err, diagram.ErrNotFound):
		return "", fmt.Errorf("%w: %q", ErrDiagramNotFound, key)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "", err
	case errors.Is(err, diagram.ErrBrowserConnect):
		return diagram.ErrorHTML(key), fmt.Errorf("%w: %w", ErrBrowserConnect, err)
	case err != nil:
		return diagram.ErrorHTML(key), fmt.Errorf("%w: %w", ErrDiagramRender, err)
	}
	return diagram.FigureHTML(key, res.Markup), nil
}

// Assets returns the stylesheet and scripts pages link to when WithAssetBase
// is set.
func (r *Renderer) Assets() []Asset {
	return []Asset{
		{Name: styleAsset, ContentType: "text/css; charset=utf-8", Body: []byte(r.css)},
		{Name: assets.ProgressScript + ".js", ContentType: "text/javascript; charset=utf-8", Body: []byte(r.scripts[assets.ProgressScript])},
		{Name: assets.DiagramScript + ".js", ContentType: "text/javascript; charset=utf-8", Body: []byte(r.scripts[assets.DiagramScript])},
	}
}

// DiagramsEnabled reports whether diagram fences are rendered as diagrams.
func (r *Renderer) DiagramsEnabled() bool {
	return r.diagrams != nil
}

// Close releases the diagram engine and the cache file opened by
// WithDiagramCacheFile.
func (r *Renderer) Close() error {
	var err error
	if r.diagrams != nil {
		err = r.diagrams.Close()
	}
	if cerr := r.closeStore(); err == nil {
		err = cerr
	}
	return err
}

func (r *Renderer) closeStore() error {
	if r.ownedStore == nil {
		return nil
	}
	err := r.ownedStore.Close()
	r.ownedStore = nil
	return err
}

func defaultLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.WarnLevel)
	return l
}
