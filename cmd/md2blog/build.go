package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	md2blog "github.com/alnah/go-md2blog"
	"github.com/alnah/go-md2blog/internal/content"
	"github.com/alnah/go-md2blog/internal/fileutil"
	"github.com/alnah/go-md2blog/internal/hints"
	"github.com/alnah/go-md2blog/internal/server"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput            = errors.New("no input specified")
	ErrReadMarkdown       = errors.New("failed to read markdown file")
	ErrWriteOutput        = errors.New("failed to write output file")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrArticlesFailed     = errors.New("articles failed")
)

// Site layout of a build.
const (
	maxWorkers = 8
	assetsPath = "/assets"
	notFound   = "404.html"
	indexFile  = "index.html"
)

// PageRenderer renders article pages. *md2blog.Renderer satisfies it.
type PageRenderer interface {
	Render(ctx context.Context, input md2blog.Input) (*md2blog.Result, error)
	ArticleURL(id string) string
}

var _ PageRenderer = (*md2blog.Renderer)(nil)

// ArticleResult holds the outcome of a single article.
type ArticleResult struct {
	ID         string
	OutputPath string
	Err        error
	Diagrams   int   // diagrams in the page
	Failed     int   // diagrams replaced by an error block
	DiagramErr error // first diagram failure
	Duration   time.Duration
}

// runBuild renders the whole site into the output directory.
func runBuild(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseBuildFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	envCfg := loadEnvConfig()
	workers := flags.workers
	if workers == 0 {
		workers = envCfg.Workers
	}
	if err := validateWorkers(workers); err != nil {
		return err
	}

	cfg, err := loadConfig(flags.common, envCfg, env.Stderr)
	if err != nil {
		return err
	}
	mergeRenderFlags(flags.render, cfg)
	setIfNotEmpty(&cfg.Output.Dir, flags.output)
	if len(positional) > 0 {
		cfg.Content.Dir = positional[0]
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Content.Dir == "" || cfg.Output.Dir == "" {
		return fmt.Errorf("%w: content and output directories are required", ErrNoInput)
	}

	logger, closer, err := newLogger(cfg, flags.common, env.Stderr)
	if err != nil {
		return err
	}
	defer closer.Close()

	store, err := loadStore(cfg.Content.Dir)
	if err != nil {
		return err
	}

	opts := append(rendererOptions(cfg, logger, env), md2blog.WithAssetBase(assetsPath))
	renderer, err := md2blog.NewRenderer(opts...)
	if err != nil {
		return withHint(err)
	}
	defer renderer.Close()

	outDir := cfg.Output.Dir
	results := renderArticles(ctx, renderer, store, outDir, resolveWorkers(workers), cfg.Site.RelatedCount)

	site := server.NewBlog(store, renderer, cfg.Site.RelatedCount)
	if err := writeSitePages(ctx, site, renderer, store, outDir); err != nil {
		return withHint(err)
	}

	failed := printResults(results, flags.common, env)
	if failed > 0 {
		return withHint(fmt.Errorf("%w: %d of %d: %w", ErrArticlesFailed, failed, len(results), firstError(results)))
	}
	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Built %d articles into %s\n", len(results), outDir)
	}
	return nil
}

// loadStore reads the articles, hinting at the flag when the directory is
// missing.
func loadStore(dir string) (*content.Store, error) {
	store, err := content.Load(dir)
	if errors.Is(err, content.ErrContentDir) {
		return nil, fmt.Errorf("%w%s", err, hints.ForContentDir())
	}
	return store, err
}

// renderArticles renders every article concurrently and writes the pages.
func renderArticles(ctx context.Context, r PageRenderer, store *content.Store, outDir string, workers, related int) []ArticleResult {
	articles := store.All()
	if len(articles) == 0 {
		return nil
	}

	concurrency := min(workers, len(articles))
	results := make([]ArticleResult, len(articles))
	var wg sync.WaitGroup
	jobs := make(chan int, len(articles))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = ArticleResult{ID: articles[idx].ID, Err: ctx.Err()}
					continue
				}
				results[idx] = renderArticle(ctx, r, store, articles[idx], outDir, related)
			}
		}()
	}

	for i := range articles {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// renderArticle renders one article page and writes it.
func renderArticle(ctx context.Context, r PageRenderer, store *content.Store, a md2blog.Article, outDir string, related int) ArticleResult {
	start := time.Now()
	result := ArticleResult{ID: a.ID}
	path, err := pagePath(outDir, r.ArticleURL(a.ID))
	if err != nil {
		result.Err = err
		return result
	}
	result.OutputPath = path

	res, err := r.Render(ctx, md2blog.Input{
		Article: &a,
		Related: store.Related(a.ID, related),
	})
	if err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	result.Diagrams = len(res.Diagrams)
	for _, d := range res.Diagrams {
		if d.Err == nil {
			continue
		}
		result.Failed++
		if result.DiagramErr == nil {
			result.DiagramErr = d.Err
		}
	}

	if err := fileutil.WriteFileAtomic(result.OutputPath, res.HTML); err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	result.Duration = time.Since(start)
	return result
}

// writeSitePages writes the listing, one listing per tag, the not-found page
// and the linked assets.
func writeSitePages(ctx context.Context, site *server.Blog, r *md2blog.Renderer, store *content.Store, outDir string) error {
	write := func(path string, data []byte, err error) error {
		if err != nil {
			return err
		}
		if err := fileutil.WriteFileAtomic(path, data); err != nil {
			return fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
		return nil
	}
	writePage := func(urlPath string, data []byte, err error) error {
		path, pathErr := pagePath(outDir, urlPath)
		if pathErr != nil {
			return pathErr
		}
		return write(path, data, err)
	}

	page, err := site.Index(ctx, server.IndexQuery{})
	if err := writePage(r.BlogURL(), page, err); err != nil {
		return fmt.Errorf("writing listing: %w", err)
	}

	for _, tag := range store.Tags() {
		page, err := site.Index(ctx, server.IndexQuery{Tag: tag})
		if err := writePage(r.TagURL(tag), page, err); err != nil {
			return fmt.Errorf("writing tag %q: %w", tag, err)
		}
	}

	page, err = site.NotFound(ctx)
	if err := write(filepath.Join(outDir, notFound), page, err); err != nil {
		return fmt.Errorf("writing not-found page: %w", err)
	}

	for _, a := range r.Assets() {
		if err := write(filepath.Join(outDir, filepath.FromSlash(strings.TrimPrefix(assetsPath, "/")), a.Name), a.Body, nil); err != nil {
			return fmt.Errorf("writing asset %s: %w", a.Name, err)
		}
	}
	return nil
}

// pagePath maps a site URL path to the index.html serving it under outDir.
// Paths resolving outside outDir are rejected.
func pagePath(outDir, urlPath string) (string, error) {
	p, err := url.PathUnescape(urlPath)
	if err != nil {
		p = urlPath
	}
	path := filepath.Join(outDir, filepath.FromSlash(strings.TrimPrefix(p, "/")), indexFile)
	rel, err := filepath.Rel(outDir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s resolves outside %s", ErrWriteOutput, urlPath, outDir)
	}
	return path, nil
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > maxWorkers {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, maxWorkers)
	}
	return nil
}

// resolveWorkers determines the number of build workers.
// Priority: explicit flag > GOMAXPROCS-based calculation.
func resolveWorkers(n int) int {
	if n > 0 {
		return n
	}

	// GOMAXPROCS is adjusted by automaxprocs for containers.
	return min(max(runtime.GOMAXPROCS(0)/2, 1), maxWorkers)
}

// firstError returns the first article error.
func firstError(results []ArticleResult) error {
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}

// printResults outputs article results and returns the failure count.
func printResults(results []ArticleResult, common commonFlags, env *Environment) int {
	failed := 0
	browserDown := false
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.ID, r.Err)
			continue
		}
		if r.Failed > 0 {
			fmt.Fprintf(env.Stderr, "WARNING %s: %d of %d diagrams failed to render: %v\n", r.ID, r.Failed, r.Diagrams, r.DiagramErr)
			browserDown = browserDown || errors.Is(r.DiagramErr, md2blog.ErrBrowserConnect)
		}

		if common.quiet {
			continue
		}
		if common.verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.ID, r.OutputPath, r.Duration.Round(time.Millisecond))
		}
	}

	if browserDown {
		fmt.Fprintln(env.Stderr, strings.TrimPrefix(hints.ForBrowserConnect(), "\n"))
	}
	if !common.quiet && failed > 0 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", len(results)-failed, failed)
	}
	return failed
}
