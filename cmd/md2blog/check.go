package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/PuerkitoBio/goquery"

	md2blog "github.com/alnah/go-md2blog"
)

// ErrOutlineMismatch reports articles whose outline links miss their headings.
var ErrOutlineMismatch = errors.New("outline does not match rendered headings")

// outlineReport is the check outcome of one article.
type outlineReport struct {
	ID         string
	Outline    []string // ids from the outline, document order
	Rendered   []string // ids of rendered h2 and h3, document order
	Duplicates []string // ids used by more than one outline entry
}

// Diverges reports whether an outline link does not land on the heading at
// the same position.
func (r outlineReport) Diverges() bool {
	if len(r.Outline) != len(r.Rendered) {
		return true
	}
	for i := range r.Outline {
		if r.Outline[i] != r.Rendered[i] {
			return true
		}
	}
	return false
}

// runCheck compares every article's outline with its rendered headings.
func runCheck(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseCheckFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(flags.common, loadEnvConfig(), env.Stderr)
	if err != nil {
		return err
	}
	if len(positional) > 0 {
		cfg.Content.Dir = positional[0]
	}
	// Anchors do not depend on diagrams.
	cfg.Diagram.Enabled = false
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Content.Dir == "" {
		return fmt.Errorf("%w: content directory is required", ErrNoInput)
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

	renderer, err := md2blog.NewRenderer(rendererOptions(cfg, logger, env)...)
	if err != nil {
		return withHint(err)
	}
	defer renderer.Close()

	var divergent int
	for _, a := range store.All() {
		report, err := checkArticle(ctx, renderer, a)
		if err != nil {
			return fmt.Errorf("checking %s: %w", a.ID, err)
		}
		if printReport(env.Stdout, env.Stderr, report, flags.common) {
			divergent++
		}
	}

	if divergent > 0 {
		return fmt.Errorf("%w: %d of %d articles", ErrOutlineMismatch, divergent, store.Len())
	}
	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Checked %d articles: all outlines match\n", store.Len())
	}
	return nil
}

// checkArticle renders a as a fragment and collects both id sequences.
func checkArticle(ctx context.Context, r *md2blog.Renderer, a md2blog.Article) (outlineReport, error) {
	res, err := r.Render(ctx, md2blog.Input{Article: &a, Fragment: true})
	if err != nil {
		return outlineReport{}, err
	}

	report := outlineReport{ID: a.ID}
	seen := make(map[string]int, len(res.Headings))
	for _, h := range res.Headings {
		report.Outline = append(report.Outline, h.ID)
		seen[h.ID]++
		if seen[h.ID] == 2 {
			report.Duplicates = append(report.Duplicates, h.ID)
		}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.HTML))
	if err != nil {
		return outlineReport{}, fmt.Errorf("parsing rendered page: %w", err)
	}
	doc.Find("h2, h3").Each(func(_ int, s *goquery.Selection) {
		id, _ := s.Attr("id")
		report.Rendered = append(report.Rendered, id)
	})

	return report, nil
}

// printReport writes the findings of one article and reports whether it
// diverges.
func printReport(stdout, stderr io.Writer, r outlineReport, common commonFlags) bool {
	for _, id := range r.Duplicates {
		fmt.Fprintf(stderr, "WARNING %s: duplicate heading id %q, outline links land on the first one\n", r.ID, id)
	}

	if !r.Diverges() {
		if common.verbose {
			fmt.Fprintf(stdout, "OK %s (%d headings)\n", r.ID, len(r.Outline))
		}
		return false
	}

	fmt.Fprintf(stderr, "ERROR %s: outline has %d entries, page has %d headings\n", r.ID, len(r.Outline), len(r.Rendered))
	for i := range max(len(r.Outline), len(r.Rendered)) {
		outline, rendered := at(r.Outline, i), at(r.Rendered, i)
		if outline != rendered {
			fmt.Fprintf(stderr, "  #%d outline %q, page %q\n", i+1, outline, rendered)
		}
	}
	return true
}

func at(ids []string, i int) string {
	if i < len(ids) {
		return ids[i]
	}
	return ""
}
