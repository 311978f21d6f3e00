package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/alnah/go-md2blog/internal/diagram"
	"github.com/alnah/go-md2blog/internal/fileutil"
)

// ---------------------------------------------------------------------------
// TestRunBuild - Full site generation
// ---------------------------------------------------------------------------

func TestRunBuild(t *testing.T) {
	t.Parallel()

	contentDir := setupTestDir(t, map[string]string{
		"go.md":            goArticle,
		"rust.md":          rustArticle,
		".drafts/draft.md": "# Draft\n\nNot yet.",
		"notes/readme.txt": "not markdown",
	})
	outDir := filepath.Join(t.TempDir(), "public")

	env, stdout, stderr := testEnv()
	code := run(context.Background(), []string{"build", contentDir, "-o", outDir}, env)
	if code != ExitSuccess {
		t.Fatalf("build exit = %d, want 0\nstderr: %s", code, stderr)
	}
	if !strings.Contains(stdout.String(), "Built 2 articles") {
		t.Errorf("stdout = %q, want build summary", stdout)
	}

	for _, rel := range []string{
		"blog/index.html",
		"blog/go/index.html",
		"blog/rust/index.html",
		"blog/tags/go/index.html",
		"blog/tags/rust/index.html",
		"blog/tags/web-dev/index.html",
		"404.html",
		"assets/style.css",
		"assets/progress.js",
		"assets/diagram.js",
	} {
		if !fileutil.FileExists(filepath.Join(outDir, rel)) {
			t.Errorf("missing %s", rel)
		}
	}
	if fileutil.FileExists(filepath.Join(outDir, "blog", "draft", "index.html")) {
		t.Error("hidden draft was built")
	}

	page := readFile(t, filepath.Join(outDir, "blog", "go", "index.html"))
	for _, want := range []string{"<svg>", `href="/assets/style.css"`, `href="#setup"`, `id="install"`} {
		if !strings.Contains(page, want) {
			t.Errorf("article page missing %q", want)
		}
	}
	if strings.Contains(page, "data-diagram-src") {
		t.Error("build must render diagrams eagerly")
	}

	tagPage := readFile(t, filepath.Join(outDir, "blog", "tags", "web-dev", "index.html"))
	if !strings.Contains(tagPage, "Rust Notes") || strings.Contains(tagPage, "Go Tips") {
		t.Error("tag page must list only tagged articles")
	}
}

func TestRunBuild_DiagramFailureIsAWarning(t *testing.T) {
	t.Parallel()

	contentDir := setupTestDir(t, map[string]string{
		"bad.md": "# Bad\n\n## Flow\n\n```mermaid\ninvalid graph\n```\n",
	})
	outDir := t.TempDir()

	env, _, stderr := testEnv()
	code := run(context.Background(), []string{"build", contentDir, "-o", outDir, "-q"}, env)
	if code != ExitSuccess {
		t.Fatalf("build exit = %d, want 0\nstderr: %s", code, stderr)
	}
	if !strings.Contains(stderr.String(), "WARNING bad: 1 of 1 diagrams failed") {
		t.Errorf("stderr = %q, want diagram warning", stderr)
	}
	page := readFile(t, filepath.Join(outDir, "blog", "bad", "index.html"))
	if !strings.Contains(page, "Failed to render diagram") {
		t.Error("page must carry the inline error block")
	}
}

func TestRunBuild_BrowserUnavailableHint(t *testing.T) {
	t.Parallel()

	contentDir := setupTestDir(t, map[string]string{
		"flow.md": "# Flow\n\n```mermaid\ngraph TD\n```\n",
	})
	outDir := t.TempDir()

	env, _, stderr := testEnv()
	env.DiagramEngine = &fakeEngine{initErr: fmt.Errorf("%w: no chrome", diagram.ErrBrowserConnect)}
	code := run(context.Background(), []string{"build", contentDir, "-o", outDir, "-q"}, env)
	if code != ExitSuccess {
		t.Fatalf("build exit = %d, want 0\nstderr: %s", code, stderr)
	}
	if !strings.Contains(stderr.String(), "WARNING flow") {
		t.Errorf("stderr = %q, want diagram warning", stderr)
	}
	if !strings.Contains(stderr.String(), "hint:") {
		t.Errorf("stderr = %q, want the browser hint", stderr)
	}
}

func TestRunBuild_FailedArticleDoesNotStopOthers(t *testing.T) {
	t.Parallel()

	contentDir := setupTestDir(t, map[string]string{
		"go.md":    goArticle,
		"empty.md": "---\ntitle: Empty\n---\n",
	})
	outDir := t.TempDir()

	env, _, stderr := testEnv()
	code := run(context.Background(), []string{"build", contentDir, "-o", outDir}, env)
	if code != ExitGeneral {
		t.Fatalf("build exit = %d, want %d\nstderr: %s", code, ExitGeneral, stderr)
	}
	if !strings.Contains(stderr.String(), "FAILED empty") {
		t.Errorf("stderr = %q, want FAILED empty", stderr)
	}
	if !fileutil.FileExists(filepath.Join(outDir, "blog", "go", "index.html")) {
		t.Error("healthy article was not written")
	}
}

func TestRunBuild_WithoutDiagrams(t *testing.T) {
	t.Parallel()

	contentDir := setupTestDir(t, map[string]string{"go.md": goArticle})
	outDir := t.TempDir()

	env, _, stderr := testEnv()
	engine := &fakeEngine{}
	env.DiagramEngine = engine
	code := run(context.Background(), []string{"build", contentDir, "-o", outDir, "--no-diagrams"}, env)
	if code != ExitSuccess {
		t.Fatalf("build exit = %d\nstderr: %s", code, stderr)
	}
	if engine.renders.Load() != 0 {
		t.Errorf("engine renders = %d, want 0", engine.renders.Load())
	}
	page := readFile(t, filepath.Join(outDir, "blog", "go", "index.html"))
	if !strings.Contains(page, `class="language-mermaid"`) {
		t.Error("diagram fence must render as a code block")
	}
}

func TestRunBuild_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"missing content dir", []string{"build", filepath.Join(t.TempDir(), "missing"), "-o", t.TempDir()}, ExitIO},
		{"too many workers", []string{"build", "-w", "99"}, ExitUsage},
		{"negative workers", []string{"build", "-w", "-1"}, ExitUsage},
		{"bad timeout", []string{"build", "-t", "soon"}, ExitUsage},
		{"missing config", []string{"build", "-c", "no-such-config-name"}, ExitUsage},
		{"id escaping the output", []string{"build", setupTestDir(t, map[string]string{"x.md": "---\nid: ../../escaped\n---\nbody\n"}), "-o", t.TempDir()}, ExitUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env, _, stderr := testEnv()
			if code := run(context.Background(), tt.args, env); code != tt.want {
				t.Errorf("exit = %d, want %d\nstderr: %s", code, tt.want, stderr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestValidateWorkers / TestResolveWorkers
// ---------------------------------------------------------------------------

func TestValidateWorkers(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, 1, maxWorkers} {
		if err := validateWorkers(n); err != nil {
			t.Errorf("validateWorkers(%d) error = %v", n, err)
		}
	}
	for _, n := range []int{-1, maxWorkers + 1} {
		if err := validateWorkers(n); !errors.Is(err, ErrInvalidWorkerCount) {
			t.Errorf("validateWorkers(%d) error = %v, want ErrInvalidWorkerCount", n, err)
		}
	}
}

func TestResolveWorkers(t *testing.T) {
	t.Parallel()

	if got := resolveWorkers(3); got != 3 {
		t.Errorf("resolveWorkers(3) = %d, want 3", got)
	}

	got := resolveWorkers(0)
	want := min(max(runtime.GOMAXPROCS(0)/2, 1), maxWorkers)
	if got != want {
		t.Errorf("resolveWorkers(0) = %d, want %d", got, want)
	}
}

// ---------------------------------------------------------------------------
// TestPagePath
// ---------------------------------------------------------------------------

func TestPagePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		url  string
		want string
	}{
		{"/blog", filepath.Join("out", "blog", "index.html")},
		{"/blog/go-tips", filepath.Join("out", "blog", "go-tips", "index.html")},
		{"/blog/tags/web-dev", filepath.Join("out", "blog", "tags", "web-dev", "index.html")},
		{"/blog/caf%C3%A9", filepath.Join("out", "blog", "café", "index.html")},
	}

	for _, tt := range tests {
		got, err := pagePath("out", tt.url)
		if err != nil || got != tt.want {
			t.Errorf("pagePath(%q) = %q, %v; want %q", tt.url, got, err, tt.want)
		}
	}
}

func TestPagePath_OutsideOutput(t *testing.T) {
	t.Parallel()

	for _, u := range []string{"/blog/..%2F..%2F..%2Fescaped", "/../x", "/blog/%2E%2E/%2E%2E/x"} {
		if got, err := pagePath("out", u); !errors.Is(err, ErrWriteOutput) {
			t.Errorf("pagePath(%q) = %q, %v; want ErrWriteOutput", u, got, err)
		}
	}
}
