package diagram

import (
	"context"
	"fmt"
	"html"
	"os"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-md2blog/internal/fileutil"
	"github.com/alnah/go-md2blog/internal/process"
)

// Engine turns diagram definitions into SVG markup.
//
// Init is called once before the first Render. Implementations must be safe
// for concurrent use by multiple goroutines.
type Engine interface {
	Init(ctx context.Context) error
	Render(ctx context.Context, id, source string) (string, error)
	Close() error
}

// Compile-time interface check.
var _ Engine = (*RodEngine)(nil)

// DefaultScriptURL is the diagram library loaded into the host page.
const DefaultScriptURL = "https://cdn.jsdelivr.net/npm/mermaid@10/dist/mermaid.min.js"

// DefaultEngineTimeout bounds page loads and single evaluations.
const DefaultEngineTimeout = 30 * time.Second

// hostPageTemplate is the page the diagram library runs in.
const hostPageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>diagram host</title>
<script src="%s"></script>
</head>
<body></body>
</html>`

// Scripts evaluated on the host page. Arguments are passed as JSON by rod.
const (
	initScript   = `(config) => { mermaid.initialize(config); return true; }`
	renderScript = `async (id, source) => {
	const { svg } = await mermaid.render(id, source);
	const leftover = document.getElementById('d' + id);
	if (leftover) { leftover.remove(); }
	return svg;
}`
)

// DefaultInitConfig returns the library configuration used by the built-in
// theme: dark palette, rendering triggered manually, loose security so that
// labels may contain links.
func DefaultInitConfig() map[string]any {
	return map[string]any{
		"startOnLoad": false,
		"theme":       "dark",
		"themeVariables": map[string]any{
			"primaryColor":       "#3b82f6",
			"primaryTextColor":   "#fff",
			"primaryBorderColor": "#2563eb",
			"lineColor":          "#60a5fa",
			"secondaryColor":     "#8b5cf6",
			"tertiaryColor":      "#06b6d4",
			"background":         "#1f2937",
			"mainBkg":            "#374151",
			"secondBkg":          "#4b5563",
			"textColor":          "#f3f4f6",
			"fontSize":           "14px",
		},
		"fontFamily":    "ui-sans-serif, system-ui, sans-serif",
		"securityLevel": "loose",
	}
}

// RodEngineConfig configures a RodEngine.
type RodEngineConfig struct {
	ScriptURL  string         // diagram library URL, DefaultScriptURL when empty
	InitConfig map[string]any // passed to mermaid.initialize, DefaultInitConfig when nil
	Timeout    time.Duration  // per page load and per evaluation, DefaultEngineTimeout when zero
	BrowserBin string         // explicit Chrome binary; ROD_BROWSER_BIN is used when empty
	NoSandbox  bool           // disable the Chrome sandbox (CI, containers)
}

// RodEngine renders diagrams in headless Chrome driven by go-rod.
// Rod automatically downloads Chromium on first run if none is found.
//
// All evaluations share one page and are serialized.
type RodEngine struct {
	cfg RodEngineConfig

	mu       sync.Mutex
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	cleanup  func()
	closed   bool
}

// NewRodEngine creates a RodEngine. The browser is not started until Init.
func NewRodEngine(cfg RodEngineConfig) *RodEngine {
	if cfg.ScriptURL == "" {
		cfg.ScriptURL = DefaultScriptURL
	}
	if cfg.InitConfig == nil {
		cfg.InitConfig = DefaultInitConfig()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultEngineTimeout
	}
	return &RodEngine{cfg: cfg}
}

// Init launches the browser, loads the host page and initializes the
// diagram library. Calling Init on an initialized engine is a no-op.
func (e *RodEngine) Init(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrEngineClosed
	}
	if e.page != nil {
		return nil
	}

	if err := e.connect(); err != nil {
		return err
	}

	path, cleanup, err := fileutil.WriteTempFile(fmt.Sprintf(hostPageTemplate, html.EscapeString(e.cfg.ScriptURL)), "html")
	if err != nil {
		_ = e.shutdown()
		return fmt.Errorf("%w: writing host page: %v", ErrEngineInit, err)
	}
	e.cleanup = cleanup

	page, err := e.browser.Page(proto.TargetCreateTarget{URL: "file://" + path})
	if err != nil {
		_ = e.shutdown()
		return fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	e.page = page

	if err := page.Context(ctx).Timeout(e.cfg.Timeout).WaitLoad(); err != nil {
		_ = e.shutdown()
		return fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	if _, err := page.Context(ctx).Timeout(e.cfg.Timeout).Eval(initScript, e.cfg.InitConfig); err != nil {
		_ = e.shutdown()
		return fmt.Errorf("%w: %v", ErrEngineInit, err)
	}

	return nil
}

// connect starts Chrome and attaches to it. Caller holds e.mu.
func (e *RodEngine) connect() error {
	l := launcher.New()

	bin := e.cfg.BrowserBin
	if bin == "" {
		bin = os.Getenv("ROD_BROWSER_BIN")
	}
	if bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if e.cfg.NoSandbox || os.Getenv("CI") == "true" || bin != "" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	e.launcher = l

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		_ = e.shutdown()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	e.browser = browser
	return nil
}

// Render evaluates the diagram library on the host page and returns the SVG.
func (e *RodEngine) Render(ctx context.Context, id, source string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return "", ErrEngineClosed
	}
	if e.page == nil {
		return "", fmt.Errorf("%w: engine not initialized", ErrRender)
	}

	obj, err := e.page.Context(ctx).Timeout(e.cfg.Timeout).Eval(renderScript, id, source)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRender, err)
	}
	svg := obj.Value.Str()
	if svg == "" {
		return "", fmt.Errorf("%w: empty output", ErrRender)
	}
	return svg, nil
}

// Close releases the page, the browser and the host page file. The engine
// cannot be used afterwards.
func (e *RodEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	e.closed = true
	return e.shutdown()
}

// shutdown tears down whatever was started. Caller holds e.mu.
func (e *RodEngine) shutdown() error {
	var err error
	if e.page != nil {
		_ = e.page.Close()
		e.page = nil
	}
	if e.browser != nil {
		err = e.browser.Close()
		e.browser = nil
	}
	if e.launcher != nil {
		// Chrome spawns helper processes; kill the whole group so none leak.
		if pid := e.launcher.PID(); pid > 0 {
			process.KillProcessGroup(pid)
		}
		e.launcher.Kill()
		e.launcher = nil
	}
	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}
	return err
}
