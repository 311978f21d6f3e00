package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/go-rod/rod/lib/launcher"
	flag "github.com/spf13/pflag"

	"github.com/alnah/go-md2blog/internal/config"
	"github.com/alnah/go-md2blog/internal/fileutil"
	"github.com/alnah/go-md2blog/internal/hints"
)

// cacheDirName is the directory under the user cache dir checked when no
// diagram cache file is configured.
const cacheDirName = "go-md2blog"

// Report statuses, worst last.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

type doctorResult struct {
	Status   string     `json:"status"`
	Chrome   chromeInfo `json:"chrome"`
	Env      envInfo    `json:"environment"`
	System   systemInfo `json:"system"`
	Warnings []string   `json:"warnings,omitempty"`
	Errors   []string   `json:"errors,omitempty"`
}

type chromeInfo struct {
	Required bool   `json:"required"` // diagrams enabled in config
	Found    bool   `json:"found"`
	Path     string `json:"path,omitempty"`
	Version  string `json:"version,omitempty"`
	Sandbox  bool   `json:"sandbox"`
}

type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	NoSandbox     bool   `json:"rod_no_sandbox"`
	BrowserBin    string `json:"rod_browser_bin,omitempty"`
}

type systemInfo struct {
	TempWritable  bool   `json:"temp_writable"`
	CacheDir      string `json:"cache_dir,omitempty"`
	CacheWritable bool   `json:"cache_writable"`
	ContentDir    string `json:"content_dir"`
	ContentFound  bool   `json:"content_found"`
}

func (r *doctorResult) warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func (r *doctorResult) fail(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// runDoctorCmd reports whether this host can build and serve the blog.
// It exits 1 only on errors; warnings keep exit 0.
func runDoctorCmd(args []string, env *Environment) int {
	flags, err := parseDoctorFlags(args, env.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintln(env.Stderr, "error:", err)
		return exitCodeFor(err)
	}

	cfg, err := loadConfig(flags.common, loadEnvConfig(), env.Stderr)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		fmt.Fprintln(env.Stderr, "error:", err)
		return exitCodeFor(err)
	}

	result := runDoctor(cfg, hints.DetectRuntime())
	if flags.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == statusErrors {
		return ExitGeneral
	}
	return ExitSuccess
}

func runDoctor(cfg *config.Config, rt hints.Runtime) *doctorResult {
	result := &doctorResult{
		Env: envInfo{
			OS:            runtime.GOOS,
			Arch:          runtime.GOARCH,
			Container:     rt.Container,
			ContainerHint: rt.ContainerHint,
			CI:            rt.CI,
			NoSandbox:     rt.NoSandbox,
			BrowserBin:    rt.BrowserBin,
		},
	}

	checkChrome(result, cfg.Diagram.Enabled)
	if rt.NeedsNoSandbox() {
		result.warn("Container/CI detected but ROD_NO_SANDBOX not set. Set ROD_NO_SANDBOX=1")
	}
	checkSystem(result, cfg)

	switch {
	case len(result.Errors) > 0:
		result.Status = statusErrors
	case len(result.Warnings) > 0:
		result.Status = statusWarnings
	default:
		result.Status = statusReady
	}
	return result
}

// checkChrome locates the browser the diagram engine launches. Without
// diagrams a missing browser is only a warning.
func checkChrome(result *doctorResult, required bool) {
	result.Chrome.Required = required
	report := result.warn
	if required {
		report = result.fail
	}

	path := result.Env.BrowserBin
	if path == "" {
		var ok bool
		if path, ok = launcher.LookPath(); !ok {
			report("Chrome/Chromium not found. Install Chrome or set ROD_BROWSER_BIN")
			return
		}
	}
	if !fileutil.FileExists(path) {
		report("Chrome not found at %s", path)
		return
	}

	result.Chrome.Found = true
	result.Chrome.Path = path
	result.Chrome.Sandbox = !result.Env.NoSandbox

	out, err := exec.Command(path, "--version").Output() // #nosec G204 -- browser path from env or rod lookup
	if err != nil {
		result.warn("Could not get Chrome version: %v", err)
		return
	}
	result.Chrome.Version = strings.TrimSpace(string(out))
}

// checkSystem verifies the temp directory the engine writes its host page
// to, the diagram cache directory and the content directory.
func checkSystem(result *doctorResult, cfg *config.Config) {
	sys := &result.System

	tmp := os.TempDir()
	if err := fileutil.CheckWritableDir(tmp); err != nil {
		result.fail("Temp directory not writable: %s", tmp)
	} else {
		sys.TempWritable = true
	}

	if sys.CacheDir = cacheDir(cfg); sys.CacheDir != "" {
		err := fileutil.CheckWritableDir(sys.CacheDir)
		switch {
		case err == nil:
			sys.CacheWritable = true
		case cfg.Diagram.CacheFile != "":
			result.fail("Cache directory not writable: %s: %v", sys.CacheDir, err)
		default:
			result.warn("Cache directory not writable: %s: %v", sys.CacheDir, err)
		}
	}

	sys.ContentDir = cfg.Content.Dir
	if sys.ContentFound = fileutil.DirExists(sys.ContentDir); !sys.ContentFound {
		result.warn("Content directory %q not found. Pass it to build/serve or set content.dir", sys.ContentDir)
	}
}

// cacheDir returns the directory of the diagram cache file, or the
// per-user cache directory when none is configured.
func cacheDir(cfg *config.Config) string {
	if cfg.Diagram.CacheFile != "" {
		return filepath.Dir(cfg.Diagram.CacheFile)
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, cacheDirName)
}

// reportLine is one "[TAG] text" line of the text report.
type reportLine struct {
	tag  string
	text string
}

func okLine(format string, args ...any) reportLine {
	return reportLine{"OK", fmt.Sprintf(format, args...)}
}

func warnLine(format string, args ...any) reportLine {
	return reportLine{"WARN", fmt.Sprintf(format, args...)}
}

func errLine(format string, args ...any) reportLine {
	return reportLine{"ERROR", fmt.Sprintf(format, args...)}
}

func chromeLines(c chromeInfo) []reportLine {
	switch {
	case c.Found:
		lines := []reportLine{okLine("Found at %s", c.Path)}
		if c.Version != "" {
			lines = append(lines, okLine("Version: %s", c.Version))
		}
		if c.Sandbox {
			return append(lines, okLine("Sandbox: enabled"))
		}
		return append(lines, okLine("Sandbox: disabled (ROD_NO_SANDBOX=1)"))
	case c.Required:
		return []reportLine{errLine("Not found")}
	default:
		return []reportLine{warnLine("Not found (diagrams disabled)")}
	}
}

func envLines(e envInfo) []reportLine {
	lines := []reportLine{okLine("Platform: %s/%s", e.OS, e.Arch)}
	if e.Container {
		lines = append(lines, okLine("Container: detected (%s)", e.ContainerHint))
	}
	if e.CI {
		lines = append(lines, okLine("CI: detected"))
	}
	return lines
}

func systemLines(s systemInfo) []reportLine {
	var lines []reportLine
	if s.TempWritable {
		lines = append(lines, okLine("Temp directory: writable"))
	} else {
		lines = append(lines, errLine("Temp directory: not writable"))
	}
	switch {
	case s.CacheWritable:
		lines = append(lines, okLine("Cache directory: %s", s.CacheDir))
	case s.CacheDir != "":
		lines = append(lines, warnLine("Cache directory: %s not writable", s.CacheDir))
	}
	if s.ContentFound {
		lines = append(lines, okLine("Content directory: %s", s.ContentDir))
	} else {
		lines = append(lines, warnLine("Content directory: %s not found", s.ContentDir))
	}
	return lines
}

// printDoctorResult writes the human-readable report.
func printDoctorResult(w io.Writer, r *doctorResult) {
	section := func(title string, lines []reportLine) {
		if len(lines) == 0 {
			return
		}
		fmt.Fprintln(w, title)
		for _, l := range lines {
			fmt.Fprintf(w, "  [%s] %s\n", l.tag, l.text)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "md2blog doctor")
	fmt.Fprintln(w)
	section("Chrome/Chromium", chromeLines(r.Chrome))
	section("Environment", envLines(r.Env))
	section("System", systemLines(r.System))

	var warnings, errs []reportLine
	for _, msg := range r.Warnings {
		warnings = append(warnings, warnLine("%s", msg))
	}
	for _, msg := range r.Errors {
		errs = append(errs, errLine("%s", msg))
	}
	section("Warnings:", warnings)
	section("Errors:", errs)

	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: Ready")
	case statusWarnings:
		fmt.Fprintln(w, "Status: Ready with warnings")
	case statusErrors:
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
