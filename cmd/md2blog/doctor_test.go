package main

// Notes:
// - checkChrome with rod's launcher lookup depends on the host; tests pin
//   the browser to a missing path instead.

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alnah/go-md2blog/internal/config"
	"github.com/alnah/go-md2blog/internal/hints"
)

// ---------------------------------------------------------------------------
// TestRunDoctor
// ---------------------------------------------------------------------------

func TestRunDoctor_MissingBrowser(t *testing.T) {
	t.Parallel()

	rt := hints.Runtime{BrowserBin: filepath.Join(t.TempDir(), "no-chrome")}

	t.Run("error when diagrams are enabled", func(t *testing.T) {
		t.Parallel()
		cfg := config.DefaultConfig()
		cfg.Content.Dir = t.TempDir()
		cfg.Diagram.CacheFile = filepath.Join(t.TempDir(), "cache", "diagrams.db")

		result := runDoctor(cfg, rt)

		if result.Status != "errors" {
			t.Errorf("Status = %q, want errors", result.Status)
		}
		if result.Chrome.Found {
			t.Error("Chrome.Found = true, want false")
		}
		if !result.System.CacheWritable {
			t.Errorf("CacheWritable = false for %s", result.System.CacheDir)
		}
		if !result.System.ContentFound {
			t.Error("ContentFound = false, want true")
		}
	})

	t.Run("warning when diagrams are disabled", func(t *testing.T) {
		t.Parallel()
		cfg := config.DefaultConfig()
		cfg.Content.Dir = t.TempDir()
		cfg.Diagram.Enabled = false

		result := runDoctor(cfg, rt)

		if len(result.Errors) != 0 {
			t.Errorf("Errors = %v, want none", result.Errors)
		}
		if result.Status != "warnings" {
			t.Errorf("Status = %q, want warnings", result.Status)
		}
	})
}

// not parallel: the command reads the runtime from the environment
func TestRunDoctorCmd_JSON(t *testing.T) {
	t.Setenv("ROD_BROWSER_BIN", filepath.Join(t.TempDir(), "no-chrome"))

	env, stdout, _ := testEnv()
	code := runDoctorCmd([]string{"--json"}, env)
	if code != ExitGeneral {
		t.Errorf("exit = %d, want %d", code, ExitGeneral)
	}

	var got doctorResult
	if err := json.Unmarshal(stdout.Bytes(), &got); err != nil {
		t.Fatalf("decoding report: %v\n%s", err, stdout)
	}
	if got.Status != "errors" || got.Env.BrowserBin == "" {
		t.Errorf("report = %+v", got)
	}
}

func TestRunDoctorCmd_BadConfig(t *testing.T) {
	t.Parallel()

	env, _, stderr := testEnv()
	code := runDoctorCmd([]string{"-c", filepath.Join(t.TempDir(), "missing.yaml")}, env)
	if code != ExitUsage {
		t.Errorf("exit = %d, want %d", code, ExitUsage)
	}
	if !strings.Contains(stderr.String(), "config file not found") {
		t.Errorf("stderr = %q", stderr)
	}
}

// ---------------------------------------------------------------------------
// TestRunDoctor_Sandbox
// ---------------------------------------------------------------------------

func TestRunDoctor_Sandbox(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		rt       hints.Runtime
		wantWarn bool
	}{
		{"container", hints.Runtime{Container: true, ContainerHint: "/.dockerenv"}, true},
		{"ci", hints.Runtime{CI: true}, true},
		{"sandbox disabled", hints.Runtime{CI: true, NoSandbox: true}, false},
		{"workstation", hints.Runtime{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.DefaultConfig()
			cfg.Content.Dir = t.TempDir()
			cfg.Diagram.Enabled = false
			tt.rt.BrowserBin = filepath.Join(t.TempDir(), "no-chrome")

			result := runDoctor(cfg, tt.rt)

			gotWarn := false
			for _, w := range result.Warnings {
				gotWarn = gotWarn || strings.Contains(w, "ROD_NO_SANDBOX")
			}
			if gotWarn != tt.wantWarn {
				t.Errorf("sandbox warning = %v, want %v (warnings %v)", gotWarn, tt.wantWarn, result.Warnings)
			}
			if result.Env.Container != tt.rt.Container || result.Env.CI != tt.rt.CI {
				t.Errorf("Env = %+v, want runtime %+v", result.Env, tt.rt)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestCacheDir / TestPrintDoctorResult
// ---------------------------------------------------------------------------

func TestCacheDir(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Diagram.CacheFile = filepath.Join("var", "cache", "diagrams.db")
	if got, want := cacheDir(cfg), filepath.Join("var", "cache"); got != want {
		t.Errorf("cacheDir() = %q, want %q", got, want)
	}

	cfg.Diagram.CacheFile = ""
	if got := cacheDir(cfg); got != "" && filepath.Base(got) != cacheDirName {
		t.Errorf("cacheDir() = %q, want a %s directory", got, cacheDirName)
	}
}

func TestPrintDoctorResult(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		result doctorResult
		want   []string
	}{
		{
			name: "ready",
			result: doctorResult{
				Status: "ready",
				Chrome: chromeInfo{Required: true, Found: true, Path: "/usr/bin/chromium", Version: "Chromium 120", Sandbox: true},
				Env:    envInfo{OS: "linux", Arch: "amd64"},
				System: systemInfo{TempWritable: true, CacheDir: "/cache", CacheWritable: true, ContentDir: "content", ContentFound: true},
			},
			want: []string{"[OK] Found at /usr/bin/chromium", "Sandbox: enabled", "Cache directory: /cache", "Status: Ready"},
		},
		{
			name: "missing browser",
			result: doctorResult{
				Status: "errors",
				Chrome: chromeInfo{Required: true},
				System: systemInfo{TempWritable: true},
				Errors: []string{"Chrome/Chromium not found"},
			},
			want: []string{"[ERROR] Not found", "[ERROR] Chrome/Chromium not found", "Status: Not ready"},
		},
		{
			name: "diagrams disabled",
			result: doctorResult{
				Status:   "warnings",
				Warnings: []string{"Chrome/Chromium not found"},
			},
			want: []string{"Not found (diagrams disabled)", "[WARN] Chrome/Chromium not found", "Content directory:  not found", "Status: Ready with warnings"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			printDoctorResult(&buf, &tt.result)
			for _, want := range tt.want {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("output missing %q:\n%s", want, buf.String())
				}
			}
		})
	}
}
