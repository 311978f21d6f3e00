package hints

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// ---------------------------------------------------------------------------
// TestBrowserConnect
// ---------------------------------------------------------------------------

func TestBrowserConnect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		rt      Runtime
		want    []string
		wantNot []string
	}{
		{
			name:    "bare host",
			rt:      Runtime{},
			want:    []string{"ROD_BROWSER_BIN", "--no-diagrams"},
			wantNot: []string{"ROD_NO_SANDBOX"},
		},
		{
			name: "ci without sandbox flag",
			rt:   Runtime{CI: true},
			want: []string{"ROD_NO_SANDBOX=1", "ROD_BROWSER_BIN"},
		},
		{
			name: "container without sandbox flag",
			rt:   Runtime{Container: true, ContainerHint: "/.dockerenv"},
			want: []string{"ROD_NO_SANDBOX=1"},
		},
		{
			name:    "sandbox already disabled",
			rt:      Runtime{Container: true, NoSandbox: true},
			wantNot: []string{"ROD_NO_SANDBOX"},
		},
		{
			name:    "everything configured",
			rt:      Runtime{CI: true, NoSandbox: true, BrowserBin: "/usr/bin/chromium"},
			want:    []string{"--no-diagrams"},
			wantNot: []string{"ROD_"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := BrowserConnect(tt.rt)
			if !strings.HasPrefix(got, prefix) {
				t.Errorf("BrowserConnect() = %q, want %q prefix", got, prefix)
			}
			for _, s := range tt.want {
				if !strings.Contains(got, s) {
					t.Errorf("BrowserConnect() = %q, want it to mention %q", got, s)
				}
			}
			for _, s := range tt.wantNot {
				if strings.Contains(got, s) {
					t.Errorf("BrowserConnect() = %q, should not mention %q", got, s)
				}
			}
		})
	}
}

func TestNeedsNoSandbox(t *testing.T) {
	t.Parallel()

	tests := []struct {
		rt   Runtime
		want bool
	}{
		{Runtime{}, false},
		{Runtime{CI: true}, true},
		{Runtime{Container: true}, true},
		{Runtime{Container: true, CI: true, NoSandbox: true}, false},
	}

	for _, tt := range tests {
		if got := tt.rt.NeedsNoSandbox(); got != tt.want {
			t.Errorf("%+v.NeedsNoSandbox() = %v, want %v", tt.rt, got, tt.want)
		}
	}
}

// ---------------------------------------------------------------------------
// TestDetectRuntime - not parallel, mutates the environment
// ---------------------------------------------------------------------------

func clearRuntimeEnv(t *testing.T) {
	t.Helper()
	for _, v := range append(ciVars, "ROD_NO_SANDBOX", "ROD_BROWSER_BIN", "MD2BLOG_CONTAINER", "container", "KUBERNETES_SERVICE_HOST") {
		t.Setenv(v, "")
	}
	orig := dockerEnvFile
	dockerEnvFile = filepath.Join(t.TempDir(), "missing")
	t.Cleanup(func() { dockerEnvFile = orig })
}

func TestDetectRuntime(t *testing.T) {
	t.Run("clean environment", func(t *testing.T) {
		clearRuntimeEnv(t)

		if diff := cmp.Diff(Runtime{}, DetectRuntime()); diff != "" {
			t.Errorf("DetectRuntime() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("github actions with custom chrome", func(t *testing.T) {
		clearRuntimeEnv(t)
		t.Setenv("GITHUB_ACTIONS", "true")
		t.Setenv("ROD_NO_SANDBOX", "1")
		t.Setenv("ROD_BROWSER_BIN", "/opt/chrome")

		want := Runtime{CI: true, NoSandbox: true, BrowserBin: "/opt/chrome"}
		if diff := cmp.Diff(want, DetectRuntime()); diff != "" {
			t.Errorf("DetectRuntime() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("docker marker file", func(t *testing.T) {
		clearRuntimeEnv(t)
		dockerEnvFile = filepath.Join(t.TempDir(), ".dockerenv")
		if err := os.WriteFile(dockerEnvFile, nil, 0o600); err != nil {
			t.Fatal(err)
		}

		rt := DetectRuntime()
		if !rt.Container || rt.ContainerHint != dockerEnvFile {
			t.Errorf("DetectRuntime() = %+v, want container via %s", rt, dockerEnvFile)
		}
	})

	t.Run("container signals", func(t *testing.T) {
		signals := []struct {
			key, value, hint string
		}{
			{"MD2BLOG_CONTAINER", "1", "MD2BLOG_CONTAINER=1"},
			{"container", "podman", "container=podman"},
			{"KUBERNETES_SERVICE_HOST", "10.0.0.1", "KUBERNETES_SERVICE_HOST"},
		}
		for _, s := range signals {
			clearRuntimeEnv(t)
			t.Setenv(s.key, s.value)

			rt := DetectRuntime()
			if !rt.Container || rt.ContainerHint != s.hint {
				t.Errorf("%s=%s: DetectRuntime() = %+v, want hint %q", s.key, s.value, rt, s.hint)
			}
		}
	})
}

// ---------------------------------------------------------------------------
// TestStaticHints
// ---------------------------------------------------------------------------

func TestStaticHints(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		got  string
		want string
	}{
		{
			name: "config not found without user path",
			got:  ForConfigNotFound([]string{"./blog.yaml"}),
			want: prefix + "use --config /path/to/file.yaml",
		},
		{
			name: "config not found with user path",
			got:  ForConfigNotFound([]string{"./blog.yaml", "/home/ada/.config/go-md2blog/blog.yaml"}),
			want: prefix + "use --config /path/to/file.yaml or create /home/ada/.config/go-md2blog/blog.yaml",
		},
		{
			name: "styles listed",
			got:  ForStyleNotFound([]string{"default", "technical"}),
			want: prefix + "available: default, technical",
		},
		{
			name: "no styles",
			got:  ForStyleNotFound(nil),
			want: "",
		},
		{
			name: "address in use",
			got:  ForAddressInUse(":8080"),
			want: prefix + ":8080 is busy; use --addr to pick another address",
		},
		{
			name: "output directory",
			got:  ForOutputDirectory(),
			want: prefix + "check the output directory exists and is writable",
		},
		{
			name: "content directory",
			got:  ForContentDir(),
			want: prefix + "pass the articles directory as argument or set content.dir in the config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}
