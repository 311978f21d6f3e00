// Package hints appends remediation advice to CLI error messages.
//
// Every hint renders as "\n  hint: <text>" so callers can add it after the
// wrapped error with a plain %s verb.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-md2blog/internal/fileutil"
)

const prefix = "\n  hint: "

// dockerEnvFile is created by Docker at the root of every container.
var dockerEnvFile = "/.dockerenv"

// ciVars are set by the common CI providers.
var ciVars = []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}

// Runtime describes the parts of the host that decide how Chrome can be
// launched for diagram rendering.
type Runtime struct {
	Container     bool
	ContainerHint string // signal that revealed the container
	CI            bool
	NoSandbox     bool   // ROD_NO_SANDBOX=1
	BrowserBin    string // ROD_BROWSER_BIN
}

// DetectRuntime inspects the process environment.
func DetectRuntime() Runtime {
	rt := Runtime{
		NoSandbox:  os.Getenv("ROD_NO_SANDBOX") == "1",
		BrowserBin: os.Getenv("ROD_BROWSER_BIN"),
	}
	rt.ContainerHint, rt.Container = containerSignal()
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			rt.CI = true
			break
		}
	}
	return rt
}

// NeedsNoSandbox reports whether Chrome will likely refuse to start with
// its sandbox enabled.
func (r Runtime) NeedsNoSandbox() bool {
	return (r.Container || r.CI) && !r.NoSandbox
}

func containerSignal() (string, bool) {
	switch {
	case os.Getenv("MD2BLOG_CONTAINER") == "1":
		return "MD2BLOG_CONTAINER=1", true
	case fileutil.FileExists(dockerEnvFile):
		return dockerEnvFile, true
	case os.Getenv("container") != "": // podman, systemd-nspawn
		return "container=" + os.Getenv("container"), true
	case os.Getenv("KUBERNETES_SERVICE_HOST") != "":
		return "KUBERNETES_SERVICE_HOST", true
	}
	return "", false
}

// ForBrowserConnect advises on a diagram engine that could not reach Chrome.
func ForBrowserConnect() string {
	return BrowserConnect(DetectRuntime())
}

// BrowserConnect is ForBrowserConnect for an explicit runtime.
func BrowserConnect(rt Runtime) string {
	var parts []string
	if rt.NeedsNoSandbox() {
		parts = append(parts, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}
	if rt.BrowserBin == "" {
		parts = append(parts, "set ROD_BROWSER_BIN to use custom Chrome")
	}
	parts = append(parts, "or use --no-diagrams to skip diagram rendering")
	return join(parts...)
}

// ForConfigNotFound suggests --config, and creating the per-user file when
// it is among searched.
func ForConfigNotFound(searched []string) string {
	parts := []string{"use --config /path/to/file.yaml"}
	for _, p := range searched {
		if strings.Contains(p, ".config/go-md2blog") {
			parts[0] += " or create " + p
			break
		}
	}
	return join(parts...)
}

// ForOutputDirectory advises on pages that could not be written.
func ForOutputDirectory() string {
	return join("check the output directory exists and is writable")
}

// ForStyleNotFound lists the styles to pick from.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return join("available: " + strings.Join(available, ", "))
}

// ForContentDir advises on a missing or unreadable content directory.
func ForContentDir() string {
	return join("pass the articles directory as argument or set content.dir in the config")
}

// ForAddressInUse advises on a preview server that cannot listen.
func ForAddressInUse(addr string) string {
	return join(addr + " is busy; use --addr to pick another address")
}

func join(parts ...string) string {
	if len(parts) == 0 {
		return ""
	}
	return prefix + strings.Join(parts, "; ")
}
