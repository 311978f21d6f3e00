package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alnah/go-md2blog/internal/config"
)

// envPrefix starts every environment variable md2blog reads.
const envPrefix = "MD2BLOG_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath       string // MD2BLOG_CONFIG: config file name or path
	ContentDir       string // MD2BLOG_CONTENT_DIR: articles directory
	OutputDir        string // MD2BLOG_OUTPUT_DIR: build output directory
	Addr             string // MD2BLOG_ADDR: serve listen address
	Style            string // MD2BLOG_STYLE: CSS style name or path
	LogLevel         string // MD2BLOG_LOG_LEVEL: logrus level
	LogFormat        string // MD2BLOG_LOG_FORMAT: text or json
	LogFile          string // MD2BLOG_LOG_FILE: rotated log file
	DiagramTimeout   string // MD2BLOG_DIAGRAM_TIMEOUT: Go duration
	DiagramCacheFile string // MD2BLOG_DIAGRAM_CACHE_FILE: SQLite diagram cache
	Workers          int    // MD2BLOG_WORKERS: build workers
}

// knownEnvVars lists valid MD2BLOG_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"MD2BLOG_CONFIG":             true,
	"MD2BLOG_CONTENT_DIR":        true,
	"MD2BLOG_OUTPUT_DIR":         true,
	"MD2BLOG_ADDR":               true,
	"MD2BLOG_STYLE":              true,
	"MD2BLOG_LOG_LEVEL":          true,
	"MD2BLOG_LOG_FORMAT":         true,
	"MD2BLOG_LOG_FILE":           true,
	"MD2BLOG_DIAGRAM_TIMEOUT":    true,
	"MD2BLOG_DIAGRAM_CACHE_FILE": true,
	"MD2BLOG_WORKERS":            true,
	"MD2BLOG_CONTAINER":          true, // read by doctor
}

// loadEnvConfig reads configuration from environment variables.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath:       os.Getenv("MD2BLOG_CONFIG"),
		ContentDir:       os.Getenv("MD2BLOG_CONTENT_DIR"),
		OutputDir:        os.Getenv("MD2BLOG_OUTPUT_DIR"),
		Addr:             os.Getenv("MD2BLOG_ADDR"),
		Style:            os.Getenv("MD2BLOG_STYLE"),
		LogLevel:         os.Getenv("MD2BLOG_LOG_LEVEL"),
		LogFormat:        os.Getenv("MD2BLOG_LOG_FORMAT"),
		LogFile:          os.Getenv("MD2BLOG_LOG_FILE"),
		DiagramTimeout:   os.Getenv("MD2BLOG_DIAGRAM_TIMEOUT"),
		DiagramCacheFile: os.Getenv("MD2BLOG_DIAGRAM_CACHE_FILE"),
	}

	if workers := os.Getenv("MD2BLOG_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars prints warnings for unrecognized MD2BLOG_* variables.
// Helps catch typos like MD2BLOG_OUTPUTDIR instead of MD2BLOG_OUTPUT_DIR.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, envPrefix) {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig overrides config values with the environment variables that
// are set. Flags are merged afterwards, giving:
// CLI flags > env vars > config file > defaults.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	setIfNotEmpty(&cfg.Content.Dir, env.ContentDir)
	setIfNotEmpty(&cfg.Output.Dir, env.OutputDir)
	setIfNotEmpty(&cfg.Server.Addr, env.Addr)
	setIfNotEmpty(&cfg.CSS.Style, env.Style)
	setIfNotEmpty(&cfg.Log.Level, env.LogLevel)
	setIfNotEmpty(&cfg.Log.Format, env.LogFormat)
	setIfNotEmpty(&cfg.Log.File, env.LogFile)
	setIfNotEmpty(&cfg.Diagram.Timeout, env.DiagramTimeout)
	setIfNotEmpty(&cfg.Diagram.CacheFile, env.DiagramCacheFile)
}

func setIfNotEmpty(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
