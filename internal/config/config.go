// Package config loads and validates the YAML configuration of the blog
// generator.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/alnah/go-md2blog/internal/dateutil"
	"github.com/alnah/go-md2blog/internal/fileutil"
	"github.com/alnah/go-md2blog/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxTitleLength      = 200  // Site title
	MaxNameLength       = 100  // Author name
	MaxURLLength        = 2048 // Browser limit
	MaxDateFormatLength = 50   // "MMMM D, YYYY"
	MaxLangLength       = 35   // BCP 47 tag
	MaxPathLength       = 4096 // Directories and files
	MaxStyleLength      = 50   // Highlight or CSS style name
	MaxClassLength      = 200  // Space-separated class list
	MaxLanguageLength   = 30   // Diagram fence tag
	MaxAddrLength       = 255  // host:port
)

// Range limits.
const (
	MaxRelatedCount      = 20
	MaxDiagramCacheSize  = 100_000
	MaxDiagramWorkers    = 64
	MaxDiagramTimeout    = 5 * time.Minute
	DefaultRelatedCount  = 3
	DefaultDiagramRate   = 5.0
	DefaultDiagramBurst  = 10
	DefaultServerAddr    = "localhost:8080"
	DefaultContentDir    = "content"
	DefaultOutputDir     = "public"
	DefaultDiagramLang   = "mermaid"
	DefaultDiagramTheme  = "dark"
	DefaultDiagramTimeout = "30s"
)

// Config holds all configuration of the blog generator.
type Config struct {
	Site     SiteConfig     `yaml:"site"`
	Content  ContentConfig  `yaml:"content"`
	Output   OutputConfig   `yaml:"output"`
	Markdown MarkdownConfig `yaml:"markdown"`
	Diagram  DiagramConfig  `yaml:"diagram"`
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	CSS      CSSConfig      `yaml:"css"`
	Assets   AssetsConfig   `yaml:"assets"`
}

// SiteConfig describes the blog itself.
type SiteConfig struct {
	Title        string `yaml:"title"`
	BaseURL      string `yaml:"baseURL"`      // Optional, absolute URL prefix of the site
	Author       string `yaml:"author"`       // Optional
	Lang         string `yaml:"lang"`         // html lang attribute (default: "en")
	DateFormat   string `yaml:"dateFormat"`   // dateutil tokens or preset (default: "MMMM D, YYYY")
	RelatedCount int    `yaml:"relatedCount"` // Related articles per page (default: 3)
}

// ContentConfig locates the markdown articles.
type ContentConfig struct {
	Dir string `yaml:"dir"`
}

// OutputConfig locates the generated site.
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// MarkdownConfig tunes markdown rendering.
type MarkdownConfig struct {
	RawHTML        bool              `yaml:"rawHTML"`        // Pass raw HTML in markdown through
	HighlightStyle string            `yaml:"highlightStyle"` // chroma style name
	Classes        map[string]string `yaml:"classes"`        // element -> class override
}

// DiagramConfig tunes diagram rendering.
type DiagramConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Language    string `yaml:"language"`    // Fence tag routed to the diagram renderer
	ScriptURL   string `yaml:"scriptURL"`   // Diagram library loaded in the headless browser
	Theme       string `yaml:"theme"`       // dark, default, neutral, forest, base
	Timeout     string `yaml:"timeout"`     // Go duration, bound of one render
	CacheSize   int    `yaml:"cacheSize"`   // In-memory entries
	CacheFile   string `yaml:"cacheFile"`   // Optional SQLite file persisting rendered diagrams
	Lazy        bool   `yaml:"lazy"`        // serve: render on demand in the browser
	Concurrency int    `yaml:"concurrency"` // Parallel renders per page (0 = default)
}

// TimeoutDuration returns the parsed render timeout, zero when unset.
// Validate guarantees the value parses.
func (d DiagramConfig) TimeoutDuration() time.Duration {
	if d.Timeout == "" {
		return 0
	}
	t, _ := time.ParseDuration(d.Timeout)
	return t
}

// ServerConfig tunes the preview server.
type ServerConfig struct {
	Addr         string   `yaml:"addr"`
	CORSOrigins  []string `yaml:"corsOrigins"`  // Origins allowed to fetch diagrams
	DiagramRate  float64  `yaml:"diagramRate"`  // Lazy diagram requests per second per client, 0 = unlimited
	DiagramBurst int      `yaml:"diagramBurst"` // Burst above DiagramRate
}

// LogConfig tunes logging.
type LogConfig struct {
	Level      string `yaml:"level"`      // logrus level name
	Format     string `yaml:"format"`     // text or json
	File       string `yaml:"file"`       // Optional, rotated log file
	MaxSizeMB  int    `yaml:"maxSizeMB"`  // Rotation size
	MaxBackups int    `yaml:"maxBackups"` // Rotated files kept
	MaxAgeDays int    `yaml:"maxAgeDays"` // Rotated file age limit
}

// CSSConfig defines CSS styling options.
type CSSConfig struct {
	Style string `yaml:"style"` // Name of style in internal/assets/styles/ or a .css path
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath    string `yaml:"basePath"`    // Empty = use embedded assets
	TemplateSet string `yaml:"templateSet"` // Template set name (default: "default")
}

// validDiagramThemes are the themes the diagram library ships.
var validDiagramThemes = []string{"dark", "default", "neutral", "forest", "base"}

// Validate checks field lengths and value ranges.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	lengths := []struct {
		field string
		value string
		max   int
	}{
		{"site.title", c.Site.Title, MaxTitleLength},
		{"site.baseURL", c.Site.BaseURL, MaxURLLength},
		{"site.author", c.Site.Author, MaxNameLength},
		{"site.lang", c.Site.Lang, MaxLangLength},
		{"site.dateFormat", c.Site.DateFormat, MaxDateFormatLength},
		{"content.dir", c.Content.Dir, MaxPathLength},
		{"output.dir", c.Output.Dir, MaxPathLength},
		{"markdown.highlightStyle", c.Markdown.HighlightStyle, MaxStyleLength},
		{"diagram.language", c.Diagram.Language, MaxLanguageLength},
		{"diagram.scriptURL", c.Diagram.ScriptURL, MaxURLLength},
		{"diagram.cacheFile", c.Diagram.CacheFile, MaxPathLength},
		{"server.addr", c.Server.Addr, MaxAddrLength},
		{"log.file", c.Log.File, MaxPathLength},
		{"css.style", c.CSS.Style, MaxPathLength},
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
		{"assets.templateSet", c.Assets.TemplateSet, MaxStyleLength},
	}
	for _, l := range lengths {
		if err := validateFieldLength(l.field, l.value, l.max); err != nil {
			return err
		}
	}

	for element, class := range c.Markdown.Classes {
		if err := validateFieldLength("markdown.classes."+element, class, MaxClassLength); err != nil {
			return err
		}
	}

	if c.Site.BaseURL != "" && !fileutil.IsURL(c.Site.BaseURL) {
		return fmt.Errorf("%w: site.baseURL must start with http:// or https://, got %q", ErrInvalidValue, c.Site.BaseURL)
	}
	if c.Site.DateFormat != "" {
		if err := dateutil.ValidateFormat(c.Site.DateFormat); err != nil {
			return fmt.Errorf("%w: site.dateFormat: %v", ErrInvalidValue, err)
		}
	}
	if c.Site.RelatedCount < 0 || c.Site.RelatedCount > MaxRelatedCount {
		return fmt.Errorf("%w: site.relatedCount must be between 0 and %d, got %d", ErrInvalidValue, MaxRelatedCount, c.Site.RelatedCount)
	}

	if err := c.Diagram.validate(); err != nil {
		return err
	}

	if c.Server.DiagramRate < 0 {
		return fmt.Errorf("%w: server.diagramRate must not be negative, got %.2f", ErrInvalidValue, c.Server.DiagramRate)
	}
	if c.Server.DiagramBurst < 0 {
		return fmt.Errorf("%w: server.diagramBurst must not be negative, got %d", ErrInvalidValue, c.Server.DiagramBurst)
	}
	for i, origin := range c.Server.CORSOrigins {
		if err := validateFieldLength(fmt.Sprintf("server.corsOrigins[%d]", i), origin, MaxURLLength); err != nil {
			return err
		}
	}

	return c.Log.validate()
}

func (d DiagramConfig) validate() error {
	if d.ScriptURL != "" && !fileutil.IsURL(d.ScriptURL) {
		return fmt.Errorf("%w: diagram.scriptURL must start with http:// or https://, got %q", ErrInvalidValue, d.ScriptURL)
	}
	if d.Theme != "" && !slices.Contains(validDiagramThemes, d.Theme) {
		return fmt.Errorf("%w: diagram.theme must be one of %s, got %q", ErrInvalidValue, strings.Join(validDiagramThemes, ", "), d.Theme)
	}
	if d.Timeout != "" {
		t, err := time.ParseDuration(d.Timeout)
		if err != nil {
			return fmt.Errorf("%w: diagram.timeout: %v", ErrInvalidValue, err)
		}
		if t <= 0 || t > MaxDiagramTimeout {
			return fmt.Errorf("%w: diagram.timeout must be in (0, %s], got %s", ErrInvalidValue, MaxDiagramTimeout, t)
		}
	}
	if d.CacheSize < 0 || d.CacheSize > MaxDiagramCacheSize {
		return fmt.Errorf("%w: diagram.cacheSize must be between 0 and %d, got %d", ErrInvalidValue, MaxDiagramCacheSize, d.CacheSize)
	}
	if d.Concurrency < 0 || d.Concurrency > MaxDiagramWorkers {
		return fmt.Errorf("%w: diagram.concurrency must be between 0 and %d, got %d", ErrInvalidValue, MaxDiagramWorkers, d.Concurrency)
	}
	return nil
}

func (l LogConfig) validate() error {
	if l.Level != "" {
		if _, err := logrus.ParseLevel(l.Level); err != nil {
			return fmt.Errorf("%w: log.level: %v", ErrInvalidValue, err)
		}
	}
	switch l.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: log.format must be text or json, got %q", ErrInvalidValue, l.Format)
	}
	if l.MaxSizeMB < 0 || l.MaxBackups < 0 || l.MaxAgeDays < 0 {
		return fmt.Errorf("%w: log rotation limits must not be negative", ErrInvalidValue)
	}
	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Site: SiteConfig{
			Lang:         "en",
			DateFormat:   "MMMM D, YYYY",
			RelatedCount: DefaultRelatedCount,
		},
		Content:  ContentConfig{Dir: DefaultContentDir},
		Output:   OutputConfig{Dir: DefaultOutputDir},
		Markdown: MarkdownConfig{HighlightStyle: "github"},
		Diagram: DiagramConfig{
			Enabled:  true,
			Lazy:     true,
			Language: DefaultDiagramLang,
			Theme:    DefaultDiagramTheme,
			Timeout:  DefaultDiagramTimeout,
		},
		Server: ServerConfig{
			Addr:         DefaultServerAddr,
			DiagramRate:  DefaultDiagramRate,
			DiagramBurst: DefaultDiagramBurst,
		},
		Log:    LogConfig{Level: "info", Format: "text"},
		CSS:    CSSConfig{Style: "default"},
		Assets: AssetsConfig{TemplateSet: "default"},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Fields absent from the file keep their DefaultConfig values.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SearchPaths returns the locations LoadConfig tries for a config name,
// in order.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, "go-md2blog", name+ext))
		}
	}
	return paths
}

// resolveConfigPath searches for a config file by name in standard locations:
// current directory first, then the user config directory.
func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}
