package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	md2blog "github.com/alnah/go-md2blog"
	"github.com/alnah/go-md2blog/internal/config"
	"github.com/alnah/go-md2blog/internal/fileutil"
	"github.com/alnah/go-md2blog/internal/hints"
	"github.com/alnah/go-md2blog/internal/logutil"
)

// loadConfig resolves the configuration of a command:
// CLI flags > env vars > config file > defaults.
// The caller merges its flags, then calls Validate.
func loadConfig(common commonFlags, envCfg *envConfig, w io.Writer) (*config.Config, error) {
	warnUnknownEnvVars(w)

	name := common.config
	if name == "" {
		name = envCfg.ConfigPath
	}

	cfg := config.DefaultConfig()
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			if errors.Is(err, config.ErrConfigNotFound) && !fileutil.IsFilePath(name) {
				return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
			}
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	applyEnvConfig(envCfg, cfg)
	return cfg, nil
}

// mergeRenderFlags merges renderer flags into config. CLI values override
// config values.
func mergeRenderFlags(f renderFlags, cfg *config.Config) {
	setIfNotEmpty(&cfg.CSS.Style, f.style)
	setIfNotEmpty(&cfg.Diagram.Timeout, f.timeout)
	if f.noDiagrams {
		cfg.Diagram.Enabled = false
	}
}

// newLogger builds the command logger. --verbose and --quiet override the
// configured level.
func newLogger(cfg *config.Config, common commonFlags, w io.Writer) (*logrus.Logger, io.Closer, error) {
	opts := logutil.Options{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Output:     w,
	}
	switch {
	case common.verbose:
		opts.Level = logrus.DebugLevel.String()
	case common.quiet:
		opts.Level = logrus.ErrorLevel.String()
	}

	logger, closer, err := logutil.New(opts)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", config.ErrInvalidValue, err)
	}
	return logger, closer, nil
}

// rendererOptions translates cfg into renderer options.
func rendererOptions(cfg *config.Config, logger *logrus.Logger, env *Environment) []md2blog.Option {
	opts := []md2blog.Option{
		md2blog.WithLogger(logger),
		md2blog.WithStyle(cfg.CSS.Style),
		md2blog.WithAssetPath(cfg.Assets.BasePath),
		md2blog.WithTemplateSet(cfg.Assets.TemplateSet),
		md2blog.WithDateFormat(cfg.Site.DateFormat),
		md2blog.WithSite(md2blog.Site{Title: cfg.Site.Title, Lang: cfg.Site.Lang}),
		md2blog.WithRawHTML(cfg.Markdown.RawHTML),
	}
	if cfg.Markdown.HighlightStyle != "" {
		opts = append(opts, md2blog.WithHighlightStyle(cfg.Markdown.HighlightStyle))
	}
	if len(cfg.Markdown.Classes) > 0 {
		opts = append(opts, md2blog.WithClasses(md2blog.ClassMap(cfg.Markdown.Classes)))
	}

	d := cfg.Diagram
	if !d.Enabled {
		return append(opts, md2blog.WithoutDiagrams())
	}

	if d.Language != "" {
		opts = append(opts, md2blog.WithDiagramLanguage(d.Language))
	}
	opts = append(opts,
		md2blog.WithDiagramScriptURL(d.ScriptURL),
		md2blog.WithDiagramTheme(d.Theme),
		md2blog.WithDiagramCacheFile(d.CacheFile),
		md2blog.WithDiagramConcurrency(d.Concurrency),
		md2blog.WithBrowser(os.Getenv("ROD_BROWSER_BIN"), os.Getenv("ROD_NO_SANDBOX") == "1"),
	)
	if t := d.TimeoutDuration(); t > 0 {
		opts = append(opts, md2blog.WithTimeout(t))
	}
	if d.CacheSize > 0 {
		opts = append(opts, md2blog.WithDiagramCacheSize(d.CacheSize))
	}
	if env.DiagramEngine != nil {
		opts = append(opts, md2blog.WithDiagramEngine(env.DiagramEngine))
	}
	return opts
}

// withHint appends the actionable hint matching err, if any.
func withHint(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, md2blog.ErrBrowserConnect):
		return fmt.Errorf("%w%s", err, hints.ForBrowserConnect())
	case errors.Is(err, md2blog.ErrStyleNotFound):
		return fmt.Errorf("%w%s", err, hints.ForStyleNotFound(md2blog.StyleNames()))
	case errors.Is(err, ErrWriteOutput):
		return fmt.Errorf("%w%s", err, hints.ForOutputDirectory())
	}
	return err
}
