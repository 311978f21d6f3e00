package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	md2blog "github.com/alnah/go-md2blog"
	"github.com/alnah/go-md2blog/internal/hints"
	"github.com/alnah/go-md2blog/internal/server"
)

// diagramsPath is the route lazy diagrams are fetched from.
const diagramsPath = "/diagrams"

// runServe serves the blog until ctx is done.
func runServe(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseServeFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(flags.common, loadEnvConfig(), env.Stderr)
	if err != nil {
		return err
	}
	mergeRenderFlags(flags.render, cfg)
	setIfNotEmpty(&cfg.Server.Addr, flags.addr)
	if len(positional) > 0 {
		cfg.Content.Dir = positional[0]
	}
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

	opts := append(rendererOptions(cfg, logger, env), md2blog.WithAssetBase(assetsPath))
	if cfg.Diagram.Lazy {
		opts = append(opts, md2blog.WithLazyDiagrams(diagramsPath))
	}
	renderer, err := md2blog.NewRenderer(opts...)
	if err != nil {
		return withHint(err)
	}
	defer renderer.Close()

	srv := server.New(server.NewBlog(store, renderer, cfg.Site.RelatedCount, server.WithSearch()), server.Config{
		Addr:         cfg.Server.Addr,
		CORSOrigins:  cfg.Server.CORSOrigins,
		DiagramRate:  cfg.Server.DiagramRate,
		DiagramBurst: cfg.Server.DiagramBurst,
		Logger:       logger,
	})

	logger.WithFields(logrus.Fields{
		"content":  cfg.Content.Dir,
		"articles": store.Len(),
		"lazy":     cfg.Diagram.Lazy && renderer.DiagramsEnabled(),
	}).Info("serving blog")
	if err := srv.ListenAndServe(ctx); err != nil {
		if errors.Is(err, server.ErrListen) {
			return fmt.Errorf("%w%s", err, hints.ForAddressInUse(cfg.Server.Addr))
		}
		return err
	}
	logger.Info("server stopped")
	return nil
}
