package main

import (
	"context"
	"fmt"
	"io"
	"os"

	md2blog "github.com/alnah/go-md2blog"
	"github.com/alnah/go-md2blog/internal/content"
	"github.com/alnah/go-md2blog/internal/fileutil"
)

// stdinName is the file name given to markdown read from standard input.
const stdinName = "stdin.md"

// runRender renders one markdown file to a page or a body fragment.
func runRender(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseRenderFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if len(positional) != 1 {
		return fmt.Errorf("%w: render takes exactly one file, got %d", ErrNoInput, len(positional))
	}

	cfg, err := loadConfig(flags.common, loadEnvConfig(), env.Stderr)
	if err != nil {
		return err
	}
	mergeRenderFlags(flags.render, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, closer, err := newLogger(cfg, flags.common, env.Stderr)
	if err != nil {
		return err
	}
	defer closer.Close()

	name, data, err := readMarkdown(positional[0], env.Stdin)
	if err != nil {
		return err
	}
	article, err := content.Parse(name, data)
	if err != nil {
		return err
	}

	renderer, err := md2blog.NewRenderer(rendererOptions(cfg, logger, env)...)
	if err != nil {
		return withHint(err)
	}
	defer renderer.Close()

	res, err := renderer.Render(ctx, md2blog.Input{Article: &article, Fragment: flags.fragment})
	if err != nil {
		return withHint(err)
	}
	for _, d := range res.Diagrams {
		if d.Err != nil {
			fmt.Fprintf(env.Stderr, "warning: diagram %d failed to render: %v\n", d.Index, d.Err)
		}
	}

	if flags.output == "" {
		_, err := env.Stdout.Write(res.HTML)
		return err
	}
	if err := fileutil.WriteFileAtomic(flags.output, res.HTML); err != nil {
		return withHint(fmt.Errorf("%w: %v", ErrWriteOutput, err))
	}
	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Created %s\n", flags.output)
	}
	return nil
}

// readMarkdown reads path, or stdin when path is "-".
func readMarkdown(path string, stdin io.Reader) (string, []byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", nil, fmt.Errorf("%w: %v", ErrReadMarkdown, err)
		}
		return stdinName, data, nil
	}

	if !content.IsMarkdownFile(path) {
		return "", nil, fmt.Errorf("%w: %s: file must have .md or .markdown extension", ErrReadMarkdown, path)
	}
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrReadMarkdown, err)
	}
	return path, data, nil
}
