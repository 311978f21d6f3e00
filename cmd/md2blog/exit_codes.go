package main

import (
	"errors"
	"os"

	md2blog "github.com/alnah/go-md2blog"
	"github.com/alnah/go-md2blog/internal/config"
	"github.com/alnah/go-md2blog/internal/content"
	"github.com/alnah/go-md2blog/internal/logutil"
	"github.com/alnah/go-md2blog/internal/server"
)

// Exit codes for md2blog CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful run
	ExitGeneral = 1 // General/unexpected error, failed articles, outline divergences
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, md2blog.ErrBrowserConnect) {
		return ExitBrowser
	}

	// Some articles failed; the others were written (exit 1)
	if errors.Is(err, ErrArticlesFailed) {
		return ExitGeneral
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, content.ErrContentDir) ||
		errors.Is(err, ErrReadMarkdown) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, server.ErrListen) ||
		errors.Is(err, md2blog.ErrDiagramStore) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUnknownCommand) ||
		errors.Is(err, ErrInvalidFlags) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, logutil.ErrInvalidFormat) ||
		errors.Is(err, content.ErrDuplicateID) ||
		errors.Is(err, content.ErrInvalidFrontMatter) ||
		errors.Is(err, content.ErrEmptyID) ||
		errors.Is(err, content.ErrInvalidID) ||
		errors.Is(err, md2blog.ErrEmptyMarkdown) ||
		errors.Is(err, md2blog.ErrInvalidDateFormat) ||
		errors.Is(err, md2blog.ErrStyleNotFound) ||
		errors.Is(err, md2blog.ErrTemplateSetNotFound) ||
		errors.Is(err, md2blog.ErrIncompleteTemplateSet) ||
		errors.Is(err, md2blog.ErrInvalidAssetPath) {
		return ExitUsage
	}

	return ExitGeneral
}
