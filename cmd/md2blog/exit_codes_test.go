package main

import (
	"errors"
	"fmt"
	"os"
	"testing"

	md2blog "github.com/alnah/go-md2blog"
	"github.com/alnah/go-md2blog/internal/config"
	"github.com/alnah/go-md2blog/internal/content"
	"github.com/alnah/go-md2blog/internal/server"
)

// ---------------------------------------------------------------------------
// TestExitCodeFor - Error to exit code mapping
// ---------------------------------------------------------------------------

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"unexpected", errors.New("boom"), ExitGeneral},
		{"outline mismatch", ErrOutlineMismatch, ExitGeneral},
		{"articles failed", fmt.Errorf("%w: 1 of 2: %w", ErrArticlesFailed, md2blog.ErrEmptyMarkdown), ExitGeneral},
		{"browser", fmt.Errorf("%w: no chrome", md2blog.ErrBrowserConnect), ExitBrowser},
		{"browser inside failed articles", fmt.Errorf("%w: %w", ErrArticlesFailed, md2blog.ErrBrowserConnect), ExitBrowser},
		{"not exist", fmt.Errorf("open: %w", os.ErrNotExist), ExitIO},
		{"content dir", fmt.Errorf("%w: missing", content.ErrContentDir), ExitIO},
		{"write output", ErrWriteOutput, ExitIO},
		{"listen", fmt.Errorf("%w: busy", server.ErrListen), ExitIO},
		{"diagram store", md2blog.ErrDiagramStore, ExitIO},
		{"unknown command", ErrUnknownCommand, ExitUsage},
		{"invalid flags", ErrInvalidFlags, ExitUsage},
		{"workers", ErrInvalidWorkerCount, ExitUsage},
		{"config not found", fmt.Errorf("loading config: %w", config.ErrConfigNotFound), ExitUsage},
		{"config value", config.ErrInvalidValue, ExitUsage},
		{"duplicate id", content.ErrDuplicateID, ExitUsage},
		{"front matter", content.ErrInvalidFrontMatter, ExitUsage},
		{"style", md2blog.ErrStyleNotFound, ExitUsage},
		{"date format", md2blog.ErrInvalidDateFormat, ExitUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
