package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
)

var errSyntax = errors.New("syntax error")

// fakeEngine renders "<svg>source</svg>" and fails on sources containing
// "invalid".
type fakeEngine struct {
	renders atomic.Int32
	initErr error
}

func (f *fakeEngine) Init(ctx context.Context) error { return f.initErr }

func (f *fakeEngine) Render(ctx context.Context, id, source string) (string, error) {
	f.renders.Add(1)
	if strings.Contains(source, "invalid") {
		return "", errSyntax
	}
	return "<svg>" + source + "</svg>", nil
}

func (f *fakeEngine) Close() error { return nil }

// testEnv returns an Environment writing to buffers and rendering diagrams
// with a fakeEngine.
func testEnv() (*Environment, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	return &Environment{
		Stdout:        &stdout,
		Stderr:        &stderr,
		Stdin:         strings.NewReader(""),
		DiagramEngine: &fakeEngine{},
	}, &stdout, &stderr
}

// setupTestDir creates a temp directory with the given file structure.
// Files map paths to content. Returns the temp directory path.
func setupTestDir(t *testing.T, files map[string]string) string {
	t.Helper()
	tempDir := t.TempDir()

	for path, content := range files {
		fullPath := filepath.Join(tempDir, path)
		if err := os.MkdirAll(filepath.Dir(fullPath), 0o750); err != nil {
			t.Fatalf("failed to create dir for %s: %v", path, err)
		}
		if err := os.WriteFile(fullPath, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", path, err)
		}
	}

	return tempDir
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

const goArticle = `---
title: Go Tips
date: 2024-03-05
tags: [Go]
featured: true
---
Small habits that keep Go code readable.

## Setup

` + "```mermaid\ngraph TD; A-->B\n```" + `

### Install

Run the installer.
`

const rustArticle = `---
title: Rust Notes
date: 2024-01-10
tags: [Rust, Web Dev]
---
Notes on ownership.

## Ownership

Every value has one owner.
`
