package main

import (
	"context"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestRun - Command dispatch
// ---------------------------------------------------------------------------

func TestRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{"no command", nil, ExitUsage, "", "Usage: md2blog"},
		{"unknown command", []string{"publish"}, ExitUsage, "", "unknown command: publish"},
		{"version", []string{"version"}, ExitSuccess, "md2blog dev", ""},
		{"version flag", []string{"--version"}, ExitSuccess, "md2blog dev", ""},
		{"help", []string{"help"}, ExitSuccess, "Commands:", ""},
		{"help build", []string{"help", "build"}, ExitSuccess, "Usage: md2blog build", ""},
		{"help check", []string{"help", "check"}, ExitSuccess, "Usage: md2blog check", ""},
		{"help unknown", []string{"help", "publish"}, ExitUsage, "", "Unknown command: publish"},
		{"build -h", []string{"build", "-h"}, ExitSuccess, "", "Usage: md2blog build"},
		{"bad flag", []string{"render", "--nope"}, ExitUsage, "", "invalid flags"},
		{"render without file", []string{"render"}, ExitIO, "", "exactly one file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, stdout, stderr := testEnv()
			code := run(context.Background(), tt.args, env)

			if code != tt.wantCode {
				t.Errorf("run(%v) = %d, want %d\nstderr: %s", tt.args, code, tt.wantCode, stderr)
			}
			if tt.wantStdout != "" && !strings.Contains(stdout.String(), tt.wantStdout) {
				t.Errorf("stdout = %q, want substring %q", stdout, tt.wantStdout)
			}
			if tt.wantStderr != "" && !strings.Contains(stderr.String(), tt.wantStderr) {
				t.Errorf("stderr = %q, want substring %q", stderr, tt.wantStderr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestIsVerbose - Early verbose detection
// ---------------------------------------------------------------------------

func TestIsVerbose(t *testing.T) {
	t.Parallel()

	tests := []struct {
		args []string
		want bool
	}{
		{[]string{"build", "-v"}, true},
		{[]string{"serve", "--verbose"}, true},
		{[]string{"build", "-q"}, false},
		{nil, false},
	}

	for _, tt := range tests {
		if got := isVerbose(tt.args); got != tt.want {
			t.Errorf("isVerbose(%v) = %v, want %v", tt.args, got, tt.want)
		}
	}
}
