package main

import (
	"context"
	"net"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestRunServe
// ---------------------------------------------------------------------------

func TestRunServe_StopsWithContext(t *testing.T) {
	t.Parallel()

	dir := setupTestDir(t, map[string]string{"go.md": goArticle})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	env, _, stderr := testEnv()
	code := run(ctx, []string{"serve", dir, "--addr", "127.0.0.1:0"}, env)
	if code != ExitSuccess {
		t.Errorf("exit = %d, want 0\nstderr: %s", code, stderr)
	}
}

func TestRunServe_AddressInUse(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	dir := setupTestDir(t, map[string]string{"go.md": goArticle})
	env, _, stderr := testEnv()
	code := run(context.Background(), []string{"serve", dir, "--addr", ln.Addr().String()}, env)
	if code != ExitIO {
		t.Errorf("exit = %d, want %d", code, ExitIO)
	}
	if !strings.Contains(stderr.String(), "use --addr to pick another address") {
		t.Errorf("stderr = %q, want address hint", stderr)
	}
}

func TestRunServe_MissingContent(t *testing.T) {
	t.Parallel()

	env, _, _ := testEnv()
	code := run(context.Background(), []string{"serve", t.TempDir() + "/missing"}, env)
	if code != ExitIO {
		t.Errorf("exit = %d, want %d", code, ExitIO)
	}
}
