package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestRunHelp_EveryCommand(t *testing.T) {
	t.Parallel()

	for _, cmd := range []string{"build", "serve", "render", "check", "doctor", "version", "help"} {
		t.Run(cmd, func(t *testing.T) {
			t.Parallel()
			env, stdout, _ := testEnv()
			if code := runHelp([]string{cmd}, env); code != ExitSuccess {
				t.Fatalf("runHelp(%s) = %d", cmd, code)
			}
			if !strings.HasPrefix(stdout.String(), "Usage: md2blog "+cmd) {
				t.Errorf("help %s = %q", cmd, stdout)
			}
		})
	}
}

func TestPrintUsage_ListsCommands(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printUsage(&buf)
	for _, cmd := range []string{"build", "serve", "render", "check", "doctor", "version", "help"} {
		if !strings.Contains(buf.String(), "  "+cmd+" ") {
			t.Errorf("usage missing command %q", cmd)
		}
	}
}
