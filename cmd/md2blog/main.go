package main

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/joho/godotenv"
	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	// A missing .env file is the common case.
	_ = godotenv.Load()

	args := os.Args[1:]

	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply.
	if isVerbose(args) {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, a ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", a...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	ctx, stop := notifyContext(context.Background())
	code := run(ctx, args, DefaultEnv())
	stop()
	os.Exit(code)
}

// isVerbose reports whether the command line asks for verbose output,
// before the command's own flags are parsed.
func isVerbose(args []string) bool {
	return slices.Contains(args, "-v") || slices.Contains(args, "--verbose")
}
