package main

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	flag "github.com/spf13/pflag"
)

// ErrUnknownCommand reports a command name md2blog does not know.
var ErrUnknownCommand = errors.New("unknown command")

// run dispatches args[0] and returns the process exit code.
func run(ctx context.Context, args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	cmd, rest := args[0], args[1:]
	var err error

	switch cmd {
	case "build":
		err = runBuild(ctx, rest, env)
	case "serve":
		err = runServe(ctx, rest, env)
	case "render":
		err = runRender(ctx, rest, env)
	case "check":
		err = runCheck(ctx, rest, env)
	case "doctor":
		return runDoctorCmd(rest, env)
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "md2blog %s (%s, %s/%s)\n", Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		return ExitSuccess
	case "help", "-h", "--help":
		return runHelp(rest, env)
	default:
		err = fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
		fmt.Fprintln(env.Stderr, err)
		printUsage(env.Stderr)
		return exitCodeFor(err)
	}

	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintln(env.Stderr, "error:", err)
	}
	return exitCodeFor(err)
}
