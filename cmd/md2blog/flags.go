package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// ErrInvalidFlags reports a command line that does not parse.
var ErrInvalidFlags = errors.New("invalid flags")

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// renderFlags holds flags that tune the renderer.
type renderFlags struct {
	style      string
	timeout    string
	noDiagrams bool
}

// buildFlags holds flags for the build command.
type buildFlags struct {
	common  commonFlags
	render  renderFlags
	output  string
	workers int
}

// serveFlags holds flags for the serve command.
type serveFlags struct {
	common commonFlags
	render renderFlags
	addr   string
}

// renderFileFlags holds flags for the render command.
type renderFileFlags struct {
	common   commonFlags
	render   renderFlags
	output   string
	fragment bool
}

// checkFlags holds flags for the check command.
type checkFlags struct {
	common commonFlags
}

// doctorFlags holds flags for the doctor command.
type doctorFlags struct {
	common commonFlags
	json   bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing and debug logs")
}

// addRenderFlags adds renderer flags to a FlagSet.
func addRenderFlags(fs *flag.FlagSet, f *renderFlags) {
	fs.StringVar(&f.style, "style", "", "CSS style name or .css path")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "diagram render timeout (e.g., 30s, 2m)")
	fs.BoolVar(&f.noDiagrams, "no-diagrams", false, "render diagram fences as code blocks")
}

// newFlagSet creates a FlagSet whose errors and usage go to w.
func newFlagSet(name string, w io.Writer, usage func(io.Writer)) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(w)
	fs.Usage = func() { usage(w) }
	return fs
}

// parse runs fs over args. flag.ErrHelp is returned unwrapped.
func parse(fs *flag.FlagSet, args []string) error {
	err := fs.Parse(args)
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrInvalidFlags, err)
}

// parseBuildFlags parses build command flags and returns positional args.
func parseBuildFlags(args []string, w io.Writer) (*buildFlags, []string, error) {
	f := &buildFlags{}
	fs := newFlagSet("build", w, printBuildUsage)

	fs.StringVarP(&f.output, "output", "o", "", "output directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	addCommonFlags(fs, &f.common)
	addRenderFlags(fs, &f.render)

	if err := parse(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseServeFlags parses serve command flags and returns positional args.
func parseServeFlags(args []string, w io.Writer) (*serveFlags, []string, error) {
	f := &serveFlags{}
	fs := newFlagSet("serve", w, printServeUsage)

	fs.StringVarP(&f.addr, "addr", "a", "", "listen address (host:port)")
	addCommonFlags(fs, &f.common)
	addRenderFlags(fs, &f.render)

	if err := parse(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseRenderFlags parses render command flags and returns positional args.
func parseRenderFlags(args []string, w io.Writer) (*renderFileFlags, []string, error) {
	f := &renderFileFlags{}
	fs := newFlagSet("render", w, printRenderUsage)

	fs.StringVarP(&f.output, "output", "o", "", "output HTML file (stdout when empty)")
	fs.BoolVar(&f.fragment, "fragment", false, "write the body fragment instead of a full page")
	addCommonFlags(fs, &f.common)
	addRenderFlags(fs, &f.render)

	if err := parse(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseCheckFlags parses check command flags and returns positional args.
func parseCheckFlags(args []string, w io.Writer) (*checkFlags, []string, error) {
	f := &checkFlags{}
	fs := newFlagSet("check", w, printCheckUsage)

	addCommonFlags(fs, &f.common)

	if err := parse(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseDoctorFlags parses doctor command flags.
func parseDoctorFlags(args []string, w io.Writer) (*doctorFlags, error) {
	f := &doctorFlags{}
	fs := newFlagSet("doctor", w, printDoctorUsage)

	fs.BoolVar(&f.json, "json", false, "print the report as JSON")
	addCommonFlags(fs, &f.common)

	if err := parse(fs, args); err != nil {
		return nil, err
	}
	return f, nil
}
