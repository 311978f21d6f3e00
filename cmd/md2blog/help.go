package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2blog <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  build      Render every article into a static site")
	fmt.Fprintln(w, "  serve      Preview the blog with lazily rendered diagrams")
	fmt.Fprintln(w, "  render     Render a single markdown file to HTML")
	fmt.Fprintln(w, "  check      Verify outline anchors match the rendered headings")
	fmt.Fprintln(w, "  doctor     Check the diagram browser and environment")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'md2blog help <command>' for details on a specific command.")
}

func printCommonUsage(w io.Writer) {
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed timing and debug logs")
}

func printRenderFlagsUsage(w io.Writer) {
	fmt.Fprintln(w, "      --style <name|path>   CSS style name or .css file")
	fmt.Fprintln(w, "  -t, --timeout <d>         Diagram render timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w, "      --no-diagrams         Render diagram fences as code blocks")
}

// printBuildUsage prints usage for the build command.
func printBuildUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2blog build [content-dir] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render every article, the listing, the tag pages and the assets into")
	fmt.Fprintln(w, "a static site. Diagrams are rendered ahead of time.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  content-dir    Articles directory (default: content.dir from config)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -o, --output <dir>        Output directory (default: output.dir from config)")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	printRenderFlagsUsage(w)
	printCommonUsage(w)
}

// printServeUsage prints usage for the serve command.
func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2blog serve [content-dir] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Serve the blog. Diagrams not yet cached are fetched by the page from")
	fmt.Fprintln(w, "/diagrams/{key} once they scroll into view.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -a, --addr <host:port>    Listen address (default: server.addr from config)")
	printRenderFlagsUsage(w)
	printCommonUsage(w)
}

// printRenderUsage prints usage for the render command.
func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2blog render <file.md|-> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render one markdown file. Use - to read standard input.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -o, --output <file>       Output HTML file (default: stdout)")
	fmt.Fprintln(w, "      --fragment            Write the body fragment instead of a full page")
	printRenderFlagsUsage(w)
	printCommonUsage(w)
}

// printCheckUsage prints usage for the check command.
func printCheckUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2blog check [content-dir] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Compare each article's outline with the ids of its rendered h2 and h3")
	fmt.Fprintln(w, "headings. Divergences are errors, duplicate ids are warnings.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	printCommonUsage(w)
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2blog doctor [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check the diagram browser, sandbox settings and cache directory.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --json                Print the report as JSON")
	printCommonUsage(w)
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "build":
		printBuildUsage(env.Stdout)
	case "serve":
		printServeUsage(env.Stdout)
	case "render":
		printRenderUsage(env.Stdout)
	case "check":
		printCheckUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: md2blog version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: md2blog help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
