package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mark2doc <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert    Convert markup files to tex, pdf, htm, or doc")
	fmt.Fprintln(w, "  watch      Rebuild a document when it or its inclusions change")
	fmt.Fprintln(w, "  doctor     Check the external toolchain and environment")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'mark2doc help <command>' for details on a specific command.")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mark2doc convert <tex|pdf|htm|doc> <source.mrk|dir>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert markup files to the requested format. Directories are")
	fmt.Fprintln(w, "scanned recursively for .mrk files.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output-dir <dir>    Artifact directory (default: beside each source)")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "      --keep-tex            Also write the intermediate typeset source (pdf)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintln(w, "      --wrap <n>            Typeset source line width in columns")
	fmt.Fprintln(w, "      --highlight <s>       Code highlight style (\"none\" disables)")
	fmt.Fprintln(w, "      --date-format <s>     Fallback title date format")
	fmt.Fprintln(w, "                            Presets: iso, european, us, long")
	fmt.Fprintln(w, "                            Tokens: YYYY, YY, MMMM, MMM, MM, M, DD, D")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Figures:")
	fmt.Fprintln(w, "      --figure-width-threshold <f>  EPS width in points for full-width scaling")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "PDF:")
	fmt.Fprintln(w, "      --engine <s>          PDF engine: tex or chrome")
	fmt.Fprintln(w, "  -t, --timeout <d>         Per-conversion timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Toolchain:")
	fmt.Fprintln(w, "      --fig2dev <path>      fig2dev binary")
	fmt.Fprintln(w, "      --latex <path>        latex binary")
	fmt.Fprintln(w, "      --dvipdfmx <path>     dvipdfmx binary")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show per-file timing")
}

// printWatchUsage prints usage for the watch command.
func printWatchUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mark2doc watch <tex|pdf|htm|doc> <source.mrk> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rebuild the document whenever the source or one of its inclusions")
	fmt.Fprintln(w, "changes. Accepts the convert flags, plus:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "      --debounce <d>        Quiet period before a rebuild (e.g., 300ms)")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mark2doc doctor [--json] [--config <name>]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check the external toolchain (fig2dev, latex, dvipdfmx, Chrome),")
	fmt.Fprintln(w, "the environment, and system requirements.")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "watch":
		printWatchUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: mark2doc version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: mark2doc help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
