package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// renderFlags holds rendering flags shared by all targets.
type renderFlags struct {
	wrapWidth  int
	highlight  string
	dateFormat string
}

// toolFlags holds external toolchain overrides.
type toolFlags struct {
	fig2dev  string
	latex    string
	dvipdfmx string
}

// pdfFlags holds PDF engine flags.
type pdfFlags struct {
	engine  string
	timeout string
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common         commonFlags
	outputDir      string
	workers        int
	keepTex        bool
	widthThreshold float64
	render         renderFlags
	tools          toolFlags
	pdf            pdfFlags
}

// watchFlags holds all flags for the watch command.
type watchFlags struct {
	convert  convertFlags
	debounce string
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show per-file timing")
}

// addRenderFlags adds rendering flags to a FlagSet.
func addRenderFlags(fs *flag.FlagSet, f *renderFlags) {
	fs.IntVar(&f.wrapWidth, "wrap", 0, "typeset source line width in columns (0 = config default)")
	fs.StringVar(&f.highlight, "highlight", "", "chroma style for code blocks (\"none\" disables)")
	fs.StringVar(&f.dateFormat, "date-format", "", "fallback title date: preset (iso, european, us, long) or tokens (YYYY-MM-DD)")
}

// addToolFlags adds toolchain override flags to a FlagSet.
func addToolFlags(fs *flag.FlagSet, f *toolFlags) {
	fs.StringVar(&f.fig2dev, "fig2dev", "", "fig2dev binary name or path")
	fs.StringVar(&f.latex, "latex", "", "latex binary name or path")
	fs.StringVar(&f.dvipdfmx, "dvipdfmx", "", "dvipdfmx binary name or path")
}

// addPDFFlags adds PDF engine flags to a FlagSet.
func addPDFFlags(fs *flag.FlagSet, f *pdfFlags) {
	fs.StringVar(&f.engine, "engine", "", "pdf engine: tex or chrome")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "per-conversion timeout (e.g., 30s, 2m)")
}

// addConvertFlags adds the full convert flag surface to a FlagSet.
func addConvertFlags(fs *flag.FlagSet, f *convertFlags) {
	fs.StringVarP(&f.outputDir, "output-dir", "o", "", "artifact directory (default: beside each source)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.BoolVar(&f.keepTex, "keep-tex", false, "also write the intermediate typeset source for pdf runs")
	fs.Float64Var(&f.widthThreshold, "figure-width-threshold", 0, "EPS width in points above which figures go full-width")
	addCommonFlags(fs, &f.common)
	addRenderFlags(fs, &f.render)
	addToolFlags(fs, &f.tools)
	addPDFFlags(fs, &f.pdf)
}

// parseConvertFlags parses convert command flags and returns positional args.
func parseConvertFlags(args []string, usageOut io.Writer) (*convertFlags, []string, error) {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	f := &convertFlags{}
	addConvertFlags(fs, f)
	fs.SetOutput(usageOut)
	fs.Usage = func() { printConvertUsage(usageOut) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseWatchFlags parses watch command flags and returns positional args.
func parseWatchFlags(args []string, usageOut io.Writer) (*watchFlags, []string, error) {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	f := &watchFlags{}
	addConvertFlags(fs, &f.convert)
	fs.StringVar(&f.debounce, "debounce", "", "quiet period before a rebuild (e.g., 300ms)")
	fs.SetOutput(usageOut)
	fs.Usage = func() { printWatchUsage(usageOut) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}
