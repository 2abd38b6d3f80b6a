package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	mark2doc "github.com/alnah/go-mark2doc"
	"github.com/alnah/go-mark2doc/internal/assets"
	"github.com/alnah/go-mark2doc/internal/config"
	"github.com/alnah/go-mark2doc/internal/dateutil"
	"github.com/alnah/go-mark2doc/internal/figure"
	"github.com/alnah/go-mark2doc/internal/hints"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput            = errors.New("no input specified")
	ErrReadSource         = errors.New("failed to read markup source")
	ErrWriteArtifact      = errors.New("failed to write artifact")
	ErrInvalidExtension   = errors.New("file must have .mrk extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// runConvertCmd parses flags, runs the conversion, and maps errors to an
// exit code with hints appended.
func runConvertCmd(args []string, env *Environment) int {
	flags, positional, err := parseConvertFlags(args, env.Stderr)
	if err != nil {
		return ExitUsage
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	if err := runConvert(ctx, positional, flags, env); err != nil {
		fmt.Fprintf(env.Stderr, "Error: %v%s\n", err, hintFor(err))
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// runConvert orchestrates a batch conversion. The first positional
// argument is the format token, the rest are sources (files or
// directories).
func runConvert(ctx context.Context, positional []string, flags *convertFlags, env *Environment) error {
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	format, inputs, err := splitFormatArgs(positional)
	if err != nil {
		return err
	}

	cfg, err := loadMergedConfig(flags, env)
	if err != nil {
		return err
	}

	outputDir := flags.outputDir
	if outputDir == "" {
		outputDir = cfg.Output.DefaultDir
	}

	files, err := discoverSources(inputs, outputDir, format)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: no %s files found", ErrNoInput, mark2docExt)
	}

	opts, err := buildOptions(cfg)
	if err != nil {
		return err
	}

	pool := newConverterPool(mark2doc.ResolvePoolSize(flags.workers), opts...)
	defer pool.Close()
	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "Pool size: %d\n", pool.Size())
	}

	results := convertBatch(ctx, pool, files, format, flags.keepTex)

	failed := printResults(results, flags.common.quiet, flags.common.verbose, env)
	if failed > 0 {
		return fmt.Errorf("%d conversion(s) failed", failed)
	}
	return nil
}

// splitFormatArgs peels the format token off the positional arguments.
func splitFormatArgs(positional []string) (mark2doc.Format, []string, error) {
	if len(positional) == 0 {
		return "", nil, fmt.Errorf("%w: expected a format (tex, pdf, htm, doc)", ErrNoInput)
	}
	format, err := mark2doc.ParseFormat(positional[0])
	if err != nil {
		return "", nil, err
	}
	if len(positional) < 2 {
		return "", nil, fmt.Errorf("%w: expected at least one source after the format", ErrNoInput)
	}
	return format, positional[1:], nil
}

// loadMergedConfig builds the effective configuration: defaults, then the
// config file, then MARK2DOC_* environment overrides, then CLI flags.
func loadMergedConfig(flags *convertFlags, env *Environment) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if flags.common.config != "" {
		loaded, err := config.LoadConfig(flags.common.config)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	warnings, err := cfg.ApplyEnv(env.Environ())
	for _, w := range warnings {
		fmt.Fprintf(env.Stderr, "Warning: %s\n", w)
	}
	if err != nil {
		return nil, err
	}

	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *convertFlags, cfg *config.Config) {
	if flags.render.wrapWidth > 0 {
		cfg.Render.WrapWidth = flags.render.wrapWidth
	}
	if flags.render.highlight != "" {
		if flags.render.highlight == "none" {
			cfg.Render.HighlightStyle = ""
		} else {
			cfg.Render.HighlightStyle = flags.render.highlight
		}
	}
	if flags.render.dateFormat != "" {
		cfg.Render.DateFormat = flags.render.dateFormat
	}
	if flags.widthThreshold > 0 {
		cfg.Figure.WidthThreshold = flags.widthThreshold
	}
	if flags.tools.fig2dev != "" {
		cfg.Tools.Fig2dev = flags.tools.fig2dev
	}
	if flags.tools.latex != "" {
		cfg.Tools.Latex = flags.tools.latex
	}
	if flags.tools.dvipdfmx != "" {
		cfg.Tools.Dvipdfmx = flags.tools.dvipdfmx
	}
	if flags.pdf.engine != "" {
		cfg.PDF.Engine = flags.pdf.engine
	}
	if flags.pdf.timeout != "" {
		cfg.PDF.Timeout = flags.pdf.timeout
	}
}

// buildOptions translates the effective configuration into converter
// options.
func buildOptions(cfg *config.Config) ([]mark2doc.Option, error) {
	opts := []mark2doc.Option{
		mark2doc.WithWrapWidth(cfg.Render.WrapWidth),
		mark2doc.WithHighlightStyle(cfg.Render.HighlightStyle),
		mark2doc.WithFigureWidthThreshold(cfg.Figure.WidthThreshold),
		mark2doc.WithTools(mark2doc.Tools{
			Fig2dev:  cfg.Tools.Fig2dev,
			Latex:    cfg.Tools.Latex,
			Dvipdfmx: cfg.Tools.Dvipdfmx,
		}),
	}

	if cfg.Render.DateFormat != "" {
		opts = append(opts, mark2doc.WithDateFormat(cfg.Render.DateFormat))
	}

	if cfg.PDF.Engine != "" {
		engine, err := mark2doc.ParsePDFEngine(cfg.PDF.Engine)
		if err != nil {
			return nil, err
		}
		opts = append(opts, mark2doc.WithPDFEngine(engine))
	}

	if cfg.PDF.Timeout != "" {
		d, err := time.ParseDuration(cfg.PDF.Timeout)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("%w: pdf.timeout %q", config.ErrInvalidValue, cfg.PDF.Timeout)
		}
		opts = append(opts, mark2doc.WithTimeout(d))
	}

	return opts, nil
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > mark2doc.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, mark2doc.MaxPoolSize)
	}
	return nil
}

// hintFor returns an actionable hint for well-known failure classes.
func hintFor(err error) string {
	switch {
	case errors.Is(err, mark2doc.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, figure.ErrToolNotFound):
		return hints.ForToolNotFound("fig2dev")
	case errors.Is(err, mark2doc.ErrTypesetTool):
		return hints.ForToolNotFound("latex")
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(nil)
	case errors.Is(err, ErrWriteArtifact):
		return hints.ForOutputDirectory()
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, mark2doc.ErrUnknownHighlight):
		return hints.ForHighlightStyle(assets.HighlightStyles())
	case errors.Is(err, dateutil.ErrInvalidDateFormat):
		return "\n  hint: presets are iso, european, us, long; tokens are YYYY, YY, MMMM, MMM, MM, M, DD, D"
	}
	return ""
}
