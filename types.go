package mark2doc

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Format identifies an output target.
type Format string

// Supported output formats.
const (
	FormatTeX  Format = "tex" // typeset source
	FormatPDF  Format = "pdf" // typeset source compiled to PDF
	FormatHTML Format = "htm" // standalone hypertext page
	FormatWord Format = "doc" // word-processor call sequence, serialized
)

// ParseFormat resolves a CLI format token (case-insensitive).
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatTeX:
		return FormatTeX, nil
	case FormatPDF:
		return FormatPDF, nil
	case FormatHTML:
		return FormatHTML, nil
	case FormatWord:
		return FormatWord, nil
	default:
		return "", fmt.Errorf("%w: %q (expected tex, pdf, htm, or doc)", ErrUnknownFormat, s)
	}
}

// Ext returns the artifact file extension, dot included.
func (f Format) Ext() string { return "." + string(f) }

// PDFEngine selects how the pdf format produces its output.
type PDFEngine string

const (
	// PDFEngineTeX compiles the typeset source with latex and dvipdfmx.
	PDFEngineTeX PDFEngine = "tex"
	// PDFEngineChrome prints the hypertext artifact in headless Chrome.
	PDFEngineChrome PDFEngine = "chrome"
)

// ParsePDFEngine resolves an engine name (case-insensitive).
func ParsePDFEngine(s string) (PDFEngine, error) {
	switch PDFEngine(strings.ToLower(s)) {
	case PDFEngineTeX:
		return PDFEngineTeX, nil
	case PDFEngineChrome:
		return PDFEngineChrome, nil
	default:
		return "", fmt.Errorf("%w: %q (expected tex or chrome)", ErrUnknownEngine, s)
	}
}

// Input contains conversion parameters. Either Markup or SourcePath must
// be set; when both are set, Markup wins and SourcePath only names the
// document for diagnostics.
type Input struct {
	Markup     string // markup source content
	SourcePath string // path to the markup source file
	SourceDir  string // base directory for inclusions and figures (default: SourcePath's directory)
	Format     Format // output target (required)
}

// Validate checks that required fields are present and valid.
//
// This is the trust boundary for direct library users who build Input by
// hand; CLI input converges here too.
func (in Input) Validate() error {
	if in.Markup == "" && in.SourcePath == "" {
		return ErrEmptySource
	}
	if _, err := ParseFormat(string(in.Format)); err != nil {
		return err
	}
	return nil
}

// ConvertResult holds the conversion output.
type ConvertResult struct {
	// Artifact is the rendered output in the requested format.
	Artifact []byte
	// TeX is the intermediate typeset source, set for pdf runs on the
	// tex engine (for debugging).
	TeX []byte
	// Ops is the word-processor call sequence, set for doc runs.
	Ops []WordOp
	// Includes lists every file spliced in by inclusion, in splice order.
	Includes []string
}

// Tools names the external toolchain binaries. Zero fields use defaults.
type Tools struct {
	Fig2dev  string // default "fig2dev"
	Latex    string // default "latex"
	Dvipdfmx string // default "dvipdfmx"
}

// CommandRunner abstracts external command execution to enable testing
// without real subprocesses. dir is the working directory ("" = inherit).
type CommandRunner interface {
	Run(ctx context.Context, dir, name string, args ...string) (stdout, stderr string, err error)
}

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	timeout        time.Duration
	wrapWidth      int
	highlight      string
	widthThreshold float64
	dateFormat     string
	engine         PDFEngine
	tools          Tools
}

// defaultTimeout is used when no timeout is specified.
const defaultTimeout = 2 * time.Minute

// DefaultWrapWidth is the typeset source line width in display cells.
const DefaultWrapWidth = 72

// WithTimeout sets the per-conversion timeout, applied when the caller's
// context carries no deadline. Panics if d <= 0 (programmer error,
// similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("mark2doc: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithWrapWidth sets the typeset source line width in display cells.
// Zero or negative disables wrapping.
func WithWrapWidth(columns int) Option {
	return func(c *Converter) {
		c.cfg.wrapWidth = columns
	}
}

// WithHighlightStyle names the chroma style used to highlight verbatim
// blocks in hypertext output. Empty disables highlighting.
func WithHighlightStyle(style string) Option {
	return func(c *Converter) {
		c.cfg.highlight = style
	}
}

// WithFigureWidthThreshold sets the EPS bounding-box width in points
// above which a figure is scaled to full text width.
func WithFigureWidthThreshold(points float64) Option {
	return func(c *Converter) {
		c.cfg.widthThreshold = points
	}
}

// WithPDFEngine selects the pdf production engine.
func WithPDFEngine(engine PDFEngine) Option {
	return func(c *Converter) {
		c.cfg.engine = engine
	}
}

// WithTools overrides the external toolchain binary names.
func WithTools(tools Tools) Option {
	return func(c *Converter) {
		if tools.Fig2dev != "" {
			c.cfg.tools.Fig2dev = tools.Fig2dev
		}
		if tools.Latex != "" {
			c.cfg.tools.Latex = tools.Latex
		}
		if tools.Dvipdfmx != "" {
			c.cfg.tools.Dvipdfmx = tools.Dvipdfmx
		}
	}
}

// WithDateFormat sets the format for the fallback title date used when
// the header carries no \date line. Accepts a preset name (iso,
// european, us, long) or a token format (YYYY-MM-DD style).
func WithDateFormat(format string) Option {
	return func(c *Converter) {
		c.cfg.dateFormat = format
	}
}

// WithCommandRunner injects a command runner for external tools (for
// tests). Panics if r is nil.
func WithCommandRunner(r CommandRunner) Option {
	if r == nil {
		panic("mark2doc: WithCommandRunner runner must not be nil")
	}
	return func(c *Converter) {
		c.runner = r
	}
}
