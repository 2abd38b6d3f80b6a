package mark2doc

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/alnah/go-mark2doc/internal/assets"
	"github.com/alnah/go-mark2doc/internal/dateutil"
	"github.com/alnah/go-mark2doc/internal/figure"
	"github.com/alnah/go-mark2doc/internal/markup"
	"github.com/alnah/go-mark2doc/internal/render"
)

// Compile-time interface implementation checks.
// These ensure implementations satisfy their interfaces at compile time,
// catching signature mismatches before runtime.
var (
	_ render.Renderer       = (*render.TeXRenderer)(nil)
	_ render.Renderer       = (*render.HTMLRenderer)(nil)
	_ render.Renderer       = (*render.WordRenderer)(nil)
	_ render.FigureResolver = (*figure.Resolver)(nil)
	_ CommandRunner         = (*figure.ExecRunner)(nil)
)

// Converter parses markup documents and renders them to TeX, HTML, Word,
// or PDF. Create with NewConverter, convert with Convert, and Close when
// done. A Converter is safe for concurrent use.
type Converter struct {
	cfg    converterConfig
	runner CommandRunner
	css    string
	chrome *chromeEngine
}

// NewConverter creates a Converter with default configuration. Use
// options to customize behavior (e.g., WithTimeout, WithPDFEngine).
// Returns an error if the highlight style is unknown.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg: converterConfig{
			timeout:        defaultTimeout,
			wrapWidth:      DefaultWrapWidth,
			highlight:      assets.DefaultHighlightStyle,
			widthThreshold: figure.DefaultWidthThreshold,
			dateFormat:     dateutil.DefaultDateFormat,
			engine:         PDFEngineTeX,
			tools: Tools{
				Fig2dev:  figure.DefaultTool,
				Latex:    "latex",
				Dvipdfmx: "dvipdfmx",
			},
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.runner == nil {
		c.runner = &figure.ExecRunner{}
	}

	css := assets.DefaultCSS()
	if c.cfg.highlight != "" {
		highlightCSS, err := assets.HighlightCSS(c.cfg.highlight)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnknownHighlight, err)
		}
		css += highlightCSS
	}
	c.css = css

	c.chrome = newChromeEngine(c.cfg.timeout)
	return c, nil
}

// Convert parses the input markup and renders the requested format.
// The context is used for cancellation; when it carries no deadline the
// configured timeout applies. Recovers from internal panics to prevent
// crashes from propagating to callers.
func (c *Converter) Convert(ctx context.Context, input Input) (result *ConvertResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if err := input.Validate(); err != nil {
		return nil, err
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.timeout)
		defer cancel()
	}

	doc, dir, err := c.assemble(input)
	if err != nil {
		return nil, err
	}

	today, err := dateutil.Format(time.Now(), c.cfg.dateFormat)
	if err != nil {
		return nil, fmt.Errorf("resolving date format: %w", err)
	}

	var figures render.FigureResolver = figure.NewResolver(c.cfg.tools.Fig2dev, c.cfg.widthThreshold, c.runner)
	figures = dirFigures{base: dir, inner: figures}
	res := &ConvertResult{Includes: doc.Includes}

	switch input.Format {
	case FormatTeX:
		res.Artifact, err = c.renderTeX(ctx, doc, figures, today)
	case FormatHTML:
		res.Artifact, err = c.renderHTML(ctx, doc, figures, today)
	case FormatWord:
		res.Artifact, res.Ops, err = c.renderWord(ctx, doc, figures, today)
	case FormatPDF:
		err = c.renderPDF(ctx, doc, figures, today, dir, res)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownFormat, input.Format)
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

// assemble reads the source if needed and parses it. The returned dir is
// the base for inclusions, figures, and the tex PDF engine's working
// directory.
func (c *Converter) assemble(input Input) (*markup.Document, string, error) {
	dir := input.SourceDir
	if dir == "" && input.SourcePath != "" {
		dir = filepath.Dir(input.SourcePath)
	}
	if dir == "" {
		dir = "."
	}
	// Absolute so figure asset paths embedded in artifacts stay valid no
	// matter where the external tools run.
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}

	source := input.Markup
	if source == "" {
		data, err := os.ReadFile(input.SourcePath) // #nosec G304 -- user-provided path
		if err != nil {
			return nil, "", fmt.Errorf("reading %q: %w", input.SourcePath, err)
		}
		source = string(data)
	}

	doc, err := markup.Assemble(source, dir)
	if err != nil {
		return nil, "", err
	}
	return doc, dir, nil
}

func (c *Converter) renderTeX(ctx context.Context, doc *markup.Document, figures render.FigureResolver, today string) ([]byte, error) {
	r := &render.TeXRenderer{Figures: figures, Wrap: c.cfg.wrapWidth, Today: today}
	artifact, err := r.Render(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("rendering typeset source: %w", err)
	}
	return artifact, nil
}

func (c *Converter) renderHTML(ctx context.Context, doc *markup.Document, figures render.FigureResolver, today string) ([]byte, error) {
	r := &render.HTMLRenderer{Figures: figures, CSS: c.css, Highlight: c.cfg.highlight, Today: today}
	artifact, err := r.Render(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("rendering hypertext: %w", err)
	}
	return artifact, nil
}

func (c *Converter) renderWord(ctx context.Context, doc *markup.Document, figures render.FigureResolver, today string) ([]byte, []WordOp, error) {
	r := &render.WordRenderer{Figures: figures, Today: today}
	artifact, err := r.Render(ctx, doc)
	if err != nil {
		return nil, nil, fmt.Errorf("rendering word document: %w", err)
	}
	ops, err := r.Ops(ctx, doc)
	if err != nil {
		return nil, nil, fmt.Errorf("building word call sequence: %w", err)
	}
	return artifact, toPublicOps(ops), nil
}

// renderPDF produces the PDF through the configured engine. The tex
// engine compiles the typeset source in dir so relative EPS paths
// resolve; the chrome engine prints the hypertext artifact.
func (c *Converter) renderPDF(ctx context.Context, doc *markup.Document, figures render.FigureResolver, today, dir string, res *ConvertResult) error {
	switch c.cfg.engine {
	case PDFEngineChrome:
		html, err := c.renderHTML(ctx, doc, figures, today)
		if err != nil {
			return err
		}
		pdf, err := c.chrome.PrintHTML(ctx, string(html))
		if err != nil {
			return err
		}
		res.Artifact = pdf
		return nil
	default:
		tex, err := c.renderTeX(ctx, doc, figures, today)
		if err != nil {
			return err
		}
		engine := &texPDFEngine{tools: c.cfg.tools, runner: c.runner}
		pdf, err := engine.Compile(ctx, tex, dir)
		if err != nil {
			return err
		}
		res.TeX = tex
		res.Artifact = pdf
		return nil
	}
}

// dirFigures resolves relative figure sources against the document's
// base directory before delegating to the real resolver.
type dirFigures struct {
	base  string
	inner render.FigureResolver
}

func (d dirFigures) EPS(ctx context.Context, source string) (string, bool, error) {
	return d.inner.EPS(ctx, d.join(source))
}

func (d dirFigures) PNG(ctx context.Context, source string) (string, error) {
	return d.inner.PNG(ctx, d.join(source))
}

func (d dirFigures) join(source string) string {
	if filepath.IsAbs(source) || d.base == "" {
		return source
	}
	return filepath.Join(d.base, source)
}

// Close releases engine resources (the headless browser, if one was
// launched).
func (c *Converter) Close() error {
	if c.chrome != nil {
		return c.chrome.Close()
	}
	return nil
}
