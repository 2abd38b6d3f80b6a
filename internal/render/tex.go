package render

import (
	"context"
	"fmt"
	"strings"

	"github.com/alnah/go-mark2doc/internal/markup"
)

const defaultDoctype = "article"

// texIdiom maps inline spans to typeset commands. Cross-references lean
// on native counters, so the typeset target never consults the prepass
// index.
var texIdiom = &idiom{
	escape: escapeTeX,
	wrap: map[spanKind][2]string{
		spanEmph:      {`\emph{`, `}`},
		spanItalic:    {`\textit{`, `}`},
		spanBold:      {`\textbf{`, `}`},
		spanUnderline: {`\underline{`, `}`},
		spanCode:      {`\texttt{`, `}`},
	},
	ref: func(kind spanKind, label string) string {
		switch kind {
		case spanPageRef:
			return fmt.Sprintf(`page~\pageref{%s}`, label)
		case spanFigRef:
			return fmt.Sprintf(`Fig.~\ref{%s}`, label)
		case spanTabRef:
			return fmt.Sprintf(`Table~\ref{%s}`, label)
		case spanSecRef:
			return fmt.Sprintf(`Section~\ref{%s}`, label)
		default:
			return fmt.Sprintf(`\nameref{%s}`, label)
		}
	},
	verb:     texVerb,
	math:     func(body string) string { return "$" + body + "$" },
	footnote: func(escapedBody string) string { return `\footnote{` + escapedBody + `}` },
}

// texVerb emits an inline verbatim span. \verb needs a delimiter absent
// from the body; when every candidate occurs, fall back to \texttt with
// escaping.
func texVerb(body string) string {
	for _, d := range `|!"+^@;` {
		if !strings.ContainsRune(body, d) {
			return `\verb` + string(d) + body + string(d)
		}
	}
	return `\texttt{` + escapeTeX(body) + `}`
}

// texSectionCmds maps heading level to sectioning command, clamped at the
// deepest one.
var texSectionCmds = []string{"section", "subsection", "subsubsection", "paragraph", "subparagraph"}

func texSectionCmd(level int) string {
	if level > len(texSectionCmds) {
		level = len(texSectionCmds)
	}
	return texSectionCmds[level-1]
}

// TeXRenderer emits typeset source. Wrap is the display-cell column limit
// for paragraph lines (0 disables wrapping); Today supplies the title date
// when the header names none.
type TeXRenderer struct {
	Figures FigureResolver
	Wrap    int
	Today   string
}

var _ Renderer = (*TeXRenderer)(nil)

func (r *TeXRenderer) Render(ctx context.Context, doc *markup.Document) ([]byte, error) {
	var b strings.Builder
	r.renderHeader(&b, doc.Header)
	for _, sec := range doc.Sections {
		r.renderHeading(&b, sec.Heading)
		for _, blk := range sec.Blocks {
			if err := r.renderBlock(ctx, &b, blk); err != nil {
				return nil, err
			}
		}
	}
	b.WriteString("\\end{document}\n")
	return []byte(b.String()), nil
}

func (r *TeXRenderer) renderHeader(b *strings.Builder, h *markup.Header) {
	doctype := defaultDoctype
	if h != nil && h.Doctype != "" {
		doctype = h.Doctype
	}
	fmt.Fprintf(b, "\\documentclass{%s}\n", doctype)
	b.WriteString("\\usepackage{graphicx}\n")
	b.WriteString("\\usepackage{longtable}\n")
	b.WriteString("\\usepackage{nameref}\n")
	b.WriteString("\\begin{document}\n")
	if h == nil {
		b.WriteByte('\n')
		return
	}
	date := h.Date
	if date == "" {
		date = r.Today
	}
	fmt.Fprintf(b, "\\title{%s}\n", expand(h.Title, texIdiom))
	fmt.Fprintf(b, "\\author{%s}\n", escapeTeX(h.Author))
	fmt.Fprintf(b, "\\date{%s}\n", escapeTeX(date))
	b.WriteString("\\maketitle\n\n")
}

func (r *TeXRenderer) renderHeading(b *strings.Builder, h *markup.Heading) {
	fmt.Fprintf(b, "\\%s{%s}\n", texSectionCmd(h.Level), expand(h.Title, texIdiom))
	if h.Ref != "" {
		fmt.Fprintf(b, "\\label{%s}\n", h.Ref)
	}
	b.WriteByte('\n')
}

func (r *TeXRenderer) renderBlock(ctx context.Context, b *strings.Builder, blk markup.Block) error {
	switch v := blk.(type) {
	case *markup.Paragraph:
		r.renderParagraph(b, v)
	case *markup.RawEmbed:
		b.WriteString(v.Text)
		b.WriteString("\n\n")
	case *markup.Verbatim:
		r.renderVerbatim(b, v)
	case *markup.List:
		r.renderList(b, v)
	case *markup.Table:
		switch v.Kind() {
		case markup.KindTabular:
			r.renderTabular(b, v)
		case markup.KindTable2:
			r.renderTable2(b, v)
		default:
			r.renderTable(b, v)
		}
	case *markup.Insert:
		return r.renderInsert(ctx, b, v)
	default:
		return fmt.Errorf("%w: %T", ErrUnknownBlock, blk)
	}
	return nil
}

// renderParagraph expands inline tags and wraps the result. Math
// paragraphs pass through untouched so typeset math survives verbatim.
func (r *TeXRenderer) renderParagraph(b *strings.Builder, p *markup.Paragraph) {
	if p.Math {
		b.WriteString(p.Text)
		b.WriteString("\n\n")
		return
	}
	b.WriteString(wrapTeX(expand(p.Text, texIdiom), r.Wrap))
	b.WriteString("\n\n")
}

func (r *TeXRenderer) renderVerbatim(b *strings.Builder, v *markup.Verbatim) {
	b.WriteString("\\begin{verbatim}\n")
	for _, line := range v.Lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteString("\\end{verbatim}\n\n")
}

func (r *TeXRenderer) renderList(b *strings.Builder, l *markup.List) {
	env := "itemize"
	if l.Numbered {
		env = "enumerate"
	}
	fmt.Fprintf(b, "\\begin{%s}\n", env)
	for _, item := range l.Items {
		fmt.Fprintf(b, "\\item %s\n", expand(item, texIdiom))
	}
	fmt.Fprintf(b, "\\end{%s}\n\n", env)
}

// renderTable emits a captioned longtable whose first data row repeats as
// the head on every page. The bracketed option token maps to longtable's
// optional alignment argument.
func (r *TeXRenderer) renderTable(b *strings.Builder, t *markup.Table) {
	r.longTable(b, t, t.Option)
}

// renderTable2 is the alternate source form of the same captioned table;
// it carries no option token.
func (r *TeXRenderer) renderTable2(b *strings.Builder, t *markup.Table) {
	r.longTable(b, t, "")
}

func (r *TeXRenderer) longTable(b *strings.Builder, t *markup.Table, option string) {
	b.WriteString(`\begin{longtable}`)
	if option != "" {
		fmt.Fprintf(b, "[%s]", option)
	}
	fmt.Fprintf(b, "{%s}\n", t.ColSpec)
	fmt.Fprintf(b, "\\caption{%s}", expand(t.Caption, texIdiom))
	if t.Ref != "" {
		fmt.Fprintf(b, "\\label{%s}", t.Ref)
	}
	b.WriteString(" \\\\\n")
	rows := t.Rows
	if len(rows) > 0 {
		writeTexRow(b, rows[0])
		b.WriteString("\\hline\n\\endhead\n")
		rows = rows[1:]
	}
	for _, row := range rows {
		writeTexRow(b, row)
	}
	b.WriteString("\\end{longtable}\n\n")
}

// renderTabular emits the borderless grid form: no caption, no label, all
// columns left-aligned.
func (r *TeXRenderer) renderTabular(b *strings.Builder, t *markup.Table) {
	fmt.Fprintf(b, "\\begin{tabular}{%s}\n", strings.Repeat("l", t.Columns()))
	for _, row := range t.Rows {
		writeTexRow(b, row)
	}
	b.WriteString("\\end{tabular}\n\n")
}

func writeTexRow(b *strings.Builder, cells []string) {
	for i, c := range cells {
		if i > 0 {
			b.WriteString(" & ")
		}
		b.WriteString(expand(c, texIdiom))
	}
	b.WriteString(" \\\\\n")
}

// renderInsert resolves the print asset and embeds it. Wide bounding
// boxes scale to full text width.
func (r *TeXRenderer) renderInsert(ctx context.Context, b *strings.Builder, in *markup.Insert) error {
	if r.Figures == nil {
		return fmt.Errorf("%w: %s", ErrNoFigureResolver, in.Source)
	}
	path, fullWidth, err := r.Figures.EPS(ctx, in.Source)
	if err != nil {
		return err
	}
	b.WriteString("\\begin{figure}[htbp]\n\\centering\n")
	if fullWidth {
		fmt.Fprintf(b, "\\includegraphics[width=\\textwidth]{%s}\n", path)
	} else {
		fmt.Fprintf(b, "\\includegraphics{%s}\n", path)
	}
	if in.Caption != "" {
		fmt.Fprintf(b, "\\caption{%s}\n", expand(in.Caption, texIdiom))
	}
	if in.Ref != "" {
		fmt.Fprintf(b, "\\label{%s}\n", in.Ref)
	}
	b.WriteString("\\end{figure}\n\n")
	return nil
}
