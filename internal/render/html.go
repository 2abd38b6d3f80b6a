package render

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/alnah/go-mark2doc/internal/markup"
)

// ErrHighlight indicates verbatim syntax highlighting failed.
var ErrHighlight = errors.New("render: verbatim highlighting failed")

// htmlShell wraps the rendered body in a complete HTML5 document.
const htmlShell = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
%s</style>
</head>
<body class="doctype-%s">
%s</body>
</html>
`

// HTMLRenderer emits a standalone hypertext page. CSS is inlined into the
// document head. Highlight names the chroma style for verbatim blocks;
// empty disables highlighting. Today supplies the byline date when the
// header names none.
type HTMLRenderer struct {
	Figures   FigureResolver
	CSS       string
	Highlight string
	Today     string
}

var _ Renderer = (*HTMLRenderer)(nil)

// htmlState is per-render working state: the prepass index for reference
// display text, running figure and table counters that stay in step with
// the index by walking in the same order, and collected footnotes.
type htmlState struct {
	ix     *index
	id     *idiom
	notes  []string
	figSeq int
	tabSeq int
}

func newHTMLState(doc *markup.Document) *htmlState {
	st := &htmlState{ix: buildIndex(doc)}
	st.id = &idiom{
		escape: escapeHTML,
		wrap: map[spanKind][2]string{
			spanEmph:      {"<em>", "</em>"},
			spanItalic:    {"<i>", "</i>"},
			spanBold:      {"<b>", "</b>"},
			spanUnderline: {"<u>", "</u>"},
			spanCode:      {"<code>", "</code>"},
		},
		ref:      st.anchor,
		verb:     func(body string) string { return "<code>" + body + "</code>" },
		math:     func(body string) string { return `<span class="math">` + body + `</span>` },
		footnote: st.footnote,
	}
	return st
}

// anchor turns a cross-reference span into a link whose text carries the
// display number resolved from the index. Hypertext has no pages, so page
// references degrade to a plain link.
func (st *htmlState) anchor(kind spanKind, label string) string {
	switch kind {
	case spanPageRef:
		return fmt.Sprintf(`<a href="#%s">here</a>`, escapeHTML(label))
	case spanFigRef:
		return fmt.Sprintf(`<a href="#%s">Figure %s</a>`, escapeHTML(label), st.ix.figureNum(label))
	case spanTabRef:
		return fmt.Sprintf(`<a href="#%s">Table %s</a>`, escapeHTML(label), st.ix.tableNum(label))
	case spanSecRef:
		return fmt.Sprintf(`<a href="#%s">Section %s</a>`, escapeHTML(label), st.ix.sectionNum(label))
	default:
		return fmt.Sprintf(`<a href="#%s">%s</a>`, escapeHTML(label), escapeHTML(st.ix.sectionTitle(label)))
	}
}

func (st *htmlState) footnote(escapedBody string) string {
	st.notes = append(st.notes, escapedBody)
	n := len(st.notes)
	return fmt.Sprintf(`<sup id="fnref%d"><a href="#fn%d">%d</a></sup>`, n, n, n)
}

func (r *HTMLRenderer) Render(ctx context.Context, doc *markup.Document) ([]byte, error) {
	st := newHTMLState(doc)
	var b strings.Builder
	r.renderHeader(&b, doc.Header)
	for _, sec := range doc.Sections {
		r.renderHeading(&b, st, sec.Heading)
		for _, blk := range sec.Blocks {
			if err := r.renderBlock(ctx, &b, st, blk); err != nil {
				return nil, err
			}
		}
	}
	r.renderFootnotes(&b, st)

	title := "Document"
	doctype := defaultDoctype
	if doc.Header != nil {
		if doc.Header.Title != "" {
			title = doc.Header.Title
		}
		if doc.Header.Doctype != "" {
			doctype = doc.Header.Doctype
		}
	}
	page := fmt.Sprintf(htmlShell, escapeHTML(title), r.CSS, escapeHTML(doctype), b.String())
	return []byte(page), nil
}

func (r *HTMLRenderer) renderHeader(b *strings.Builder, h *markup.Header) {
	if h == nil {
		return
	}
	fmt.Fprintf(b, "<h1 class=\"title\">%s</h1>\n", escapeHTML(h.Title))
	date := h.Date
	if date == "" {
		date = r.Today
	}
	var by []string
	if h.Author != "" {
		by = append(by, h.Author)
	}
	if date != "" {
		by = append(by, date)
	}
	if len(by) > 0 {
		fmt.Fprintf(b, "<p class=\"byline\">%s</p>\n", escapeHTML(strings.Join(by, ", ")))
	}
}

// renderHeading shifts markup level N to hN+1, reserving h1 for the
// document title.
func (r *HTMLRenderer) renderHeading(b *strings.Builder, st *htmlState, h *markup.Heading) {
	n := h.Level + 1
	if n > 6 {
		n = 6
	}
	if h.Ref != "" {
		fmt.Fprintf(b, "<h%d id=\"%s\">%s</h%d>\n", n, escapeHTML(h.Ref), expand(h.Title, st.id), n)
		return
	}
	fmt.Fprintf(b, "<h%d>%s</h%d>\n", n, expand(h.Title, st.id), n)
}

func (r *HTMLRenderer) renderBlock(ctx context.Context, b *strings.Builder, st *htmlState, blk markup.Block) error {
	switch v := blk.(type) {
	case *markup.Paragraph:
		r.renderParagraph(b, st, v)
	case *markup.RawEmbed:
		// typeset passthrough content has no hypertext rendering
	case *markup.Verbatim:
		return r.renderVerbatim(b, v)
	case *markup.List:
		r.renderList(b, st, v)
	case *markup.Table:
		switch v.Kind() {
		case markup.KindTabular:
			r.renderTabular(b, st, v)
		case markup.KindTable2:
			r.renderTable2(b, st, v)
		default:
			r.renderTable(b, st, v)
		}
	case *markup.Insert:
		return r.renderInsert(ctx, b, st, v)
	default:
		return fmt.Errorf("%w: %T", ErrUnknownBlock, blk)
	}
	return nil
}

func (r *HTMLRenderer) renderParagraph(b *strings.Builder, st *htmlState, p *markup.Paragraph) {
	if p.Math {
		fmt.Fprintf(b, "<p class=\"math\">%s</p>\n", p.Text)
		return
	}
	fmt.Fprintf(b, "<p>%s</p>\n", expand(p.Text, st.id))
}

// renderVerbatim highlights with chroma when a style is configured,
// otherwise emits an escaped pre block.
func (r *HTMLRenderer) renderVerbatim(b *strings.Builder, v *markup.Verbatim) error {
	code := strings.Join(v.Lines, "\n") + "\n"
	if r.Highlight == "" {
		fmt.Fprintf(b, "<pre>%s</pre>\n", escapeHTML(code))
		return nil
	}
	lexer := lexers.Analyse(code)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	it, err := chroma.Coalesce(lexer).Tokenise(nil, code)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrHighlight, err)
	}
	formatter := chromahtml.New(chromahtml.WithClasses(true)) // CSS classes keep styling in the stylesheet
	if err := formatter.Format(b, styles.Get(r.Highlight), it); err != nil {
		return fmt.Errorf("%w: %v", ErrHighlight, err)
	}
	b.WriteByte('\n')
	return nil
}

func (r *HTMLRenderer) renderList(b *strings.Builder, st *htmlState, l *markup.List) {
	tag := "ul"
	if l.Numbered {
		tag = "ol"
	}
	fmt.Fprintf(b, "<%s>\n", tag)
	for _, item := range l.Items {
		fmt.Fprintf(b, "<li>%s</li>\n", expand(item, st.id))
	}
	fmt.Fprintf(b, "</%s>\n", tag)
}

// renderTable emits a captioned table. The first data row becomes thead,
// which user agents repeat across page breaks in paged media.
func (r *HTMLRenderer) renderTable(b *strings.Builder, st *htmlState, t *markup.Table) {
	st.tabSeq++
	if t.Ref != "" {
		fmt.Fprintf(b, "<table id=\"%s\">\n", escapeHTML(t.Ref))
	} else {
		b.WriteString("<table>\n")
	}
	fmt.Fprintf(b, "<caption>Table %d: %s</caption>\n", st.tabSeq, expand(t.Caption, st.id))
	rows := t.Rows
	if len(rows) > 0 {
		b.WriteString("<thead>\n<tr>")
		for _, c := range rows[0] {
			fmt.Fprintf(b, "<th>%s</th>", expand(c, st.id))
		}
		b.WriteString("</tr>\n</thead>\n")
		rows = rows[1:]
	}
	b.WriteString("<tbody>\n")
	for _, row := range rows {
		b.WriteString("<tr>")
		for _, c := range row {
			fmt.Fprintf(b, "<td>%s</td>", expand(c, st.id))
		}
		b.WriteString("</tr>\n")
	}
	b.WriteString("</tbody>\n</table>\n")
}

// renderTable2 shares the captioned-table emission; the two source forms
// differ only in syntax.
func (r *HTMLRenderer) renderTable2(b *strings.Builder, st *htmlState, t *markup.Table) {
	r.renderTable(b, st, t)
}

// renderTabular emits the borderless grid: no caption, no header row, no
// table number.
func (r *HTMLRenderer) renderTabular(b *strings.Builder, st *htmlState, t *markup.Table) {
	b.WriteString("<table class=\"tabular\">\n<tbody>\n")
	for _, row := range t.Rows {
		b.WriteString("<tr>")
		for _, c := range row {
			fmt.Fprintf(b, "<td>%s</td>", expand(c, st.id))
		}
		b.WriteString("</tr>\n")
	}
	b.WriteString("</tbody>\n</table>\n")
}

func (r *HTMLRenderer) renderInsert(ctx context.Context, b *strings.Builder, st *htmlState, in *markup.Insert) error {
	if r.Figures == nil {
		return fmt.Errorf("%w: %s", ErrNoFigureResolver, in.Source)
	}
	path, err := r.Figures.PNG(ctx, in.Source)
	if err != nil {
		return err
	}
	st.figSeq++
	if in.Ref != "" {
		fmt.Fprintf(b, "<figure id=\"%s\">\n", escapeHTML(in.Ref))
	} else {
		b.WriteString("<figure>\n")
	}
	fmt.Fprintf(b, "<img src=\"%s\" alt=\"%s\">\n", escapeHTML(path), escapeHTML(in.Caption))
	caption := fmt.Sprintf("Figure %d", st.figSeq)
	if in.Caption != "" {
		caption += ": " + expand(in.Caption, st.id)
	}
	fmt.Fprintf(b, "<figcaption>%s</figcaption>\n", caption)
	b.WriteString("</figure>\n")
	return nil
}

func (r *HTMLRenderer) renderFootnotes(b *strings.Builder, st *htmlState) {
	if len(st.notes) == 0 {
		return
	}
	b.WriteString("<hr>\n<ol class=\"footnotes\">\n")
	for i, note := range st.notes {
		fmt.Fprintf(b, "<li id=\"fn%d\">%s <a href=\"#fnref%d\">&#8617;</a></li>\n", i+1, note, i+1)
	}
	b.WriteString("</ol>\n")
}
