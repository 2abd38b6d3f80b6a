package render

import (
	"context"
	"fmt"
	"strings"

	"github.com/alnah/go-mark2doc/internal/markup"
	"github.com/alnah/go-mark2doc/internal/wordml"
)

// WordRenderer emits the word-processor automation call sequence. Render
// serializes it as a WordprocessingML document; Ops exposes the raw
// sequence for callers replaying it against a live host.
type WordRenderer struct {
	Figures FigureResolver
	Today   string
}

var _ Renderer = (*WordRenderer)(nil)

func (r *WordRenderer) Render(ctx context.Context, doc *markup.Document) ([]byte, error) {
	ops, err := r.Ops(ctx, doc)
	if err != nil {
		return nil, err
	}
	return wordml.Marshal(ops)
}

// Ops builds the ordered call sequence for the document.
func (r *WordRenderer) Ops(ctx context.Context, doc *markup.Document) ([]wordml.Op, error) {
	w := &wordBuilder{ix: buildIndex(doc)}
	w.renderHeader(doc.Header, r.Today)
	for _, sec := range doc.Sections {
		w.renderHeading(sec.Heading)
		for _, blk := range sec.Blocks {
			if err := r.renderBlock(ctx, w, blk); err != nil {
				return nil, err
			}
		}
	}
	return w.ops, nil
}

// wordBuilder accumulates ops. Figure and table counters advance in the
// same walk order as the prepass index, so resolved reference numbers
// match the captions they point at.
type wordBuilder struct {
	ix     *index
	ops    []wordml.Op
	figSeq int
	tabSeq int
}

func (w *wordBuilder) style(name string) {
	w.ops = append(w.ops, wordml.Op{Kind: wordml.OpStyle, Style: name})
}

func (w *wordBuilder) text(run wordml.Run) {
	w.ops = append(w.ops, wordml.Op{Kind: wordml.OpText, Run: run})
}

func (w *wordBuilder) breakPara() {
	w.ops = append(w.ops, wordml.Op{Kind: wordml.OpParaBreak})
}

func (w *wordBuilder) bookmark(name string) {
	w.ops = append(w.ops, wordml.Op{Kind: wordml.OpBookmark, Bookmark: name})
}

func (w *wordBuilder) renderHeader(h *markup.Header, today string) {
	if h == nil {
		return
	}
	w.style("Title")
	w.text(wordml.Run{Text: h.Title})
	w.breakPara()
	date := h.Date
	if date == "" {
		date = today
	}
	var by []string
	if h.Author != "" {
		by = append(by, h.Author)
	}
	if date != "" {
		by = append(by, date)
	}
	if len(by) > 0 {
		w.style("Subtitle")
		w.text(wordml.Run{Text: strings.Join(by, ", ")})
		w.breakPara()
	}
}

func (w *wordBuilder) renderHeading(h *markup.Heading) {
	level := h.Level
	if level > 9 {
		level = 9 // built-in heading styles stop at 9
	}
	w.style(fmt.Sprintf("Heading %d", level))
	if h.Ref != "" {
		w.bookmark(h.Ref)
	}
	w.runs(h.Title)
	w.breakPara()
}

func (r *WordRenderer) renderBlock(ctx context.Context, w *wordBuilder, blk markup.Block) error {
	switch v := blk.(type) {
	case *markup.Paragraph:
		w.renderParagraph(v)
	case *markup.RawEmbed:
		// typeset passthrough content has no word rendering
	case *markup.Verbatim:
		w.renderVerbatim(v)
	case *markup.List:
		w.renderList(v)
	case *markup.Table:
		switch v.Kind() {
		case markup.KindTabular:
			w.renderTabular(v)
		case markup.KindTable2:
			w.renderTable2(v)
		default:
			w.renderTable(v)
		}
	case *markup.Insert:
		return r.renderInsert(ctx, w, v)
	default:
		return fmt.Errorf("%w: %T", ErrUnknownBlock, blk)
	}
	return nil
}

// runs expands inline tags into formatted runs at the cursor. Page
// references become field ops; figure, table and section references
// resolve to display text from the index. The automation target has no
// reserved characters, so no escaping pass applies.
func (w *wordBuilder) runs(text string) {
	for _, s := range scan(text) {
		switch s.kind {
		case spanText:
			w.text(wordml.Run{Text: s.text})
		case spanEmph, spanItalic, spanMath:
			w.text(wordml.Run{Text: s.text, Italic: true})
		case spanBold:
			w.text(wordml.Run{Text: s.text, Bold: true})
		case spanUnderline:
			w.text(wordml.Run{Text: s.text, Underline: true})
		case spanCode, spanVerb:
			w.text(wordml.Run{Text: s.text, Code: true})
		case spanFootnote:
			w.ops = append(w.ops, wordml.Op{Kind: wordml.OpFootnote, Footnote: []wordml.Run{{Text: s.text}}})
		case spanPageRef:
			w.text(wordml.Run{Text: "page "})
			w.ops = append(w.ops, wordml.Op{Kind: wordml.OpPageRef, Label: s.text})
		case spanFigRef:
			w.text(wordml.Run{Text: "Figure " + w.ix.figureNum(s.text)})
		case spanTabRef:
			w.text(wordml.Run{Text: "Table " + w.ix.tableNum(s.text)})
		case spanSecRef:
			w.text(wordml.Run{Text: "Section " + w.ix.sectionNum(s.text)})
		case spanSecName:
			w.text(wordml.Run{Text: w.ix.sectionTitle(s.text)})
		}
	}
}

// cellRuns is the pure variant for table cells, which hold runs only.
// Footnotes and page-reference fields degrade to plain text there.
func cellRuns(ix *index, text string) []wordml.Run {
	var runs []wordml.Run
	for _, s := range scan(text) {
		switch s.kind {
		case spanText:
			runs = append(runs, wordml.Run{Text: s.text})
		case spanEmph, spanItalic, spanMath:
			runs = append(runs, wordml.Run{Text: s.text, Italic: true})
		case spanBold:
			runs = append(runs, wordml.Run{Text: s.text, Bold: true})
		case spanUnderline:
			runs = append(runs, wordml.Run{Text: s.text, Underline: true})
		case spanCode, spanVerb:
			runs = append(runs, wordml.Run{Text: s.text, Code: true})
		case spanFootnote:
			runs = append(runs, wordml.Run{Text: "(" + s.text + ")"})
		case spanPageRef:
			runs = append(runs, wordml.Run{Text: "page " + unresolved})
		case spanFigRef:
			runs = append(runs, wordml.Run{Text: "Figure " + ix.figureNum(s.text)})
		case spanTabRef:
			runs = append(runs, wordml.Run{Text: "Table " + ix.tableNum(s.text)})
		case spanSecRef:
			runs = append(runs, wordml.Run{Text: "Section " + ix.sectionNum(s.text)})
		case spanSecName:
			runs = append(runs, wordml.Run{Text: ix.sectionTitle(s.text)})
		}
	}
	return runs
}

func (w *wordBuilder) renderParagraph(p *markup.Paragraph) {
	w.style("Body Text")
	if p.Math {
		w.text(wordml.Run{Text: p.Text, Italic: true})
	} else {
		w.runs(p.Text)
	}
	w.breakPara()
}

func (w *wordBuilder) renderVerbatim(v *markup.Verbatim) {
	w.style("Plain Text")
	for _, line := range v.Lines {
		w.text(wordml.Run{Text: line, Code: true})
		w.breakPara()
	}
}

func (w *wordBuilder) renderList(l *markup.List) {
	style := "List Bullet"
	if l.Numbered {
		style = "List Number"
	}
	w.style(style)
	for _, item := range l.Items {
		w.runs(item)
		w.breakPara()
	}
}

// renderTable inserts the grid with a repeating header row, then a
// numbered caption paragraph carrying the cross-reference anchor.
func (w *wordBuilder) renderTable(t *markup.Table) {
	w.tabSeq++
	w.insertTable(t, true)
	w.style("Caption")
	if t.Ref != "" {
		w.bookmark(t.Ref)
	}
	w.text(wordml.Run{Text: fmt.Sprintf("Table %d: ", w.tabSeq)})
	w.runs(t.Caption)
	w.breakPara()
}

// renderTable2 shares the captioned-table emission; the two source forms
// differ only in syntax.
func (w *wordBuilder) renderTable2(t *markup.Table) {
	w.renderTable(t)
}

// renderTabular inserts the bare grid: no caption, no repeating header,
// no table number.
func (w *wordBuilder) renderTabular(t *markup.Table) {
	w.insertTable(t, false)
}

func (w *wordBuilder) insertTable(t *markup.Table, headerRepeat bool) {
	data := &wordml.TableData{HeaderRepeat: headerRepeat}
	for _, row := range t.Rows {
		cells := make([][]wordml.Run, len(row))
		for i, c := range row {
			cells[i] = cellRuns(w.ix, c)
		}
		data.Rows = append(data.Rows, cells)
	}
	w.ops = append(w.ops, wordml.Op{Kind: wordml.OpTable, Table: data})
}

func (r *WordRenderer) renderInsert(ctx context.Context, w *wordBuilder, in *markup.Insert) error {
	if r.Figures == nil {
		return fmt.Errorf("%w: %s", ErrNoFigureResolver, in.Source)
	}
	path, err := r.Figures.PNG(ctx, in.Source)
	if err != nil {
		return err
	}
	w.figSeq++
	w.style("Body Text")
	w.ops = append(w.ops, wordml.Op{Kind: wordml.OpImage, Image: &wordml.ImageData{Path: path}})
	w.breakPara()
	w.style("Caption")
	if in.Ref != "" {
		w.bookmark(in.Ref)
	}
	caption := fmt.Sprintf("Figure %d", w.figSeq)
	if in.Caption != "" {
		caption += ": "
	}
	w.text(wordml.Run{Text: caption})
	w.runs(in.Caption)
	w.breakPara()
	return nil
}
