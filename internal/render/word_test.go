package render

// Notes:
// - Ops: style/text/break sequencing, bookmarks on anchored content
// - References resolve to index numbers; page references stay fields
// - Tables: header repeat on captioned forms only, cells as runs
// - Render: ops serialize to a WordprocessingML document

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/alnah/go-mark2doc/internal/markup"
	"github.com/alnah/go-mark2doc/internal/wordml"
)

func stylesOf(ops []wordml.Op) []string {
	var out []string
	for _, op := range ops {
		if op.Kind == wordml.OpStyle {
			out = append(out, op.Style)
		}
	}
	return out
}

func textsOf(ops []wordml.Op) string {
	var b strings.Builder
	for _, op := range ops {
		if op.Kind == wordml.OpText {
			b.WriteString(op.Run.Text)
		}
	}
	return b.String()
}

func opsOfKind(ops []wordml.Op, kind wordml.OpKind) []wordml.Op {
	var out []wordml.Op
	for _, op := range ops {
		if op.Kind == kind {
			out = append(out, op)
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// TestWordRenderer_Sequence - styles and runs in document order
// ---------------------------------------------------------------------------

func TestWordRenderer_Sequence(t *testing.T) {
	t.Parallel()

	src := "\\title Annual Review\n\\author Ops Team\n\n" +
		"\\h1 Overview [ov]\n\n" +
		"Body with b{bold} text.\n"

	r := &WordRenderer{}
	ops, err := r.Ops(context.Background(), mustAssemble(t, src))
	if err != nil {
		t.Fatalf("Ops() error = %v", err)
	}

	wantStyles := []string{"Title", "Subtitle", "Heading 1", "Body Text"}
	got := stylesOf(ops)
	if len(got) != len(wantStyles) {
		t.Fatalf("styles = %v, want %v", got, wantStyles)
	}
	for i, want := range wantStyles {
		if got[i] != want {
			t.Errorf("style %d = %q, want %q", i, got[i], want)
		}
	}

	marks := opsOfKind(ops, wordml.OpBookmark)
	if len(marks) != 1 || marks[0].Bookmark != "ov" {
		t.Fatalf("bookmarks = %v, want one %q", marks, "ov")
	}

	var bold *wordml.Run
	for i, op := range ops {
		if op.Kind == wordml.OpText && op.Run.Bold {
			bold = &ops[i].Run
		}
	}
	if bold == nil || bold.Text != "bold" {
		t.Fatalf("bold run = %v, want text %q", bold, "bold")
	}
}

// ---------------------------------------------------------------------------
// TestWordRenderer_References - display numbers come from the index
// ---------------------------------------------------------------------------

func TestWordRenderer_References(t *testing.T) {
	t.Parallel()

	src := "\\h1 One [s1]\n\n" +
		"\\insert d.fig Cap [fig1]\n\n" +
		"\\table Totals t1 |l|\nh\n\n" +
		"See f{fig1}, t{t1}, s{s1}, S{s1}, p{s1} n{note body}.\n"

	r := &WordRenderer{Figures: &stubResolver{}}
	ops, err := r.Ops(context.Background(), mustAssemble(t, src))
	if err != nil {
		t.Fatalf("Ops() error = %v", err)
	}
	text := textsOf(ops)

	for _, want := range []string{"Figure 1", "Table 1", "Section 1", "One", "page "} {
		if !strings.Contains(text, want) {
			t.Errorf("emitted text missing %q in %q", want, text)
		}
	}

	refs := opsOfKind(ops, wordml.OpPageRef)
	if len(refs) != 1 || refs[0].Label != "s1" {
		t.Fatalf("page refs = %v, want one labeled %q", refs, "s1")
	}

	notes := opsOfKind(ops, wordml.OpFootnote)
	if len(notes) != 1 || len(notes[0].Footnote) != 1 || notes[0].Footnote[0].Text != "note body" {
		t.Fatalf("footnotes = %v, want one with body %q", notes, "note body")
	}
}

// ---------------------------------------------------------------------------
// TestWordRenderer_Tables - header repeat and cell runs
// ---------------------------------------------------------------------------

func TestWordRenderer_Tables(t *testing.T) {
	t.Parallel()

	t.Run("captioned table", func(t *testing.T) {
		t.Parallel()

		src := "\\h1 S\n\n\\table Totals t1 |l|l|\nName & Value\na & b{1}\n"
		r := &WordRenderer{}
		ops, err := r.Ops(context.Background(), mustAssemble(t, src))
		if err != nil {
			t.Fatalf("Ops() error = %v", err)
		}

		tables := opsOfKind(ops, wordml.OpTable)
		if len(tables) != 1 {
			t.Fatalf("got %d table ops, want 1", len(tables))
		}
		tbl := tables[0].Table
		if !tbl.HeaderRepeat {
			t.Error("HeaderRepeat = false, want true")
		}
		if len(tbl.Rows) != 2 || len(tbl.Rows[0]) != 2 {
			t.Fatalf("rows = %d x %d, want 2 x 2", len(tbl.Rows), len(tbl.Rows[0]))
		}
		if got := tbl.Rows[0][0][0].Text; got != "Name" {
			t.Errorf("header cell = %q, want %q", got, "Name")
		}
		if cell := tbl.Rows[1][1][0]; cell.Text != "1" || !cell.Bold {
			t.Errorf("formatted cell = %+v, want bold %q", cell, "1")
		}

		if !strings.Contains(textsOf(ops), "Table 1: ") {
			t.Errorf("caption paragraph missing from %q", textsOf(ops))
		}
		marks := opsOfKind(ops, wordml.OpBookmark)
		if len(marks) != 1 || marks[0].Bookmark != "t1" {
			t.Fatalf("bookmarks = %v, want one %q", marks, "t1")
		}
	})

	t.Run("bare grid", func(t *testing.T) {
		t.Parallel()

		src := "\\h1 S\n\n\\tabular\na & b\n"
		r := &WordRenderer{}
		ops, err := r.Ops(context.Background(), mustAssemble(t, src))
		if err != nil {
			t.Fatalf("Ops() error = %v", err)
		}

		tables := opsOfKind(ops, wordml.OpTable)
		if len(tables) != 1 {
			t.Fatalf("got %d table ops, want 1", len(tables))
		}
		if tables[0].Table.HeaderRepeat {
			t.Error("HeaderRepeat = true, want false")
		}
		if strings.Contains(textsOf(ops), "Table") {
			t.Errorf("bare grid should not be captioned: %q", textsOf(ops))
		}
	})
}

// ---------------------------------------------------------------------------
// TestWordRenderer_Insert - image op with bookmark and numbered caption
// ---------------------------------------------------------------------------

func TestWordRenderer_Insert(t *testing.T) {
	t.Parallel()

	src := "\\h1 S\n\n\\insert d.fig Flow [flow]\n"
	res := &stubResolver{}
	r := &WordRenderer{Figures: res}
	ops, err := r.Ops(context.Background(), mustAssemble(t, src))
	if err != nil {
		t.Fatalf("Ops() error = %v", err)
	}

	images := opsOfKind(ops, wordml.OpImage)
	if len(images) != 1 || images[0].Image.Path != "d.png" {
		t.Fatalf("images = %v, want one at %q", images, "d.png")
	}
	marks := opsOfKind(ops, wordml.OpBookmark)
	if len(marks) != 1 || marks[0].Bookmark != "flow" {
		t.Fatalf("bookmarks = %v, want one %q", marks, "flow")
	}
	if !strings.Contains(textsOf(ops), "Figure 1: ") {
		t.Errorf("caption missing from %q", textsOf(ops))
	}
	if res.pngCalls != 1 {
		t.Errorf("pngCalls = %d, want 1", res.pngCalls)
	}

	t.Run("missing resolver", func(t *testing.T) {
		t.Parallel()

		bare := &WordRenderer{}
		if _, err := bare.Ops(context.Background(), mustAssemble(t, src)); !errors.Is(err, ErrNoFigureResolver) {
			t.Fatalf("Ops() error = %v, want %v", err, ErrNoFigureResolver)
		}
	})
}

// ---------------------------------------------------------------------------
// TestWordRenderer_VerbatimAndLists - paragraph styles per block kind
// ---------------------------------------------------------------------------

func TestWordRenderer_VerbatimAndLists(t *testing.T) {
	t.Parallel()

	src := "\\h1 S\n\n  code line\n\n1. first\n2. second\n\n* bullet\n"
	r := &WordRenderer{}
	ops, err := r.Ops(context.Background(), mustAssemble(t, src))
	if err != nil {
		t.Fatalf("Ops() error = %v", err)
	}

	want := []string{"Heading 1", "Plain Text", "List Number", "List Bullet"}
	got := stylesOf(ops)
	if len(got) != len(want) {
		t.Fatalf("styles = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("style %d = %q, want %q", i, got[i], want[i])
		}
	}

	var code *wordml.Run
	for i, op := range ops {
		if op.Kind == wordml.OpText && op.Run.Code {
			code = &ops[i].Run
		}
	}
	if code == nil || code.Text != "  code line" {
		t.Fatalf("code run = %v, want %q", code, "  code line")
	}
}

// ---------------------------------------------------------------------------
// TestWordRenderer_Render - ops serialize to a word document
// ---------------------------------------------------------------------------

func TestWordRenderer_Render(t *testing.T) {
	t.Parallel()

	src := "\\h1 Overview [ov]\n\nplain n{aside} text\n"
	r := &WordRenderer{}
	out, err := r.Render(context.Background(), mustAssemble(t, src))
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	xml := string(out)

	for _, want := range []string{
		"<w:wordDocument",
		`<w:pStyle w:val="Heading1"/>`,
		`w:type="Word.Bookmark.Start" w:name="ov"`,
		`<w:vertAlign w:val="superscript"/>`,
		"aside",
	} {
		if !strings.Contains(xml, want) {
			t.Errorf("document missing %q", want)
		}
	}
}

// ---------------------------------------------------------------------------
// TestWordRenderer_UnknownBlock - foreign block variants are rejected
// ---------------------------------------------------------------------------

func TestWordRenderer_UnknownBlock(t *testing.T) {
	t.Parallel()

	doc := &markup.Document{Sections: []*markup.Section{{
		Heading: &markup.Heading{Level: 1, Title: "S"},
		Blocks:  []markup.Block{bogusBlock{}},
	}}}

	r := &WordRenderer{}
	if _, err := r.Ops(context.Background(), doc); !errors.Is(err, ErrUnknownBlock) {
		t.Fatalf("Ops() error = %v, want %v", err, ErrUnknownBlock)
	}
}
