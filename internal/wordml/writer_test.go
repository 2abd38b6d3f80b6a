package wordml

// Notes:
// - Marshal output is well-formed XML (verified by decoding it back)
// - Paragraph folding: style persists, breaks close paragraphs
// - Repeating header rows carry trPr/tblHeader
// - Footnotes lower to superscript markers plus an endnote block

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"
	"testing"
)

// decodeAll walks the full token stream so malformed output fails the test.
func decodeAll(t *testing.T, data []byte) {
	t.Helper()
	dec := xml.NewDecoder(strings.NewReader(string(data)))
	for {
		_, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			t.Fatalf("output is not well-formed XML: %v", err)
		}
	}
}

// ---------------------------------------------------------------------------
// TestMarshal_Paragraphs - style changes and paragraph folding
// ---------------------------------------------------------------------------

func TestMarshal_Paragraphs(t *testing.T) {
	t.Parallel()

	ops := []Op{
		{Kind: OpStyle, Style: "Heading 1"},
		{Kind: OpText, Run: Run{Text: "Introduction"}},
		{Kind: OpParaBreak},
		{Kind: OpStyle, Style: "Body Text"},
		{Kind: OpText, Run: Run{Text: "Some "}},
		{Kind: OpText, Run: Run{Text: "bold", Bold: true}},
		{Kind: OpText, Run: Run{Text: " text"}},
		{Kind: OpParaBreak},
	}
	data, err := Marshal(ops)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	decodeAll(t, data)

	out := string(data)
	if !strings.Contains(out, `<w:pStyle w:val="Heading1"/>`) {
		t.Error("missing Heading1 paragraph style")
	}
	if !strings.Contains(out, `<w:pStyle w:val="BodyText"/>`) {
		t.Error("missing BodyText paragraph style")
	}
	if !strings.Contains(out, `<w:rPr><w:b/></w:rPr>`) {
		t.Error("missing bold run properties")
	}
	if got := strings.Count(out, "<w:p>"); got != 2 {
		t.Errorf("paragraph count = %d, want 2", got)
	}
}

// ---------------------------------------------------------------------------
// TestMarshal_Table - header row repeats, cells hold runs
// ---------------------------------------------------------------------------

func TestMarshal_Table(t *testing.T) {
	t.Parallel()

	ops := []Op{{Kind: OpTable, Table: &TableData{
		HeaderRepeat: true,
		Rows: [][][]Run{
			{{{Text: "name"}}, {{Text: "value"}}},
			{{{Text: "a"}}, {{Text: "1"}}},
		},
	}}}
	data, err := Marshal(ops)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	decodeAll(t, data)

	out := string(data)
	if got := strings.Count(out, "<w:trPr><w:tblHeader/></w:trPr>"); got != 1 {
		t.Errorf("tblHeader count = %d, want 1 (first row only)", got)
	}
	if got := strings.Count(out, "<w:tr>"); got != 2 {
		t.Errorf("row count = %d, want 2", got)
	}
	if got := strings.Count(out, "<w:tc>"); got != 4 {
		t.Errorf("cell count = %d, want 4", got)
	}
	// header cells render bold even when the run itself is plain
	if !strings.Contains(out, "<w:rPr><w:b/></w:rPr>") {
		t.Error("header row cells are not bold")
	}
}

// ---------------------------------------------------------------------------
// TestMarshal_Bookmarks - start and end annotations pair inside the para
// ---------------------------------------------------------------------------

func TestMarshal_Bookmarks(t *testing.T) {
	t.Parallel()

	ops := []Op{
		{Kind: OpBookmark, Bookmark: "intro"},
		{Kind: OpStyle, Style: "Heading 1"},
		{Kind: OpText, Run: Run{Text: "Intro"}},
		{Kind: OpParaBreak},
	}
	data, err := Marshal(ops)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	decodeAll(t, data)

	out := string(data)
	if !strings.Contains(out, `w:type="Word.Bookmark.Start" w:name="intro"`) {
		t.Error("missing bookmark start annotation")
	}
	if !strings.Contains(out, `w:type="Word.Bookmark.End"`) {
		t.Error("missing bookmark end annotation")
	}
}

// ---------------------------------------------------------------------------
// TestMarshal_PageRefAndImage - fields carry escaped arguments
// ---------------------------------------------------------------------------

func TestMarshal_PageRefAndImage(t *testing.T) {
	t.Parallel()

	ops := []Op{
		{Kind: OpText, Run: Run{Text: "see page "}},
		{Kind: OpPageRef, Label: "intro"},
		{Kind: OpParaBreak},
		{Kind: OpImage, Image: &ImageData{Path: "figs/flow.png"}},
		{Kind: OpParaBreak},
	}
	data, err := Marshal(ops)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	decodeAll(t, data)

	out := string(data)
	if !strings.Contains(out, `w:instr=" PAGEREF intro \h "`) {
		t.Error("missing PAGEREF field")
	}
	if !strings.Contains(out, "INCLUDEPICTURE") || !strings.Contains(out, "figs/flow.png") {
		t.Error("missing INCLUDEPICTURE field")
	}
}

// ---------------------------------------------------------------------------
// TestMarshal_Footnotes - superscript marker plus endnote block
// ---------------------------------------------------------------------------

func TestMarshal_Footnotes(t *testing.T) {
	t.Parallel()

	ops := []Op{
		{Kind: OpText, Run: Run{Text: "claim"}},
		{Kind: OpFootnote, Footnote: []Run{{Text: "supporting source"}}},
		{Kind: OpParaBreak},
	}
	data, err := Marshal(ops)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	decodeAll(t, data)

	out := string(data)
	if !strings.Contains(out, `<w:vertAlign w:val="superscript"/>`) {
		t.Error("missing superscript footnote marker")
	}
	if !strings.Contains(out, `<w:pStyle w:val="EndnoteText"/>`) {
		t.Error("missing endnote block")
	}
	if !strings.Contains(out, "supporting source") {
		t.Error("missing footnote body")
	}
}

// ---------------------------------------------------------------------------
// TestMarshal_Escaping - reserved characters in text and attributes
// ---------------------------------------------------------------------------

func TestMarshal_Escaping(t *testing.T) {
	t.Parallel()

	ops := []Op{
		{Kind: OpText, Run: Run{Text: `a < b & "c"`}},
		{Kind: OpParaBreak},
	}
	data, err := Marshal(ops)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	decodeAll(t, data)

	if !strings.Contains(string(data), "a &lt; b &amp; &quot;c&quot;") {
		t.Errorf("reserved characters not escaped: %s", data)
	}
}
