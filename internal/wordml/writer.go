package wordml

import (
	"fmt"
	"strings"
)

// WordML 2003 namespaces. The single-file format opens directly in word
// processors without the zip packaging of later revisions.
const docHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<?mso-application progid="Word.Document"?>
<w:wordDocument xmlns:w="http://schemas.microsoft.com/office/word/2003/wordml" xmlns:aml="http://schemas.microsoft.com/aml/2001/core" w:macrosPresent="no">
<w:body>
`

const docFooter = `</w:body>
</w:wordDocument>
`

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func xmlEscape(s string) string { return xmlEscaper.Replace(s) }

// Marshal replays the op sequence into a WordprocessingML document.
// Footnotes lower to superscript markers with an endnote block after the
// body, since the flat format carries no separate footnote part.
func Marshal(ops []Op) ([]byte, error) {
	w := &writer{}
	w.b.WriteString(docHeader)
	for _, op := range ops {
		if err := w.apply(op); err != nil {
			return nil, err
		}
	}
	w.closePara()
	w.writeNotes()
	w.b.WriteString(docFooter)
	return []byte(w.b.String()), nil
}

type writer struct {
	b       strings.Builder
	inPara  bool
	style   string   // current paragraph style, persists across paragraphs
	pending []string // bookmark names opening with the next paragraph
	open    []int    // annotation ids to close with the current paragraph
	nextID  int
	notes   [][]Run
}

func (w *writer) apply(op Op) error {
	switch op.Kind {
	case OpStyle:
		w.closePara()
		w.style = op.Style
	case OpText:
		w.openPara()
		w.b.WriteString(runXML(op.Run))
	case OpParaBreak:
		// a break with nothing typed still yields an empty paragraph
		w.openPara()
		w.closePara()
	case OpBookmark:
		w.pending = append(w.pending, op.Bookmark)
	case OpPageRef:
		w.openPara()
		fmt.Fprintf(&w.b, `<w:fldSimple w:instr=" PAGEREF %s \h "><w:r><w:t>1</w:t></w:r></w:fldSimple>`,
			xmlEscape(op.Label))
	case OpFootnote:
		w.openPara()
		w.notes = append(w.notes, op.Footnote)
		w.b.WriteString(runXML(Run{Text: fmt.Sprintf("%d", len(w.notes)), Super: true}))
	case OpImage:
		w.openPara()
		fmt.Fprintf(&w.b, `<w:fldSimple w:instr=" INCLUDEPICTURE &quot;%s&quot; \d "><w:r><w:t>[%s]</w:t></w:r></w:fldSimple>`,
			xmlEscape(op.Image.Path), xmlEscape(op.Image.Path))
	case OpTable:
		w.closePara()
		w.writeTable(op.Table)
	default:
		return fmt.Errorf("wordml: unknown op kind %d", op.Kind)
	}
	return nil
}

func (w *writer) openPara() {
	if w.inPara {
		return
	}
	w.inPara = true
	w.b.WriteString("<w:p>")
	if w.style != "" {
		fmt.Fprintf(&w.b, `<w:pPr><w:pStyle w:val="%s"/></w:pPr>`, xmlEscape(styleID(w.style)))
	}
	for _, name := range w.pending {
		w.nextID++
		fmt.Fprintf(&w.b, `<aml:annotation aml:id="%d" w:type="Word.Bookmark.Start" w:name="%s"/>`,
			w.nextID, xmlEscape(name))
		w.open = append(w.open, w.nextID)
	}
	w.pending = nil
}

func (w *writer) closePara() {
	if !w.inPara {
		return
	}
	for _, id := range w.open {
		fmt.Fprintf(&w.b, `<aml:annotation aml:id="%d" w:type="Word.Bookmark.End"/>`, id)
	}
	w.open = nil
	w.b.WriteString("</w:p>\n")
	w.inPara = false
}

// styleID maps a display style name to its WordML style id ("Heading 1"
// becomes "Heading1").
func styleID(name string) string { return strings.ReplaceAll(name, " ", "") }

func runXML(r Run) string {
	var b strings.Builder
	b.WriteString("<w:r>")
	props := runProps(r)
	if props != "" {
		b.WriteString("<w:rPr>" + props + "</w:rPr>")
	}
	b.WriteString(`<w:t xml:space="preserve">` + xmlEscape(r.Text) + "</w:t></w:r>")
	return b.String()
}

func runProps(r Run) string {
	var b strings.Builder
	if r.Bold {
		b.WriteString("<w:b/>")
	}
	if r.Italic {
		b.WriteString("<w:i/>")
	}
	if r.Underline {
		b.WriteString(`<w:u w:val="single"/>`)
	}
	if r.Code {
		b.WriteString(`<w:rFonts w:ascii="Courier New" w:h-ansi="Courier New" w:cs="Courier New"/>`)
	}
	if r.Super {
		b.WriteString(`<w:vertAlign w:val="superscript"/>`)
	}
	return b.String()
}

const tableBorders = `<w:tblPr><w:tblBorders>` +
	`<w:top w:val="single" w:sz="4"/>` +
	`<w:left w:val="single" w:sz="4"/>` +
	`<w:bottom w:val="single" w:sz="4"/>` +
	`<w:right w:val="single" w:sz="4"/>` +
	`<w:insideH w:val="single" w:sz="4"/>` +
	`<w:insideV w:val="single" w:sz="4"/>` +
	`</w:tblBorders></w:tblPr>`

func (w *writer) writeTable(t *TableData) {
	w.b.WriteString("<w:tbl>")
	w.b.WriteString(tableBorders)
	for i, row := range t.Rows {
		w.b.WriteString("<w:tr>")
		if i == 0 && t.HeaderRepeat {
			w.b.WriteString("<w:trPr><w:tblHeader/></w:trPr>")
		}
		for _, cell := range row {
			w.b.WriteString("<w:tc><w:p>")
			for _, r := range cell {
				bold := r
				if i == 0 && t.HeaderRepeat {
					bold.Bold = true
				}
				w.b.WriteString(runXML(bold))
			}
			w.b.WriteString("</w:p></w:tc>")
		}
		w.b.WriteString("</w:tr>\n")
	}
	w.b.WriteString("</w:tbl>\n")
}

// writeNotes appends collected footnotes as an endnote block.
func (w *writer) writeNotes() {
	if len(w.notes) == 0 {
		return
	}
	w.style = "Endnote Text"
	for i, note := range w.notes {
		w.openPara()
		w.b.WriteString(runXML(Run{Text: fmt.Sprintf("%d. ", i+1)}))
		for _, r := range note {
			w.b.WriteString(runXML(r))
		}
		w.closePara()
	}
}
