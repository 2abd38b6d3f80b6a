// Package wordml models the word-processor call sequence and serializes it
// to a flat WordprocessingML 2003 document.
//
// The sequence is an immutable IR: ops describe cursor-style authoring
// calls (set style, type a run, break the paragraph, insert a table) in
// strict document order. Marshal replays the sequence into XML; any other
// automation adapter could replay the same ops against a live host.
package wordml

// OpKind identifies one authoring call.
type OpKind int

const (
	OpStyle    OpKind = iota // set the paragraph style for following text
	OpText                   // emit a character-formatted run
	OpParaBreak              // end the current paragraph
	OpTable                  // insert a table
	OpBookmark               // drop a named anchor at the cursor
	OpPageRef                // insert a page-reference field for a bookmark
	OpFootnote               // attach a footnote at the cursor
	OpImage                  // embed an image by path
)

// String returns the call name for the kind.
func (k OpKind) String() string {
	switch k {
	case OpStyle:
		return "style"
	case OpText:
		return "text"
	case OpParaBreak:
		return "para-break"
	case OpTable:
		return "table"
	case OpBookmark:
		return "bookmark"
	case OpPageRef:
		return "page-ref"
	case OpFootnote:
		return "footnote"
	case OpImage:
		return "image"
	default:
		return "unknown"
	}
}

// Run is one contiguous stretch of identically formatted text.
type Run struct {
	Text      string
	Bold      bool
	Italic    bool
	Underline bool
	Code      bool // monospace font
	Super     bool // superscript
}

// TableData carries a table insert: rows of cells, each cell already
// expanded into formatted runs. HeaderRepeat marks the first row as a
// repeating header on page breaks.
type TableData struct {
	Rows         [][][]Run
	HeaderRepeat bool
}

// ImageData references an image asset by path.
type ImageData struct {
	Path string
}

// Op is one imperative call against the authoring surface. Only the
// fields belonging to its Kind are set.
type Op struct {
	Kind     OpKind
	Style    string     // OpStyle
	Run      Run        // OpText
	Table    *TableData // OpTable
	Bookmark string     // OpBookmark
	Label    string     // OpPageRef
	Footnote []Run      // OpFootnote
	Image    *ImageData // OpImage
}
