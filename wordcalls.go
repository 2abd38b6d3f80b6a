package mark2doc

import "github.com/alnah/go-mark2doc/internal/wordml"

// WordOpKind identifies one word-processor authoring call.
type WordOpKind int

// Authoring call kinds, in the order a replay adapter dispatches on them.
const (
	WordOpStyle     WordOpKind = iota // set the paragraph style for following text
	WordOpText                        // emit a character-formatted run
	WordOpParaBreak                   // end the current paragraph
	WordOpTable                       // insert a table
	WordOpBookmark                    // drop a named anchor at the cursor
	WordOpPageRef                     // insert a page-reference field for a bookmark
	WordOpFootnote                    // attach a footnote at the cursor
	WordOpImage                       // embed an image by path
)

// WordRun is one contiguous stretch of identically formatted text.
type WordRun struct {
	Text      string
	Bold      bool
	Italic    bool
	Underline bool
	Code      bool // monospace font
	Super     bool // superscript
}

// WordTable carries a table insert: rows of cells, each cell a run
// sequence. HeaderRepeat marks the first row as a repeating header on
// page breaks.
type WordTable struct {
	Rows         [][][]WordRun
	HeaderRepeat bool
}

// WordOp is one imperative call against a word-processor authoring
// surface. Only the fields belonging to its Kind are set. The sequence
// returned by Convert is immutable; replay it in order against a live
// automation host, or let the built-in serializer write it as
// WordprocessingML.
type WordOp struct {
	Kind     WordOpKind
	Style    string     // WordOpStyle
	Run      WordRun    // WordOpText
	Table    *WordTable // WordOpTable
	Bookmark string     // WordOpBookmark
	Label    string     // WordOpPageRef
	Footnote []WordRun  // WordOpFootnote
	Image    string     // WordOpImage
}

// toPublicOps converts the internal wordml op sequence to the public
// mirror types.
func toPublicOps(ops []wordml.Op) []WordOp {
	out := make([]WordOp, len(ops))
	for i, op := range ops {
		pub := WordOp{
			Kind:     WordOpKind(op.Kind),
			Style:    op.Style,
			Run:      WordRun(op.Run),
			Bookmark: op.Bookmark,
			Label:    op.Label,
		}
		if op.Table != nil {
			table := &WordTable{HeaderRepeat: op.Table.HeaderRepeat}
			for _, row := range op.Table.Rows {
				cells := make([][]WordRun, len(row))
				for j, cell := range row {
					cells[j] = toPublicRuns(cell)
				}
				table.Rows = append(table.Rows, cells)
			}
			pub.Table = table
		}
		if op.Footnote != nil {
			pub.Footnote = toPublicRuns(op.Footnote)
		}
		if op.Image != nil {
			pub.Image = op.Image.Path
		}
		out[i] = pub
	}
	return out
}

func toPublicRuns(runs []wordml.Run) []WordRun {
	out := make([]WordRun, len(runs))
	for i, r := range runs {
		out[i] = WordRun(r)
	}
	return out
}
