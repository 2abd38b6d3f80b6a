// Package markup parses lightweight markup source into a Document model:
// a Header plus ordered Sections of classified Blocks, ready for rendering.
//
// Parsing is chunk-based. A chunk is a maximal run of non-blank lines; each
// chunk resolves to exactly one Block (or contributes to the Header, or is
// discarded) through an ordered rule table whose precedence is part of the
// language definition.
package markup

import (
	"path/filepath"
	"strings"
)

// BlockKind identifies the concrete variant behind the Block interface.
type BlockKind int

const (
	KindParagraph BlockKind = iota
	KindRawEmbed
	KindHeading
	KindVerbatim
	KindEnumeration
	KindBullet
	KindTable
	KindTabular
	KindTable2
	KindInsert
	kindHeader // consumed by the assembler, never reaches renderers
)

// String returns the role tag for the kind.
func (k BlockKind) String() string {
	switch k {
	case KindParagraph:
		return "paragraph"
	case KindRawEmbed:
		return "raw"
	case KindHeading:
		return "heading"
	case KindVerbatim:
		return "verbatim"
	case KindEnumeration:
		return "enumeration"
	case KindBullet:
		return "bullet"
	case KindTable:
		return "table"
	case KindTabular:
		return "tabular"
	case KindTable2:
		return "table2"
	case KindInsert:
		return "insert"
	case kindHeader:
		return "header"
	default:
		return "unknown"
	}
}

// Block is the sum type over document content. Renderers dispatch on the
// concrete type and must handle every exported variant.
type Block interface {
	Kind() BlockKind
	// Raw returns the original source slice the block was built from.
	Raw() string
}

// Paragraph is running text. Inline tags are expanded at render time.
// Math paragraphs (text opening with $) bypass escaping and wrapping.
type Paragraph struct {
	raw  string
	Text string
	Math bool
}

func (p *Paragraph) Kind() BlockKind { return KindParagraph }
func (p *Paragraph) Raw() string     { return p.raw }

// RawEmbed is target-specific content passed through untouched on the
// typeset target and skipped everywhere else.
type RawEmbed struct {
	raw  string
	Text string
}

func (r *RawEmbed) Kind() BlockKind { return KindRawEmbed }
func (r *RawEmbed) Raw() string     { return r.raw }

// Heading opens a new Section. Ref is the optional cross-reference label
// taken from a trailing bracketed tag on the directive line.
type Heading struct {
	raw   string
	Level int
	Title string
	Ref   string
}

func (h *Heading) Kind() BlockKind { return KindHeading }
func (h *Heading) Raw() string     { return h.raw }

// Verbatim preserves its lines literally. Level is the count of leading
// whitespace characters on the first line.
type Verbatim struct {
	raw   string
	Level int
	Lines []string
}

func (v *Verbatim) Kind() BlockKind { return KindVerbatim }
func (v *Verbatim) Raw() string     { return v.raw }

// List holds enumeration (numbered) or bullet items.
type List struct {
	raw      string
	Numbered bool
	Items    []string
}

func (l *List) Kind() BlockKind {
	if l.Numbered {
		return KindEnumeration
	}
	return KindBullet
}
func (l *List) Raw() string { return l.raw }

// TableVariant selects among the three row-based forms.
type TableVariant int

const (
	VariantTable   TableVariant = iota // \table directive, full metadata, & cells
	VariantTabular                     // bare \tabular, & cells, no metadata
	VariantPipe                        // pipe colspec metadata line, : cells
)

// Table is any row-based block. Rows hold a uniform column count after
// construction: all rows are right-padded with empty cells to the widest
// row, which for well-formed input is the first data row.
type Table struct {
	raw     string
	Variant TableVariant
	Caption string
	Ref     string
	ColSpec string
	Option  string
	Rows    [][]string
}

func (t *Table) Kind() BlockKind {
	switch t.Variant {
	case VariantTabular:
		return KindTabular
	case VariantPipe:
		return KindTable2
	default:
		return KindTable
	}
}
func (t *Table) Raw() string { return t.raw }

// Columns reports the uniform column count.
func (t *Table) Columns() int {
	if len(t.Rows) == 0 {
		return 0
	}
	return len(t.Rows[0])
}

// padRows right-pads every row with empty cells up to the widest row.
func padRows(rows [][]string) [][]string {
	width := 0
	for _, r := range rows {
		if len(r) > width {
			width = len(r)
		}
	}
	for i, r := range rows {
		for len(r) < width {
			r = append(r, "")
		}
		rows[i] = r
	}
	return rows
}

// Insert embeds an external vector figure by path, with an optional
// caption and cross-reference label.
type Insert struct {
	raw     string
	Source  string
	Caption string
	Ref     string
}

func (in *Insert) Kind() BlockKind { return KindInsert }
func (in *Insert) Raw() string     { return in.raw }

// Asset derives the converted asset path for ext (".eps", ".png"),
// preserving the relative form used in the source.
func (in *Insert) Asset(ext string) string {
	return strings.TrimSuffix(in.Source, filepath.Ext(in.Source)) + ext
}

// headerChunk carries parsed header directives to the assembler.
type headerChunk struct {
	raw    string
	fields []headerField
}

type headerField struct {
	key   string
	value string
}

func (h *headerChunk) Kind() BlockKind { return kindHeader }
func (h *headerChunk) Raw() string     { return h.raw }
