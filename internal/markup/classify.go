package markup

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// chunk is the unit of classification: a maximal run of non-blank lines
// plus the 1-based line number of its first line in the resolved source.
type chunk struct {
	text string
	line int
}

func (c chunk) lines() []string { return strings.Split(c.text, "\n") }

func (c chunk) firstLine() string {
	first, _, _ := strings.Cut(c.text, "\n")
	return first
}

// Leading-line shapes, one per rule. Order-independent here; precedence
// lives in the rules table.
var (
	reDiscard    = regexp.MustCompile(`^\\(comment|end)(\s|$)`)
	reHeaderKey  = regexp.MustCompile(`^\\(title|author|company|date)(\s|$)`)
	reHeaderDir  = regexp.MustCompile(`^\\(title|author|company|date)\s+(\S.*)$`)
	reInsert     = regexp.MustCompile(`^\\insert\s+\S`)
	reHeading    = regexp.MustCompile(`^\\h([1-9][0-9]*)\s+\S`)
	reEnum       = regexp.MustCompile(`^[0-9]+\.\s`)
	reBullet     = regexp.MustCompile(`^\*\s`)
	reTable      = regexp.MustCompile(`^\\table\s+\S`)
	reTabular    = regexp.MustCompile(`^\\tabular\s*$`)
	rePipeSpec   = regexp.MustCompile(`^\|[cp]`)
	reWhitespace = regexp.MustCompile(`^[ \t]`)
	reParagraph  = regexp.MustCompile(`^([\pL\pN]|\$|\\[a-zA-Z])`)

	reEnumMarker   = regexp.MustCompile(`(^|\s)[0-9]+\.\s+`)
	reBulletMarker = regexp.MustCompile(`(^|\s)\*\s+`)
)

// rules is the classification table, tested top to bottom; first match
// wins. The order is load-bearing: list markers are tested before the
// leading-whitespace rule, so "* x" is a bullet while "  * x" is verbatim.
var rules = []struct {
	name  string
	match func(string) bool
	build func(chunk) (Block, error)
}{
	{"discard", reDiscard.MatchString, buildDiscard},
	{"header", reHeaderKey.MatchString, buildHeader},
	{"insert", reInsert.MatchString, buildInsert},
	{"heading", reHeading.MatchString, buildHeading},
	{"enumeration", reEnum.MatchString, buildEnumeration},
	{"bullet", reBullet.MatchString, buildBullet},
	{"table", reTable.MatchString, buildTable},
	{"tabular", reTabular.MatchString, buildTabular},
	{"table2", rePipeSpec.MatchString, buildPipeTable},
	{"verbatim", reWhitespace.MatchString, buildVerbatim},
	{"paragraph", reParagraph.MatchString, buildParagraph},
}

// classify resolves one chunk to a Block. A nil Block with a nil error
// means the chunk produced no content (comment and terminator directives).
func classify(c chunk) (Block, error) {
	first := c.firstLine()
	for _, r := range rules {
		if r.match(first) {
			return r.build(c)
		}
	}
	return nil, fmt.Errorf("%w: line %d: %q", ErrUnknownChunk, c.line, truncate(c.text, 60))
}

func buildDiscard(chunk) (Block, error) { return nil, nil }

func buildHeader(c chunk) (Block, error) {
	hc := &headerChunk{raw: c.text}
	for i, line := range c.lines() {
		m := reHeaderDir.FindStringSubmatch(line)
		if m == nil {
			return nil, fmt.Errorf("%w: line %d: %q", ErrHeaderLine, c.line+i, line)
		}
		hc.fields = append(hc.fields, headerField{key: m[1], value: strings.TrimSpace(m[2])})
	}
	return hc, nil
}

// buildInsert parses `\insert <file> [caption words] [label]`. A trailing
// bracketed token is the cross-reference label; everything between the
// path and the label is the caption.
func buildInsert(c chunk) (Block, error) {
	fields := strings.Fields(c.text)[1:]
	in := &Insert{raw: c.text, Source: fields[0]}
	rest := fields[1:]
	if n := len(rest); n > 0 && isBracketTag(rest[n-1]) {
		in.Ref = rest[n-1][1 : len(rest[n-1])-1]
		rest = rest[:n-1]
	}
	in.Caption = strings.Join(rest, " ")
	return in, nil
}

func buildHeading(c chunk) (Block, error) {
	if len(c.lines()) > 1 {
		return nil, fmt.Errorf("%w: line %d: heading must stand alone: %q",
			ErrHeadingLine, c.line, truncate(c.text, 60))
	}
	first := c.firstLine()
	m := reHeading.FindStringSubmatch(first)
	level, err := strconv.Atoi(m[1])
	if err != nil {
		return nil, fmt.Errorf("%w: line %d: %q", ErrHeadingLine, c.line, first)
	}
	rest := strings.TrimSpace(first[len(`\h`)+len(m[1]):])
	title, ref := splitBracketTag(rest)
	return &Heading{raw: c.text, Level: level, Title: title, Ref: ref}, nil
}

func buildEnumeration(c chunk) (Block, error) {
	return &List{raw: c.text, Numbered: true, Items: splitItems(c.text, reEnumMarker)}, nil
}

func buildBullet(c chunk) (Block, error) {
	return &List{raw: c.text, Items: splitItems(c.text, reBulletMarker)}, nil
}

// splitItems splits chunk text on the list-marker pattern, discarding the
// empty preamble before the first marker and collapsing internal runs of
// whitespace within each entry.
func splitItems(text string, marker *regexp.Regexp) []string {
	locs := marker.FindAllStringIndex(text, -1)
	items := make([]string, 0, len(locs))
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		item := strings.Join(strings.Fields(text[loc[1]:end]), " ")
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

// buildTable parses `\table <caption> <ref> <colspec>[ <option>]` on the
// directive line, then &-delimited data rows. Metadata tokens parse from
// the end: bracketed option, column spec, reference label; the remainder
// is the caption.
func buildTable(c chunk) (Block, error) {
	lines := c.lines()
	meta := strings.TrimSpace(strings.TrimPrefix(lines[0], `\table`))
	tokens := strings.Fields(meta)
	t := &Table{raw: c.text, Variant: VariantTable}
	if n := len(tokens); n > 0 && isBracketTag(tokens[n-1]) {
		t.Option = tokens[n-1][1 : len(tokens[n-1])-1]
		tokens = tokens[:n-1]
	}
	if len(tokens) < 2 {
		return nil, fmt.Errorf("%w: line %d: table needs caption, label and column spec: %q",
			ErrParse, c.line, lines[0])
	}
	t.ColSpec = tokens[len(tokens)-1]
	t.Ref = tokens[len(tokens)-2]
	t.Caption = strings.Join(tokens[:len(tokens)-2], " ")
	t.Rows = padRows(splitRows(lines[1:], "&"))
	return t, nil
}

func buildTabular(c chunk) (Block, error) {
	t := &Table{raw: c.text, Variant: VariantTabular}
	t.Rows = padRows(splitRows(c.lines()[1:], "&"))
	return t, nil
}

// buildPipeTable parses the alternate table form: the first line is the
// metadata line `<colspec> "<caption>" <ref>` opening with a pipe-delimited
// column-format token, followed by :-delimited data rows.
func buildPipeTable(c chunk) (Block, error) {
	lines := c.lines()
	t := &Table{raw: c.text, Variant: VariantPipe}
	meta := lines[0]
	if open := strings.Index(meta, `"`); open >= 0 {
		t.ColSpec = strings.TrimSpace(meta[:open])
		rest := meta[open+1:]
		end := strings.Index(rest, `"`)
		if end < 0 {
			return nil, fmt.Errorf("%w: line %d: unterminated table caption: %q", ErrParse, c.line, meta)
		}
		t.Caption = rest[:end]
		t.Ref = strings.TrimSpace(rest[end+1:])
	} else {
		t.ColSpec = strings.TrimSpace(meta)
	}
	t.Rows = padRows(splitRows(lines[1:], ":"))
	return t, nil
}

// splitRows splits each line on the cell delimiter, trimming each cell.
func splitRows(lines []string, delim string) [][]string {
	rows := make([][]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		cells := strings.Split(line, delim)
		for i := range cells {
			cells[i] = strings.TrimSpace(cells[i])
		}
		rows = append(rows, cells)
	}
	return rows
}

func buildVerbatim(c chunk) (Block, error) {
	first := c.firstLine()
	level := 0
	for _, r := range first {
		if r != ' ' && r != '\t' {
			break
		}
		level++
	}
	return &Verbatim{raw: c.text, Level: level, Lines: c.lines()}, nil
}

// buildParagraph covers running text. A leading backslash-word that no
// directive rule claimed is target-specific passthrough content; a leading
// $ marks the paragraph as math.
func buildParagraph(c chunk) (Block, error) {
	if strings.HasPrefix(c.text, `\`) {
		return &RawEmbed{raw: c.text, Text: c.text}, nil
	}
	text := strings.Join(strings.Fields(c.text), " ")
	return &Paragraph{raw: c.text, Text: text, Math: strings.HasPrefix(text, "$")}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
