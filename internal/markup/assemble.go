package markup

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Ext is the markup source extension. An insert directive referencing a
// file with this extension splices that file's content during assembly;
// any other extension stays an Insert block (a figure).
const Ext = ".mrk"

// AssembleFile reads the source at path and assembles its Document,
// resolving inclusion paths relative to the file's directory.
func AssembleFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", path, err)
	}
	return Assemble(string(data), filepath.Dir(path))
}

// Assemble parses markup source into a Document. Inclusion paths resolve
// against dir. The resolved buffer is transient scratch state; only the
// Document survives.
func Assemble(source, dir string) (*Document, error) {
	doc := &Document{}
	resolved, err := resolveInclusions(source, dir, doc)
	if err != nil {
		return nil, err
	}
	for _, c := range splitChunks(resolved) {
		b, err := classify(c)
		if err != nil {
			return nil, err
		}
		if b == nil {
			continue
		}
		if err := doc.append(b); err != nil {
			return nil, fmt.Errorf("line %d: %w", c.line, err)
		}
	}
	return doc, nil
}

// resolveInclusions recursively splices markup-extension insert directives
// in place and blanks comment and terminator lines (replaced with an empty
// line, not removed, so blank-line chunking holds across the substitution
// boundary). Recursion depth is unbounded and cycles are not detected: a
// self-referential inclusion chain does not terminate.
func resolveInclusions(source, dir string, doc *Document) (string, error) {
	var b strings.Builder
	lines := strings.Split(source, "\n")
	for i, line := range lines {
		switch {
		case reDiscard.MatchString(line):
			// blanked
		case reInsert.MatchString(line) && strings.HasSuffix(insertPath(line), Ext):
			rel := insertPath(line)
			full := rel
			if !filepath.IsAbs(full) {
				full = filepath.Join(dir, rel)
			}
			data, err := os.ReadFile(full)
			if err != nil {
				return "", fmt.Errorf("%w: %q: %v", ErrInclusion, rel, err)
			}
			doc.Includes = append(doc.Includes, full)
			sub, err := resolveInclusions(strings.TrimRight(string(data), "\n"), filepath.Dir(full), doc)
			if err != nil {
				return "", err
			}
			b.WriteString(sub)
		default:
			b.WriteString(line)
		}
		if i < len(lines)-1 {
			b.WriteString("\n")
		}
	}
	return b.String(), nil
}

func insertPath(line string) string {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return ""
	}
	return fields[1]
}

// splitChunks cuts the resolved buffer into maximal runs of non-blank
// lines, remembering each run's starting line for error reporting.
func splitChunks(source string) []chunk {
	var (
		chunks []chunk
		cur    []string
		start  int
	)
	for i, line := range strings.Split(source, "\n") {
		if strings.TrimSpace(line) == "" {
			if len(cur) > 0 {
				chunks = append(chunks, chunk{text: strings.Join(cur, "\n"), line: start + 1})
				cur = nil
			}
			continue
		}
		if len(cur) == 0 {
			start = i
		}
		cur = append(cur, line)
	}
	if len(cur) > 0 {
		chunks = append(chunks, chunk{text: strings.Join(cur, "\n"), line: start + 1})
	}
	return chunks
}
