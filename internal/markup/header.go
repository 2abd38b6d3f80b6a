package markup

import "strings"

// Header holds document-level metadata accumulated from header directive
// chunks. Doctype comes from a trailing bracketed tag on the title line.
// Immutable once assembly completes.
type Header struct {
	Title   string
	Author  string
	Date    string
	Doctype string
}

// merge applies parsed header fields. Later directives overwrite earlier
// values for the same field. \company is an alias for \author.
func (h *Header) merge(fields []headerField) {
	for _, f := range fields {
		switch f.key {
		case "title":
			h.Title, h.Doctype = splitBracketTag(f.value)
		case "author", "company":
			h.Author = f.value
		case "date":
			h.Date = f.value
		}
	}
}

// splitBracketTag splits "Some text [tag]" into ("Some text", "tag").
// Without a trailing bracketed token it returns (s, "").
func splitBracketTag(s string) (text, tag string) {
	s = strings.TrimSpace(s)
	if !strings.HasSuffix(s, "]") {
		return s, ""
	}
	i := strings.LastIndex(s, " [")
	if i < 0 {
		return s, ""
	}
	tag = strings.TrimSpace(s[i+2 : len(s)-1])
	if tag == "" || strings.ContainsAny(tag, "[]") {
		return s, ""
	}
	return strings.TrimSpace(s[:i]), tag
}

// isBracketTag reports whether tok is a bracketed label like "[flow]".
func isBracketTag(tok string) bool {
	return len(tok) > 2 && strings.HasPrefix(tok, "[") && strings.HasSuffix(tok, "]") &&
		!strings.ContainsAny(tok[1:len(tok)-1], "[]")
}
