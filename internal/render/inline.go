package render

import "strings"

// spanKind classifies one scanned inline span.
type spanKind int

const (
	spanText spanKind = iota
	spanPageRef
	spanFigRef
	spanTabRef
	spanSecRef
	spanSecName
	spanEmph
	spanItalic
	spanBold
	spanUnderline
	spanCode
	spanFootnote
	spanVerb
	spanMath
)

type span struct {
	kind spanKind
	text string
}

// tags maps the single-letter inline tag to its span kind.
var tags = map[byte]spanKind{
	'p': spanPageRef,
	'f': spanFigRef,
	't': spanTabRef,
	's': spanSecRef,
	'S': spanSecName,
	'e': spanEmph,
	'i': spanItalic,
	'b': spanBold,
	'u': spanUnderline,
	'c': spanCode,
	'n': spanFootnote,
	'v': spanVerb,
	'm': spanMath,
}

// scan splits text into plain and tagged spans. A tag is a single letter
// at a word boundary immediately followed by an opening brace; the first
// closing brace ends the span, so spans never nest. Unterminated tags
// stay literal. The scanning algorithm is shared by every target; only
// the idiom tables differ.
func scan(text string) []span {
	var spans []span
	plain := 0
	i := 0
	for i < len(text) {
		k, ok := tagAt(text, i)
		if !ok {
			i++
			continue
		}
		end := strings.IndexByte(text[i+2:], '}')
		if end < 0 {
			break
		}
		if i > plain {
			spans = append(spans, span{spanText, text[plain:i]})
		}
		spans = append(spans, span{k, text[i+2 : i+2+end]})
		i += 2 + end + 1
		plain = i
	}
	if plain < len(text) {
		spans = append(spans, span{spanText, text[plain:]})
	}
	return spans
}

func tagAt(text string, i int) (spanKind, bool) {
	if i+1 >= len(text) || text[i+1] != '{' {
		return 0, false
	}
	k, ok := tags[text[i]]
	if !ok {
		return 0, false
	}
	if i > 0 && isWordByte(text[i-1]) {
		return 0, false
	}
	return k, true
}

func isWordByte(b byte) bool {
	return b == '_' ||
		('0' <= b && b <= '9') ||
		('a' <= b && b <= 'z') ||
		('A' <= b && b <= 'Z')
}

// idiom is one text target's mapping from span kinds to emitted markup,
// the only target-specific knowledge in inline expansion.
type idiom struct {
	escape   func(string) string
	wrap     map[spanKind][2]string
	ref      func(kind spanKind, label string) string
	verb     func(body string) string
	math     func(body string) string
	footnote func(escapedBody string) string
}

// expand rewrites inline tags per the target idiom. Reserved-character
// escaping applies to plain text and formatted span bodies; verbatim and
// math span contents are emitted literally.
func expand(text string, id *idiom) string {
	var b strings.Builder
	for _, s := range scan(text) {
		switch s.kind {
		case spanText:
			b.WriteString(id.escape(s.text))
		case spanVerb:
			b.WriteString(id.verb(s.text))
		case spanMath:
			b.WriteString(id.math(s.text))
		case spanPageRef, spanFigRef, spanTabRef, spanSecRef, spanSecName:
			b.WriteString(id.ref(s.kind, s.text))
		case spanFootnote:
			b.WriteString(id.footnote(id.escape(s.text)))
		default:
			w := id.wrap[s.kind]
			b.WriteString(w[0])
			b.WriteString(id.escape(s.text))
			b.WriteString(w[1])
		}
	}
	return b.String()
}
