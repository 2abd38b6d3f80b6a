package render

import (
	"strings"

	"golang.org/x/text/width"
)

// wrapTeX folds expanded paragraph text to at most columns display cells
// per line, breaking only at spaces. In typeset source a line break reads
// as a space, so any space is a safe break point except inside a \verb
// span, which counts as part of its surrounding word. A width of zero or
// less disables wrapping.
func wrapTeX(text string, columns int) string {
	if columns <= 0 {
		return text
	}
	var b strings.Builder
	line := 0
	for _, word := range splitTeXWords(text) {
		w := displayWidth(word)
		switch {
		case line == 0:
		case line+1+w > columns:
			b.WriteByte('\n')
			line = 0
		default:
			b.WriteByte(' ')
			line++
		}
		b.WriteString(word)
		line += w
	}
	return b.String()
}

// splitTeXWords splits on spaces, keeping \verb spans glued to the word
// they appear in.
func splitTeXWords(text string) []string {
	var words []string
	i := 0
	for i < len(text) {
		for i < len(text) && text[i] == ' ' {
			i++
		}
		if i >= len(text) {
			break
		}
		start := i
		for i < len(text) && text[i] != ' ' {
			if strings.HasPrefix(text[i:], `\verb`) && i+len(`\verb`) < len(text) {
				delim := text[i+len(`\verb`)]
				rest := text[i+len(`\verb`)+1:]
				if j := strings.IndexByte(rest, delim); j >= 0 {
					i += len(`\verb`) + 1 + j + 1
					continue
				}
			}
			i++
		}
		words = append(words, text[start:i])
	}
	return words
}

// displayWidth counts display cells, with East Asian wide and fullwidth
// runes taking two.
func displayWidth(s string) int {
	n := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			n++
		}
	}
	return n
}
