package render

import (
	"html"
	"strings"
)

// Typeset-reserved characters. The escaping pass runs before inline tag
// expansion and never inside verbatim or math spans.
var texEscaper = strings.NewReplacer(
	"#", `\#`,
	"%", `\%`,
	"_", `\_`,
	"~", `\textasciitilde{}`,
)

func escapeTeX(s string) string { return texEscaper.Replace(s) }

func escapeHTML(s string) string { return html.EscapeString(s) }
