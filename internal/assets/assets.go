// Package assets holds the embedded default stylesheet for hypertext
// output and generates the syntax-highlighting CSS that goes with it.
package assets

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
)

// ErrUnknownStyle indicates the named highlight style does not exist.
var ErrUnknownStyle = errors.New("assets: unknown highlight style")

// DefaultHighlightStyle is the chroma style used for verbatim blocks
// unless overridden.
const DefaultHighlightStyle = "github"

//go:embed styles/default.css
var defaultCSS string

// DefaultCSS returns the embedded default stylesheet.
func DefaultCSS() string { return defaultCSS }

// HighlightCSS generates the class-based CSS for the named chroma style,
// matching the classed token spans the hypertext renderer emits.
func HighlightCSS(style string) (string, error) {
	s := styles.Get(style)
	// styles.Get falls back silently; reject typos instead.
	if s == styles.Fallback && style != s.Name {
		return "", fmt.Errorf("%w: %q", ErrUnknownStyle, style)
	}

	var b strings.Builder
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(&b, s); err != nil {
		return "", fmt.Errorf("assets: generating highlight css: %w", err)
	}
	return b.String(), nil
}

// HighlightStyles lists the available highlight style names.
func HighlightStyles() []string {
	return styles.Names()
}
