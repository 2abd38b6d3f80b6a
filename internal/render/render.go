// Package render turns an assembled markup Document into target-format
// artifacts: typeset source, a hypertext page, or a word-processor call
// sequence.
//
// Every renderer walks the document strictly in source order. Targets
// without native counters take display numbers from a read-only index
// built before emission; footnote lists append after the body. Nothing
// reorders body content.
package render

import (
	"context"
	"errors"

	"github.com/alnah/go-mark2doc/internal/markup"
)

// Sentinel errors shared by the renderers.
var (
	ErrUnknownBlock     = errors.New("render: unknown block variant")
	ErrNoFigureResolver = errors.New("render: document embeds figures but no resolver is set")
)

// Renderer produces one target format's artifact from a Document.
type Renderer interface {
	Render(ctx context.Context, doc *markup.Document) ([]byte, error)
}

// FigureResolver supplies converted figure assets on demand. EPS
// resolution carries a full-width print hint read from the asset's
// bounding box; PNG resolution has no layout metadata.
type FigureResolver interface {
	EPS(ctx context.Context, source string) (path string, fullWidth bool, err error)
	PNG(ctx context.Context, source string) (path string, err error)
}
