// Package mark2doc converts lightweight markup documents to typeset
// source (TeX), hypertext (HTML), word-processor documents, or PDF.
//
// # Quick Start
//
// Create a converter, convert markup, and close when done:
//
//	conv, err := mark2doc.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	result, err := conv.Convert(ctx, mark2doc.Input{
//	    Markup: "\\title Report\n\n\\h1 Intro\n\nHello.",
//	    Format: mark2doc.FormatHTML,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("report.htm", result.Artifact, 0644)
//
// # Conversion Pipeline
//
// The conversion process follows these stages:
//
//  1. Inclusion resolution (recursive \insert splicing of .mrk files)
//  2. Chunk classification into the document model (internal/markup)
//  3. Per-target rendering: TeX, HTML, or a word-processor call
//     sequence (internal/render)
//  4. For pdf output, an engine pass: latex + dvipdfmx over the typeset
//     source, or headless Chrome over the hypertext artifact
//
// # The Markup
//
// Documents are chunks of non-blank lines separated by blank lines.
// Directive lines open with a backslash:
//
//	\title Quarterly Report [memo]
//	\author Jane Doe
//
//	\h1 Introduction [intro]
//
//	Body text with inline tags: e{emphasis}, b{bold}, c{code},
//	s{intro} for section references, n{a footnote}.
//
//	\table Results res |l|r|
//	Name & Score
//	Alice & 10
//
//	\insert figs/flow.fig Flow of data [flow]
//
// Indented lines are verbatim; "1. " and "* " open lists; \insert of a
// .mrk file splices it in place before parsing.
//
// # Configuration
//
// Use functional options to customize the converter:
//
//	conv, err := mark2doc.NewConverter(
//	    mark2doc.WithTimeout(2 * time.Minute),
//	    mark2doc.WithPDFEngine(mark2doc.PDFEngineChrome),
//	    mark2doc.WithWrapWidth(80),
//	)
//
// # Parallel Processing
//
// For batch conversion, use ConverterPool to reuse engine instances:
//
//	pool := mark2doc.NewConverterPool(4)
//	defer pool.Close()
//
//	conv, err := pool.Acquire()
//	defer pool.Release(conv)
//	result, err := conv.Convert(ctx, input)
//
// # External Tools
//
// Figure conversion needs fig2dev; the tex PDF engine needs latex and
// dvipdfmx on PATH (names overridable via WithTools). The chrome PDF
// engine downloads a managed Chromium on first run; set ROD_BROWSER_BIN
// to use a pre-installed browser and ROD_NO_SANDBOX=1 in containers.
package mark2doc
