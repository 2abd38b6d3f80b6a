package mark2doc

import "errors"

// Sentinel errors for library operations.
var (
	ErrEmptySource   = errors.New("markup source cannot be empty")
	ErrUnknownFormat = errors.New("unknown output format")

	// Typeset toolchain errors.
	ErrTypesetTool = errors.New("typeset tool failed")
	ErrNoPDFOutput = errors.New("typeset toolchain produced no PDF")

	// Browser errors (chrome PDF engine).
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrPDFGeneration  = errors.New("PDF generation failed")

	// Option validation errors.
	ErrUnknownEngine    = errors.New("unknown PDF engine")
	ErrUnknownHighlight = errors.New("unknown highlight style")
)
