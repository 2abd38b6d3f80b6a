package main

import (
	"errors"
	"os"

	mark2doc "github.com/alnah/go-mark2doc"
	"github.com/alnah/go-mark2doc/internal/config"
	"github.com/alnah/go-mark2doc/internal/figure"
	"github.com/alnah/go-mark2doc/internal/markup"
)

// Exit codes for the mark2doc CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess  = 0 // successful conversion
	ExitGeneral  = 1 // general/unexpected error (including document parse errors)
	ExitUsage    = 2 // invalid flags, format token, config, or validation
	ExitIO       = 3 // file not found, permission denied, write failure
	ExitExternal = 4 // external tool or browser failure
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// External tool errors (exit 4)
	if errors.Is(err, figure.ErrExternalTool) ||
		errors.Is(err, figure.ErrToolNotFound) ||
		errors.Is(err, figure.ErrNoOutput) ||
		errors.Is(err, mark2doc.ErrTypesetTool) ||
		errors.Is(err, mark2doc.ErrNoPDFOutput) ||
		errors.Is(err, mark2doc.ErrBrowserConnect) ||
		errors.Is(err, mark2doc.ErrPageCreate) ||
		errors.Is(err, mark2doc.ErrPageLoad) ||
		errors.Is(err, mark2doc.ErrPDFGeneration) {
		return ExitExternal
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, markup.ErrInclusion) ||
		errors.Is(err, figure.ErrMissingSource) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrReadSource) ||
		errors.Is(err, ErrWriteArtifact) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, mark2doc.ErrEmptySource) ||
		errors.Is(err, mark2doc.ErrUnknownFormat) ||
		errors.Is(err, mark2doc.ErrUnknownEngine) ||
		errors.Is(err, mark2doc.ErrUnknownHighlight) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) {
		return ExitUsage
	}

	return ExitGeneral
}
