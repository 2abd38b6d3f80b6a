package mark2doc

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// texJobName is the fixed jobname for intermediate typeset files, so the
// engine's scratch files never collide with user files in the source
// directory.
const texJobName = "mark2doc-build"

// texPDFEngine compiles typeset source to PDF with latex and dvipdfmx.
// Both tools run in the document's source directory so relative
// \includegraphics paths resolve.
type texPDFEngine struct {
	tools  Tools
	runner CommandRunner
}

// Compile writes the typeset source into dir, runs latex twice for
// stable cross-references, converts the DVI, and returns the PDF bytes.
// Scratch files are removed afterwards.
func (e *texPDFEngine) Compile(ctx context.Context, texSource []byte, dir string) ([]byte, error) {
	texPath := filepath.Join(dir, texJobName+".tex")
	if err := os.WriteFile(texPath, texSource, 0o644); err != nil { // #nosec G306 -- intermediate source is not sensitive
		return nil, fmt.Errorf("writing typeset source: %w", err)
	}
	defer e.cleanScratch(dir)

	// Two passes so \ref and \pageref pick up the numbers recorded in
	// the first pass's aux file.
	for pass := 1; pass <= 2; pass++ {
		if err := e.run(ctx, dir, e.tools.Latex, "-interaction=nonstopmode", texJobName+".tex"); err != nil {
			return nil, err
		}
	}

	if err := e.run(ctx, dir, e.tools.Dvipdfmx, texJobName+".dvi"); err != nil {
		return nil, err
	}

	pdfPath := filepath.Join(dir, texJobName+".pdf")
	pdf, err := os.ReadFile(pdfPath) // #nosec G304 -- engine-derived path
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoPDFOutput, err)
	}
	return pdf, nil
}

func (e *texPDFEngine) run(ctx context.Context, dir, name string, args ...string) error {
	_, stderr, err := e.runner.Run(ctx, dir, name, args...)
	if err != nil {
		return fmt.Errorf("%w: %s: %v: %s", ErrTypesetTool, name, err, strings.TrimSpace(stderr))
	}
	return nil
}

// cleanScratch removes the engine's intermediate files, leaving the PDF
// to the caller.
func (e *texPDFEngine) cleanScratch(dir string) {
	for _, ext := range []string{".tex", ".dvi", ".aux", ".log", ".out"} {
		_ = os.Remove(filepath.Join(dir, texJobName+ext))
	}
	_ = os.Remove(filepath.Join(dir, texJobName+".pdf"))
}
