package main

import (
	"fmt"
	"os"
	"testing"

	mark2doc "github.com/alnah/go-mark2doc"
	"github.com/alnah/go-mark2doc/internal/config"
	"github.com/alnah/go-mark2doc/internal/figure"
	"github.com/alnah/go-mark2doc/internal/markup"
)

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"generic", fmt.Errorf("boom"), ExitGeneral},
		{"parse error", fmt.Errorf("line 3: %w", markup.ErrParse), ExitGeneral},
		{"unknown format", fmt.Errorf("%w: rtf", mark2doc.ErrUnknownFormat), ExitUsage},
		{"unknown engine", mark2doc.ErrUnknownEngine, ExitUsage},
		{"config not found", fmt.Errorf("loading config: %w", config.ErrConfigNotFound), ExitUsage},
		{"invalid config value", config.ErrInvalidValue, ExitUsage},
		{"bad worker count", ErrInvalidWorkerCount, ExitUsage},
		{"wrong extension", ErrInvalidExtension, ExitUsage},
		{"file missing", os.ErrNotExist, ExitIO},
		{"read failure", fmt.Errorf("%w: eof", ErrReadSource), ExitIO},
		{"write failure", ErrWriteArtifact, ExitIO},
		{"inclusion missing", fmt.Errorf("%w: deep.mrk", markup.ErrInclusion), ExitIO},
		{"figure source missing", figure.ErrMissingSource, ExitIO},
		{"fig2dev failed", fmt.Errorf("%w: fig2dev", figure.ErrExternalTool), ExitExternal},
		{"tool not on PATH", figure.ErrToolNotFound, ExitExternal},
		{"latex failed", mark2doc.ErrTypesetTool, ExitExternal},
		{"no pdf produced", mark2doc.ErrNoPDFOutput, ExitExternal},
		{"browser down", mark2doc.ErrBrowserConnect, ExitExternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
