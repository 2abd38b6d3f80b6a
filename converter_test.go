package mark2doc_test

// Notes:
// - End to end conversion through the public API for every format
// - Mock command runner: no external tool is ever spawned
// - Figure conversion caching observed through runner call counts
// - The tex PDF engine's invocation order and scratch cleanup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"

	mark2doc "github.com/alnah/go-mark2doc"
)

const sampleSource = "\\title Progress Report [report]\n\\author Jane Doe\n\\date 2024-01-15\n\n" +
	"\\h1 Overview [ov]\n\n" +
	"Capacity reached b{100%} this quarter.\n\n" +
	"* milestones met\n* budget held\n"

// mockRunner satisfies mark2doc.CommandRunner. Each call is recorded;
// behavior per tool name is scripted through handle.
type mockRunner struct {
	mu     sync.Mutex
	calls  []string
	handle func(dir, name string, args []string) (stdout, stderr string, err error)
}

func (m *mockRunner) Run(_ context.Context, dir, name string, args ...string) (string, string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, name+" "+strings.Join(args, " "))
	m.mu.Unlock()
	if m.handle != nil {
		return m.handle(dir, name, args)
	}
	return "", "", nil
}

func (m *mockRunner) callNames(t *testing.T) []string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, len(m.calls))
	for i, c := range m.calls {
		names[i] = strings.Fields(c)[0]
	}
	return names
}

func newTestConverter(t *testing.T, runner *mockRunner, opts ...mark2doc.Option) *mark2doc.Converter {
	t.Helper()
	opts = append(opts, mark2doc.WithCommandRunner(runner))
	conv, err := mark2doc.NewConverter(opts...)
	if err != nil {
		t.Fatalf("NewConverter() error = %v", err)
	}
	t.Cleanup(func() { _ = conv.Close() })
	return conv
}

// ---------------------------------------------------------------------------
// TestConvert_TeX - typeset source from inline markup
// ---------------------------------------------------------------------------

func TestConvert_TeX(t *testing.T) {
	t.Parallel()

	conv := newTestConverter(t, &mockRunner{})
	res, err := conv.Convert(context.Background(), mark2doc.Input{
		Markup: sampleSource,
		Format: mark2doc.FormatTeX,
	})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	tex := string(res.Artifact)
	for _, want := range []string{
		"\\title{Progress Report}",
		"\\author{Jane Doe}",
		"\\date{2024-01-15}",
		"\\section{Overview}",
		"\\label{ov}",
		"\\textbf{100\\%}",
		"\\end{document}",
	} {
		if !strings.Contains(tex, want) {
			t.Errorf("artifact missing %q", want)
		}
	}
	if res.TeX != nil {
		t.Error("TeX intermediate set for a tex run, want nil")
	}
	if len(res.Ops) != 0 {
		t.Errorf("len(Ops) = %d, want 0 for a tex run", len(res.Ops))
	}
}

// ---------------------------------------------------------------------------
// TestConvert_HTML - standalone page with embedded stylesheet
// ---------------------------------------------------------------------------

func TestConvert_HTML(t *testing.T) {
	t.Parallel()

	conv := newTestConverter(t, &mockRunner{})
	res, err := conv.Convert(context.Background(), mark2doc.Input{
		Markup: sampleSource,
		Format: mark2doc.FormatHTML,
	})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	html := string(res.Artifact)
	for _, want := range []string{
		"<!DOCTYPE html>",
		"<title>Progress Report</title>",
		"<h1 class=\"title\">Progress Report</h1>",
		".chroma", // highlight stylesheet is embedded even without code blocks
		"<strong>100%</strong>",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("artifact missing %q", want)
		}
	}
}

// ---------------------------------------------------------------------------
// TestConvert_Word - serialized document plus the call sequence
// ---------------------------------------------------------------------------

func TestConvert_Word(t *testing.T) {
	t.Parallel()

	conv := newTestConverter(t, &mockRunner{})
	res, err := conv.Convert(context.Background(), mark2doc.Input{
		Markup: sampleSource,
		Format: mark2doc.FormatWord,
	})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	if !strings.Contains(string(res.Artifact), "<w:wordDocument") {
		t.Error("artifact is not a WordprocessingML document")
	}
	if len(res.Ops) == 0 {
		t.Fatal("Ops empty for a doc run")
	}

	var sawTitle, sawBookmark bool
	for _, op := range res.Ops {
		if op.Kind == mark2doc.WordOpText && strings.Contains(op.Run.Text, "Progress Report") {
			sawTitle = true
		}
		if op.Kind == mark2doc.WordOpBookmark && op.Bookmark == "ov" {
			sawBookmark = true
		}
	}
	if !sawTitle {
		t.Error("no text op carries the document title")
	}
	if !sawBookmark {
		t.Error("no bookmark op for the section label")
	}
}

// ---------------------------------------------------------------------------
// TestConvert_FromFileWithInclusion - Includes reported in splice order
// ---------------------------------------------------------------------------

func TestConvert_FromFileWithInclusion(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "chapter.mrk"), "\\h2 Details\n\nfine print\n")
	writeFile(t, filepath.Join(dir, "report.mrk"),
		"\\title Report\n\n\\h1 Main\n\nbody\n\n\\insert chapter.mrk\n")

	conv := newTestConverter(t, &mockRunner{})
	res, err := conv.Convert(context.Background(), mark2doc.Input{
		SourcePath: filepath.Join(dir, "report.mrk"),
		Format:     mark2doc.FormatTeX,
	})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	if !strings.Contains(string(res.Artifact), "\\subsection{Details}") {
		t.Error("spliced section missing from artifact")
	}
	if len(res.Includes) != 1 || filepath.Base(res.Includes[0]) != "chapter.mrk" {
		t.Errorf("Includes = %q, want [chapter.mrk]", res.Includes)
	}
}

// ---------------------------------------------------------------------------
// TestConvert_FigureCaching - one tool call per asset, then cache hits
// ---------------------------------------------------------------------------

func TestConvert_FigureCaching(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "diagram.fig"), "#FIG 3.2\n")

	runner := &mockRunner{
		handle: func(_, name string, args []string) (string, string, error) {
			// fig2dev -L <lang> <source> <asset>
			if name == "fig2dev" {
				writeFile(nil, args[3], "%!PS-Adobe-3.0 EPSF-3.0\n%%BoundingBox: 0 0 120 80\n")
			}
			return "", "", nil
		},
	}
	conv := newTestConverter(t, runner)

	source := "\\title Figures\n\n\\h1 Art [art]\n\n\\insert diagram.fig System layout [sys]\n"
	input := mark2doc.Input{Markup: source, SourceDir: dir, Format: mark2doc.FormatTeX}

	res, err := conv.Convert(context.Background(), input)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if !strings.Contains(string(res.Artifact), "diagram.eps") {
		t.Error("artifact does not reference the converted asset")
	}
	if got := len(runner.callNames(t)); got != 1 {
		t.Fatalf("tool calls after first convert = %d, want 1", got)
	}

	// Second conversion finds the asset on disk and skips the tool.
	if _, err := conv.Convert(context.Background(), input); err != nil {
		t.Fatalf("second Convert() error = %v", err)
	}
	if got := len(runner.callNames(t)); got != 1 {
		t.Errorf("tool calls after second convert = %d, want still 1", got)
	}
}

// ---------------------------------------------------------------------------
// TestConvert_PDFTexEngine - latex twice, then dvipdfmx, then cleanup
// ---------------------------------------------------------------------------

func TestConvert_PDFTexEngine(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	runner := &mockRunner{
		handle: func(rundir, name string, _ []string) (string, string, error) {
			if name == "dvipdfmx" {
				writeFile(nil, filepath.Join(rundir, "mark2doc-build.pdf"), "%PDF-1.4 fake")
			}
			return "", "", nil
		},
	}
	conv := newTestConverter(t, runner)

	res, err := conv.Convert(context.Background(), mark2doc.Input{
		Markup:    sampleSource,
		SourceDir: dir,
		Format:    mark2doc.FormatPDF,
	})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	if want := []string{"latex", "latex", "dvipdfmx"}; !slices.Equal(runner.callNames(t), want) {
		t.Errorf("tool invocations = %v, want %v", runner.callNames(t), want)
	}
	if !strings.HasPrefix(string(res.Artifact), "%PDF") {
		t.Errorf("artifact = %q, want PDF bytes", res.Artifact)
	}
	if !strings.Contains(string(res.TeX), "\\end{document}") {
		t.Error("intermediate typeset source not reported")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("scratch files left behind: %v", entries)
	}
}

func TestConvert_PDFTexEngineToolFailure(t *testing.T) {
	t.Parallel()

	runner := &mockRunner{
		handle: func(_, name string, _ []string) (string, string, error) {
			if name == "latex" {
				return "", "! Undefined control sequence.", fmt.Errorf("exit status 1")
			}
			return "", "", nil
		},
	}
	conv := newTestConverter(t, runner)

	_, err := conv.Convert(context.Background(), mark2doc.Input{
		Markup:    sampleSource,
		SourceDir: t.TempDir(),
		Format:    mark2doc.FormatPDF,
	})
	if !errors.Is(err, mark2doc.ErrTypesetTool) {
		t.Fatalf("error = %v, want ErrTypesetTool", err)
	}
	if !strings.Contains(err.Error(), "Undefined control sequence") {
		t.Errorf("error %q does not carry the tool's stderr", err)
	}
}

func TestConvert_PDFNoOutput(t *testing.T) {
	t.Parallel()

	// Every tool "succeeds" but nothing ever writes the PDF.
	conv := newTestConverter(t, &mockRunner{})

	_, err := conv.Convert(context.Background(), mark2doc.Input{
		Markup:    sampleSource,
		SourceDir: t.TempDir(),
		Format:    mark2doc.FormatPDF,
	})
	if !errors.Is(err, mark2doc.ErrNoPDFOutput) {
		t.Fatalf("error = %v, want ErrNoPDFOutput", err)
	}
}

// ---------------------------------------------------------------------------
// TestConvert_InputErrors - validation before any work happens
// ---------------------------------------------------------------------------

func TestConvert_InputErrors(t *testing.T) {
	t.Parallel()

	conv := newTestConverter(t, &mockRunner{})

	tests := []struct {
		name    string
		input   mark2doc.Input
		wantErr error
	}{
		{"empty input", mark2doc.Input{Format: mark2doc.FormatTeX}, mark2doc.ErrEmptySource},
		{"bad format", mark2doc.Input{Markup: "x", Format: "odt"}, mark2doc.ErrUnknownFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := conv.Convert(context.Background(), tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Convert() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	t.Run("missing source file", func(t *testing.T) {
		_, err := conv.Convert(context.Background(), mark2doc.Input{
			SourcePath: filepath.Join(t.TempDir(), "absent.mrk"),
			Format:     mark2doc.FormatTeX,
		})
		if err == nil {
			t.Fatal("expected error for missing source file")
		}
	})
}

// ---------------------------------------------------------------------------
// TestNewConverter_UnknownHighlight
// ---------------------------------------------------------------------------

func TestNewConverter_UnknownHighlight(t *testing.T) {
	t.Parallel()

	_, err := mark2doc.NewConverter(mark2doc.WithHighlightStyle("no-such-style"))
	if !errors.Is(err, mark2doc.ErrUnknownHighlight) {
		t.Fatalf("NewConverter() error = %v, want ErrUnknownHighlight", err)
	}
}

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

func writeFile(t *testing.T, path, content string) {
	if t != nil {
		t.Helper()
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		if t != nil {
			t.Fatal(err)
		}
		panic(err)
	}
}
