package markup

// Notes:
// - Header accumulation from directive chunks, doctype from title bracket
// - Bracket tag splitting shared by title/heading/insert parsing

import (
	"errors"
	"testing"
)

// ---------------------------------------------------------------------------
// TestHeader_FromDirectives - title, doctype, author, date
// ---------------------------------------------------------------------------

func TestHeader_FromDirectives(t *testing.T) {
	t.Parallel()

	doc, err := Assemble("\\title Report [memo]\n\\author Jane Doe", ".")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Header == nil {
		t.Fatal("Header = nil, want populated")
	}
	if doc.Header.Title != "Report" {
		t.Errorf("Title = %q, want %q", doc.Header.Title, "Report")
	}
	if doc.Header.Doctype != "memo" {
		t.Errorf("Doctype = %q, want %q", doc.Header.Doctype, "memo")
	}
	if doc.Header.Author != "Jane Doe" {
		t.Errorf("Author = %q, want %q", doc.Header.Author, "Jane Doe")
	}
}

func TestHeader_Directives(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		source string
		want   Header
	}{
		{
			name:   "company is an author alias",
			source: "\\title X\n\\company Acme Corp",
			want:   Header{Title: "X", Author: "Acme Corp"},
		},
		{
			name:   "date directive",
			source: "\\title X\n\\date 2026-08-01",
			want:   Header{Title: "X", Date: "2026-08-01"},
		},
		{
			name:   "title without doctype",
			source: `\title Plain Title`,
			want:   Header{Title: "Plain Title"},
		},
		{
			name:   "later directive wins",
			source: "\\author First\n\n\\author Second",
			want:   Header{Author: "Second"},
		},
		{
			name:   "bracketed text mid-title stays",
			source: `\title Notes [draft] on things`,
			want:   Header{Title: "Notes [draft] on things"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc, err := Assemble(tt.source, ".")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if doc.Header == nil {
				t.Fatal("Header = nil, want populated")
			}
			if *doc.Header != tt.want {
				t.Errorf("Header = %+v, want %+v", *doc.Header, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestHeader_InvalidLine - a bad line inside a header chunk is fatal
// ---------------------------------------------------------------------------

func TestHeader_InvalidLine(t *testing.T) {
	t.Parallel()

	_, err := Assemble("\\title Report\n\\author", ".")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, ErrHeaderLine) {
		t.Errorf("error = %v, want %v", err, ErrHeaderLine)
	}
}

// ---------------------------------------------------------------------------
// TestSplitBracketTag
// ---------------------------------------------------------------------------

func TestSplitBracketTag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		in       string
		wantText string
		wantTag  string
	}{
		{name: "trailing tag", in: "Report [memo]", wantText: "Report", wantTag: "memo"},
		{name: "no tag", in: "Report", wantText: "Report", wantTag: ""},
		{name: "empty tag ignored", in: "Report []", wantText: "Report []", wantTag: ""},
		{name: "multi word text", in: "A longer title [ref2]", wantText: "A longer title", wantTag: "ref2"},
		{name: "bracket not at end", in: "Report [x] more", wantText: "Report [x] more", wantTag: ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			text, tag := splitBracketTag(tt.in)
			if text != tt.wantText {
				t.Errorf("text = %q, want %q", text, tt.wantText)
			}
			if tag != tt.wantTag {
				t.Errorf("tag = %q, want %q", tag, tt.wantTag)
			}
		})
	}
}
