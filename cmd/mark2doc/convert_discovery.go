package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	mark2doc "github.com/alnah/go-mark2doc"
	"github.com/alnah/go-mark2doc/internal/fileutil"
	"github.com/alnah/go-mark2doc/internal/markup"
)

// mark2docExt is the markup source extension discovery filters on.
const mark2docExt = markup.Ext

// FileToConvert represents a single source to process.
type FileToConvert struct {
	InputPath  string
	OutputPath string
}

// discoverSources expands the positional inputs into concrete source
// files. A directory contributes every markup file below it, mirroring
// its relative layout under outputDir.
func discoverSources(inputs []string, outputDir string, format mark2doc.Format) ([]FileToConvert, error) {
	var files []FileToConvert
	for _, input := range inputs {
		found, err := discoverOne(input, outputDir, format)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}
	return files, nil
}

func discoverOne(input, outputDir string, format mark2doc.Format) ([]FileToConvert, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadSource, err)
	}

	if !info.IsDir() {
		if filepath.Ext(input) != mark2docExt {
			return nil, fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(input))
		}
		return []FileToConvert{{
			InputPath:  input,
			OutputPath: resolveOutputPath(input, outputDir, "", format),
		}}, nil
	}

	var files []FileToConvert
	err = filepath.WalkDir(input, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() || filepath.Ext(path) != mark2docExt {
			return nil
		}
		files = append(files, FileToConvert{
			InputPath:  path,
			OutputPath: resolveOutputPath(path, outputDir, input, format),
		})
		return nil
	})
	return files, err
}

// resolveOutputPath determines the artifact path for a source file:
// the source path with the format's extension, moved under outputDir
// when one is set (preserving the layout relative to baseInputDir).
func resolveOutputPath(inputPath, outputDir, baseInputDir string, format mark2doc.Format) string {
	artifact := fileutil.ReplaceExt(filepath.Base(inputPath), format.Ext())

	if outputDir == "" {
		return filepath.Join(filepath.Dir(inputPath), artifact)
	}

	if baseInputDir != "" {
		if rel, err := filepath.Rel(baseInputDir, inputPath); err == nil {
			return filepath.Join(outputDir, filepath.Dir(rel), artifact)
		}
	}

	return filepath.Join(outputDir, artifact)
}
