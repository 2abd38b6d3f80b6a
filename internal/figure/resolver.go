// Package figure converts vector figure sources (.fig) into the raster and
// print assets the renderers embed: EPS for typeset output, PNG for
// hypertext and word output.
//
// Conversion is cached by existence: an asset that is already on disk is
// used as-is, without content hashing. A per-asset lock keeps the
// check-then-convert pair atomic, so concurrent renders of the same
// document convert each asset at most once.
package figure

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
)

// Sentinel errors for figure resolution.
var (
	ErrMissingSource = errors.New("figure: source file not found")
	ErrExternalTool  = errors.New("figure: conversion tool failed")
	ErrToolNotFound  = errors.New("figure: conversion tool not found")
	ErrNoOutput      = errors.New("figure: conversion produced no output")
)

// DefaultWidthThreshold is the bounding-box width in points above which an
// EPS figure is rendered at full text width.
const DefaultWidthThreshold = 400.0

// DefaultTool is the fig2dev binary name.
const DefaultTool = "fig2dev"

// Runner abstracts external command execution so tests run without the
// real conversion tool. dir is the working directory ("" = inherit).
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) (stdout, stderr string, err error)
}

// Resolver converts .fig sources on demand. The zero value is not usable;
// create with NewResolver.
type Resolver struct {
	tool      string
	threshold float64
	runner    Runner

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewResolver creates a Resolver. Empty tool, zero threshold, and nil
// runner fall back to the defaults.
func NewResolver(tool string, threshold float64, runner Runner) *Resolver {
	if tool == "" {
		tool = DefaultTool
	}
	if threshold <= 0 {
		threshold = DefaultWidthThreshold
	}
	if runner == nil {
		runner = &ExecRunner{}
	}
	return &Resolver{
		tool:      tool,
		threshold: threshold,
		runner:    runner,
		locks:     map[string]*sync.Mutex{},
	}
}

// EPS resolves the print asset for source and reports whether the figure
// should be scaled to full text width, decided from the EPS bounding box.
func (r *Resolver) EPS(ctx context.Context, source string) (string, bool, error) {
	path, err := r.resolve(ctx, source, "eps")
	if err != nil {
		return "", false, err
	}
	wide, err := r.fullWidth(path)
	if err != nil {
		return "", false, err
	}
	return path, wide, nil
}

// PNG resolves the raster asset for source. PNG assets carry no layout
// metadata.
func (r *Resolver) PNG(ctx context.Context, source string) (string, error) {
	return r.resolve(ctx, source, "png")
}

// resolve converts source to the lang asset beside it unless the asset
// already exists. The existence check and the conversion run under the
// asset's lock as one unit.
func (r *Resolver) resolve(ctx context.Context, source, lang string) (string, error) {
	asset := strings.TrimSuffix(source, filepath.Ext(source)) + "." + lang

	lock := r.assetLock(asset)
	lock.Lock()
	defer lock.Unlock()

	if fileExists(asset) {
		return asset, nil
	}
	if !fileExists(source) {
		return "", fmt.Errorf("%w: %q", ErrMissingSource, source)
	}

	_, stderr, err := r.runner.Run(ctx, "", r.tool, "-L", lang, source, asset)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", fmt.Errorf("%w: %q", ErrToolNotFound, r.tool)
		}
		return "", fmt.Errorf("%w: %s %q: %v: %s", ErrExternalTool, r.tool, source, err, strings.TrimSpace(stderr))
	}
	if !fileExists(asset) {
		return "", fmt.Errorf("%w: %s %q", ErrNoOutput, r.tool, source)
	}
	return asset, nil
}

func (r *Resolver) assetLock(asset string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	lock, ok := r.locks[asset]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[asset] = lock
	}
	return lock
}

// fullWidth reads the %%BoundingBox comment and compares its width in
// points against the threshold.
func (r *Resolver) fullWidth(epsPath string) (bool, error) {
	w, err := boundingBoxWidth(epsPath)
	if err != nil {
		return false, err
	}
	return w > r.threshold, nil
}

// boundingBoxWidth parses the DSC bounding box of an EPS file and returns
// its width. A file without the comment reports zero width.
func boundingBoxWidth(epsPath string) (float64, error) {
	f, err := os.Open(epsPath) // #nosec G304 -- asset path derived from user source
	if err != nil {
		return 0, fmt.Errorf("reading %q: %w", epsPath, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "%%BoundingBox:") {
			continue
		}
		var x1, y1, x2, y2 float64
		rest := strings.TrimSpace(strings.TrimPrefix(line, "%%BoundingBox:"))
		if _, err := fmt.Sscanf(rest, "%f %f %f %f", &x1, &y1, &x2, &y2); err != nil {
			return 0, fmt.Errorf("%w: malformed bounding box in %q: %q", ErrExternalTool, epsPath, line)
		}
		return x2 - x1, nil
	}
	return 0, scanner.Err()
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
