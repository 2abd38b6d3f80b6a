package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	mark2doc "github.com/alnah/go-mark2doc"
)

// defaultDebounce is the quiet period before a rebuild when neither the
// flag nor the config sets one.
const defaultDebounce = 300 * time.Millisecond

// runWatchCmd rebuilds a single document whenever its source or any of
// its inclusions change.
func runWatchCmd(args []string, env *Environment) int {
	flags, positional, err := parseWatchFlags(args, env.Stderr)
	if err != nil {
		return ExitUsage
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	if err := runWatch(ctx, positional, flags, env); err != nil {
		fmt.Fprintf(env.Stderr, "Error: %v%s\n", err, hintFor(err))
		return exitCodeFor(err)
	}
	return ExitSuccess
}

func runWatch(ctx context.Context, positional []string, flags *watchFlags, env *Environment) error {
	format, inputs, err := splitFormatArgs(positional)
	if err != nil {
		return err
	}
	if len(inputs) != 1 {
		return fmt.Errorf("%w: watch takes exactly one source file", ErrNoInput)
	}
	source := inputs[0]
	if filepath.Ext(source) != mark2docExt {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(source))
	}

	cfg, err := loadMergedConfig(&flags.convert, env)
	if err != nil {
		return err
	}

	debounce := defaultDebounce
	if flags.debounce != "" {
		cfg.Watch.Debounce = flags.debounce
	}
	if cfg.Watch.Debounce != "" {
		d, err := time.ParseDuration(cfg.Watch.Debounce)
		if err != nil || d <= 0 {
			return fmt.Errorf("invalid debounce %q: %v", cfg.Watch.Debounce, err)
		}
		debounce = d
	}

	opts, err := buildOptions(cfg)
	if err != nil {
		return err
	}
	conv, err := mark2doc.NewConverter(opts...)
	if err != nil {
		return err
	}
	defer conv.Close()

	outputDir := flags.convert.outputDir
	if outputDir == "" {
		outputDir = cfg.Output.DefaultDir
	}
	target := FileToConvert{
		InputPath:  source,
		OutputPath: resolveOutputPath(source, outputDir, "", format),
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	rebuild := func() []string {
		result := convertFile(ctx, conv, target, format, flags.convert.keepTex)
		if result.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v%s\n", result.InputPath, result.Err, hintFor(result.Err))
			return nil
		}
		if !flags.convert.common.quiet {
			fmt.Fprintf(env.Stdout, "Created %s (%v)\n", result.OutputPath, result.Duration.Round(time.Millisecond))
		}
		return result.Includes
	}

	includes := rebuild()
	if err := watchPaths(watcher, source, includes); err != nil {
		return err
	}
	if !flags.convert.common.quiet {
		fmt.Fprintf(env.Stdout, "Watching %s (Ctrl-C to stop)\n", source)
	}

	// Editors save through rename/replace cycles, so directories are
	// watched and events filtered by path. The timer coalesces bursts.
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	watched := watchSet(source, includes)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !watched[filepath.Clean(event.Name)] {
				continue
			}
			timer.Reset(debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(env.Stderr, "Watch error: %v\n", err)
		case <-timer.C:
			includes = rebuild()
			if err := watchPaths(watcher, source, includes); err != nil {
				return err
			}
			watched = watchSet(source, includes)
		}
	}
}

// watchPaths points the watcher at the directories holding the source and
// every inclusion. Re-adding an already-watched directory is a no-op.
func watchPaths(watcher *fsnotify.Watcher, source string, includes []string) error {
	dirs := map[string]bool{filepath.Dir(source): true}
	for _, inc := range includes {
		dirs[filepath.Dir(inc)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}
	return nil
}

// watchSet is the cleaned set of files whose events trigger a rebuild.
func watchSet(source string, includes []string) map[string]bool {
	set := map[string]bool{filepath.Clean(source): true}
	for _, inc := range includes {
		set[filepath.Clean(inc)] = true
	}
	return set
}
