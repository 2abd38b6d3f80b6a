package main

import (
	"strings"
	"testing"
)

func TestRun_Version(t *testing.T) {
	env, stdout, _ := testEnv()

	if code := run([]string{"version"}, env); code != ExitSuccess {
		t.Fatalf("exit code = %d, want %d", code, ExitSuccess)
	}
	if !strings.Contains(stdout.String(), "mark2doc") {
		t.Errorf("stdout = %q, want version line", stdout.String())
	}
}

func TestRun_NoArgs(t *testing.T) {
	env, _, stderr := testEnv()

	if code := run(nil, env); code != ExitUsage {
		t.Fatalf("exit code = %d, want %d", code, ExitUsage)
	}
	if !strings.Contains(stderr.String(), "Usage: mark2doc") {
		t.Errorf("stderr = %q, want usage", stderr.String())
	}
}

func TestRun_UnknownCommand(t *testing.T) {
	env, _, stderr := testEnv()

	if code := run([]string{"transmogrify"}, env); code != ExitUsage {
		t.Fatalf("exit code = %d, want %d", code, ExitUsage)
	}
	if !strings.Contains(stderr.String(), "Unknown command: transmogrify") {
		t.Errorf("stderr = %q, want unknown command message", stderr.String())
	}
}

func TestRun_Help(t *testing.T) {
	env, stdout, _ := testEnv()

	if code := run([]string{"help", "convert"}, env); code != ExitSuccess {
		t.Fatalf("exit code = %d, want %d", code, ExitSuccess)
	}
	out := stdout.String()
	for _, want := range []string{"convert <tex|pdf|htm|doc>", "--workers", "--engine"} {
		if !strings.Contains(out, want) {
			t.Errorf("help output missing %q", want)
		}
	}
}

func TestRun_ConvertUsageError(t *testing.T) {
	env, _, _ := testEnv()

	if code := run([]string{"convert"}, env); code != ExitIO && code != ExitUsage {
		t.Fatalf("exit code = %d, want usage or IO error", code)
	}
}
