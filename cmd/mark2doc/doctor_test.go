package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func fakeProbes(toolsFound, chromeFound bool) *doctorProbes {
	return &doctorProbes{
		lookPath: func(name string) (string, error) {
			if !toolsFound {
				return "", errors.New("not found")
			}
			return "/usr/bin/" + name, nil
		},
		toolVersion: func(path, _ string) string { return "fake 1.0 (" + path + ")" },
		chromeLook: func() (string, bool) {
			if !chromeFound {
				return "", false
			}
			return "/usr/bin/chromium", true
		},
		chromeExists: func(string) bool { return chromeFound },
	}
}

func TestRunDoctor_AllFound(t *testing.T) {
	result := runDoctor("", fakeProbes(true, true))

	if len(result.Tools) != 3 {
		t.Fatalf("len(Tools) = %d, want 3 probes", len(result.Tools))
	}
	for _, tool := range result.Tools {
		if !tool.Found {
			t.Errorf("tool %s not found", tool.Name)
		}
	}
	if !result.Chrome.Found {
		t.Error("chrome not found")
	}
	if !result.System.TempWritable {
		t.Error("temp not writable")
	}
}

func TestRunDoctor_MissingTools(t *testing.T) {
	result := runDoctor("", fakeProbes(false, false))

	if result.Status == "ready" {
		t.Errorf("status = %q, want warnings for missing toolchain", result.Status)
	}
	if len(result.Warnings) == 0 {
		t.Fatal("expected warnings for missing tools")
	}
	var sawLatex bool
	for _, w := range result.Warnings {
		if strings.Contains(w, "latex") {
			sawLatex = true
		}
	}
	if !sawLatex {
		t.Errorf("warnings %v missing latex hint", result.Warnings)
	}
}

func TestRunDoctor_BadConfig(t *testing.T) {
	result := runDoctor("no-such-config", fakeProbes(true, true))

	if result.Status != "errors" {
		t.Errorf("status = %q, want errors for unloadable config", result.Status)
	}
}

func TestPrintDoctorResult(t *testing.T) {
	t.Parallel()

	result := &doctorResult{
		Status: "warnings",
		Tools: []toolInfo{
			{Name: "fig2dev", Found: true, Path: "/usr/bin/fig2dev", Version: "fig2dev 3.2.9"},
			{Name: "latex", Found: false},
		},
		Chrome:   chromeInfo{Found: true, Path: "/usr/bin/chromium", Sandbox: true},
		System:   systemInfo{TempWritable: true},
		Warnings: []string{"latex not found"},
	}

	var buf bytes.Buffer
	printDoctorResult(&buf, result)
	out := buf.String()

	for _, want := range []string{
		"[OK] fig2dev: /usr/bin/fig2dev (fig2dev 3.2.9)",
		"[WARN] latex: not found",
		"[OK] Found at /usr/bin/chromium",
		"[OK] Temp directory: writable",
		"[WARN] latex not found",
		"Status: Ready with warnings",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
}

func TestRunDoctorCmd_JSON(t *testing.T) {
	env, stdout, _ := testEnv()

	if code := runDoctorCmd([]string{"--json"}, env); code != ExitSuccess && code != ExitGeneral {
		t.Fatalf("exit code = %d", code)
	}

	var result doctorResult
	if err := json.Unmarshal(stdout.Bytes(), &result); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, stdout.String())
	}
	if result.Status == "" {
		t.Error("JSON output missing status")
	}
}
