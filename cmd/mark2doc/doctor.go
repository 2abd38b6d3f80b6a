package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/go-rod/rod/lib/launcher"

	"github.com/alnah/go-mark2doc/internal/config"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string     `json:"status"` // "ready", "warnings", "errors"
	Tools    []toolInfo `json:"tools"`
	Chrome   chromeInfo `json:"chrome"`
	Env      envInfo    `json:"environment"`
	System   systemInfo `json:"system"`
	Warnings []string   `json:"warnings,omitempty"`
	Errors   []string   `json:"errors,omitempty"`
}

// toolInfo holds one external tool probe result.
type toolInfo struct {
	Name    string `json:"name"`
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
}

// chromeInfo holds Chrome/Chromium detection results.
type chromeInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Sandbox bool   `json:"sandbox"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	NoSandbox     string `json:"rod_no_sandbox"`
	BrowserBin    string `json:"rod_browser_bin"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
}

// doctorProbes holds the probe functions, injectable for tests.
type doctorProbes struct {
	lookPath     func(string) (string, error)
	toolVersion  func(path string, arg string) string
	chromeLook   func() (string, bool)
	chromeExists func(string) bool
}

func defaultProbes() *doctorProbes {
	return &doctorProbes{
		lookPath: exec.LookPath,
		toolVersion: func(path, arg string) string {
			out, err := exec.Command(path, arg).CombinedOutput() // #nosec G204 -- probing a user-configured tool
			if err != nil {
				return ""
			}
			line, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
			return line
		},
		chromeLook: launcher.LookPath,
		chromeExists: func(path string) bool {
			_, err := os.Stat(path)
			return err == nil
		},
	}
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runDoctorCmd(args []string, env *Environment) int {
	jsonOutput := false
	configName := ""
	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "--json":
			jsonOutput = true
		case args[i] == "--config" || args[i] == "-c":
			if i+1 < len(args) {
				i++
				configName = args[i]
			}
		}
	}

	result := runDoctor(configName, defaultProbes())

	if jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(configName string, probes *doctorProbes) *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			NoSandbox:  os.Getenv("ROD_NO_SANDBOX"),
			BrowserBin: os.Getenv("ROD_BROWSER_BIN"),
		},
	}

	cfg := config.DefaultConfig()
	if configName != "" {
		loaded, err := config.LoadConfig(configName)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Config: %v", err))
		} else {
			cfg = loaded
		}
	}

	checkTools(result, cfg, probes)
	checkChrome(result, cfg, probes)
	checkEnvironment(result)
	checkSystem(result)

	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}

	return result
}

// checkTools probes the typeset toolchain. fig2dev missing is an error
// only when a document uses figures, so it lands in warnings; the tex
// engine tools warn too since the chrome engine can serve PDF instead.
func checkTools(result *doctorResult, cfg *config.Config, probes *doctorProbes) {
	tools := []struct {
		name       string
		binary     string
		versionArg string
	}{
		{"fig2dev", cfg.Tools.Fig2dev, "-V"},
		{"latex", cfg.Tools.Latex, "--version"},
		{"dvipdfmx", cfg.Tools.Dvipdfmx, "--version"},
	}

	for _, tool := range tools {
		info := toolInfo{Name: tool.name}
		path, err := probes.lookPath(tool.binary)
		if err == nil {
			info.Found = true
			info.Path = path
			info.Version = probes.toolVersion(path, tool.versionArg)
		} else {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%s not found (%q); figure conversion or the tex PDF engine will fail", tool.name, tool.binary))
		}
		result.Tools = append(result.Tools, info)
	}
}

// checkChrome detects the browser for the chrome PDF engine.
func checkChrome(result *doctorResult, _ *config.Config, probes *doctorProbes) {
	chromePath := result.Env.BrowserBin

	if chromePath == "" {
		var found bool
		chromePath, found = probes.chromeLook()
		if !found {
			result.Warnings = append(result.Warnings,
				"Chrome/Chromium not found; the chrome PDF engine is unavailable (set ROD_BROWSER_BIN)")
			return
		}
	}

	if !probes.chromeExists(chromePath) {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Chrome not found at %s", chromePath))
		return
	}

	result.Chrome.Found = true
	result.Chrome.Path = chromePath
	result.Chrome.Version = probes.toolVersion(chromePath, "--version")
	result.Chrome.Sandbox = result.Env.NoSandbox != "1"
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult) {
	result.Env.Container, result.Env.ContainerHint = isContainer()

	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}

	if (result.Env.Container || result.Env.CI) && result.Env.NoSandbox != "1" && result.Chrome.Found {
		result.Warnings = append(result.Warnings,
			"Container/CI detected but ROD_NO_SANDBOX not set. Set ROD_NO_SANDBOX=1 for the chrome engine")
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer() (bool, string) {
	if os.Getenv("MARK2DOC_CONTAINER") == "1" {
		return true, "MARK2DOC_CONTAINER=1"
	}
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true, "/.dockerenv"
	}
	if v := os.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies system requirements.
func checkSystem(result *doctorResult) {
	tmpDir := os.TempDir()
	testFile := filepath.Join(tmpDir, "mark2doc-doctor-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o600); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", tmpDir))
	} else {
		_ = os.Remove(testFile)
		result.System.TempWritable = true
	}
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "mark2doc doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Toolchain")
	for _, tool := range r.Tools {
		if tool.Found {
			if tool.Version != "" {
				fmt.Fprintf(w, "  [OK] %s: %s (%s)\n", tool.Name, tool.Path, tool.Version)
			} else {
				fmt.Fprintf(w, "  [OK] %s: %s\n", tool.Name, tool.Path)
			}
		} else {
			fmt.Fprintf(w, "  [WARN] %s: not found\n", tool.Name)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Chrome/Chromium")
	if r.Chrome.Found {
		fmt.Fprintf(w, "  [OK] Found at %s\n", r.Chrome.Path)
		if r.Chrome.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Chrome.Version)
		}
		if r.Chrome.Sandbox {
			fmt.Fprintln(w, "  [OK] Sandbox: enabled")
		} else {
			fmt.Fprintln(w, "  [OK] Sandbox: disabled (ROD_NO_SANDBOX=1)")
		}
	} else {
		fmt.Fprintln(w, "  [WARN] Not found")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready to convert")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
