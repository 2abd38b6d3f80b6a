//go:build windows

// Package process provides OS-level process cleanup helpers.
package process

import (
	"os/exec"
	"strconv"
)

// KillProcessGroup terminates the process tree rooted at pid using
// taskkill (/F force, /T include children).
func KillProcessGroup(pid int) {
	// Best-effort; the caller has its own fallback kill path
	_ = exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run()
}
