//go:build !windows

// Package process provides OS-level process cleanup helpers.
package process

import "syscall"

// KillProcessGroup sends SIGKILL to the process group (negative PID),
// terminating the process and any children it spawned.
func KillProcessGroup(pid int) {
	// Best-effort; the caller has its own fallback kill path
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
