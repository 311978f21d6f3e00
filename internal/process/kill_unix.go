//go:build !windows

// Package process terminates the headless browser used for diagrams.
package process

import "syscall"

// KillProcessGroup kills the browser and the renderer processes it spawned
// by sending SIGKILL to the process group (negative PID). Non-positive
// PIDs are ignored: -0 would target our own group.
func KillProcessGroup(pid int) {
	if pid <= 0 {
		return
	}
	// Best-effort; the launcher's own Kill runs afterwards.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
