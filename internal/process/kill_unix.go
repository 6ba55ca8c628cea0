//go:build !windows

package process

import "syscall"

// KillTree sends SIGKILL to the process group led by pid.
// Errors are ignored: the browser may already have exited.
func KillTree(pid int) {
	if pid <= 0 {
		return
	}
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
