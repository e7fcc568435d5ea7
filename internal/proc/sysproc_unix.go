//go:build !windows

package proc

import (
	"os/exec"
	"syscall"
)

// setProcessGroup puts the child into its own process group so that the
// shell wrapper and everything it spawns can be signalled together.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// Terminate sends SIGTERM to the process group of pid, falling back to the
// single process when the group signal fails.
func Terminate(pid int) error {
	if err := syscall.Kill(-pid, syscall.SIGTERM); err == nil {
		return nil
	}
	return syscall.Kill(pid, syscall.SIGTERM)
}

// Kill forcibly terminates the process group of pid.
func Kill(pid int) error {
	if err := syscall.Kill(-pid, syscall.SIGKILL); err == nil {
		return nil
	}
	return syscall.Kill(pid, syscall.SIGKILL)
}
