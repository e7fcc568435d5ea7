//go:build windows

package proc

import (
	"os"
	"os/exec"
)

func setProcessGroup(cmd *exec.Cmd) {
	// Process groups are a Unix concept; on Windows we signal the child
	// directly.
}

// Terminate asks the process to exit. Windows has no SIGTERM equivalent for
// arbitrary processes, so this kills outright.
func Terminate(pid int) error {
	return Kill(pid)
}

// Kill forcibly terminates the process.
func Kill(pid int) error {
	p, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	return p.Kill()
}
