package proc

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"
)

// Launch starts the descriptor's command in its working directory with
// stdout and stderr redirected to its log file. It returns a handle in state
// Starting without waiting for the service to become ready; readiness is the
// health verifier's job.
//
// The log file is truncated on each fresh launch. The child runs in its own
// process group so a terminal interrupt reaches the supervisor, not the
// children — shutdown is always coordinated explicitly.
func Launch(desc ServiceDescriptor) (*Handle, error) {
	if err := os.MkdirAll(filepath.Dir(desc.LogFile), 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}

	logFile, err := os.Create(desc.LogFile)
	if err != nil {
		return nil, fmt.Errorf("creating log file %s: %w", desc.LogFile, err)
	}

	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.Command("cmd", "/C", desc.Command)
	} else {
		cmd = exec.Command("sh", "-c", desc.Command)
	}
	cmd.Dir = desc.Dir
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	cmd.Env = os.Environ()
	setProcessGroup(cmd)

	if err := cmd.Start(); err != nil {
		logFile.Close()
		return nil, fmt.Errorf("starting %s: %w", desc.Name, err)
	}

	// The child holds its own copy of the log file descriptor now.
	logFile.Close()

	return &Handle{
		Desc:      desc,
		PID:       cmd.Process.Pid,
		StartedAt: time.Now(),
		State:     StateStarting,
		cmd:       cmd,
	}, nil
}
