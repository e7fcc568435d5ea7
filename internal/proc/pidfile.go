package proc

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

// WritePidFile records a launched PID in the descriptor's PID file,
// overwriting any prior content. The file holds a single decimal PID so a
// later axonctl invocation can find the process again.
func WritePidFile(desc ServiceDescriptor, pid int) error {
	if err := os.MkdirAll(filepath.Dir(desc.PidFile), 0o755); err != nil {
		return fmt.Errorf("creating runtime directory: %w", err)
	}
	return os.WriteFile(desc.PidFile, []byte(strconv.Itoa(pid)+"\n"), 0o644)
}

// ReadPidFile returns the recorded PID for a service, or 0 with
// os.ErrNotExist when no record is present.
func ReadPidFile(desc ServiceDescriptor) (int, error) {
	data, err := os.ReadFile(desc.PidFile)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("corrupt PID file %s: %w", desc.PidFile, err)
	}
	return pid, nil
}

// ClearPidFile deletes the descriptor's PID file. Clearing an absent record
// is a no-op.
func ClearPidFile(desc ServiceDescriptor) error {
	err := os.Remove(desc.PidFile)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

// IsAlive reports whether a process with the given identifier currently
// exists. This is a point query, not a guarantee the process is the same
// logical service — see MatchesCommand for the stronger check.
func IsAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	exists, err := process.PidExists(int32(pid))
	return err == nil && exists
}

// MatchesCommand checks whether the process at pid still looks like the
// service described by desc, by comparing its command line against the
// launch command. This guards stop and status against the OS recycling a
// recorded PID for an unrelated process.
//
// The launcher wraps commands in "sh -c", and some shells exec-replace
// themselves for a single command, so both the full command line and its
// leading executable are accepted as a match. When the command line cannot
// be read at all (permissions, procfs quirks) the check degrades to the
// plain liveness answer rather than reporting a live service as dead.
func MatchesCommand(pid int, desc ServiceDescriptor) bool {
	if !IsAlive(pid) {
		return false
	}
	p, err := process.NewProcess(int32(pid))
	if err != nil {
		return false
	}
	cmdline, err := p.Cmdline()
	if err != nil || cmdline == "" {
		return true
	}
	if strings.Contains(cmdline, desc.Command) {
		return true
	}
	fields := strings.Fields(desc.Command)
	return len(fields) > 0 && strings.Contains(cmdline, fields[0])
}

// Uptime returns how long the process at pid has been running, using the
// creation time reported by the OS. Returns 0 when unavailable.
func Uptime(pid int) time.Duration {
	p, err := process.NewProcess(int32(pid))
	if err != nil {
		return 0
	}
	createMs, err := p.CreateTime()
	if err != nil {
		return 0
	}
	return time.Since(time.UnixMilli(createMs))
}
