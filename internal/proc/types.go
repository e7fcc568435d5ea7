package proc

import (
	"os/exec"
	"time"
)

// State tracks where a managed service is in its lifecycle.
type State string

const (
	StateStarting  State = "Starting"
	StateHealthy   State = "Healthy"
	StateUnhealthy State = "Unhealthy"
	StateStopped   State = "Stopped"
	StateCrashed   State = "CrashedUnexpectedly"
)

// ServiceDescriptor describes how to launch and track one managed service.
// It is immutable once constructed from the run configuration.
type ServiceDescriptor struct {
	Name    string // "backend" or "frontend"
	Command string // shell command line
	Dir     string // working directory
	Host    string
	Port    int
	PidFile string
	LogFile string
}

// Handle is the in-memory record of a launched service. It is owned by the
// supervisor for the lifetime of a run; the PID file is its durable mirror.
type Handle struct {
	Desc      ServiceDescriptor
	PID       int
	StartedAt time.Time
	State     State

	cmd *exec.Cmd
}

// Cmd exposes the underlying command, mainly so the supervisor can reap the
// child after it exits. Nil for handles reconstructed from a PID file.
func (h *Handle) Cmd() *exec.Cmd {
	return h.cmd
}
