package supervisor

import (
	"context"
	"fmt"
	"time"

	"github.com/axonlabs/axonctl/internal/health"
	"github.com/axonlabs/axonctl/internal/proc"
)

const (
	// GracePeriod is how long a service gets to exit after the graceful
	// termination request before it is killed outright.
	GracePeriod = 10 * time.Second

	// gracePollInterval is how often liveness is rechecked while waiting.
	gracePollInterval = 1 * time.Second
)

// StopAll stops every tracked service in reverse startup order: frontend
// before backend, so the dashboard never finds the engine already gone
// during its own shutdown. Stopping is idempotent; calling StopAll twice,
// or with nothing running, is a no-op.
func (s *Supervisor) StopAll() {
	handles := s.Handles()
	for i := len(handles) - 1; i >= 0; i-- {
		s.stopHandle(handles[i])
	}
}

// stopPid is swappable so the failure path can be exercised without an
// unkillable process.
var stopPid = StopPid

// stopHandle gracefully stops one tracked service, escalating to a forced
// kill after the grace period. The PID file is cleared regardless of how
// the process went down. When even the kill fails, the failure is surfaced
// and the handle keeps its state and record: a process we could not stop
// must not be reported as stopped.
func (s *Supervisor) stopHandle(h *proc.Handle) {
	s.mu.Lock()
	state := h.State
	s.mu.Unlock()

	if state == proc.StateStopped {
		return
	}

	if proc.IsAlive(h.PID) {
		forced, err := stopPid(h.PID)
		if err != nil {
			s.emit(Event{Service: h.Desc.Name, State: state,
				Message: fmt.Sprintf("failed to stop pid %d: %v", h.PID, err)})
			return
		}
		if forced {
			s.emit(Event{Service: h.Desc.Name, State: proc.StateStopped,
				Message: fmt.Sprintf("pid %d did not exit within %s, killed", h.PID, GracePeriod)})
		}
	}

	proc.ClearPidFile(h.Desc)

	// A crash keeps its terminal state; everything else becomes Stopped.
	if state != proc.StateCrashed {
		s.setState(h, proc.StateStopped, "stopped")
	}
}

// StopPid sends a graceful termination request to pid, waits up to the
// grace period for it to exit, then kills it. Returns whether force was
// required. Shared by the in-run shutdown path and the standalone stop
// command.
func StopPid(pid int) (forced bool, err error) {
	if err := proc.Terminate(pid); err != nil {
		// The process may have exited between the liveness check and the
		// signal; treat that as already stopped.
		if !proc.IsAlive(pid) {
			return false, nil
		}
		return false, err
	}

	exited := health.WaitFor(context.Background(), func() bool {
		return !proc.IsAlive(pid)
	}, GracePeriod, gracePollInterval)
	if exited {
		return false, nil
	}

	if err := proc.Kill(pid); err != nil && proc.IsAlive(pid) {
		return true, fmt.Errorf("failed to kill pid %d: %w", pid, err)
	}
	return true, nil
}

// StopRecorded stops a service from its persisted PID record, for a stop
// invocation that did not launch the process itself. It detects stale
// records (dead PID, or a recycled PID now belonging to an unrelated
// process) and clears them without signalling anything.
//
// The returned Result says what actually happened so the CLI can report it.
func StopRecorded(desc proc.ServiceDescriptor) (Result, error) {
	pid, err := proc.ReadPidFile(desc)
	if err != nil {
		// No record at all: stopping a never-started service is a no-op.
		return Result{Outcome: OutcomeNotRunning}, nil
	}

	if !proc.IsAlive(pid) || !proc.MatchesCommand(pid, desc) {
		proc.ClearPidFile(desc)
		return Result{Outcome: OutcomeStale, PID: pid}, nil
	}

	forced, err := StopPid(pid)
	if err != nil {
		return Result{Outcome: OutcomeError, PID: pid}, err
	}
	proc.ClearPidFile(desc)

	outcome := OutcomeStopped
	if forced {
		outcome = OutcomeKilled
	}
	return Result{Outcome: outcome, PID: pid}, nil
}

// Outcome classifies what a stop operation actually did.
type Outcome int

const (
	OutcomeNotRunning Outcome = iota // no PID record existed
	OutcomeStale                     // record existed but the process was already gone
	OutcomeStopped                   // exited after the graceful request
	OutcomeKilled                    // required a forced kill
	OutcomeError                     // could not be stopped
)

// Result reports the outcome of stopping one recorded service.
type Result struct {
	Outcome Outcome
	PID     int
}
