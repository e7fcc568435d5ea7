package supervisor

import (
	"time"

	"github.com/axonlabs/axonctl/internal/proc"
)

// ServiceStatus is what `axonctl status` reports for one service, derived
// entirely from the persisted PID record and a liveness probe.
type ServiceStatus struct {
	Name    string
	Running bool
	Stale   bool // a PID record exists but no matching process does
	PID     int
	Port    int
	Uptime  time.Duration
}

// Status inspects the persisted state of every managed service. A recorded
// PID only counts as running when a live process with a matching command
// line exists — a recycled PID is reported as stale, not running.
func (s *Supervisor) Status() []ServiceStatus {
	var statuses []ServiceStatus
	for _, desc := range s.descs {
		statuses = append(statuses, statusOf(desc))
	}
	return statuses
}

func statusOf(desc proc.ServiceDescriptor) ServiceStatus {
	status := ServiceStatus{Name: desc.Name, Port: desc.Port}

	pid, err := proc.ReadPidFile(desc)
	if err != nil {
		return status
	}
	status.PID = pid

	if proc.IsAlive(pid) && proc.MatchesCommand(pid, desc) {
		status.Running = true
		status.Uptime = proc.Uptime(pid)
	} else {
		status.Stale = true
	}
	return status
}
