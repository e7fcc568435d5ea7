// Package supervisor sequences startup of the managed services, monitors
// them while they run, and coordinates shutdown on signal or crash.
package supervisor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/axonlabs/axonctl/internal/config"
	"github.com/axonlabs/axonctl/internal/doctor"
	"github.com/axonlabs/axonctl/internal/frontend"
	"github.com/axonlabs/axonctl/internal/health"
	"github.com/axonlabs/axonctl/internal/ports"
	"github.com/axonlabs/axonctl/internal/proc"
)

// MonitorInterval is how often the monitoring loop checks liveness of the
// managed PIDs once all services are healthy.
const MonitorInterval = 2 * time.Second

// Event describes a service state change, for the monitor UI or plain
// console output.
type Event struct {
	Service string
	State   proc.State
	Message string
}

// Supervisor owns the mutable process state for one run. Everything it
// needs from the outside comes in through the immutable RunConfig.
type Supervisor struct {
	cfg     config.RunConfig
	variant config.FrontendVariant
	descs   []proc.ServiceDescriptor

	mu      sync.Mutex
	handles []*proc.Handle // in startup order

	// OnEvent, when set, receives every state transition. Must not block.
	OnEvent func(Event)

	// Startup budgets per service, defaulted from the health package. The
	// backend gets the longer budget because model loading is slow.
	BackendTimeout  time.Duration
	FrontendTimeout time.Duration
}

// New resolves the frontend variant and builds the service descriptors for
// this run. It fails when auto-detection finds no usable frontend.
func New(cfg config.RunConfig) (*Supervisor, error) {
	var variant config.FrontendVariant
	if !cfg.BackendOnly {
		v, err := frontend.Detect(cfg)
		if err != nil {
			return nil, err
		}
		variant = v
	}

	return &Supervisor{
		cfg:             cfg,
		variant:         variant,
		descs:           Descriptors(cfg, variant),
		BackendTimeout:  health.DefaultBackendTimeout,
		FrontendTimeout: health.DefaultFrontendTimeout,
	}, nil
}

// NewForInspection builds a supervisor for status, stop, and logs
// invocations, which act on persisted records rather than launching
// anything. It never fails: when no frontend variant can be detected it
// falls back to the static variant, which only affects command-line
// matching of recorded PIDs.
func NewForInspection(cfg config.RunConfig) *Supervisor {
	variant, err := frontend.Detect(cfg)
	if err != nil {
		variant = config.VariantHTML
	}
	return &Supervisor{
		cfg:             cfg,
		variant:         variant,
		descs:           Descriptors(cfg, variant),
		BackendTimeout:  health.DefaultBackendTimeout,
		FrontendTimeout: health.DefaultFrontendTimeout,
	}
}

// Variant returns the resolved frontend variant (empty for backend-only runs).
func (s *Supervisor) Variant() config.FrontendVariant {
	return s.variant
}

// Descriptors returns the services this supervisor manages, in startup order.
func (s *Supervisor) Descriptors() []proc.ServiceDescriptor {
	return s.descs
}

// Handles returns a snapshot of the current process handles.
func (s *Supervisor) Handles() []*proc.Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*proc.Handle, len(s.handles))
	copy(out, s.handles)
	return out
}

// Preflight runs every check that must pass before any process is spawned:
// environment diagnosis and port availability. Nothing is unwound on
// failure because nothing has been started yet.
func (s *Supervisor) Preflight() error {
	diagnosis := doctor.Diagnose(s.cfg)
	if err := diagnosis.Err(); err != nil {
		return err
	}

	for _, desc := range s.descs {
		if !ports.IsPortAvailable(desc.Host, desc.Port) {
			return fmt.Errorf("%w: %s %s — stop the existing process or run 'axonctl stop'",
				config.ErrPortConflict, desc.Name, ports.Describe(desc.Host, desc.Port))
		}
	}
	return nil
}

// Advisories surfaces the non-fatal preflight findings for display.
func (s *Supervisor) Advisories() []string {
	return doctor.Diagnose(s.cfg).Advisories
}

// StartAll launches the requested services in dependency order, waiting for
// each to become healthy before starting the next. On any failure it stops
// whatever was already started in this run and returns the cause.
//
// The backend goes first: the frontend's runtime configuration needs the
// resolved backend address. Under --frontend-only the backend is assumed to
// be running independently and the ordering step is skipped.
func (s *Supervisor) StartAll(ctx context.Context) error {
	for _, desc := range s.descs {
		if desc.Name == ServiceFrontend {
			// The dashboard reads this file on load to find the engine.
			if _, err := frontend.EmitRuntimeConfig(s.cfg, s.variant); err != nil {
				s.StopAll()
				return err
			}
		}

		timeout := s.FrontendTimeout
		if desc.Name == ServiceBackend {
			timeout = s.BackendTimeout
		}

		if err := s.startOne(ctx, desc, timeout); err != nil {
			s.StopAll()
			return err
		}
	}
	return nil
}

// startOne launches a single service, records its PID, and blocks until it
// is healthy or its startup budget is spent.
func (s *Supervisor) startOne(ctx context.Context, desc proc.ServiceDescriptor, timeout time.Duration) error {
	handle, err := proc.Launch(desc)
	if err != nil {
		return err
	}
	s.track(handle)
	s.emit(Event{Service: desc.Name, State: proc.StateStarting,
		Message: fmt.Sprintf("launched (pid %d), waiting for %s:%d", handle.PID, desc.Host, desc.Port)})

	if err := proc.WritePidFile(desc, handle.PID); err != nil {
		return err
	}

	// Reap the child as soon as it exits so liveness checks see the death
	// instead of a zombie.
	go handle.Cmd().Wait()

	if err := health.WaitUntilReady(ctx, desc, timeout); err != nil {
		s.setState(handle, proc.StateUnhealthy,
			fmt.Sprintf("not ready after %s, check %s", timeout, desc.LogFile))
		return err
	}

	msg := fmt.Sprintf("ready on %s:%d", desc.Host, desc.Port)
	if desc.Name == ServiceBackend && health.LivenessOK(desc.Host, desc.Port, "/health") {
		msg += " (liveness ok)"
	}
	s.setState(handle, proc.StateHealthy, msg)
	return nil
}

// Monitor is the long-lived control loop. It only runs once every requested
// service is healthy: a starting or unhealthy service never reaches here
// because its failure is handled synchronously on the startup path.
//
// The loop wakes on a fixed interval and checks that each tracked PID still
// exists. A healthy service found dead transitions to CrashedUnexpectedly
// and takes its siblings down with it — half of a two-tier system is not
// useful running alone. Context cancellation (the operator's interrupt) is
// one more transition input: it stops everything and returns nil.
func (s *Supervisor) Monitor(ctx context.Context) error {
	ticker := time.NewTicker(MonitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.StopAll()
			return nil
		case <-ticker.C:
			if crashed := s.findCrashed(); crashed != nil {
				s.setState(crashed, proc.StateCrashed,
					fmt.Sprintf("process %d died unexpectedly, check %s", crashed.PID, crashed.Desc.LogFile))
				s.StopAll()
				return fmt.Errorf("%w: %s (pid %d) exited — see %s",
					config.ErrProcessCrash, crashed.Desc.Name, crashed.PID, crashed.Desc.LogFile)
			}
		}
	}
}

// findCrashed returns the first healthy handle whose process is gone.
func (s *Supervisor) findCrashed() *proc.Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, h := range s.handles {
		if h.State == proc.StateHealthy && !proc.IsAlive(h.PID) {
			return h
		}
	}
	return nil
}

func (s *Supervisor) track(h *proc.Handle) {
	s.mu.Lock()
	s.handles = append(s.handles, h)
	s.mu.Unlock()
}

func (s *Supervisor) setState(h *proc.Handle, state proc.State, msg string) {
	s.mu.Lock()
	h.State = state
	s.mu.Unlock()
	s.emit(Event{Service: h.Desc.Name, State: state, Message: msg})
}

func (s *Supervisor) emit(e Event) {
	if s.OnEvent != nil {
		s.OnEvent(e)
	}
}
