package supervisor

import (
	"fmt"
	"path/filepath"

	"github.com/axonlabs/axonctl/internal/config"
	"github.com/axonlabs/axonctl/internal/frontend"
	"github.com/axonlabs/axonctl/internal/proc"
)

// Service names. Startup order is backend then frontend; shutdown is the
// exact reverse.
const (
	ServiceBackend  = "backend"
	ServiceFrontend = "frontend"
)

// BackendDescriptor builds the launch descriptor for the engine.
func BackendDescriptor(cfg config.RunConfig) proc.ServiceDescriptor {
	command := cfg.BackendCommand
	if command == "" {
		command = fmt.Sprintf("python3 main.py --host %s --port %d", cfg.BackendHost, cfg.BackendPort)
		switch cfg.Mode {
		case config.ModeDebug:
			command += " --debug"
		case config.ModeDevelopment:
			command += " --reload"
		}
	}

	return proc.ServiceDescriptor{
		Name:    ServiceBackend,
		Command: command,
		Dir:     cfg.EnginePath(),
		Host:    cfg.BackendHost,
		Port:    cfg.BackendPort,
		PidFile: filepath.Join(cfg.LogsPath(), "backend.pid"),
		LogFile: filepath.Join(cfg.LogsPath(), "backend.log"),
	}
}

// FrontendDescriptor builds the launch descriptor for the resolved dashboard
// variant.
func FrontendDescriptor(cfg config.RunConfig, variant config.FrontendVariant) proc.ServiceDescriptor {
	return proc.ServiceDescriptor{
		Name:    ServiceFrontend,
		Command: frontend.Command(cfg, variant),
		Dir:     cfg.DashboardPath(),
		Host:    cfg.FrontendHost,
		Port:    cfg.FrontendPort,
		PidFile: filepath.Join(cfg.LogsPath(), "frontend.pid"),
		LogFile: filepath.Join(cfg.LogsPath(), "frontend.log"),
	}
}

// Descriptors returns the descriptors for every service this run manages,
// in startup order. The frontend variant must already be resolved.
func Descriptors(cfg config.RunConfig, variant config.FrontendVariant) []proc.ServiceDescriptor {
	var descs []proc.ServiceDescriptor
	if !cfg.FrontendOnly {
		descs = append(descs, BackendDescriptor(cfg))
	}
	if !cfg.BackendOnly {
		descs = append(descs, FrontendDescriptor(cfg, variant))
	}
	return descs
}
