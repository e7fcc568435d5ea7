// Package frontend decides which dashboard implementation to launch and
// prepares the runtime configuration it consumes.
package frontend

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/axonlabs/axonctl/internal/config"
)

// Detect resolves the frontend variant for this run.
//
// A forced variant always wins, even when its entry file is absent — the
// launch will then fail loudly, which beats silently switching what the
// operator asked for. In auto mode the build-tool variant is preferred when
// both its manifest and npm are available, falling back to the static
// variant, because the dev server gives the richer experience when the
// tooling exists and the static server still works everywhere else.
func Detect(cfg config.RunConfig) (config.FrontendVariant, error) {
	if cfg.Variant != config.VariantAuto {
		return cfg.Variant, nil
	}

	manifest := filepath.Join(cfg.DashboardPath(), "package.json")
	if fileExists(manifest) && npmAvailable() {
		return config.VariantSvelte, nil
	}

	static := filepath.Join(cfg.DashboardPath(), "index.html")
	if fileExists(static) {
		return config.VariantHTML, nil
	}

	return "", fmt.Errorf("%w: no usable frontend in %s (need package.json with npm installed, or index.html)",
		config.ErrPrerequisiteMissing, cfg.DashboardPath())
}

// Command returns the launch command for the resolved variant. An explicit
// frontend_command in axon.yaml overrides the built-in commands.
func Command(cfg config.RunConfig, variant config.FrontendVariant) string {
	if cfg.FrontendCommand != "" {
		return cfg.FrontendCommand
	}

	switch variant {
	case config.VariantSvelte:
		return fmt.Sprintf("npm run dev -- --host %s --port %d", cfg.FrontendHost, cfg.FrontendPort)
	default:
		return fmt.Sprintf("python3 -m http.server %d --bind %s", cfg.FrontendPort, cfg.FrontendHost)
	}
}

func npmAvailable() bool {
	_, err := exec.LookPath("npm")
	return err == nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
