package frontend

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/axonlabs/axonctl/internal/config"
)

// RuntimeConfig is the structured configuration the dashboard reads at load
// time to find the engine. It is serialized to JSON rather than assembled as
// strings so the shape stays in one place.
type RuntimeConfig struct {
	APIBase string `json:"apiBase"`
	WSURL   string `json:"wsUrl"`
}

// runtimeConfigName is the file both dashboard variants fetch on startup.
const runtimeConfigName = "runtime-config.json"

// EmitRuntimeConfig writes the runtime configuration for the resolved
// variant. The svelte variant serves static assets from public/, the static
// variant from the dashboard root. Called after the backend address is
// final, before the frontend launches.
func EmitRuntimeConfig(cfg config.RunConfig, variant config.FrontendVariant) (string, error) {
	rc := RuntimeConfig{
		APIBase: fmt.Sprintf("http://%s", cfg.BackendAddr()),
		WSURL:   fmt.Sprintf("ws://%s/ws", cfg.BackendAddr()),
	}

	dir := cfg.DashboardPath()
	if variant == config.VariantSvelte {
		dir = filepath.Join(dir, "public")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	path := filepath.Join(dir, runtimeConfigName)
	data, err := json.MarshalIndent(rc, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
