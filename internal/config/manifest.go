package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ManifestName is the optional per-project manifest file.
const ManifestName = "axon.yaml"

// Manifest holds project-level overrides read from axon.yaml. Every field is
// optional; zero values leave the built-in defaults untouched.
type Manifest struct {
	Name            string `yaml:"name,omitempty"`
	EngineDir       string `yaml:"engine_dir,omitempty"`
	DashboardDir    string `yaml:"dashboard_dir,omitempty"`
	BackendPort     int    `yaml:"backend_port,omitempty"`
	FrontendPort    int    `yaml:"frontend_port,omitempty"`
	Frontend        string `yaml:"frontend,omitempty"`
	BackendCommand  string `yaml:"backend_command,omitempty"`
	FrontendCommand string `yaml:"frontend_command,omitempty"`
}

// ReadManifest reads an axon.yaml manifest. A missing file is not an error;
// it returns (nil, nil) so callers fall through to defaults.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: reading %s: %v", ErrInvalidConfig, path, err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrInvalidConfig, path, err)
	}
	return &m, nil
}

// WriteManifest writes a manifest as YAML, mainly for tests and tooling.
func WriteManifest(path string, m Manifest) error {
	data, err := yaml.Marshal(&m)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// applyManifest overlays manifest values onto the config. A malformed value
// is an error, not a silent fallback: the run must not proceed with a
// different variant than the manifest asked for. Out-of-range ports are
// applied as-is and rejected by validate on the merged result.
func applyManifest(cfg *RunConfig, m *Manifest) error {
	if m.EngineDir != "" {
		cfg.EngineDir = m.EngineDir
	}
	if m.DashboardDir != "" {
		cfg.DashboardDir = m.DashboardDir
	}
	if m.BackendPort != 0 {
		cfg.BackendPort = m.BackendPort
	}
	if m.FrontendPort != 0 {
		cfg.FrontendPort = m.FrontendPort
	}
	if m.Frontend != "" {
		variant, err := ParseVariant(m.Frontend)
		if err != nil {
			return fmt.Errorf("in %s: %w", ManifestName, err)
		}
		cfg.Variant = variant
	}
	cfg.BackendCommand = m.BackendCommand
	cfg.FrontendCommand = m.FrontendCommand
	return nil
}
