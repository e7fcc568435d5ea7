package config

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestResolveDefaults(t *testing.T) {
	cfg, err := Resolve(t.TempDir(), Flags{})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if cfg.BackendPort != DefaultBackendPort {
		t.Errorf("BackendPort = %d, want %d", cfg.BackendPort, DefaultBackendPort)
	}
	if cfg.FrontendPort != DefaultFrontendPort {
		t.Errorf("FrontendPort = %d, want %d", cfg.FrontendPort, DefaultFrontendPort)
	}
	if cfg.Variant != VariantAuto {
		t.Errorf("Variant = %q, want %q", cfg.Variant, VariantAuto)
	}
	if cfg.Mode != ModeProduction {
		t.Errorf("Mode = %q, want %q", cfg.Mode, ModeProduction)
	}
	if cfg.EngineDir != "engine" || cfg.DashboardDir != "dashboard" {
		t.Errorf("dirs = %q/%q, want engine/dashboard", cfg.EngineDir, cfg.DashboardDir)
	}
}

func TestResolveEnvironmentOverridesDefaults(t *testing.T) {
	t.Setenv(EnvBackendPort, "9000")
	t.Setenv(EnvFrontendHost, "0.0.0.0")
	t.Setenv(EnvFrontend, "html")
	t.Setenv(EnvMode, "debug")

	cfg, err := Resolve(t.TempDir(), Flags{})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if cfg.BackendPort != 9000 {
		t.Errorf("BackendPort = %d, want 9000", cfg.BackendPort)
	}
	if cfg.FrontendHost != "0.0.0.0" {
		t.Errorf("FrontendHost = %q, want 0.0.0.0", cfg.FrontendHost)
	}
	if cfg.Variant != VariantHTML {
		t.Errorf("Variant = %q, want %q", cfg.Variant, VariantHTML)
	}
	if cfg.Mode != ModeDebug {
		t.Errorf("Mode = %q, want %q", cfg.Mode, ModeDebug)
	}
}

func TestResolveFlagsWinOverEnvironment(t *testing.T) {
	t.Setenv(EnvBackendPort, "9000")
	t.Setenv(EnvFrontend, "html")

	cfg, err := Resolve(t.TempDir(), Flags{BackendPort: 9100, Svelte: true})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if cfg.BackendPort != 9100 {
		t.Errorf("BackendPort = %d, want flag value 9100", cfg.BackendPort)
	}
	if cfg.Variant != VariantSvelte {
		t.Errorf("Variant = %q, want flag value %q", cfg.Variant, VariantSvelte)
	}
}

func TestResolveManifestLayering(t *testing.T) {
	dir := t.TempDir()
	manifest := Manifest{
		EngineDir:      "srv",
		BackendPort:    8100,
		FrontendPort:   3100,
		Frontend:       "html",
		BackendCommand: "python3 run.py",
	}
	if err := WriteManifest(filepath.Join(dir, ManifestName), manifest); err != nil {
		t.Fatalf("WriteManifest() error = %v", err)
	}

	// Environment beats the manifest; the manifest beats defaults.
	t.Setenv(EnvBackendPort, "8200")

	cfg, err := Resolve(dir, Flags{})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if cfg.BackendPort != 8200 {
		t.Errorf("BackendPort = %d, want env value 8200", cfg.BackendPort)
	}
	if cfg.FrontendPort != 3100 {
		t.Errorf("FrontendPort = %d, want manifest value 3100", cfg.FrontendPort)
	}
	if cfg.EngineDir != "srv" {
		t.Errorf("EngineDir = %q, want manifest value srv", cfg.EngineDir)
	}
	if cfg.Variant != VariantHTML {
		t.Errorf("Variant = %q, want manifest value %q", cfg.Variant, VariantHTML)
	}
	if cfg.BackendCommand != "python3 run.py" {
		t.Errorf("BackendCommand = %q, want manifest value", cfg.BackendCommand)
	}
}

func TestResolveManifestInvalidVariant(t *testing.T) {
	dir := t.TempDir()
	if err := WriteManifest(filepath.Join(dir, ManifestName), Manifest{Frontend: "bogus"}); err != nil {
		t.Fatal(err)
	}

	// A manifest value the resolver cannot use must fail the run, exactly
	// like the same string via the environment would.
	_, err := Resolve(dir, Flags{})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Resolve() error = %v, want ErrInvalidConfig for frontend: bogus", err)
	}
}

func TestResolveManifestNegativePort(t *testing.T) {
	dir := t.TempDir()
	if err := WriteManifest(filepath.Join(dir, ManifestName), Manifest{BackendPort: -5}); err != nil {
		t.Fatal(err)
	}

	_, err := Resolve(dir, Flags{})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Resolve() error = %v, want ErrInvalidConfig for backend_port: -5", err)
	}
}

func TestResolveValidation(t *testing.T) {
	tests := []struct {
		name  string
		env   map[string]string
		flags Flags
	}{
		{
			name: "non-numeric port env",
			env:  map[string]string{EnvBackendPort: "eight"},
		},
		{
			name:  "port out of range",
			flags: Flags{BackendPort: 70000},
		},
		{
			name:  "negative backend port flag",
			flags: Flags{BackendPort: -1},
		},
		{
			name:  "negative frontend port flag",
			flags: Flags{FrontendPort: -8000},
		},
		{
			name:  "shared port",
			flags: Flags{BackendPort: 4321, FrontendPort: 4321},
		},
		{
			name:  "backend-only and frontend-only together",
			flags: Flags{BackendOnly: true, FrontendOnly: true},
		},
		{
			name: "unknown variant env",
			env:  map[string]string{EnvFrontend: "react"},
		},
		{
			name: "unknown mode env",
			env:  map[string]string{EnvMode: "turbo"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Resolve(t.TempDir(), tt.flags)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Resolve() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestSharedPortAllowedForSingleService(t *testing.T) {
	// Only one service will run, so the "shared" port is never contended.
	cfg, err := Resolve(t.TempDir(), Flags{BackendOnly: true, BackendPort: 4321, FrontendPort: 4321})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if cfg.BackendPort != 4321 {
		t.Errorf("BackendPort = %d, want 4321", cfg.BackendPort)
	}
}

func TestReadManifestMissingFile(t *testing.T) {
	m, err := ReadManifest(filepath.Join(t.TempDir(), ManifestName))
	if err != nil {
		t.Fatalf("ReadManifest() error = %v, want nil for a missing file", err)
	}
	if m != nil {
		t.Errorf("ReadManifest() = %+v, want nil for a missing file", m)
	}
}

func TestParseVariant(t *testing.T) {
	if _, err := ParseVariant("svelte"); err != nil {
		t.Errorf("ParseVariant(svelte) error = %v", err)
	}
	if _, err := ParseVariant("vue"); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("ParseVariant(vue) error = %v, want ErrInvalidConfig", err)
	}
}

func TestPathHelpers(t *testing.T) {
	cfg := RunConfig{WorkDir: "/proj", EngineDir: "engine", DashboardDir: "dashboard",
		BackendHost: "127.0.0.1", BackendPort: 8000}

	if got := cfg.EnginePath(); got != filepath.Join("/proj", "engine") {
		t.Errorf("EnginePath() = %q", got)
	}
	if got := cfg.LogsPath(); got != filepath.Join("/proj", "logs") {
		t.Errorf("LogsPath() = %q", got)
	}
	if got := cfg.BackendAddr(); got != "127.0.0.1:8000" {
		t.Errorf("BackendAddr() = %q", got)
	}
}
