package installer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/axonlabs/axonctl/internal/config"
)

func touch(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(""), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDetectPackageManager(t *testing.T) {
	tests := []struct {
		name      string
		lockFiles []string
		want      PackageManager
	}{
		{"pnpm lock file", []string{"pnpm-lock.yaml"}, PNPM},
		{"bun binary lock file", []string{"bun.lockb"}, Bun},
		{"bun text lock file", []string{"bun.lock"}, Bun},
		{"yarn lock file", []string{"yarn.lock"}, Yarn},
		{"npm fallback", nil, NPM},
		{"pnpm beats yarn", []string{"yarn.lock", "pnpm-lock.yaml"}, PNPM},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for _, lf := range tt.lockFiles {
				touch(t, dir, lf)
			}

			info := DetectPackageManager(dir)
			if info.Manager != tt.want {
				t.Errorf("Manager = %q, want %q", info.Manager, tt.want)
			}
			if len(info.InstallCommand) == 0 || info.InstallCommand[0] != string(tt.want) {
				t.Errorf("InstallCommand = %v, want to start with %q", info.InstallCommand, tt.want)
			}
		})
	}
}

func TestSetupSkipsWhenNothingToInstall(t *testing.T) {
	// No requirements.txt, no package.json: setup has nothing to do and
	// must not fail.
	cfg := config.RunConfig{
		WorkDir:      t.TempDir(),
		EngineDir:    "engine",
		DashboardDir: "dashboard",
	}

	if err := Setup(context.Background(), cfg); err != nil {
		t.Errorf("Setup() error = %v, want nil for an empty project", err)
	}
}

func TestSetupSkipsDashboardWithNodeModules(t *testing.T) {
	cfg := config.RunConfig{
		WorkDir:      t.TempDir(),
		EngineDir:    "engine",
		DashboardDir: "dashboard",
		FrontendOnly: true,
	}
	dashboard := cfg.DashboardPath()
	touch(t, dashboard, "package.json")
	if err := os.MkdirAll(filepath.Join(dashboard, "node_modules"), 0o755); err != nil {
		t.Fatal(err)
	}

	// node_modules already present: no install runs, so this succeeds even
	// where no package manager is available.
	if err := Setup(context.Background(), cfg); err != nil {
		t.Errorf("Setup() error = %v, want nil when node_modules exists", err)
	}
}
