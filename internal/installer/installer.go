// Package installer performs the optional --setup step: installing backend
// and frontend dependencies before launch. It is side-effect-only; the
// orchestration path never depends on its internals.
package installer

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/axonlabs/axonctl/internal/config"
)

// PackageManager represents a detected Node package manager
type PackageManager string

const (
	NPM  PackageManager = "npm"
	PNPM PackageManager = "pnpm"
	Yarn PackageManager = "yarn"
	Bun  PackageManager = "bun"
)

// installTimeout bounds the whole setup step.
const installTimeout = 10 * time.Minute

// PackageManagerInfo contains details about the detected package manager
type PackageManagerInfo struct {
	Manager        PackageManager
	LockFile       string
	InstallCommand []string
	Installed      bool
}

// DetectPackageManager checks for lock files in the dashboard directory and
// returns the appropriate package manager. Priority: pnpm > bun > yarn > npm.
func DetectPackageManager(projectPath string) PackageManagerInfo {
	candidates := []struct {
		lockFile string
		manager  PackageManager
		command  []string
	}{
		{"pnpm-lock.yaml", PNPM, []string{"pnpm", "install"}},
		{"bun.lockb", Bun, []string{"bun", "install"}},
		{"bun.lock", Bun, []string{"bun", "install"}},
		{"yarn.lock", Yarn, []string{"yarn", "install"}},
	}

	for _, c := range candidates {
		if fileExists(filepath.Join(projectPath, c.lockFile)) {
			return PackageManagerInfo{
				Manager:        c.manager,
				LockFile:       c.lockFile,
				InstallCommand: c.command,
				Installed:      commandAvailable(string(c.manager)),
			}
		}
	}

	// Fallback to npm
	return PackageManagerInfo{
		Manager:        NPM,
		LockFile:       "package-lock.json",
		InstallCommand: []string{"npm", "install"},
		Installed:      commandAvailable("npm"),
	}
}

// Setup installs dependencies for the services this run will launch. Output
// is passed through so the operator sees pip/npm progress directly.
func Setup(ctx context.Context, cfg config.RunConfig) error {
	ctx, cancel := context.WithTimeout(ctx, installTimeout)
	defer cancel()

	if !cfg.FrontendOnly {
		if err := installEngineDependencies(ctx, cfg); err != nil {
			return err
		}
	}
	if !cfg.BackendOnly {
		if err := installDashboardDependencies(ctx, cfg); err != nil {
			return err
		}
	}
	return nil
}

// installEngineDependencies runs pip against the engine's requirements file.
// A project without a requirements file has nothing to install.
func installEngineDependencies(ctx context.Context, cfg config.RunConfig) error {
	reqs := filepath.Join(cfg.EnginePath(), "requirements.txt")
	if !fileExists(reqs) {
		return nil
	}
	if !commandAvailable("python3") {
		return fmt.Errorf("%w: python3 is required to install engine dependencies", config.ErrPrerequisiteMissing)
	}

	fmt.Printf("📦 Installing engine dependencies from %s...\n", reqs)
	cmd := exec.CommandContext(ctx, "python3", "-m", "pip", "install", "-r", "requirements.txt")
	cmd.Dir = cfg.EnginePath()
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("pip install failed: %w", err)
	}
	fmt.Println("✅ Engine dependencies installed.")
	return nil
}

// installDashboardDependencies installs Node dependencies using the detected
// package manager. Skipped when the dashboard has no package manifest or
// node_modules is already present.
func installDashboardDependencies(ctx context.Context, cfg config.RunConfig) error {
	dashboard := cfg.DashboardPath()
	if !fileExists(filepath.Join(dashboard, "package.json")) {
		return nil
	}
	if fileExists(filepath.Join(dashboard, "node_modules")) {
		return nil
	}

	info := DetectPackageManager(dashboard)
	if !info.Installed {
		return fmt.Errorf("%w: %s is required to install dashboard dependencies (lock file: %s)",
			config.ErrPrerequisiteMissing, info.Manager, info.LockFile)
	}

	fmt.Printf("📦 Detected %s but node_modules is missing. Running %s...\n",
		info.LockFile, strings.Join(info.InstallCommand, " "))

	cmd := exec.CommandContext(ctx, info.InstallCommand[0], info.InstallCommand[1:]...)
	cmd.Dir = dashboard
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s failed: %w", strings.Join(info.InstallCommand, " "), err)
	}

	fmt.Println("✅ Dashboard dependencies installed.")
	return nil
}

func commandAvailable(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
