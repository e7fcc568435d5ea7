package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// FrontendVariant selects which dashboard implementation to launch.
type FrontendVariant string

const (
	VariantAuto   FrontendVariant = "auto"
	VariantSvelte FrontendVariant = "svelte"
	VariantHTML   FrontendVariant = "html"
)

// RunMode controls how the managed services are started.
type RunMode string

const (
	ModeProduction  RunMode = "production"
	ModeDevelopment RunMode = "development"
	ModeDebug       RunMode = "debug"
)

// Built-in defaults, overridable by axon.yaml, environment, then flags.
const (
	DefaultBackendHost  = "127.0.0.1"
	DefaultBackendPort  = 8000
	DefaultFrontendHost = "127.0.0.1"
	DefaultFrontendPort = 3000
)

// Environment variable names recognized by the resolver.
const (
	EnvBackendHost  = "AXON_BACKEND_HOST"
	EnvBackendPort  = "AXON_BACKEND_PORT"
	EnvFrontendHost = "AXON_FRONTEND_HOST"
	EnvFrontendPort = "AXON_FRONTEND_PORT"
	EnvFrontend     = "AXON_FRONTEND"
	EnvMode         = "AXON_MODE"
)

// RunConfig is the immutable configuration for a single axonctl invocation.
// Build it once with Resolve and pass it by value from there on.
type RunConfig struct {
	WorkDir string

	BackendHost  string
	BackendPort  int
	FrontendHost string
	FrontendPort int

	Variant FrontendVariant
	Mode    RunMode

	Setup        bool
	BackendOnly  bool
	FrontendOnly bool
	CheckOnly    bool
	NoTUI        bool

	// Directories relative to WorkDir, overridable via axon.yaml.
	EngineDir    string
	DashboardDir string

	// Launch command overrides from axon.yaml. Empty means "use the
	// built-in command for the detected variant".
	BackendCommand  string
	FrontendCommand string
}

// Flags carries the raw CLI flag values into Resolve. Zero values mean
// "not set on the command line".
type Flags struct {
	BackendHost  string
	BackendPort  int
	FrontendHost string
	FrontendPort int
	Svelte       bool
	HTML         bool
	Dev          bool
	Debug        bool
	Setup        bool
	BackendOnly  bool
	FrontendOnly bool
	Check        bool
	NoTUI        bool
}

// Resolve merges CLI flags, environment variables, the optional axon.yaml
// manifest, and built-in defaults into a validated RunConfig.
// Precedence: flag > environment > manifest > default.
func Resolve(workDir string, flags Flags) (RunConfig, error) {
	cfg := RunConfig{
		WorkDir:      workDir,
		BackendHost:  DefaultBackendHost,
		BackendPort:  DefaultBackendPort,
		FrontendHost: DefaultFrontendHost,
		FrontendPort: DefaultFrontendPort,
		Variant:      VariantAuto,
		Mode:         ModeProduction,
		EngineDir:    "engine",
		DashboardDir: "dashboard",
	}

	// Layer 1: project manifest, if present.
	manifest, err := ReadManifest(filepath.Join(workDir, ManifestName))
	if err != nil {
		return RunConfig{}, err
	}
	if manifest != nil {
		if err := applyManifest(&cfg, manifest); err != nil {
			return RunConfig{}, err
		}
	}

	// Layer 2: environment variables.
	if err := applyEnvironment(&cfg); err != nil {
		return RunConfig{}, err
	}

	// Layer 3: explicit CLI flags win over everything.
	applyFlags(&cfg, flags)

	if err := validate(cfg); err != nil {
		return RunConfig{}, err
	}

	return cfg, nil
}

// applyEnvironment overlays AXON_* environment variables onto the config.
func applyEnvironment(cfg *RunConfig) error {
	if v := os.Getenv(EnvBackendHost); v != "" {
		cfg.BackendHost = v
	}
	if v := os.Getenv(EnvFrontendHost); v != "" {
		cfg.FrontendHost = v
	}
	if v := os.Getenv(EnvBackendPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a number", ErrInvalidConfig, EnvBackendPort, v)
		}
		cfg.BackendPort = port
	}
	if v := os.Getenv(EnvFrontendPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a number", ErrInvalidConfig, EnvFrontendPort, v)
		}
		cfg.FrontendPort = port
	}
	if v := os.Getenv(EnvFrontend); v != "" {
		variant, err := ParseVariant(v)
		if err != nil {
			return err
		}
		cfg.Variant = variant
	}
	if v := os.Getenv(EnvMode); v != "" {
		mode, err := ParseMode(v)
		if err != nil {
			return err
		}
		cfg.Mode = mode
	}
	return nil
}

// applyFlags overlays explicitly set CLI flags onto the config.
func applyFlags(cfg *RunConfig, flags Flags) {
	if flags.BackendHost != "" {
		cfg.BackendHost = flags.BackendHost
	}
	// Zero means "not set"; anything else, including a negative value, is
	// applied and left for validate to reject.
	if flags.BackendPort != 0 {
		cfg.BackendPort = flags.BackendPort
	}
	if flags.FrontendHost != "" {
		cfg.FrontendHost = flags.FrontendHost
	}
	if flags.FrontendPort != 0 {
		cfg.FrontendPort = flags.FrontendPort
	}
	if flags.Svelte {
		cfg.Variant = VariantSvelte
	}
	if flags.HTML {
		cfg.Variant = VariantHTML
	}
	if flags.Dev {
		cfg.Mode = ModeDevelopment
	}
	if flags.Debug {
		cfg.Mode = ModeDebug
	}
	cfg.Setup = flags.Setup
	cfg.BackendOnly = flags.BackendOnly
	cfg.FrontendOnly = flags.FrontendOnly
	cfg.CheckOnly = flags.Check
	cfg.NoTUI = flags.NoTUI
}

// validate rejects conflicting or malformed configurations.
func validate(cfg RunConfig) error {
	if cfg.BackendPort <= 0 || cfg.BackendPort > 65535 {
		return fmt.Errorf("%w: backend port %d out of range", ErrInvalidConfig, cfg.BackendPort)
	}
	if cfg.FrontendPort <= 0 || cfg.FrontendPort > 65535 {
		return fmt.Errorf("%w: frontend port %d out of range", ErrInvalidConfig, cfg.FrontendPort)
	}
	if cfg.BackendHost == "" || cfg.FrontendHost == "" {
		return fmt.Errorf("%w: host must not be empty", ErrInvalidConfig)
	}
	if cfg.BackendOnly && cfg.FrontendOnly {
		return fmt.Errorf("%w: --backend-only and --frontend-only are mutually exclusive", ErrInvalidConfig)
	}
	if !cfg.BackendOnly && !cfg.FrontendOnly && cfg.BackendPort == cfg.FrontendPort {
		return fmt.Errorf("%w: backend and frontend cannot share port %d", ErrInvalidConfig, cfg.BackendPort)
	}
	return nil
}

// ParseVariant converts a user-supplied string into a FrontendVariant.
func ParseVariant(s string) (FrontendVariant, error) {
	switch FrontendVariant(s) {
	case VariantAuto, VariantSvelte, VariantHTML:
		return FrontendVariant(s), nil
	default:
		return "", fmt.Errorf("%w: unknown frontend variant %q (want auto, svelte, or html)", ErrInvalidConfig, s)
	}
}

// ParseMode converts a user-supplied string into a RunMode.
func ParseMode(s string) (RunMode, error) {
	switch RunMode(s) {
	case ModeProduction, ModeDevelopment, ModeDebug:
		return RunMode(s), nil
	default:
		return "", fmt.Errorf("%w: unknown run mode %q (want production, development, or debug)", ErrInvalidConfig, s)
	}
}

// EnginePath returns the absolute path of the backend working directory.
func (c RunConfig) EnginePath() string {
	return filepath.Join(c.WorkDir, c.EngineDir)
}

// DashboardPath returns the absolute path of the frontend working directory.
func (c RunConfig) DashboardPath() string {
	return filepath.Join(c.WorkDir, c.DashboardDir)
}

// LogsPath returns the runtime directory holding log and PID files.
func (c RunConfig) LogsPath() string {
	return filepath.Join(c.WorkDir, "logs")
}

// BackendAddr returns the backend's host:port.
func (c RunConfig) BackendAddr() string {
	return fmt.Sprintf("%s:%d", c.BackendHost, c.BackendPort)
}

// FrontendAddr returns the frontend's host:port.
func (c RunConfig) FrontendAddr() string {
	return fmt.Sprintf("%s:%d", c.FrontendHost, c.FrontendPort)
}
