package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/axonlabs/axonctl/internal/config"
	"github.com/axonlabs/axonctl/internal/installer"
	"github.com/axonlabs/axonctl/internal/supervisor"
	"github.com/axonlabs/axonctl/internal/ui"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Launch the engine and dashboard and supervise them",
	Long: `The start command runs the full startup sequence:

- Preflight: verify runtimes, project files, and port availability
- Launch the engine, wait until it accepts connections
- Write the dashboard's runtime configuration, launch the dashboard
- Supervise both until interrupted or one of them crashes

When one service crashes, its sibling is stopped too — half of the
system is not useful running alone. Use 'axonctl stop' from another
terminal to shut everything down.`,
	RunE: runStart,
}

func init() {
	startCmd.Flags().Bool("setup", false, "Install backend and frontend dependencies before launching")
	startCmd.Flags().Bool("backend-only", false, "Launch only the engine")
	startCmd.Flags().Bool("frontend-only", false, "Launch only the dashboard (assumes the engine is already running)")
	startCmd.Flags().Bool("svelte-frontend", false, "Force the build-tool dashboard variant")
	startCmd.Flags().Bool("html-frontend", false, "Force the static dashboard variant")
	startCmd.Flags().Bool("dev", false, "Run in development mode")
	startCmd.Flags().Bool("debug", false, "Run in debug mode")
	startCmd.Flags().Bool("check", false, "Run preflight checks only, launch nothing")
	startCmd.Flags().Bool("no-tui", false, "Disable the monitor TUI (plain scrolling output)")
	startCmd.Flags().String("backend-host", "", "Engine bind host")
	startCmd.Flags().Int("backend-port", 0, "Engine port")
	startCmd.Flags().String("frontend-host", "", "Dashboard bind host")
	startCmd.Flags().Int("frontend-port", 0, "Dashboard port")
}

func runStart(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	sup, err := supervisor.New(cfg)
	if err != nil {
		return err
	}

	if err := sup.Preflight(); err != nil {
		return err
	}
	for _, advisory := range sup.Advisories() {
		ui.Warn(advisory)
	}

	if cfg.Setup {
		if err := installer.Setup(context.Background(), cfg); err != nil {
			return err
		}
	}

	if cfg.CheckOnly {
		ui.Success("Preflight checks passed. Nothing was launched.")
		return nil
	}

	// One cancellation path for everything: the interrupt signal, the
	// monitor's quit key, and crash-cascade all flow through this context.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	run := func(ctx context.Context) error {
		if err := sup.StartAll(ctx); err != nil {
			// An interrupt during startup is a clean shutdown, not a
			// failure; StartAll has already unwound.
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		return sup.Monitor(ctx)
	}

	if useTUI(cfg) {
		return ui.RunMonitor(ctx, stop, sup, run)
	}

	sup.OnEvent = printEvent
	if sup.Variant() != "" {
		ui.Info(fmt.Sprintf("Using %s frontend", sup.Variant()))
	}
	return run(ctx)
}

// resolveConfig merges flags, environment, and the project manifest.
func resolveConfig(cmd *cobra.Command) (config.RunConfig, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return config.RunConfig{}, fmt.Errorf("failed to get current directory: %w", err)
	}

	flags := config.Flags{}
	flags.Setup, _ = cmd.Flags().GetBool("setup")
	flags.BackendOnly, _ = cmd.Flags().GetBool("backend-only")
	flags.FrontendOnly, _ = cmd.Flags().GetBool("frontend-only")
	flags.Svelte, _ = cmd.Flags().GetBool("svelte-frontend")
	flags.HTML, _ = cmd.Flags().GetBool("html-frontend")
	flags.Dev, _ = cmd.Flags().GetBool("dev")
	flags.Debug, _ = cmd.Flags().GetBool("debug")
	flags.Check, _ = cmd.Flags().GetBool("check")
	flags.NoTUI, _ = cmd.Flags().GetBool("no-tui")
	flags.BackendHost, _ = cmd.Flags().GetString("backend-host")
	flags.BackendPort, _ = cmd.Flags().GetInt("backend-port")
	flags.FrontendHost, _ = cmd.Flags().GetString("frontend-host")
	flags.FrontendPort, _ = cmd.Flags().GetInt("frontend-port")

	if flags.Svelte && flags.HTML {
		return config.RunConfig{}, fmt.Errorf("%w: --svelte-frontend and --html-frontend are mutually exclusive", config.ErrInvalidConfig)
	}
	if flags.Dev && flags.Debug {
		return config.RunConfig{}, fmt.Errorf("%w: --dev and --debug are mutually exclusive", config.ErrInvalidConfig)
	}

	return config.Resolve(cwd, flags)
}

// useTUI enables the monitor dashboard only for interactive terminals.
func useTUI(cfg config.RunConfig) bool {
	return !cfg.NoTUI && isatty.IsTerminal(os.Stdout.Fd())
}

// printEvent is the plain-output fallback for service state transitions.
func printEvent(e supervisor.Event) {
	icon := ui.StateIcon(string(e.State))
	fmt.Printf("%s [%s] %s: %s\n", icon, e.Service, e.State, e.Message)
}
