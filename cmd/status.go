package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/axonlabs/axonctl/internal/config"
	"github.com/axonlabs/axonctl/internal/supervisor"
	"github.com/axonlabs/axonctl/internal/ui"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which services are running",
	Long: `The status command inspects the PID files written by 'axonctl start'
and reports, per service, one of three answers: running (a live process
with a matching command line exists), stopped with a stale PID file (a
record exists but the process is gone or has been replaced), or not
running (no record at all).`,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	cfg, err := config.Resolve(cwd, config.Flags{})
	if err != nil {
		return err
	}

	sup := supervisor.NewForInspection(cfg)
	fmt.Print(ui.RenderStatusTable(sup.Status()))
	return nil
}
