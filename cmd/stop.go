package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/axonlabs/axonctl/internal/config"
	"github.com/axonlabs/axonctl/internal/supervisor"
	"github.com/axonlabs/axonctl/internal/ui"
)

// stopCmd represents the stop command
var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop services from a previous start",
	Long: `The stop command reads the PID files written by 'axonctl start',
verifies each recorded process still belongs to its service, and stops
it: a graceful termination request first, then a forced kill after a
grace period. Stale records are cleared without signalling anything.

Stopping is idempotent — running it with nothing alive is not an error.`,
	RunE: runStop,
}

func runStop(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	cfg, err := config.Resolve(cwd, config.Flags{})
	if err != nil {
		return err
	}

	sup := supervisor.NewForInspection(cfg)
	descs := sup.Descriptors()

	// Reverse of startup order: frontend goes down before the backend it
	// depends on.
	for i := len(descs) - 1; i >= 0; i-- {
		desc := descs[i]
		result, err := supervisor.StopRecorded(desc)
		if err != nil {
			ui.Error(fmt.Sprintf("%s: failed to stop pid %d: %v", desc.Name, result.PID, err))
			return err
		}

		switch result.Outcome {
		case supervisor.OutcomeNotRunning:
			ui.Dim(fmt.Sprintf("%s: not running", desc.Name))
		case supervisor.OutcomeStale:
			ui.Info(fmt.Sprintf("%s: stale record for pid %d cleared", desc.Name, result.PID))
		case supervisor.OutcomeStopped:
			ui.Success(fmt.Sprintf("%s: stopped (pid %d)", desc.Name, result.PID))
		case supervisor.OutcomeKilled:
			ui.Warn(fmt.Sprintf("%s: pid %d did not exit gracefully and was killed", desc.Name, result.PID))
		}
	}

	return nil
}
