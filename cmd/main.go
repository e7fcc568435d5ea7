package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information (can be set at build time)
var (
	version = "0.1.0"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "axonctl",
	Short: "Supervise the Axon engine and dashboard on your machine",
	Long: `Axonctl launches, health-checks, and supervises the two local Axon
services: the inference engine (backend API) and the dashboard (frontend).

Usage:
  axonctl start     Launch the engine and dashboard and supervise them
  axonctl stop      Stop services from a previous start
  axonctl status    Show which services are running
  axonctl logs      Show recent service output`,
	Version: version,
}

func init() {
	// Add subcommands
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(logsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
