package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/axonlabs/axonctl/internal/config"
	"github.com/axonlabs/axonctl/internal/proc"
	"github.com/axonlabs/axonctl/internal/supervisor"
	"github.com/axonlabs/axonctl/internal/ui"
)

// followPollInterval is how often -f rechecks the log files for new output.
const followPollInterval = 500 * time.Millisecond

// logsCmd represents the logs command
var logsCmd = &cobra.Command{
	Use:   "logs [service]",
	Short: "Show recent service output",
	Long: `The logs command prints the tail of each service's log file, or of a
single service when one is named (backend or frontend). With -f it keeps
following the files until interrupted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLogs,
}

func init() {
	logsCmd.Flags().IntP("lines", "n", 50, "Number of lines to show per service")
	logsCmd.Flags().BoolP("follow", "f", false, "Keep following the log files")
}

func runLogs(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	cfg, err := config.Resolve(cwd, config.Flags{})
	if err != nil {
		return err
	}

	lines, _ := cmd.Flags().GetInt("lines")
	follow, _ := cmd.Flags().GetBool("follow")

	descs := supervisor.NewForInspection(cfg).Descriptors()
	if len(args) == 1 {
		descs, err = filterService(descs, args[0])
		if err != nil {
			return err
		}
	}

	for _, desc := range descs {
		fmt.Printf("==> %s (%s) <==\n", desc.Name, desc.LogFile)
		for _, line := range ui.TailLines(desc.LogFile, lines) {
			fmt.Println(line)
		}
		fmt.Println()
	}

	if follow {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return followLogs(ctx, descs)
	}
	return nil
}

// filterService narrows the descriptors down to a single named service.
func filterService(descs []proc.ServiceDescriptor, name string) ([]proc.ServiceDescriptor, error) {
	for _, desc := range descs {
		if desc.Name == name {
			return []proc.ServiceDescriptor{desc}, nil
		}
	}
	return nil, fmt.Errorf("unknown service %q (want backend or frontend)", name)
}

// followLogs polls the log files and prints anything appended since the
// last poll, each line prefixed with its service name. Truncated files
// (a fresh launch overwrites them) restart from the beginning.
func followLogs(ctx context.Context, descs []proc.ServiceDescriptor) error {
	offsets := make(map[string]int64, len(descs))
	for _, desc := range descs {
		if info, err := os.Stat(desc.LogFile); err == nil {
			offsets[desc.Name] = info.Size()
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(followPollInterval):
		}

		for _, desc := range descs {
			offsets[desc.Name] = printNewLines(desc, offsets[desc.Name])
		}
	}
}

// printNewLines prints the bytes appended to a log file past offset and
// returns the new offset.
func printNewLines(desc proc.ServiceDescriptor, offset int64) int64 {
	f, err := os.Open(desc.LogFile)
	if err != nil {
		return offset
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return offset
	}
	if info.Size() < offset {
		offset = 0
	}
	if info.Size() == offset {
		return offset
	}

	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return offset
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return offset
	}

	for _, line := range splitLines(data) {
		fmt.Printf("%-8s | %s\n", desc.Name, line)
	}
	return offset + int64(len(data))
}

// splitLines breaks raw log bytes into display lines, dropping a trailing
// empty line from the final newline.
func splitLines(data []byte) []string {
	var lines []string
	start := 0
	for i, b := range data {
		if b == '\n' {
			lines = append(lines, string(data[start:i]))
			start = i + 1
		}
	}
	if start < len(data) {
		lines = append(lines, string(data[start:]))
	}
	return lines
}
