package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/axonlabs/axonctl/internal/supervisor"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	cellStyle   = lipgloss.NewStyle().PaddingRight(2)
)

func Success(msg string) {
	fmt.Println(successStyle.Render("✅ " + msg))
}

func Info(msg string) {
	fmt.Println(infoStyle.Render("ℹ️  " + msg))
}

func Warn(msg string) {
	fmt.Println(warnStyle.Render("⚠️  " + msg))
}

func Error(msg string) {
	fmt.Println(errorStyle.Render("❌ " + msg))
}

func Dim(msg string) {
	fmt.Println(dimStyle.Render(msg))
}

// RenderStatusTable formats the per-service status for `axonctl status`.
func RenderStatusTable(statuses []supervisor.ServiceStatus) string {
	rows := [][]string{{"SERVICE", "STATE", "PID", "PORT", "UPTIME"}}
	for _, st := range statuses {
		state := "not running"
		pid := "-"
		uptime := "-"
		switch {
		case st.Running:
			state = "running"
			pid = fmt.Sprintf("%d", st.PID)
			uptime = formatUptime(st.Uptime)
		case st.Stale:
			state = "stopped (stale pid file)"
			pid = fmt.Sprintf("%d", st.PID)
		}
		rows = append(rows, []string{st.Name, state, pid, fmt.Sprintf("%d", st.Port), uptime})
	}

	// Column widths from the widest cell
	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	out := ""
	for r, row := range rows {
		line := ""
		for i, cell := range row {
			padded := fmt.Sprintf("%-*s", widths[i], cell)
			if r == 0 {
				padded = headerStyle.Render(padded)
			}
			line += cellStyle.Render(padded)
		}
		out += line + "\n"
	}
	return out
}

// formatUptime renders a duration like "2h3m" without sub-second noise.
func formatUptime(d time.Duration) string {
	return d.Round(time.Second).String()
}

// StateIcon returns the icon used for a service state in event output.
func StateIcon(state string) string {
	switch state {
	case "Healthy":
		return "✅"
	case "Starting":
		return "⏳"
	case "Unhealthy":
		return "⚠️"
	case "CrashedUnexpectedly":
		return "💥"
	case "Stopped":
		return "⏹️"
	default:
		return "•"
	}
}
