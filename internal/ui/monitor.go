package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/axonlabs/axonctl/internal/proc"
	"github.com/axonlabs/axonctl/internal/supervisor"
)

// logRefreshInterval is how often the monitor re-reads the service logs.
const logRefreshInterval = 1 * time.Second

// tailLinesPerService bounds how much of each log the monitor shows.
const tailLinesPerService = 200

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99")).Padding(0, 1)
	rowStyle     = lipgloss.NewStyle().Padding(0, 1)
	logNameStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1)
	borderStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
)

// EventMsg carries a supervisor state transition into the TUI.
type EventMsg supervisor.Event

// DoneMsg signals that the supervised run has ended, successfully or not.
type DoneMsg struct{ Err error }

type tickMsg time.Time

type keyMap struct {
	Quit key.Binding
}

var monitorKeys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "stop services and quit"),
	),
}

type serviceRow struct {
	Name    string
	State   proc.State
	Message string
}

// MonitorModel is the live view shown while axonctl supervises the running
// services: one state line per service plus a viewport tailing their logs.
type MonitorModel struct {
	cancel   context.CancelFunc
	services []serviceRow
	logs     []logSource
	viewport viewport.Model
	width    int
	height   int
	ready    bool
	stopping bool
	finalErr error
}

type logSource struct {
	name string
	path string
}

// NewMonitorModel builds the monitor for the given descriptors. cancel is
// the run's cancellation hook; quitting the monitor requests shutdown
// through the exact same path as an interrupt signal.
func NewMonitorModel(cancel context.CancelFunc, descs []proc.ServiceDescriptor) MonitorModel {
	m := MonitorModel{cancel: cancel}
	for _, d := range descs {
		m.services = append(m.services, serviceRow{Name: d.Name, State: proc.StateStarting, Message: "launching..."})
		m.logs = append(m.logs, logSource{name: d.Name, path: d.LogFile})
	}
	return m
}

func (m MonitorModel) Init() tea.Cmd {
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Tick(logRefreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m MonitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, monitorKeys.Quit) {
			// Request shutdown; the program quits when DoneMsg arrives so
			// the teardown is visible and complete.
			m.stopping = true
			m.cancel()
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		headerHeight := len(m.services) + 4
		if !m.ready {
			m.viewport = viewport.New(msg.Width-2, msg.Height-headerHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 2
			m.viewport.Height = msg.Height - headerHeight
		}
		return m, nil

	case EventMsg:
		for i := range m.services {
			if m.services[i].Name == msg.Service {
				m.services[i].State = msg.State
				m.services[i].Message = msg.Message
			}
		}
		return m, nil

	case tickMsg:
		if m.ready {
			m.viewport.SetContent(m.renderLogs())
			m.viewport.GotoBottom()
		}
		return m, tickCmd()

	case DoneMsg:
		m.finalErr = msg.Err
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m MonitorModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("axonctl — supervising services"))
	b.WriteString("\n")

	for _, svc := range m.services {
		line := fmt.Sprintf("%s %-8s  %-20s %s", StateIcon(string(svc.State)), svc.Name, svc.State, svc.Message)
		b.WriteString(rowStyle.Render(line))
		b.WriteString("\n")
	}

	if m.ready {
		b.WriteString(borderStyle.Width(m.width - 2).Render(m.viewport.View()))
		b.WriteString("\n")
	}

	help := monitorKeys.Quit.Help().Key + ": " + monitorKeys.Quit.Help().Desc
	if m.stopping {
		help = "stopping services..."
	}
	b.WriteString(helpStyle.Render(help))

	return b.String()
}

// renderLogs interleaves the tails of every service log, newest lines last,
// each prefixed with its service name.
func (m MonitorModel) renderLogs() string {
	var lines []string
	for _, src := range m.logs {
		prefix := logNameStyle.Render(fmt.Sprintf("%-8s |", src.name))
		for _, line := range TailLines(src.path, tailLinesPerService/len(m.logs)) {
			lines = append(lines, prefix+" "+line)
		}
	}
	if len(lines) == 0 {
		return dimStyle.Render("waiting for log output...")
	}
	return strings.Join(lines, "\n")
}

// RunMonitor drives the supervised run under the TUI. run performs the
// actual startup and monitoring; its result ends the program. Supervisor
// events are forwarded into the model as they happen.
func RunMonitor(ctx context.Context, cancel context.CancelFunc, sup *supervisor.Supervisor, run func(context.Context) error) error {
	model := NewMonitorModel(cancel, sup.Descriptors())
	program := tea.NewProgram(model, tea.WithAltScreen())

	sup.OnEvent = func(e supervisor.Event) {
		program.Send(EventMsg(e))
	}

	go func() {
		program.Send(DoneMsg{Err: run(ctx)})
	}()

	final, err := program.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(MonitorModel); ok {
		return m.finalErr
	}
	return nil
}
