package ui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/axonlabs/axonctl/internal/supervisor"
)

func TestRenderStatusTable(t *testing.T) {
	statuses := []supervisor.ServiceStatus{
		{Name: "backend", Running: true, PID: 1234, Port: 8000, Uptime: 90 * time.Second},
		{Name: "frontend", Stale: true, PID: 5678, Port: 3000},
	}

	out := RenderStatusTable(statuses)

	for _, want := range []string{"SERVICE", "backend", "running", "1234", "1m30s", "frontend", "stale", "5678"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestRenderStatusTableNotRunning(t *testing.T) {
	out := RenderStatusTable([]supervisor.ServiceStatus{{Name: "backend", Port: 8000}})
	if !strings.Contains(out, "not running") {
		t.Errorf("table missing not-running state:\n%s", out)
	}
}

func TestFormatUptime(t *testing.T) {
	if got := formatUptime(3*time.Hour + 4*time.Minute + 500*time.Millisecond); got != "3h4m1s" && got != "3h4m0s" {
		t.Errorf("formatUptime() = %q, want rounded to whole seconds", got)
	}
	if got := formatUptime(90 * time.Second); got != "1m30s" {
		t.Errorf("formatUptime() = %q, want 1m30s", got)
	}
}

func TestTailLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "service.log")
	if err := os.WriteFile(path, []byte("one\ntwo\nthree\nfour\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	lines := TailLines(path, 2)
	if len(lines) != 2 || lines[0] != "three" || lines[1] != "four" {
		t.Errorf("TailLines() = %v, want [three four]", lines)
	}

	lines = TailLines(path, 10)
	if len(lines) != 4 {
		t.Errorf("TailLines() with large n = %v, want all 4 lines", lines)
	}
}

func TestTailLinesMissingFile(t *testing.T) {
	if lines := TailLines(filepath.Join(t.TempDir(), "absent.log"), 5); lines != nil {
		t.Errorf("TailLines(absent) = %v, want nil", lines)
	}
}

func TestStateIcon(t *testing.T) {
	if got := StateIcon("Healthy"); got != "✅" {
		t.Errorf("StateIcon(Healthy) = %q", got)
	}
	if got := StateIcon("something-else"); got != "•" {
		t.Errorf("StateIcon(unknown) = %q, want the neutral bullet", got)
	}
}
