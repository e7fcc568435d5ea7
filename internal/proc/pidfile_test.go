package proc

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testDescriptor(t *testing.T) ServiceDescriptor {
	t.Helper()
	dir := t.TempDir()
	return ServiceDescriptor{
		Name:    "backend",
		Command: "python3 main.py --host 127.0.0.1 --port 8000",
		Dir:     dir,
		Host:    "127.0.0.1",
		Port:    8000,
		PidFile: filepath.Join(dir, "logs", "backend.pid"),
		LogFile: filepath.Join(dir, "logs", "backend.log"),
	}
}

func TestPidFileRoundTrip(t *testing.T) {
	desc := testDescriptor(t)

	if err := WritePidFile(desc, 4242); err != nil {
		t.Fatalf("WritePidFile() error = %v", err)
	}

	pid, err := ReadPidFile(desc)
	if err != nil {
		t.Fatalf("ReadPidFile() error = %v", err)
	}
	if pid != 4242 {
		t.Errorf("ReadPidFile() = %d, want 4242", pid)
	}

	if err := ClearPidFile(desc); err != nil {
		t.Fatalf("ClearPidFile() error = %v", err)
	}
	if _, err := ReadPidFile(desc); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("ReadPidFile() after clear error = %v, want os.ErrNotExist", err)
	}
}

func TestClearPidFileAbsent(t *testing.T) {
	desc := testDescriptor(t)
	if err := ClearPidFile(desc); err != nil {
		t.Errorf("ClearPidFile() on absent file error = %v, want nil", err)
	}
}

func TestReadPidFileCorrupt(t *testing.T) {
	desc := testDescriptor(t)
	if err := os.MkdirAll(filepath.Dir(desc.PidFile), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(desc.PidFile, []byte("not-a-pid\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := ReadPidFile(desc)
	if err == nil || !strings.Contains(err.Error(), "corrupt") {
		t.Errorf("ReadPidFile() error = %v, want corrupt PID file error", err)
	}
}

func TestIsAlive(t *testing.T) {
	if !IsAlive(os.Getpid()) {
		t.Error("IsAlive(own pid) = false, want true")
	}
	if IsAlive(0) {
		t.Error("IsAlive(0) = true, want false")
	}
	if IsAlive(-1) {
		t.Error("IsAlive(-1) = true, want false")
	}
}

func TestMatchesCommand(t *testing.T) {
	desc := testDescriptor(t)

	// The test binary's command line contains its own executable path.
	desc.Command = os.Args[0]
	if !MatchesCommand(os.Getpid(), desc) {
		t.Error("MatchesCommand(own pid, own argv[0]) = false, want true")
	}

	desc.Command = "definitely-not-this-binary --flag"
	if MatchesCommand(os.Getpid(), desc) {
		t.Error("MatchesCommand(own pid, unrelated command) = true, want false")
	}

	if MatchesCommand(-1, desc) {
		t.Error("MatchesCommand(dead pid) = true, want false")
	}
}

func TestUptimeOwnProcess(t *testing.T) {
	if got := Uptime(os.Getpid()); got <= 0 {
		t.Errorf("Uptime(own pid) = %v, want > 0", got)
	}
	if got := Uptime(-1); got != 0 {
		t.Errorf("Uptime(-1) = %v, want 0", got)
	}
}
