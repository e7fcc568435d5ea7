package ports

import (
	"fmt"
	"net"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
)

// IsPortAvailable checks if a port is available for binding on the host.
func IsPortAvailable(host string, port int) bool {
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return false
	}
	listener.Close()
	return true
}

// GetProcessOnPort returns the PID of a process listening on the given port.
// Returns 0 if no process is found or if the lookup fails.
// This is useful for diagnosing port conflicts before launching a service.
func GetProcessOnPort(port int) int {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin", "linux":
		// Use lsof to find the process PID
		cmd = exec.Command("lsof", "-i", fmt.Sprintf(":%d", port), "-t", "-sTCP:LISTEN")
	case "windows":
		// On Windows, use netstat and parse the output
		cmd = exec.Command("cmd", "/C", fmt.Sprintf("netstat -ano | findstr :%d | findstr LISTENING", port))
	default:
		return 0
	}

	output, err := cmd.Output()
	if err != nil {
		return 0
	}

	pidStr := strings.TrimSpace(string(output))
	if pidStr == "" {
		return 0
	}

	// For Windows, the PID is the last column
	if runtime.GOOS == "windows" {
		fields := strings.Fields(pidStr)
		if len(fields) > 0 {
			pidStr = fields[len(fields)-1]
		}
	} else {
		// For Unix, lsof -t returns just the PID (may have multiple lines)
		lines := strings.Split(pidStr, "\n")
		if len(lines) > 0 {
			pidStr = strings.TrimSpace(lines[0])
		}
	}

	pid, err := strconv.Atoi(pidStr)
	if err != nil {
		return 0
	}

	return pid
}

// Describe returns a human-readable status of a port, including the owning
// PID when it can be determined.
func Describe(host string, port int) string {
	if IsPortAvailable(host, port) {
		return fmt.Sprintf("port %d is available", port)
	}
	if pid := GetProcessOnPort(port); pid > 0 {
		return fmt.Sprintf("port %d is in use by PID %d", port, pid)
	}
	return fmt.Sprintf("port %d is in use", port)
}
