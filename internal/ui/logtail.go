package ui

import (
	"os"
	"strings"
)

// TailLines returns the last n lines of a file. A missing or empty file
// yields no lines rather than an error; the logs simply haven't been
// written yet.
func TailLines(path string, n int) []string {
	data, err := os.ReadFile(path)
	if err != nil || len(data) == 0 {
		return nil
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines
}
