package config

import "errors"

// Sentinel errors shared across the orchestration path. Callers wrap these
// with fmt.Errorf("%w: ...") and the CLI classifies them with errors.Is to
// pick exit codes and messaging.
var (
	// ErrInvalidConfig marks a conflicting or malformed merged configuration.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrPrerequisiteMissing marks a required runtime, tool, or project file
	// that could not be found during preflight.
	ErrPrerequisiteMissing = errors.New("missing prerequisite")

	// ErrPortConflict marks a target port already bound by another process.
	ErrPortConflict = errors.New("port conflict")

	// ErrStartupTimeout marks a service that never became healthy within its
	// startup budget.
	ErrStartupTimeout = errors.New("startup timed out")

	// ErrProcessCrash marks a previously healthy service whose process died.
	ErrProcessCrash = errors.New("process crashed")
)
