package gitexec

import (
	"errors"
	"fmt"
)

// Error types for command execution.
var (
	// ErrToolNotInstalled indicates the git binary could not be found or spawned.
	ErrToolNotInstalled = errors.New("git is not installed or not in PATH")

	// ErrTimeout indicates the command did not finish within its timeout.
	ErrTimeout = errors.New("git command timed out")
)

// RunError wraps a failed invocation with whatever output was captured
// before the failure. Stdout and Stderr are always sanitized.
type RunError struct {
	// Err is the underlying cause, typically ErrTimeout or ErrToolNotInstalled.
	Err error

	// Stdout is the sanitized partial standard output.
	Stdout string

	// Stderr is the sanitized partial standard error.
	Stderr string
}

// Error returns the error message.
func (e *RunError) Error() string {
	if e.Err == nil {
		return "git command failed"
	}
	return fmt.Sprintf("run git: %v", e.Err)
}

// Unwrap returns the underlying cause.
func (e *RunError) Unwrap() error {
	return e.Err
}
