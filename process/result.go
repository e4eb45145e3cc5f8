package process

import (
	"bytes"
	"fmt"
	"time"
)

// Result holds the output and status of a completed subprocess.
type Result struct {
	// Stdout is the captured standard output.
	Stdout []byte
	// Stderr is the captured standard error.
	Stderr []byte
	// ExitCode is the process exit code. -1 if the process was killed.
	ExitCode int
	// Duration is how long the process ran.
	Duration time.Duration
}

// StderrLine returns the last non-empty line of stderr, which is where most
// tools put their final complaint.
func (r *Result) StderrLine() string {
	lines := bytes.Split(bytes.TrimSpace(r.Stderr), []byte("\n"))
	for i := len(lines) - 1; i >= 0; i-- {
		if line := bytes.TrimSpace(lines[i]); len(line) > 0 {
			return string(line)
		}
	}
	return ""
}

// ExitError reports a process that ran but exited non-zero.
type ExitError struct {
	Code   int
	Stderr string
	Err    error
}

func (e *ExitError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("process: exit code %d: %s", e.Code, e.Stderr)
	}
	return fmt.Sprintf("process: exit code %d", e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }
