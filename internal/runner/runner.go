// Package runner spawns external commands and captures their merged output.
// It does not interpret what the command printed; a non-zero exit status is
// reported in Result, not as an error.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Result is the captured outcome of one command.
type Result struct {
	Lines    []string
	ExitCode int
}

// FirstLine returns the first output line or "".
func (r *Result) FirstLine() string {
	if r == nil || len(r.Lines) == 0 {
		return ""
	}
	return r.Lines[0]
}

// Executor runs a command to completion.
// An error means the command could not be run or was cancelled.
type Executor interface {
	Run(ctx context.Context, name string, args ...string) (*Result, error)
}

// ExecRunner runs commands with os/exec. Stdout and stderr are merged.
type ExecRunner struct {
	// Dir is the working directory; empty means the current directory.
	Dir string
	// Env, if non-nil, replaces the environment of the child.
	Env []string
}

// NewExecRunner returns a runner using the current directory and environment.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run blocks until the process exits. When ctx ends first, the whole process
// group is killed and ctx's error is returned.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (*Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.Dir
	if r.Env != nil {
		cmd.Env = r.Env
	}
	configureProcessGroup(cmd)

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	err := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("%s interrupted: %w", name, ctxErr)
	}

	exitCode := 0
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("failed to run %s: %w", name, err)
		}
		exitCode = exitErr.ExitCode()
	}

	return &Result{Lines: SplitLines(output.String()), ExitCode: exitCode}, nil
}

// SplitLines splits output on newlines, dropping carriage returns and the empty
// element produced by a trailing newline. Blank lines in the middle are kept;
// parsers rely on them as terminators.
func SplitLines(s string) []string {
	if s == "" {
		return []string{}
	}
	s = strings.TrimSuffix(s, "\n")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
