// Package runner executes external commands for the local sub-operation
// implementations.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/specialistvlad/funwith/internal/ctxlog"
)

// NotFound is the exit code reported when the command binary is missing.
const NotFound = 127

// CommandRunner abstracts command execution so sub-operations can be tested
// without touching the host.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, []byte, int, error)
}

// Exec executes commands on the local host.
type Exec struct{}

// Run implements CommandRunner with os/exec.
func (Exec) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, int, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return stdout.Bytes(), stderr.Bytes(), 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return stdout.Bytes(), stderr.Bytes(), exitErr.ExitCode(), err
	}

	exitCode := 1
	var execErr *exec.Error
	if errors.As(err, &execErr) {
		exitCode = NotFound
	}
	return stdout.Bytes(), stderr.Bytes(), exitCode, err
}

// CommandError describes a failed command.
type CommandError struct {
	Name     string
	Args     []string
	ExitCode int
	Stdout   string
	Stderr   string
	Err      error
}

// Error implements the error interface.
func (e *CommandError) Error() string {
	return fmt.Sprintf("command failed cmd=%s args=%q exit=%d stdout=%q stderr=%q: %v",
		e.Name, strings.Join(e.Args, " "), e.ExitCode, e.Stdout, e.Stderr, e.Err)
}

// Unwrap returns the underlying execution error.
func (e *CommandError) Unwrap() error { return e.Err }

// Run executes name through r, logging the invocation, and returns stdout.
// Failures come back as *CommandError.
func Run(ctx context.Context, r CommandRunner, name string, args ...string) ([]byte, error) {
	ctxlog.FromContext(ctx).Debug("Executing command.", "cmd", name, "args", strings.Join(args, " "))
	stdout, stderr, exitCode, err := r.Run(ctx, name, args...)
	if err == nil {
		return stdout, nil
	}
	return stdout, &CommandError{
		Name:     name,
		Args:     args,
		ExitCode: exitCode,
		Stdout:   strings.TrimSpace(string(stdout)),
		Stderr:   strings.TrimSpace(string(stderr)),
		Err:      err,
	}
}

// ExitCode extracts the exit code of a *CommandError, or -1.
func ExitCode(err error) int {
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.ExitCode
	}
	return -1
}
