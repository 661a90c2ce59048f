package adapters

import (
	"bytes"
	"context"
	goerrors "errors"
	"fmt"
	"os/exec"
	"time"

	"netprofile-agent/internal/domain/entities"
	"netprofile-agent/internal/domain/errors"
	"netprofile-agent/internal/domain/interfaces"
)

// RealCommandExecutor is a CommandExecutor implementation that executes actual
// system commands. A non-zero exit is data, not an error: it comes back in the
// CommandResult so callers can inspect the captured output. Invocations are
// configured to never flash a console window at the operator.
type RealCommandExecutor struct{}

// NewRealCommandExecutor creates a new RealCommandExecutor
func NewRealCommandExecutor() interfaces.CommandExecutor {
	return &RealCommandExecutor{}
}

// Execute executes a command and returns its exit status and combined output
func (e *RealCommandExecutor) Execute(ctx context.Context, command string, args ...string) (*entities.CommandResult, error) {
	cmd := exec.CommandContext(ctx, command, args...)
	hideWindow(cmd)

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if goerrors.As(err, &exitErr) {
			return &entities.CommandResult{
				ExitCode: exitErr.ExitCode(),
				Output:   output.Bytes(),
			}, nil
		}
		return nil, errors.NewSystemError(
			fmt.Sprintf("command could not be started: %s %v", command, args),
			err,
		)
	}

	return &entities.CommandResult{ExitCode: 0, Output: output.Bytes()}, nil
}

// ExecuteWithTimeout executes a command under a bounded deadline
func (e *RealCommandExecutor) ExecuteWithTimeout(ctx context.Context, timeout time.Duration, command string, args ...string) (*entities.CommandResult, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result, err := e.Execute(ctx, command, args...)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, errors.NewTimeoutError(
				fmt.Sprintf("command execution timeout: %s %v (timeout: %v)", command, args, timeout),
			)
		}
		return nil, err
	}
	// A context kill surfaces as a non-zero exit on some platforms
	if result.ExitCode != 0 && ctx.Err() == context.DeadlineExceeded {
		return nil, errors.NewTimeoutError(
			fmt.Sprintf("command execution timeout: %s %v (timeout: %v)", command, args, timeout),
		)
	}

	return result, nil
}
