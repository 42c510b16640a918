package clip

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// Executor runs an argument vector to completion. It returns the exit
// status, or an error when the process could not be started.
type Executor interface {
	Run(ctx context.Context, argv []string) (int, error)
}

// ProcessExecutor runs commands as child processes. Nil writers inherit the
// parent's stdout and stderr.
type ProcessExecutor struct {
	Stdout io.Writer
	Stderr io.Writer
}

// Run starts argv[0] with the remaining arguments and waits for it.
func (e ProcessExecutor) Run(ctx context.Context, argv []string) (int, error) {
	if len(argv) == 0 {
		return -1, errors.New("empty command")
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...) //nolint:gosec
	cmd.Stdin = os.Stdin
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	if err := cmd.Start(); err != nil {
		return -1, fmt.Errorf("start %s: %w", argv[0], err)
	}

	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return -1, fmt.Errorf("wait %s: %w", argv[0], err)
	}
	return 0, nil
}

// Available reports whether tool resolves to an executable.
func Available(tool string) error {
	if _, err := exec.LookPath(tool); err != nil {
		return fmt.Errorf("binary %q not found: %w", tool, err)
	}
	return nil
}
