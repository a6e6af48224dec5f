// Package script runs payload hook commands (init, extract, install) through the invoking
// shell, always in an explicit working directory.
package script

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"orbiter/internal/logger"
	"orbiter/internal/platform"
)

// ErrNonZeroExit is returned by a Strict runner when a command exits unsuccessfully.
var ErrNonZeroExit = errors.New("command exited with non-zero status")

// Runner executes command text with Shell.
//
// By default a non-zero exit status is logged and otherwise ignored: the combined output
// is returned with a nil error. Strict turns it into ErrNonZeroExit.
type Runner struct {
	Shell  platform.Shell
	Strict bool
}

// Run executes command in dir and returns its combined stdout and stderr.
func (r Runner) Run(ctx context.Context, dir, command string) (string, error) {
	cmd := exec.CommandContext(ctx, r.Shell.Program(), r.Shell.CommandFlag(), command)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Debug("[DEBUG] Running command in %s: %s %s %q\n", dir, r.Shell.Program(), r.Shell.CommandFlag(), command)
	err := cmd.Run()
	output := stdout.String() + stderr.String()
	logger.Debug("[DEBUG] Command output: %s\n", strings.TrimSpace(output))

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return output, nil
	case errors.As(err, &exitErr):
		if r.Strict {
			return output, fmt.Errorf("%w (%d): %s", ErrNonZeroExit, exitErr.ExitCode(), command)
		}
		logger.Warn("[WARN] Command exited with status %d: %s\n", exitErr.ExitCode(), command)
		return output, nil
	default:
		return output, fmt.Errorf("failed to run %q with %s: %w", command, r.Shell.Program(), err)
	}
}
