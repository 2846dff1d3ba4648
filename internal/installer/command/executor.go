// Package command runs the external tools drushgen delegates to.
package command

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/exec"

	dgErrors "github.com/terassyi/drushgen/internal/errors"
)

// Runner runs an executable with positional arguments.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// Executor runs commands without a shell and checks their exit status.
type Executor struct {
	workDir string
	env     []string
}

var _ Runner = (*Executor)(nil)

// NewExecutor creates a new Executor. An empty workDir runs commands in
// the current directory.
func NewExecutor(workDir string) *Executor {
	return &Executor{
		workDir: workDir,
	}
}

// WithEnv returns a copy of e that appends env ("KEY=value") to the
// inherited environment.
func (e *Executor) WithEnv(env ...string) *Executor {
	out := *e
	out.env = append(append([]string(nil), e.env...), env...)
	return &out
}

// Run executes name with args. A command that cannot be started or exits
// non-zero yields *errors.CommandError carrying its combined output.
func (e *Executor) Run(ctx context.Context, name string, args ...string) error {
	slog.Debug("executing command", "command", name, "args", args)

	cmd := exec.CommandContext(ctx, name, args...)
	if e.workDir != "" {
		cmd.Dir = e.workDir
	}
	cmd.Env = append(os.Environ(), e.env...)

	output, err := cmd.CombinedOutput()
	if err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		slog.Error("command failed", "command", name, "exit", exitCode, "error", err)
		return dgErrors.NewCommandError(name, args, exitCode, string(output), err)
	}

	slog.Debug("command succeeded", "command", name, "output", string(output))
	return nil
}

// Available reports whether name can be found in PATH.
func Available(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
