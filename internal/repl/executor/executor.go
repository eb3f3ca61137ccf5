// Package executor runs external commands for the REPL. Commands are looked
// up on the session PATH, run in the session working directory with the
// session environment, and share the REPL's standard streams.
package executor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"go.uber.org/zap"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
)

// SpawnError is returned when a command could not be started at all.
type SpawnError struct {
	Name string
	Err  error
}

func (e *SpawnError) Error() string {
	return e.Err.Error()
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

// ExitStatusError is returned when a command ran but did not exit
// successfully.
type ExitStatusError struct {
	Name  string
	State *os.ProcessState
}

func (e *ExitStatusError) Error() string {
	return e.State.String()
}

// ExitCode returns the exit code, or -1 if the process was killed by a signal.
func (e *ExitStatusError) ExitCode() int {
	return e.State.ExitCode()
}

// Options configures an Executor. Nil streams default to the process
// standard streams.
type Options struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *zap.Logger
}

// Executor spawns external commands and waits for them to finish.
type Executor struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	logger *zap.Logger
}

// New creates an Executor.
func New(opts Options) *Executor {
	e := &Executor{
		stdin:  opts.Stdin,
		stdout: opts.Stdout,
		stderr: opts.Stderr,
		logger: opts.Logger,
	}
	if e.stdin == nil {
		e.stdin = os.Stdin
	}
	if e.stdout == nil {
		e.stdout = os.Stdout
	}
	if e.stderr == nil {
		e.stderr = os.Stderr
	}
	if e.logger == nil {
		e.logger = zap.NewNop()
	}
	return e
}

// Execute runs name with args in dir and blocks until it exits. There is no
// timeout and the context is only consulted before the command starts.
//
// A command that cannot be started yields a SpawnError; one that exits
// unsuccessfully yields an ExitStatusError.
func (e *Executor) Execute(ctx context.Context, dir string, env expand.Environ, name string, args []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := interp.LookPathDir(dir, env, name)
	if err != nil {
		e.logger.Debug("command lookup failed", zap.String("command", name), zap.Error(err))
		return &SpawnError{Name: name, Err: err}
	}

	cmd := exec.Cmd{
		Path:   path,
		Args:   append([]string{name}, args...),
		Dir:    dir,
		Env:    execEnv(env),
		Stdin:  e.stdin,
		Stdout: e.stdout,
		Stderr: e.stderr,
	}

	start := time.Now()
	if err := cmd.Start(); err != nil {
		e.logger.Debug("command failed to start", zap.String("command", name), zap.Error(err))
		return &SpawnError{Name: name, Err: err}
	}

	err = cmd.Wait()
	e.logger.Debug("command finished",
		zap.String("command", name),
		zap.String("path", path),
		zap.Int("exit_code", cmd.ProcessState.ExitCode()),
		zap.Duration("duration", time.Since(start)),
	)

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ExitStatusError{Name: name, State: exitErr.ProcessState}
		}
		return fmt.Errorf("failed to wait for %s: %w", name, err)
	}

	return nil
}

// execEnv converts expand.Environ to []string for exec.Cmd.Env
func execEnv(env expand.Environ) []string {
	result := []string{}
	env.Each(func(name string, vr expand.Variable) bool {
		if vr.Exported {
			result = append(result, name+"="+vr.String())
		}
		return true
	})
	return result
}
