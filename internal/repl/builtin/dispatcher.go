package builtin

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"mvdan.cc/sh/v3/expand"

	"github.com/rshell-dev/rshell/internal/repl/config"
	"github.com/rshell-dev/rshell/internal/repl/input"
	"github.com/rshell-dev/rshell/internal/repl/session"
)

// ErrMissingArgument is returned by a bare cd under the error policy.
var ErrMissingArgument = errors.New("missing directory argument")

// Outcome tells the REPL whether to keep reading.
type Outcome int

const (
	Continue Outcome = iota
	Terminate
)

func (o Outcome) String() string {
	if o == Terminate {
		return "terminate"
	}
	return "continue"
}

// Executor runs external commands.
type Executor interface {
	Execute(ctx context.Context, dir string, env expand.Environ, name string, args []string) error
}

// Dispatcher runs parsed commands against a session.
type Dispatcher struct {
	session    *session.Session
	executor   Executor
	noArgument config.NoArgumentPolicy
	logger     *zap.Logger
}

// NewDispatcher creates a Dispatcher. noArgument decides what a bare cd does.
func NewDispatcher(s *session.Session, exec Executor, noArgument config.NoArgumentPolicy, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		session:    s,
		executor:   exec,
		noArgument: noArgument,
		logger:     logger,
	}
}

// Dispatch runs cmd. The returned error describes a failed built-in or
// external command; it never means the REPL should stop. Only Terminate does.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd input.ParsedCommand) (Outcome, error) {
	kind := Classify(cmd.Name)
	d.logger.Debug("dispatching command",
		zap.Stringer("line", cmd),
		zap.Stringer("kind", kind),
	)

	switch kind {
	case KindNone:
		return Continue, nil
	case KindExit:
		return Terminate, nil
	case KindChangeDir:
		return Continue, d.changeDir(cmd)
	case KindHome:
		return Continue, d.cd("~")
	case KindParent:
		return Continue, d.cd("..")
	case KindExternal:
		return Continue, d.executor.Execute(ctx, d.session.Dir(), d.session.Env(), cmd.Name, cmd.Args)
	default:
		return Continue, fmt.Errorf("unhandled command kind %v", kind)
	}
}

// changeDir applies the cd built-in. Arguments after the first are ignored.
func (d *Dispatcher) changeDir(cmd input.ParsedCommand) error {
	if target := cmd.Arg(0); target != "" {
		return d.cd(target)
	}

	switch d.noArgument {
	case config.NoArgumentError:
		return fmt.Errorf("cd: %w", ErrMissingArgument)
	default:
		return d.cd("~")
	}
}

func (d *Dispatcher) cd(target string) error {
	if err := d.session.ChangeDir(target); err != nil {
		d.logger.Info("cd failed", zap.String("target", target), zap.Error(err))
		return fmt.Errorf("cd: %w", err)
	}
	return nil
}
