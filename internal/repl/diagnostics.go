package repl

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/rshell-dev/rshell/internal/repl/executor"
	"github.com/rshell-dev/rshell/internal/repl/input"
)

// report writes one diagnostic line for err. A command that exited
// unsuccessfully is a warning; everything else is an error.
func (r *REPL) report(err error) {
	var statusErr *executor.ExitStatusError
	var spawnErr *executor.SpawnError
	var readErr *input.ReadError

	switch {
	case errors.As(err, &statusErr):
		r.logger.Debug("command exited unsuccessfully", zap.String("command", statusErr.Name), zap.Int("exit_code", statusErr.ExitCode()))
		r.printWarning("Command exited with status: " + statusErr.Error())
	case errors.As(err, &spawnErr):
		r.logger.Info("command could not be executed", zap.String("command", spawnErr.Name), zap.Error(spawnErr.Err))
		r.printError("Error executing command: " + spawnErr.Error())
	case errors.As(err, &readErr):
		r.printError("rshell: " + readErr.Error())
	default:
		r.printError(err.Error())
	}
}

func (r *REPL) printError(msg string) {
	fmt.Fprintln(r.stderr, r.palette.Error(msg))
}

func (r *REPL) printWarning(msg string) {
	fmt.Fprintln(r.stderr, r.palette.Warning(msg))
}
