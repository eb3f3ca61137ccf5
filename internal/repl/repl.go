// Package repl provides the interactive read-dispatch loop for rshell. It
// ties together the prompt renderer, the line reader, the tokenizer and the
// built-in dispatcher, and turns every failure into a diagnostic on stderr.
package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/rshell-dev/rshell/internal/repl/builtin"
	"github.com/rshell-dev/rshell/internal/repl/config"
	"github.com/rshell-dev/rshell/internal/repl/executor"
	"github.com/rshell-dev/rshell/internal/repl/input"
	"github.com/rshell-dev/rshell/internal/repl/render"
	"github.com/rshell-dev/rshell/internal/repl/session"
	"github.com/rshell-dev/rshell/internal/styles"
)

// maxReadFailures is the number of consecutive read failures after which the
// input stream is treated as closed.
const maxReadFailures = 10

// Options configures a REPL. Every field is optional.
type Options struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Config defaults to config.DefaultConfig().
	Config *config.Config

	// Session defaults to a session over the process working directory and
	// environment.
	Session *session.Session

	Logger *zap.Logger
}

// REPL is the interactive loop.
type REPL struct {
	config     *config.Config
	session    *session.Session
	reader     *input.LineReader
	prompt     *render.PromptRenderer
	dispatcher *builtin.Dispatcher
	stdout     io.Writer
	stderr     io.Writer
	palette    *styles.Palette
	logger     *zap.Logger
}

// NewREPL creates a REPL from opts.
func NewREPL(opts Options) (*REPL, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	stdin, stdout, stderr := opts.Stdin, opts.Stdout, opts.Stderr
	if stdin == nil {
		stdin = os.Stdin
	}
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	sess := opts.Session
	if sess == nil {
		var err error
		sess, err = session.New(session.Options{Logger: logger})
		if err != nil {
			return nil, fmt.Errorf("failed to create session: %w", err)
		}
	}

	exec := executor.New(executor.Options{
		Stdin:  stdin,
		Stdout: stdout,
		Stderr: stderr,
		Logger: logger,
	})

	return &REPL{
		config:     cfg,
		session:    sess,
		reader:     input.NewLineReader(stdin),
		prompt:     render.NewPromptRenderer(stdout, sess, cfg.Prompt, logger),
		dispatcher: builtin.NewDispatcher(sess, exec, cfg.Cd.NoArgument, logger),
		stdout:     stdout,
		stderr:     stderr,
		palette:    styles.NewPalette(stderr),
		logger:     logger,
	}, nil
}

// Config returns the configuration the REPL was built with.
func (r *REPL) Config() *config.Config {
	return r.config
}

// Session returns the REPL session.
func (r *REPL) Session() *session.Session {
	return r.session
}

// Run loops until exit is dispatched or the input stream ends, and then
// returns nil. It returns the context error if ctx is cancelled between
// commands.
func (r *REPL) Run(ctx context.Context) error {
	r.logger.Info("repl started", zap.String("dir", r.session.Dir()))

	readFailures := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := r.prompt.Render(); err != nil {
			r.printError("Error printing prompt: " + err.Error())
		}

		line, err := r.reader.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				r.logger.Info("input closed, exiting")
				fmt.Fprintln(r.stdout)
				return nil
			}

			readFailures++
			r.logger.Warn("failed to read input", zap.Error(err), zap.Int("consecutive", readFailures))
			r.report(err)
			if readFailures >= maxReadFailures {
				r.logger.Error("input keeps failing, exiting", zap.Error(err))
				return nil
			}
			continue
		}
		readFailures = 0

		if r.RunLine(ctx, line) == builtin.Terminate {
			r.logger.Info("exit requested")
			return nil
		}
	}
}

// RunLine tokenizes and dispatches a single line, reporting any failure.
func (r *REPL) RunLine(ctx context.Context, line string) builtin.Outcome {
	cmd, ok := input.Tokenize(line)
	if !ok {
		return builtin.Continue
	}

	outcome, err := r.dispatcher.Dispatch(ctx, cmd)
	if err != nil {
		r.report(err)
	}
	return outcome
}

// Close releases resources held by the REPL.
func (r *REPL) Close() error {
	r.logger.Info("repl closed", zap.String("dir", r.session.Dir()))
	return nil
}
