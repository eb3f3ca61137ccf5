package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/rshell-dev/rshell/internal/core"
	"github.com/rshell-dev/rshell/internal/repl"
	"github.com/rshell-dev/rshell/internal/repl/config"
	"github.com/rshell-dev/rshell/internal/repl/session"
	"github.com/rshell-dev/rshell/internal/styles"
)

var BUILD_VERSION = "dev"

var command = flag.String("c", "", "run a single command line and exit")
var configPath = flag.String("config", "", "path to the YAML config file")

var helpFlag = flag.Bool("h", false, "display help information")
var versionFlag = flag.Bool("ver", false, "display build version")

const helpText = `rshell - A minimal interactive shell

USAGE:
  rshell [options]

MODES:
  rshell                  Start an interactive shell
  rshell -c "command"     Run a single command line and exit

BUILT-INS:
  exit                    Leave the shell
  cd [dir]                Change the working directory
  ~                       Change to the home directory
  ..                      Change to the parent directory

CONFIGURATION:
  ~/.rshell/config.yaml, or the file named by -config or RSHELL_CONFIG.
  Logs are written to ~/.rshell/rshell.log.

OPTIONS:
`

// startup carries everything main resolves from flags and the process.
type startup struct {
	command    string
	configPath string
	stdin      io.Reader
	stdout     io.Writer
	stderr     io.Writer

	// syncProcess makes cd move the process working directory too.
	syncProcess bool
}

func main() {
	flag.Parse()

	if *versionFlag {
		fmt.Println(BUILD_VERSION)
		return
	}

	if *helpFlag {
		fmt.Print(helpText)
		flag.PrintDefaults()
		return
	}

	os.Exit(run(context.Background(), startup{
		command:     *command,
		configPath:  *configPath,
		stdin:       os.Stdin,
		stdout:      os.Stdout,
		stderr:      os.Stderr,
		syncProcess: true,
	}))
}

// run starts rshell and returns the process exit code.
func run(ctx context.Context, s startup) int {
	palette := styles.NewPalette(s.stderr)
	fail := func(format string, args ...any) int {
		fmt.Fprintln(s.stderr, palette.Error("rshell: "+fmt.Sprintf(format, args...)))
		return 1
	}

	// Without HOME there is nowhere to log to or load config from, but the
	// shell itself still works.
	paths, pathsErr := core.DefaultPaths()
	defaultConfigPath := ""
	if pathsErr == nil {
		defaultConfigPath = paths.ConfigFile
	} else if !errors.Is(pathsErr, core.ErrNoHome) {
		fmt.Fprintln(s.stderr, palette.Warning("rshell: logging and default config disabled: "+pathsErr.Error()))
	}

	loader := config.NewLoader(nil)
	result, err := loader.LoadFromFile(loader.ResolvePath(s.configPath, defaultConfigPath))
	if err != nil {
		return fail("%v", err)
	}
	for _, configErr := range result.Errors {
		fmt.Fprintln(s.stderr, palette.Warning("rshell: config: "+configErr.Error()))
	}

	logger, err := initializeLogger(paths, result.Config.LogLevel)
	if err != nil {
		return fail("failed to initialize logger: %v", err)
	}
	defer logger.Sync() // Flush any buffered log entries

	logger.Info("-------- new rshell session --------",
		zap.Strings("args", os.Args),
		zap.String("version", BUILD_VERSION),
		zap.Bool("interactive", isTerminal(s.stdin)),
	)

	sess, err := session.New(session.Options{
		SyncProcess: s.syncProcess,
		Logger:      logger,
	})
	if err != nil {
		logger.Error("failed to create session", zap.Error(err))
		return fail("%v", err)
	}

	r, err := repl.NewREPL(repl.Options{
		Stdin:   s.stdin,
		Stdout:  s.stdout,
		Stderr:  s.stderr,
		Config:  result.Config,
		Session: sess,
		Logger:  logger,
	})
	if err != nil {
		logger.Error("failed to initialize REPL", zap.Error(err))
		return fail("failed to initialize REPL: %v", err)
	}
	defer r.Close()

	// rshell -c "ls -la"
	if s.command != "" {
		outcome := r.RunLine(ctx, s.command)
		logger.Info("command mode finished", zap.Stringer("outcome", outcome))
		return 0
	}

	if err := r.Run(ctx); err != nil {
		logger.Error("unhandled error", zap.Error(err))
		return 1
	}

	return 0
}

// initializeLogger builds a file logger under the data directory. With no
// data directory the logger discards everything.
func initializeLogger(paths *core.Paths, level string) (*zap.Logger, error) {
	if paths == nil {
		return zap.NewNop(), nil
	}

	logLevel, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	if BUILD_VERSION == "dev" {
		logLevel = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	loggerConfig := zap.NewProductionConfig()
	loggerConfig.Level = logLevel
	loggerConfig.OutputPaths = []string{
		paths.LogFile,
	}

	// Logs only go to file so they never interleave with the prompt.
	// Use `tail -f ~/.rshell/rshell.log` to monitor logs in real-time

	logger, err := loggerConfig.Build()
	if err != nil {
		return nil, err
	}

	return logger.With(zap.String("session", uuid.NewString())), nil
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
