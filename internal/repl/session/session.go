// Package session holds the state that outlives a single command: the
// working directory the shell navigates with cd, and the environment that
// identity, home directory and command lookups are read from.
package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"go.uber.org/zap"
	"mvdan.cc/sh/v3/expand"
)

// EnvError is returned when a required environment variable is unset or
// empty.
type EnvError struct {
	Name string
}

func (e *EnvError) Error() string {
	if e.Name == "HOME" {
		return "home directory not set"
	}
	return e.Name + " not set"
}

// NavigationError is returned when a directory cannot become the working
// directory. Path is the argument as the user typed it.
type NavigationError struct {
	Path string
	Err  error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *NavigationError) Unwrap() error {
	return e.Err
}

// Options configures a Session.
type Options struct {
	// Dir is the initial working directory. Defaults to the process working
	// directory.
	Dir string

	// Env is the environment the session reads from and hands to child
	// processes. Defaults to the process environment.
	Env expand.Environ

	// SyncProcess makes every successful directory change also change the
	// process working directory.
	SyncProcess bool

	Logger *zap.Logger
}

// Session is the shell's working directory cursor plus its environment.
type Session struct {
	dir         string
	env         expand.Environ
	syncProcess bool
	logger      *zap.Logger
}

// New creates a Session. The initial directory must exist.
func New(opts Options) (*Session, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	env := opts.Env
	if env == nil {
		env = expand.ListEnviron(os.Environ()...)
	}

	dir := opts.Dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		dir = wd
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", dir, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("invalid initial directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("invalid initial directory: %s is not a directory", abs)
	}

	return &Session{
		dir:         abs,
		env:         env,
		syncProcess: opts.SyncProcess,
		logger:      logger,
	}, nil
}

// Dir returns the working directory as last set.
func (s *Session) Dir() string {
	return s.dir
}

// Env returns the session environment.
func (s *Session) Env() expand.Environ {
	return s.env
}

// Getwd returns the working directory after checking it still exists.
func (s *Session) Getwd() (string, error) {
	if _, err := os.Stat(s.dir); err != nil {
		return "", fmt.Errorf("working directory is not accessible: %w", err)
	}
	return s.dir, nil
}

// Home returns HOME, or an EnvError when it is unset or empty.
func (s *Session) Home() (string, error) {
	return s.lookup("HOME")
}

// User returns USER, or an EnvError when it is unset or empty.
func (s *Session) User() (string, error) {
	return s.lookup("USER")
}

func (s *Session) lookup(name string) (string, error) {
	v := s.env.Get(name)
	if !v.IsSet() || v.String() == "" {
		return "", &EnvError{Name: name}
	}
	return v.String(), nil
}

// ChangeDir makes target the working directory. "~" resolves to HOME;
// anything else is a path handed to the operating system as is, relative
// paths being appended to the current directory, so ".." and symlinks are
// resolved by the kernel. The recorded directory is the canonical path of
// the result. On failure the working directory is left untouched.
func (s *Session) ChangeDir(target string) error {
	path := target
	if target == "~" {
		home, err := s.Home()
		if err != nil {
			return err
		}
		path = home
	}
	path = s.candidate(path)

	info, err := os.Stat(path)
	if err != nil {
		return &NavigationError{Path: target, Err: underlying(err)}
	}
	if !info.IsDir() {
		return &NavigationError{Path: target, Err: syscall.ENOTDIR}
	}
	if err := checkAccess(path); err != nil {
		return &NavigationError{Path: target, Err: underlying(err)}
	}

	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return &NavigationError{Path: target, Err: underlying(err)}
	}

	if s.syncProcess {
		if err := os.Chdir(path); err != nil {
			return &NavigationError{Path: target, Err: underlying(err)}
		}
	}

	s.logger.Debug("changed directory", zap.String("from", s.dir), zap.String("to", resolved))
	s.dir = resolved
	return nil
}

// candidate joins a relative path onto the working directory without any
// lexical cleaning.
func (s *Session) candidate(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasSuffix(s.dir, string(filepath.Separator)) {
		return s.dir + path
	}
	return s.dir + string(filepath.Separator) + path
}

// underlying strips the operation and path from filesystem errors so that
// only the system reason remains.
func underlying(err error) error {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Err
	}
	return err
}

// Abbreviate replaces a leading home directory in dir with "~". Directories
// outside home, or any directory when home is empty, are returned unchanged.
func Abbreviate(dir, home string) string {
	if home == "" {
		return dir
	}

	rel, err := filepath.Rel(filepath.Clean(home), filepath.Clean(dir))
	if err != nil {
		return dir
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return dir
	}
	if rel == "." {
		return "~"
	}
	return "~" + string(filepath.Separator) + rel
}
