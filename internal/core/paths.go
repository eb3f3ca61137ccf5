package core

import (
	"errors"
	"os"
	"path/filepath"
)

// ErrNoHome is returned when the data directory cannot be derived because
// HOME is not set.
var ErrNoHome = errors.New("HOME is not set")

type Paths struct {
	HomeDir    string
	DataDir    string
	LogFile    string
	ConfigFile string
}

var defaultPaths *Paths

// NewPaths derives the rshell paths from a home directory. The data
// directory is not created.
func NewPaths(homeDir string) (*Paths, error) {
	if homeDir == "" {
		return nil, ErrNoHome
	}

	dataDir := filepath.Join(homeDir, ".rshell")
	return &Paths{
		HomeDir:    homeDir,
		DataDir:    dataDir,
		LogFile:    filepath.Join(dataDir, "rshell.log"),
		ConfigFile: filepath.Join(dataDir, "config.yaml"),
	}, nil
}

// DefaultPaths returns the paths for the current user, creating the data
// directory on first use. Without HOME there is no data directory.
func DefaultPaths() (*Paths, error) {
	if defaultPaths != nil {
		return defaultPaths, nil
	}

	paths, err := NewPaths(os.Getenv("HOME"))
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(paths.DataDir, 0755); err != nil {
		return nil, err
	}

	defaultPaths = paths
	return defaultPaths, nil
}

// ResetPaths clears the cached paths, forcing them to be reinitialized.
// This is primarily used for testing purposes.
func ResetPaths() {
	defaultPaths = nil
}
