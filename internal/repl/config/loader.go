package config

import (
	"fmt"
	"os"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	// EnvConfigPath overrides the default configuration file location.
	EnvConfigPath = "RSHELL_CONFIG"
	// EnvLogLevel overrides the configured log level.
	EnvLogLevel = "RSHELL_LOG_LEVEL"
)

var (
	validLogLevels     = []string{"debug", "info", "warn", "error"}
	validIdentities    = []IdentityPolicy{IdentityDegrade, IdentityStrict}
	validNoArgPolicies = []NoArgumentPolicy{NoArgumentHome, NoArgumentError}
)

// Loader handles loading and validation of rshell configuration files.
type Loader struct {
	logger *zap.Logger
	getenv func(string) string
}

// NewLoader creates a new configuration loader.
func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		logger: logger,
		getenv: os.Getenv,
	}
}

// LoadResult contains the result of loading a configuration file.
type LoadResult struct {
	Config *Config
	Errors []error
}

// ResolvePath picks the configuration file to load: an explicit path wins,
// then RSHELL_CONFIG, then defaultPath. The result may be empty.
func (l *Loader) ResolvePath(explicit, defaultPath string) string {
	if explicit != "" {
		return explicit
	}
	if fromEnv := l.getenv(EnvConfigPath); fromEnv != "" {
		return fromEnv
	}
	return defaultPath
}

// LoadFromFile loads configuration from a YAML file.
// Returns the configuration and any non-fatal errors encountered.
// If path is empty or the file doesn't exist, returns default configuration
// with no error.
func (l *Loader) LoadFromFile(path string) (*LoadResult, error) {
	if path == "" {
		return l.LoadFromBytes(nil)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			l.logger.Debug("config file not found, using defaults", zap.String("path", path))
			return l.LoadFromBytes(nil)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	l.logger.Debug("loading config file", zap.String("path", path))
	return l.LoadFromBytes(content)
}

// LoadFromBytes loads configuration from YAML content. Values that are
// missing keep their defaults; values that are invalid are reported in
// LoadResult.Errors and replaced by their defaults.
func (l *Loader) LoadFromBytes(content []byte) (*LoadResult, error) {
	result := &LoadResult{
		Config: DefaultConfig(),
		Errors: []error{},
	}

	if len(content) > 0 {
		parsed := DefaultConfig()
		if err := yaml.Unmarshal(content, parsed); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("parse error: %w", err))
			// Continue with defaults on parse errors
		} else {
			result.Config = parsed
		}
	}

	l.applyEnvironment(result)
	l.validate(result)

	return result, nil
}

// applyEnvironment applies environment variable overrides.
func (l *Loader) applyEnvironment(result *LoadResult) {
	if level := l.getenv(EnvLogLevel); level != "" {
		result.Config.LogLevel = level
	}
}

// validate resets invalid values to their defaults and records an error for
// each one.
func (l *Loader) validate(result *LoadResult) {
	cfg := result.Config
	defaults := DefaultConfig()

	if !lo.Contains(validLogLevels, cfg.LogLevel) {
		result.Errors = append(result.Errors, fmt.Errorf("invalid logLevel %q, expected one of %v", cfg.LogLevel, validLogLevels))
		cfg.LogLevel = defaults.LogLevel
	}

	if !lo.Contains(validIdentities, cfg.Prompt.Identity) {
		result.Errors = append(result.Errors, fmt.Errorf("invalid prompt.identity %q, expected one of %v", cfg.Prompt.Identity, validIdentities))
		cfg.Prompt.Identity = defaults.Prompt.Identity
	}

	if cfg.Prompt.PlaceholderUser == "" {
		cfg.Prompt.PlaceholderUser = defaults.Prompt.PlaceholderUser
	}

	if !lo.Contains(validNoArgPolicies, cfg.Cd.NoArgument) {
		result.Errors = append(result.Errors, fmt.Errorf("invalid cd.noArgument %q, expected one of %v", cfg.Cd.NoArgument, validNoArgPolicies))
		cfg.Cd.NoArgument = defaults.Cd.NoArgument
	}
}
