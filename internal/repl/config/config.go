// Package config provides configuration management for the rshell REPL.
// It handles loading of the optional YAML configuration file, applying
// environment overrides, and validating the policy values the REPL
// understands.
package config

// IdentityPolicy decides what happens when the prompt cannot determine the
// user or home directory.
type IdentityPolicy string

const (
	// IdentityDegrade substitutes a placeholder for a missing USER but still
	// fails the prompt when HOME is missing.
	IdentityDegrade IdentityPolicy = "degrade"
	// IdentityStrict fails the prompt when either USER or HOME is missing.
	IdentityStrict IdentityPolicy = "strict"
)

// NoArgumentPolicy decides what a bare cd does.
type NoArgumentPolicy string

const (
	// NoArgumentHome makes a bare cd behave like cd ~.
	NoArgumentHome NoArgumentPolicy = "home"
	// NoArgumentError makes a bare cd report a missing argument.
	NoArgumentError NoArgumentPolicy = "error"
)

// Config holds all REPL configuration.
type Config struct {
	// LogLevel controls logging verbosity (debug, info, warn, error).
	LogLevel string `yaml:"logLevel"`

	Prompt PromptConfig `yaml:"prompt"`
	Cd     CdConfig     `yaml:"cd"`
}

// PromptConfig controls prompt rendering.
type PromptConfig struct {
	Identity IdentityPolicy `yaml:"identity"`

	// PlaceholderUser is shown in place of a missing USER under the degrade
	// policy.
	PlaceholderUser string `yaml:"placeholderUser"`

	// Color enables prompt styling. Styling is still dropped automatically
	// when stdout is not a terminal.
	Color bool `yaml:"color"`
}

// CdConfig controls the cd built-in.
type CdConfig struct {
	NoArgument NoArgumentPolicy `yaml:"noArgument"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Prompt: PromptConfig{
			Identity:        IdentityDegrade,
			PlaceholderUser: "unknown",
			Color:           true,
		},
		Cd: CdConfig{
			NoArgument: NoArgumentHome,
		},
	}
}
