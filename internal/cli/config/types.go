// Package config provides configuration management for the leaprelay CLI.
//
// This package layers CLI-specific settings (jobs, verbosity, output format)
// on top of the shared project configuration in internal/config.
package config

import (
	"log/slog"

	intconfig "github.com/leapstack-labs/leaprelay/internal/config"
	"github.com/leapstack-labs/leaprelay/internal/engine"
)

// ProjectConfig is an alias for the shared project configuration.
type ProjectConfig = intconfig.ProjectConfig

// Default configuration values.
const (
	DefaultOutput = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultJobs   = 0      // GOMAXPROCS
	EnvPrefix     = "LEAPRELAY_"
)

// Config holds all CLI configuration options.
type Config struct {
	ArtifactDirectory string   `koanf:"artifactDirectory" json:"artifactDirectory,omitempty" yaml:"artifactDirectory,omitempty"`
	Module            string   `koanf:"module" json:"module" yaml:"module"`
	Builder           string   `koanf:"builder" json:"builder" yaml:"builder"`
	Extensions        []string `koanf:"extensions" json:"extensions,omitempty" yaml:"extensions,omitempty"`
	Exclude           []string `koanf:"exclude" json:"exclude,omitempty" yaml:"exclude,omitempty"`
	Jobs              int      `koanf:"jobs" json:"jobs" yaml:"jobs"`
	Verbose           bool     `koanf:"verbose" json:"verbose" yaml:"verbose"`
	OutputFormat      string   `koanf:"output" json:"output" yaml:"output"`

	// Set by the loader, never read from configuration sources.
	ProjectRoot string `koanf:"-" json:"projectRoot" yaml:"projectRoot"`
	ConfigFile  string `koanf:"-" json:"configFile,omitempty" yaml:"configFile,omitempty"`
}

// Project returns the shared project settings.
func (c *Config) Project() *ProjectConfig {
	return &ProjectConfig{
		ArtifactDirectory: c.ArtifactDirectory,
		Module:            c.Module,
		Builder:           c.Builder,
		Extensions:        c.Extensions,
		Exclude:           c.Exclude,
	}
}

// EngineConfig builds the engine configuration.
func (c *Config) EngineConfig(logger *slog.Logger) engine.Config {
	return engine.Config{
		Transform:  c.Project().TransformConfig(),
		Module:     c.Module,
		Builder:    c.Builder,
		Jobs:       c.Jobs,
		Extensions: c.Extensions,
		Exclude:    c.Exclude,
		Logger:     logger,
	}
}
