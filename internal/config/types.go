// Package config provides the shared project configuration for leaprelay.
// This package is decoupled from CLI concerns and is used by the esbuild
// plugin as well as the command line.
package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/leapstack-labs/leaprelay/pkg/transform"
)

// ProjectConfig is the relay section of a project: the contents of
// relay.config.json, .relayrc or the "relay" key of package.json.
type ProjectConfig struct {
	// ArtifactDirectory holds generated artifacts; empty selects the per-file
	// __generated__ convention
	ArtifactDirectory string `koanf:"artifactDirectory" yaml:"artifactDirectory,omitempty"`
	// Module is auto, esm or commonjs
	Module string `koanf:"module" yaml:"module"`
	// Builder is factory or snippet
	Builder string `koanf:"builder" yaml:"builder"`
	// Extensions limits discovery to these source extensions
	Extensions []string `koanf:"extensions" yaml:"extensions,omitempty"`
	// Exclude lists directory names skipped during discovery
	Exclude []string `koanf:"exclude" yaml:"exclude,omitempty"`
}

// TransformConfig returns the immutable configuration handed to the
// transformer.
func (c *ProjectConfig) TransformConfig() transform.Config {
	return transform.Config{ArtifactDirectory: c.ArtifactDirectory}
}

// Validate checks the configuration values.
func (c *ProjectConfig) Validate() error {
	switch strings.ToLower(c.Module) {
	case "", ModuleAuto:
	default:
		if _, err := transform.ParseModuleKind(c.Module); err != nil {
			return err
		}
	}

	if !slices.Contains([]string{"", BuilderFactory, BuilderSnippet}, c.Builder) {
		return fmt.Errorf("invalid builder %q: must be one of %s, %s", c.Builder, BuilderFactory, BuilderSnippet)
	}

	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("invalid extension %q: must start with a dot", ext)
		}
	}
	return nil
}
