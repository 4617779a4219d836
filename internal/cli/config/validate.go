package config

import (
	"fmt"
	"os"
	"slices"
)

var outputFormats = []string{"", "auto", "text", "markdown", "json"}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := c.Project().Validate(); err != nil {
		return err
	}
	if c.Jobs < 0 {
		return fmt.Errorf("jobs must not be negative, got %d", c.Jobs)
	}
	if !slices.Contains(outputFormats, c.OutputFormat) {
		return fmt.Errorf("invalid output format %q: must be one of auto, text, markdown, json", c.OutputFormat)
	}
	return nil
}

// ValidateDirectories checks that a configured artifact directory exists.
// A missing directory is not fatal for transforms, so callers decide whether
// to report it.
func (c *Config) ValidateDirectories() error {
	if c.ArtifactDirectory == "" {
		return nil
	}
	info, err := os.Stat(c.ArtifactDirectory)
	if os.IsNotExist(err) {
		return fmt.Errorf("artifact directory does not exist: %s\nHint: run the relay compiler first or set artifactDirectory in relay.config.json", c.ArtifactDirectory)
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("artifact directory is not a directory: %s", c.ArtifactDirectory)
	}
	return nil
}
