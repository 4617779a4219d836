package commands

import (
	"log/slog"

	"github.com/leapstack-labs/leaprelay/internal/cli/config"
	"github.com/leapstack-labs/leaprelay/internal/cli/output"
	"github.com/leapstack-labs/leaprelay/internal/engine"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Engine   *engine.Engine
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with engine and renderer.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cc, err := NewCommandContextWithoutEngine(cmd)
	if err != nil {
		return nil, err
	}

	eng, err := engine.New(cc.Cfg.EngineConfig(cc.Logger))
	if err != nil {
		return nil, err
	}
	cc.Engine = eng
	return cc, nil
}

// NewCommandContextWithoutEngine creates a CommandContext without an engine.
// Useful for commands that only report configuration.
func NewCommandContextWithoutEngine(cmd *cobra.Command) (*CommandContext, error) {
	cfg, err := getConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}, nil
}

// getConfig returns the configuration loaded by the root command, loading it
// from the command's flags when the command runs on its own.
func getConfig(cmd *cobra.Command) (*config.Config, error) {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg, nil
	}
	return config.LoadConfig("", cmd.Flags())
}

// discoveryRoots returns the paths given on the command line, or the project
// root when there are none.
func discoveryRoots(cc *CommandContext, args []string) []string {
	if len(args) > 0 {
		return args
	}
	return []string{cc.Cfg.ProjectRoot}
}
