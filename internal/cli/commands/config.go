package commands

import (
	"fmt"

	"github.com/leapstack-labs/leaprelay/internal/cli/output"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewConfigCommand creates the config command.
func NewConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long: `Print the configuration after merging defaults, the relay config file,
.env, LEAPRELAY_* environment variables and flags.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, err := NewCommandContextWithoutEngine(cmd)
			if err != nil {
				return err
			}
			r := cc.Renderer

			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(cc.Cfg)
			}

			data, err := yaml.Marshal(cc.Cfg)
			if err != nil {
				return fmt.Errorf("failed to encode config: %w", err)
			}
			if r.EffectiveMode() == output.ModeMarkdown {
				r.Println(output.FormatCodeBlock("yaml", string(data)))
				return nil
			}
			_, _ = fmt.Fprint(r.Writer(), string(data))
			return nil
		},
	}
}
