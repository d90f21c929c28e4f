package cli

import (
	"io"

	"github.com/arthur-debert/dropin/internal/commands"
	"github.com/arthur-debert/dropin/pkg/config"
	"github.com/spf13/cobra"
)

func newConfigCmd(opts *globalOptions) *cobra.Command {
	var defaults bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: commands.MsgConfigShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if defaults {
				_, err := io.WriteString(cmd.OutOrStdout(), config.DefaultConfigContent())
				return err
			}

			renderer, err := opts.newRenderer(cmd)
			if err != nil {
				return err
			}
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			return renderer.RenderValue(cfg)
		},
	}

	cmd.Flags().BoolVar(&defaults, "defaults", false, commands.MsgFlagDefaults)
	return cmd
}
