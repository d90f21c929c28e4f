package cli

import (
	"github.com/arthur-debert/dropin/internal/commands"
	"github.com/arthur-debert/dropin/pkg/output"
	"github.com/spf13/cobra"
)

func newPathsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: commands.MsgPathsShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.newApp(cmd)
			if err != nil {
				return err
			}
			return a.renderer.RenderPaths(output.PathsView{
				Scope:      a.cfg.Scope,
				Root:       a.cfg.Root,
				SearchPath: a.searchPath,
			})
		},
	}
}
