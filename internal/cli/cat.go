package cli

import (
	"github.com/arthur-debert/dropin/internal/commands"
	"github.com/arthur-debert/dropin/pkg/loader"
	"github.com/arthur-debert/dropin/pkg/types"
	"github.com/spf13/cobra"
)

func newCatCmd(opts *globalOptions) *cobra.Command {
	var (
		aliases []string
		base    string
	)

	cmd := &cobra.Command{
		Use:   "cat UNIT",
		Short: commands.MsgCatShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.newApp(cmd)
			if err != nil {
				return err
			}

			k, _, err := loader.New(a.fs).LoadUnit(base, types.NewUnitIdentity(args[0], aliases...), a.searchPath, a.resolver)
			if err != nil {
				return err
			}
			return a.renderer.RenderTree(k.Raw())
		},
	}

	cmd.Flags().StringArrayVarP(&aliases, "alias", "a", nil, commands.MsgFlagAlias)
	cmd.Flags().StringVar(&base, "base", "", commands.MsgFlagBase)
	return cmd
}
