package cli

import (
	"github.com/arthur-debert/dropin/internal/commands"
	"github.com/arthur-debert/dropin/pkg/errors"
	"github.com/arthur-debert/dropin/pkg/logging"
	"github.com/arthur-debert/dropin/pkg/output"
	"github.com/arthur-debert/dropin/pkg/types"
	"github.com/spf13/cobra"
)

func newResolveCmd(opts *globalOptions) *cobra.Command {
	var (
		aliases []string
		all     bool
	)

	cmd := &cobra.Command{
		Use:     "resolve UNIT [UNIT...]",
		Short:   commands.MsgResolveShort,
		Example: commands.MsgResolveExample,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(aliases) > 0 && len(args) > 1 {
				return errors.New(errors.ErrInvalidInput, commands.MsgErrAliasMultiple)
			}

			a, err := opts.newApp(cmd)
			if err != nil {
				return err
			}

			logger := logging.GetLogger("cli.resolve")
			logger.Info().Strs("units", args).Strs("aliases", aliases).Msg("Resolving drop-ins")

			if len(args) == 1 {
				res, err := a.resolver.ResolveDetailed(types.NewUnitIdentity(args[0], aliases...), a.searchPath)
				if err != nil {
					return err
				}
				return a.renderer.RenderResult(output.NewResultView(res, all))
			}

			ids := make([]types.UnitIdentity, len(args))
			for i, name := range args {
				ids[i] = types.NewUnitIdentity(name)
			}
			byName, err := a.resolver.ResolveMany(cmd.Context(), ids, a.searchPath)
			if err != nil {
				return err
			}

			views := make([]output.ResultView, len(ids))
			for i, id := range ids {
				views[i] = output.ResultView{Unit: id.Name, Fragments: byName[id.Name]}
				if views[i].Fragments == nil {
					views[i].Fragments = []types.Fragment{}
				}
			}
			return a.renderer.RenderResults(views)
		},
	}

	cmd.Flags().StringArrayVarP(&aliases, "alias", "a", nil, commands.MsgFlagAlias)
	cmd.Flags().BoolVar(&all, "all", false, commands.MsgFlagAll)
	return cmd
}
