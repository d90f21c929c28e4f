package cli

import (
	"fmt"

	"github.com/arthur-debert/dropin/internal/commands"
	"github.com/arthur-debert/dropin/internal/hashutil"
	"github.com/arthur-debert/dropin/pkg/logging"
	"github.com/arthur-debert/dropin/pkg/output"
	"github.com/arthur-debert/dropin/pkg/types"
	"github.com/arthur-debert/dropin/pkg/watch"
	"github.com/spf13/cobra"
)

func newWatchCmd(opts *globalOptions) *cobra.Command {
	var aliases []string

	cmd := &cobra.Command{
		Use:   "watch UNIT",
		Short: commands.MsgWatchShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.newApp(cmd)
			if err != nil {
				return err
			}

			logger := logging.GetLogger("cli.watch")
			id := types.NewUnitIdentity(args[0], aliases...)

			// show renders only when the merged content could have changed
			var last string
			show := func() error {
				res, err := a.resolver.ResolveDetailed(id, a.searchPath)
				if err != nil {
					return err
				}
				fingerprint, err := hashutil.Fingerprint(a.fs, res.Fragments)
				if err != nil {
					return err
				}
				if fingerprint == last {
					logger.Debug().Str("fingerprint", fingerprint).Msg("Drop-ins unchanged")
					return nil
				}
				last = fingerprint
				return a.renderer.RenderResult(output.NewResultView(res, false))
			}
			if err := show(); err != nil {
				return err
			}

			w, err := watch.New(a.resolver.Cache(), a.searchPath, watch.Config{
				Debounce: a.cfg.Watch.Debounce,
				FS:       a.fs,
				OnInvalidate: func(changed []string) {
					logger.Info().Strs("changed", changed).Msg("Drop-ins changed")
					if err := show(); err != nil {
						_ = a.renderer.RenderError(err)
					}
				},
			})
			if err != nil {
				return err
			}
			defer func() { _ = w.Close() }()

			fmt.Fprintf(cmd.ErrOrStderr(), commands.MsgWatching, len(w.Watched()))
			return w.Run(cmd.Context())
		},
	}

	cmd.Flags().StringArrayVarP(&aliases, "alias", "a", nil, commands.MsgFlagAlias)
	return cmd
}
