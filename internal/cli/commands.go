package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/arthur-debert/dropin/internal/commands"
	"github.com/arthur-debert/dropin/internal/version"
	"github.com/arthur-debert/dropin/pkg/config"
	"github.com/arthur-debert/dropin/pkg/errors"
	"github.com/arthur-debert/dropin/pkg/filesystem"
	"github.com/arthur-debert/dropin/pkg/logging"
	"github.com/arthur-debert/dropin/pkg/output"
	"github.com/arthur-debert/dropin/pkg/pathcache"
	"github.com/arthur-debert/dropin/pkg/resolver"
	"github.com/arthur-debert/dropin/pkg/types"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// globalOptions holds the persistent flags
type globalOptions struct {
	verbosity   int
	configFile  string
	scope       string
	root        string
	format      string
	errorPolicy string
}

// app is the state shared by every command after flags are parsed
type app struct {
	cfg        *config.Config
	fs         types.FS
	searchPath types.SearchPath
	resolver   *resolver.Resolver
	renderer   *output.Renderer
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "dropin",
		Short:   commands.MsgRootShort,
		Long:    commands.MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Setup logging based on verbosity
			logging.Setup(logging.Options{
				Verbosity: opts.verbosity,
				Console:   cmd.ErrOrStderr(),
				NoColor:   !colorEnabled(cmd.ErrOrStderr()),
			})
			logging.LogCommand(cmd.Name(), args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.CountVarP(&opts.verbosity, "verbose", "v", commands.MsgFlagVerbose)
	flags.StringVar(&opts.configFile, "config", "", commands.MsgFlagConfig)
	flags.StringVar(&opts.scope, "scope", "", commands.MsgFlagScope)
	flags.StringVar(&opts.root, "root", "", commands.MsgFlagRoot)
	flags.StringVarP(&opts.format, "format", "o", "text", commands.MsgFlagFormat)
	flags.StringVar(&opts.errorPolicy, "error-policy", "", commands.MsgFlagErrorPolicy)

	_ = rootCmd.RegisterFlagCompletionFunc("scope", cobra.FixedCompletions([]string{"system", "user"}, cobra.ShellCompDirectiveNoFileComp))
	_ = rootCmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(output.Formats(), cobra.ShellCompDirectiveNoFileComp))
	_ = rootCmd.RegisterFlagCompletionFunc("error-policy", cobra.FixedCompletions([]string{"fail", "skip"}, cobra.ShellCompDirectiveNoFileComp))

	// Add all commands
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newResolveCmd(opts))
	rootCmd.AddCommand(newCatCmd(opts))
	rootCmd.AddCommand(newPathsCmd(opts))
	rootCmd.AddCommand(newWatchCmd(opts))
	rootCmd.AddCommand(newConfigCmd(opts))

	return rootCmd
}

// overrides turns explicitly set flags into config overrides
func (o *globalOptions) overrides(cmd *cobra.Command) map[string]interface{} {
	out := make(map[string]interface{})
	flags := cmd.Flags()
	if flags.Changed("scope") {
		out["scope"] = o.scope
	}
	if flags.Changed("root") {
		out["root"] = o.root
	}
	if flags.Changed("error-policy") {
		out["error_policy"] = o.errorPolicy
	}
	return out
}

func (o *globalOptions) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfiguration(config.Options{
		ConfigFile: o.configFile,
		Overrides:  o.overrides(cmd),
	})
	if err != nil {
		return nil, err
	}
	log.Debug().
		Str("scope", cfg.Scope).
		Str("root", cfg.Root).
		Str("errorPolicy", cfg.ErrorPolicy).
		Msg("Configuration loaded")
	return cfg, nil
}

func (o *globalOptions) newRenderer(cmd *cobra.Command) (*output.Renderer, error) {
	format, err := output.ParseFormat(o.format)
	if err != nil {
		return nil, err
	}
	return output.NewRenderer(cmd.OutOrStdout(), format, colorEnabled(cmd.OutOrStdout()))
}

// newApp loads configuration and wires the resolver
func (o *globalOptions) newApp(cmd *cobra.Command) (*app, error) {
	renderer, err := o.newRenderer(cmd)
	if err != nil {
		return nil, err
	}

	cfg, err := o.loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	searchPath, err := cfg.ResolveSearchPath()
	if err != nil {
		return nil, err
	}

	resolverOpts, err := cfg.ResolverOptions()
	if err != nil {
		return nil, err
	}

	fs := filesystem.NewOS()
	return &app{
		cfg:        cfg,
		fs:         fs,
		searchPath: searchPath,
		resolver:   resolver.New(pathcache.New(fs), resolverOpts...),
		renderer:   renderer,
	}, nil
}

func colorEnabled(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && output.ColorEnabled(f)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: commands.MsgVersionShort,
		Long:  commands.MsgVersionLong,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, commands.MsgVersionFormat, version.Version)
			if version.Commit != "" {
				fmt.Fprintf(out, commands.MsgCommitFormat, version.Commit)
			}
			if version.Date != "" {
				fmt.Fprintf(out, commands.MsgBuiltFormat, version.Date)
			}
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: commands.MsgCompletionShort,
		Long: `To load completions:

Bash:
  $ source <(dropin completion bash)

Zsh:
  $ dropin completion zsh > "${fpath[1]}/_dropin"

Fish:
  $ dropin completion fish | source

PowerShell:
  PS> dropin completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return errors.Newf(errors.ErrInvalidInput, "unknown shell %s", args[0])
		},
	}
}
