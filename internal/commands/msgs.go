package commands

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Resolve unit drop-in configuration fragments"
	MsgVersionShort    = "Print version information"
	MsgVersionLong     = "Print detailed version information including commit hash and build date"
	MsgResolveShort    = "List the drop-in fragments of one or more units"
	MsgCatShort        = "Print the merged configuration of a unit and its drop-ins"
	MsgPathsShort      = "Print the configuration search path"
	MsgWatchShort      = "Resolve a unit and re-resolve it whenever its drop-ins change"
	MsgConfigShort     = "Print the effective dropin configuration"
	MsgCompletionShort = "Generate shell completion script"

	// Flag descriptions
	MsgFlagVerbose     = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig      = "Config file (default is $XDG_CONFIG_HOME/dropin/config.toml)"
	MsgFlagScope       = "Search path scope: system or user"
	MsgFlagRoot        = "Prefix every search path root, to inspect an image or chroot"
	MsgFlagFormat      = "Output format: text, json, yaml or toml"
	MsgFlagAlias       = "Alias name probed after the unit name (repeatable)"
	MsgFlagAll         = "Also show overridden, masked and skipped entries"
	MsgFlagBase        = "Unit file merged underneath the drop-ins"
	MsgFlagDefaults    = "Print the built-in defaults instead of the effective configuration"
	MsgFlagErrorPolicy = "Unreadable directory policy: fail or skip"

	// Version output
	MsgVersionFormat = "dropin version %s\n"
	MsgCommitFormat  = "Commit: %s\n"
	MsgBuiltFormat   = "Built:  %s\n"

	// Watch output
	MsgWatching = "Watching %d directories, press Ctrl-C to stop\n"

	// Error messages
	MsgErrAliasMultiple = "--alias needs exactly one unit"
	MsgErrLoadConfig    = "failed to load configuration"
)

// Embedded message files
var (
	//go:embed root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed resolve-example.txt
	msgResolveExampleRaw string
	MsgResolveExample    = strings.TrimSpace(msgResolveExampleRaw)
)
