package loader

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/dropin/pkg/errors"
	"github.com/arthur-debert/dropin/pkg/logging"
	"github.com/arthur-debert/dropin/pkg/resolver"
	"github.com/arthur-debert/dropin/pkg/types"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
)

// Loader reads and merges configuration files through a types.FS
type Loader struct {
	fs     types.FS
	logger zerolog.Logger
}

// New creates a loader reading through fs
func New(fs types.FS) *Loader {
	return &Loader{fs: fs, logger: logging.GetLogger("loader")}
}

// ParserFor picks the koanf parser for a file by its extension
func ParserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return toml.Parser()
	case ".yaml", ".yml":
		return yaml.Parser()
	default:
		return Parser()
	}
}

// Load parses base (skipped when empty) and then each fragment in the
// order given, merging everything onto one tree.
func (l *Loader) Load(base string, fragments []types.Fragment) (*koanf.Koanf, error) {
	done := logging.LogOperationStart(l.logger, "load")
	defer done()

	tree := make(map[string]interface{})

	if base != "" {
		if err := l.apply(tree, base); err != nil {
			return nil, err
		}
	}
	for _, f := range fragments {
		if err := l.apply(tree, f.Path); err != nil {
			return nil, err
		}
	}

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(tree, ""), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to load merged configuration")
	}

	l.logger.Debug().
		Str("base", base).
		Int("fragments", len(fragments)).
		Int("keys", len(k.Keys())).
		Msg("Configuration merged")
	return k, nil
}

// LoadUnit resolves the drop-ins of id and loads them over base
func (l *Loader) LoadUnit(base string, id types.UnitIdentity, searchPath types.SearchPath, r *resolver.Resolver) (*koanf.Koanf, *resolver.Result, error) {
	res, err := r.ResolveDetailed(id, searchPath)
	if err != nil {
		return nil, nil, err
	}
	k, err := l.Load(base, res.ApplicationOrder())
	if err != nil {
		return nil, nil, err
	}
	return k, res, nil
}

func (l *Loader) apply(tree map[string]interface{}, path string) error {
	data, err := l.fs.ReadFile(path)
	if err != nil {
		return errors.FromFS(err, "read", path)
	}

	parsed, err := ParserFor(path).Unmarshal(data)
	if err != nil {
		return errors.Wrapf(err, errors.ErrConfigParse, "failed to parse %s", path).
			WithDetail("path", path)
	}

	mergeMaps(tree, parsed)
	l.logger.Trace().Str("path", path).Msg("Applied configuration file")
	return nil
}
