package config

import (
	"strings"
	"time"

	"github.com/arthur-debert/dropin/pkg/errors"
	"github.com/arthur-debert/dropin/pkg/lookup"
	"github.com/arthur-debert/dropin/pkg/names"
	"github.com/arthur-debert/dropin/pkg/resolver"
	"github.com/arthur-debert/dropin/pkg/types"
)

// Expansion enables the generic candidate directories
type Expansion struct {
	Templates bool `koanf:"templates" json:"templates" yaml:"templates" toml:"templates"`
	Prefixes  bool `koanf:"prefixes" json:"prefixes" yaml:"prefixes" toml:"prefixes"`
	TypeWide  bool `koanf:"type_wide" json:"type_wide" yaml:"type_wide" toml:"type_wide"`
}

// Watch holds cache watcher settings
type Watch struct {
	Debounce time.Duration `koanf:"debounce" json:"debounce" yaml:"debounce" toml:"debounce"`
}

// Config is the main configuration structure
type Config struct {
	Scope       string    `koanf:"scope" json:"scope" yaml:"scope" toml:"scope"`
	App         string    `koanf:"app" json:"app" yaml:"app" toml:"app"`
	Root        string    `koanf:"root" json:"root,omitempty" yaml:"root,omitempty" toml:"root,omitempty"`
	UnitPath    string    `koanf:"unit_path" json:"unit_path,omitempty" yaml:"unit_path,omitempty" toml:"unit_path,omitempty"`
	SearchPath  []string  `koanf:"search_path" json:"search_path" yaml:"search_path" toml:"search_path"`
	Suffixes    []string  `koanf:"suffixes" json:"suffixes" yaml:"suffixes" toml:"suffixes"`
	ErrorPolicy string    `koanf:"error_policy" json:"error_policy" yaml:"error_policy" toml:"error_policy"`
	Workers     int       `koanf:"workers" json:"workers" yaml:"workers" toml:"workers"`
	Expansion   Expansion `koanf:"expansion" json:"expansion" yaml:"expansion" toml:"expansion"`
	Watch       Watch     `koanf:"watch" json:"watch" yaml:"watch" toml:"watch"`
}

// Validate checks the configuration for values no component can use
func (c *Config) Validate() error {
	if _, err := lookup.ParseScope(c.Scope); err != nil {
		return errors.Wrap(err, errors.ErrConfigValid, "invalid scope")
	}
	if _, err := resolver.ParseErrorPolicy(c.ErrorPolicy); err != nil {
		return errors.Wrap(err, errors.ErrConfigValid, "invalid error_policy")
	}
	if c.Workers < 1 {
		return errors.Newf(errors.ErrConfigValid, "workers must be at least 1, got %d", c.Workers)
	}
	if len(c.Suffixes) == 0 {
		return errors.New(errors.ErrConfigValid, "at least one fragment suffix is required")
	}
	for _, s := range c.Suffixes {
		if len(s) < 2 || !strings.HasPrefix(s, ".") || strings.ContainsRune(s, '/') {
			return errors.Newf(errors.ErrConfigValid, "invalid fragment suffix %q", s)
		}
	}
	if c.Watch.Debounce < 0 {
		return errors.Newf(errors.ErrConfigValid, "watch.debounce must not be negative, got %s", c.Watch.Debounce)
	}
	return nil
}

// LookupOptions converts the configuration into search path options.
// unit_path wins over search_path; both win over the scope defaults.
func (c *Config) LookupOptions() lookup.Options {
	override := c.UnitPath
	if override == "" && len(c.SearchPath) > 0 {
		override = strings.Join(c.SearchPath, ":")
	}
	return lookup.Options{
		Scope:    lookup.Scope(c.Scope),
		App:      c.App,
		Root:     c.Root,
		Override: override,
	}
}

// ResolveSearchPath assembles the configured search path
func (c *Config) ResolveSearchPath() (types.SearchPath, error) {
	paths, err := lookup.New(c.LookupOptions())
	if err != nil {
		return nil, err
	}
	return paths.SearchPath(), nil
}

// NameResolver returns the configured candidate expansion
func (c *Config) NameResolver() names.Resolver {
	return names.Resolver{
		Templates: c.Expansion.Templates,
		Prefixes:  c.Expansion.Prefixes,
		TypeWide:  c.Expansion.TypeWide,
	}
}

// ResolverOptions converts the configuration into resolver options
func (c *Config) ResolverOptions() ([]resolver.Option, error) {
	policy, err := resolver.ParseErrorPolicy(c.ErrorPolicy)
	if err != nil {
		return nil, err
	}
	return []resolver.Option{
		resolver.WithSuffixes(c.Suffixes...),
		resolver.WithNames(c.NameResolver()),
		resolver.WithErrorPolicy(policy),
		resolver.WithWorkers(c.Workers),
	}, nil
}
