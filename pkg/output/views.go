package output

import (
	"github.com/arthur-debert/dropin/pkg/resolver"
	"github.com/arthur-debert/dropin/pkg/types"
)

// SkipView is a swallowed resolution error
type SkipView struct {
	Root  string `json:"root" yaml:"root" toml:"root"`
	Dir   string `json:"dir" yaml:"dir" toml:"dir"`
	Error string `json:"error" yaml:"error" toml:"error"`
}

// ResultView is the structured form of a resolution result
type ResultView struct {
	Unit       string           `json:"unit" yaml:"unit" toml:"unit"`
	Aliases    []string         `json:"aliases,omitempty" yaml:"aliases,omitempty" toml:"aliases,omitempty"`
	Fragments  []types.Fragment `json:"fragments" yaml:"fragments" toml:"fragments"`
	Overridden []types.Fragment `json:"overridden,omitempty" yaml:"overridden,omitempty" toml:"overridden,omitempty"`
	Nulled     []types.Fragment `json:"nulled,omitempty" yaml:"nulled,omitempty" toml:"nulled,omitempty"`
	Skipped    []SkipView       `json:"skipped,omitempty" yaml:"skipped,omitempty" toml:"skipped,omitempty"`
}

// NewResultView converts res; all adds the masked and skipped entries
func NewResultView(res *resolver.Result, all bool) ResultView {
	view := ResultView{
		Unit:      res.Identity.Name,
		Aliases:   res.Identity.Aliases,
		Fragments: res.Fragments,
	}
	if view.Fragments == nil {
		view.Fragments = []types.Fragment{}
	}
	if !all {
		return view
	}

	view.Overridden = res.Overridden
	view.Nulled = res.Nulled
	for _, skip := range res.Skipped {
		view.Skipped = append(view.Skipped, SkipView{Root: skip.Root, Dir: skip.Dir, Error: skip.Err.Error()})
	}
	return view
}

// PathsView is the structured form of a search path
type PathsView struct {
	Scope      string   `json:"scope" yaml:"scope" toml:"scope"`
	Root       string   `json:"root,omitempty" yaml:"root,omitempty" toml:"root,omitempty"`
	SearchPath []string `json:"search_path" yaml:"search_path" toml:"search_path"`
}
