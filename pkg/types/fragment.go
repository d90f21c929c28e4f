package types

import (
	"path/filepath"
)

// SearchPath is an ordered list of configuration roots, highest precedence
// first. A file in an earlier root masks a file of the same name in a later
// one.
type SearchPath []string

// Roots returns the cleaned, non-empty roots in order
func (p SearchPath) Roots() []string {
	roots := make([]string, 0, len(p))
	for _, root := range p {
		if root == "" {
			continue
		}
		roots = append(roots, filepath.Clean(root))
	}
	return roots
}

// Fragment is one resolved drop-in file
type Fragment struct {
	// Path is the absolute path of the fragment file
	Path string `json:"path" yaml:"path" toml:"path"`

	// Root is the search path root the fragment was found under
	Root string `json:"root" yaml:"root" toml:"root"`

	// Dir is the drop-in directory, Root joined with Candidate
	Dir string `json:"dir" yaml:"dir" toml:"dir"`

	// Candidate is the drop-in directory name, e.g. "foo.service.d"
	Candidate string `json:"candidate" yaml:"candidate" toml:"candidate"`

	// Name is the fragment file name, the key used for masking
	Name string `json:"name" yaml:"name" toml:"name"`

	// Rank is the index of Root in the search path; 0 is highest precedence
	Rank int `json:"rank" yaml:"rank" toml:"rank"`
}

// NewFragment builds a fragment from its components
func NewFragment(root, candidate, name string, rank int) Fragment {
	dir := filepath.Join(root, candidate)
	return Fragment{
		Path:      filepath.Join(dir, name),
		Root:      root,
		Dir:       dir,
		Candidate: candidate,
		Name:      name,
		Rank:      rank,
	}
}

// Paths returns the fragment paths in order
func Paths(fragments []Fragment) []string {
	paths := make([]string, len(fragments))
	for i, f := range fragments {
		paths[i] = f.Path
	}
	return paths
}
