// Package names turns a unit identity into the drop-in directory names to
// probe under each search root.
//
// The canonical name comes first, then every alias in the order supplied.
// Optional expansions add the more generic directories shared by several
// units; they are appended after the exact names so an exact directory
// wins a filename tie within the same root.
package names

import (
	"strings"

	"github.com/arthur-debert/dropin/pkg/types"
)

// DirSuffix is appended to a unit name to form its drop-in directory
const DirSuffix = ".d"

// Resolver produces candidate drop-in directory names.
// The zero value probes exact names only.
type Resolver struct {
	// Templates adds "foo@.service.d" for an instance "foo@bar.service"
	Templates bool

	// Prefixes adds "a-b-.service.d" and "a-.service.d" for "a-b-c.service"
	Prefixes bool

	// TypeWide adds "service.d" for "x.service"
	TypeWide bool
}

// Candidates returns the drop-in directory names for id. No deduplication
// is done; coinciding names collapse naturally during resolution.
func (r Resolver) Candidates(id types.UnitIdentity) []string {
	names := id.Names()
	candidates := make([]string, 0, len(names))
	for _, name := range names {
		candidates = append(candidates, name+DirSuffix)
	}

	if !r.Templates && !r.Prefixes && !r.TypeWide {
		return candidates
	}

	for _, name := range names {
		candidates = append(candidates, r.expand(name)...)
	}
	return candidates
}

// Candidates returns the exact-name candidates for id
func Candidates(id types.UnitIdentity) []string {
	return Resolver{}.Candidates(id)
}

func (r Resolver) expand(name string) []string {
	stem, suffix := splitSuffix(name)

	var out []string
	if r.Templates {
		if template, ok := templateOf(stem); ok {
			out = append(out, template+suffix+DirSuffix)
		}
	}
	if r.Prefixes {
		for _, prefix := range dashPrefixes(stem) {
			out = append(out, prefix+suffix+DirSuffix)
		}
	}
	if r.TypeWide && suffix != "" {
		out = append(out, strings.TrimPrefix(suffix, ".")+DirSuffix)
	}
	return out
}

// splitSuffix splits "foo.service" into "foo" and ".service". A name with
// no dot, or only a leading dot, has no suffix.
func splitSuffix(name string) (string, string) {
	i := strings.LastIndexByte(name, '.')
	if i <= 0 {
		return name, ""
	}
	return name[:i], name[i:]
}

// templateOf maps "foo@bar" to "foo@". Templates themselves ("foo@") and
// names without '@' have no template.
func templateOf(stem string) (string, bool) {
	i := strings.IndexByte(stem, '@')
	if i <= 0 || i == len(stem)-1 {
		return "", false
	}
	return stem[:i+1], true
}

// dashPrefixes returns the dash-terminated prefixes of stem, longest first.
// "a-b-c" yields "a-b-", "a-". The instance part of a template name is not
// split.
func dashPrefixes(stem string) []string {
	if i := strings.IndexByte(stem, '@'); i >= 0 {
		stem = stem[:i]
	}

	var prefixes []string
	for i := len(stem) - 1; i > 0; i-- {
		if stem[i] == '-' && i < len(stem)-1 {
			prefixes = append(prefixes, stem[:i+1])
		}
	}
	return prefixes
}
