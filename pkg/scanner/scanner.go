// Package scanner lists the fragment files of one drop-in directory.
package scanner

import (
	"strings"

	"github.com/arthur-debert/dropin/pkg/logging"
	"github.com/arthur-debert/dropin/pkg/pathcache"
	"github.com/arthur-debert/dropin/pkg/types"
	"github.com/rs/zerolog"
)

// DefaultSuffix is the conventional fragment extension
const DefaultSuffix = ".conf"

// Result is the outcome of scanning one directory. Both lists are sorted
// byte-wise.
type Result struct {
	// Files are the fragments to apply
	Files []string

	// Masks are fragment names linked to /dev/null. They hide files of the
	// same name in lower-precedence directories and are never applied.
	Masks []string
}

// Scanner filters cached directory listings down to fragment files
type Scanner struct {
	cache    *pathcache.Cache
	suffixes []string
	logger   zerolog.Logger
}

// New creates a scanner accepting the given suffixes (DefaultSuffix if none)
func New(cache *pathcache.Cache, suffixes ...string) *Scanner {
	if len(suffixes) == 0 {
		suffixes = []string{DefaultSuffix}
	}
	return &Scanner{
		cache:    cache,
		suffixes: suffixes,
		logger:   logging.GetLogger("scanner"),
	}
}

// Suffixes returns the accepted fragment suffixes
func (s *Scanner) Suffixes() []string {
	out := make([]string, len(s.suffixes))
	copy(out, s.suffixes)
	return out
}

// Scan returns the sorted fragment file names in dir. A missing directory
// yields no names and no error.
func (s *Scanner) Scan(dir string) ([]string, error) {
	res, err := s.ScanEntries(dir)
	if err != nil {
		return nil, err
	}
	return res.Files, nil
}

// ScanEntries returns the fragment files and null masks in dir
func (s *Scanner) ScanEntries(dir string) (Result, error) {
	listing, err := s.cache.Lookup(dir)
	if err != nil {
		return Result{}, err
	}

	var res Result
	for _, entry := range listing.Entries() {
		if !s.Matches(entry.Name) {
			continue
		}
		switch entry.Kind {
		case types.KindRegular:
			res.Files = append(res.Files, entry.Name)
		case types.KindNull:
			res.Masks = append(res.Masks, entry.Name)
		default:
			s.logger.Trace().
				Str("dir", dir).
				Str("name", entry.Name).
				Stringer("kind", entry.Kind).
				Msg("Skipping non-file entry")
		}
	}

	if len(res.Files) > 0 || len(res.Masks) > 0 {
		s.logger.Debug().
			Str("dir", dir).
			Int("files", len(res.Files)).
			Int("masks", len(res.Masks)).
			Msg("Drop-in directory scanned")
	}
	return res, nil
}

// Matches reports whether name is a fragment name: not hidden, and ending
// in an accepted suffix with a non-empty stem.
func (s *Scanner) Matches(name string) bool {
	if strings.HasPrefix(name, ".") {
		return false
	}
	for _, suffix := range s.suffixes {
		if len(name) > len(suffix) && strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}
