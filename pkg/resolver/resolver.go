package resolver

import (
	"context"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/arthur-debert/dropin/pkg/logging"
	"github.com/arthur-debert/dropin/pkg/names"
	"github.com/arthur-debert/dropin/pkg/pathcache"
	"github.com/arthur-debert/dropin/pkg/scanner"
	"github.com/arthur-debert/dropin/pkg/types"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers bounds ResolveMany when no worker count is configured
const DefaultWorkers = 4

// Result is a detailed resolution outcome
type Result struct {
	// Identity is the resolved unit
	Identity types.UnitIdentity

	// Fragments in discovery order, highest precedence first
	Fragments []types.Fragment

	// Overridden are fragments hidden by a same-named higher one
	Overridden []types.Fragment

	// Nulled are the /dev/null links that masked a name
	Nulled []types.Fragment

	// Skipped holds errors swallowed under PolicySkip
	Skipped []*ResolutionError
}

// ApplicationOrder returns the fragments sorted by file name, the order in
// which they are merged. Masking has already left one fragment per name, so
// the search path only decides which file carries a name; a later name is
// applied later and wins, wherever it was found.
func (r *Result) ApplicationOrder() []types.Fragment {
	out := slices.Clone(r.Fragments)
	slices.SortStableFunc(out, func(a, b types.Fragment) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out
}

// Resolver finds drop-in fragments through a shared path cache.
// It holds no per-call state and is safe for concurrent use.
type Resolver struct {
	cache    *pathcache.Cache
	scanner  *scanner.Scanner
	names    names.Resolver
	suffixes []string
	policy   ErrorPolicy
	workers  int
	logger   zerolog.Logger
}

// Option configures a Resolver
type Option func(*Resolver)

// WithSuffixes sets the accepted fragment suffixes
func WithSuffixes(suffixes ...string) Option {
	return func(r *Resolver) { r.suffixes = suffixes }
}

// WithNames sets the candidate name expansion
func WithNames(n names.Resolver) Option {
	return func(r *Resolver) { r.names = n }
}

// WithErrorPolicy sets how unreadable directories are handled
func WithErrorPolicy(p ErrorPolicy) Option {
	return func(r *Resolver) { r.policy = p }
}

// WithWorkers bounds the concurrency of ResolveMany
func WithWorkers(n int) Option {
	return func(r *Resolver) { r.workers = n }
}

// New creates a resolver reading through cache
func New(cache *pathcache.Cache, opts ...Option) *Resolver {
	r := &Resolver{
		cache:   cache,
		workers: DefaultWorkers,
		logger:  logging.GetLogger("resolver"),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.workers < 1 {
		r.workers = 1
	}
	r.scanner = scanner.New(cache, r.suffixes...)
	return r
}

// Cache returns the shared path cache
func (r *Resolver) Cache() *pathcache.Cache {
	return r.cache
}

// Resolve returns the fragments of id in discovery order. An empty search
// path or a unit without drop-ins yields an empty slice and no error.
func (r *Resolver) Resolve(id types.UnitIdentity, searchPath types.SearchPath) ([]types.Fragment, error) {
	res, err := r.ResolveDetailed(id, searchPath)
	if err != nil {
		return nil, err
	}
	return res.Fragments, nil
}

// ResolveDetailed resolves id and also reports masked and skipped entries
func (r *Resolver) ResolveDetailed(id types.UnitIdentity, searchPath types.SearchPath) (*Result, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	logger := r.logger.With().Str("unit", id.Name).Logger()
	done := logging.LogOperationStart(logger, "resolve")
	defer done()

	candidates := r.names.Candidates(id)
	res := &Result{Identity: id, Fragments: []types.Fragment{}}
	seen := make(map[string]struct{})
	// a directory reached twice (a repeated root or alias, or a shared
	// expansion) is scanned once
	visited := make(map[string]struct{})

	for rank, root := range searchPath {
		if root == "" {
			continue
		}
		root = filepath.Clean(root)

		for _, candidate := range candidates {
			dir := filepath.Join(root, candidate)
			if _, ok := visited[dir]; ok {
				continue
			}
			visited[dir] = struct{}{}

			entries, err := r.scanner.ScanEntries(dir)
			if err != nil {
				rerr := newResolutionError(root, dir, err)
				if r.policy != PolicySkip {
					return nil, rerr
				}
				logger.Warn().Err(err).Str("root", root).Str("dir", dir).Msg("Skipping unreadable drop-in directory")
				res.Skipped = append(res.Skipped, rerr)
				continue
			}

			for _, name := range entries.Masks {
				if _, ok := seen[name]; ok {
					continue
				}
				seen[name] = struct{}{}
				res.Nulled = append(res.Nulled, types.NewFragment(root, candidate, name, rank))
			}

			for _, name := range entries.Files {
				fragment := types.NewFragment(root, candidate, name, rank)
				if _, ok := seen[name]; ok {
					res.Overridden = append(res.Overridden, fragment)
					continue
				}
				seen[name] = struct{}{}
				res.Fragments = append(res.Fragments, fragment)
			}
		}
	}

	logger.Debug().
		Int("fragments", len(res.Fragments)).
		Int("overridden", len(res.Overridden)).
		Int("nulled", len(res.Nulled)).
		Int("skipped", len(res.Skipped)).
		Msg("Drop-ins resolved")

	return res, nil
}

// ResolveMany resolves several units concurrently through the shared
// cache. Results are keyed by canonical name. The first error cancels the
// remaining work.
func (r *Resolver) ResolveMany(ctx context.Context, ids []types.UnitIdentity, searchPath types.SearchPath) (map[string][]types.Fragment, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	var mu sync.Mutex
	out := make(map[string][]types.Fragment, len(ids))

	for _, id := range ids {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fragments, err := r.Resolve(id, searchPath)
			if err != nil {
				return err
			}
			mu.Lock()
			out[id.Name] = fragments
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
