package pathcache

import (
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/arthur-debert/dropin/pkg/errors"
	"github.com/arthur-debert/dropin/pkg/logging"
	"github.com/arthur-debert/dropin/pkg/types"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// Stats reports cache counters
type Stats struct {
	Hits    uint64
	Misses  uint64
	Scans   uint64
	Entries int
}

// Cache memoizes classified directory listings
type Cache struct {
	fs     types.FS
	logger zerolog.Logger

	mu         sync.RWMutex
	listings   map[string]types.Listing
	generation uint64

	group singleflight.Group

	hits   atomic.Uint64
	misses atomic.Uint64
	scans  atomic.Uint64
}

// New creates an empty cache reading through fs
func New(fs types.FS) *Cache {
	return &Cache{
		fs:       fs,
		logger:   logging.GetLogger("pathcache"),
		listings: make(map[string]types.Listing),
	}
}

// Lookup returns the listing of dir, scanning the filesystem on first use.
// A directory that does not exist yields an empty listing and no error.
func (c *Cache) Lookup(dir string) (types.Listing, error) {
	dir = filepath.Clean(dir)

	c.mu.RLock()
	listing, ok := c.listings[dir]
	gen := c.generation
	c.mu.RUnlock()

	if ok {
		c.hits.Add(1)
		return listing, nil
	}
	c.misses.Add(1)

	// The generation is part of the key so a lookup issued after an
	// invalidation never joins a scan that started before it.
	key := strconv.FormatUint(gen, 10) + "\x00" + dir
	v, err, shared := c.group.Do(key, func() (interface{}, error) {
		listing, err := c.scan(dir)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		if c.generation == gen {
			c.listings[dir] = listing
		}
		c.mu.Unlock()

		return listing, nil
	})
	if err != nil {
		return types.Listing{}, err
	}

	if shared {
		c.logger.Trace().Str("dir", dir).Msg("Joined in-flight scan")
	}
	return v.(types.Listing), nil
}

// Invalidate drops every cached listing. It does not touch the filesystem.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	n := len(c.listings)
	c.listings = make(map[string]types.Listing)
	c.generation++
	c.mu.Unlock()

	c.logger.Debug().Int("dropped", n).Msg("Cache invalidated")
}

// InvalidateDir drops the cached listing of one directory
func (c *Cache) InvalidateDir(dir string) {
	dir = filepath.Clean(dir)

	c.mu.Lock()
	delete(c.listings, dir)
	c.generation++
	c.mu.Unlock()

	c.logger.Debug().Str("dir", dir).Msg("Directory invalidated")
}

// Len returns the number of cached directories
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.listings)
}

// Stats returns a snapshot of the cache counters
func (c *Cache) Stats() Stats {
	return Stats{
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Scans:   c.scans.Load(),
		Entries: c.Len(),
	}
}

func (c *Cache) scan(dir string) (types.Listing, error) {
	c.scans.Add(1)

	entries, err := c.fs.ReadDir(dir)
	if err != nil {
		if errors.IsNotExist(err) {
			c.logger.Trace().Str("dir", dir).Msg("Directory absent, caching empty listing")
			return types.NewListing(nil), nil
		}
		c.logger.Debug().Err(err).Str("dir", dir).Msg("Directory scan failed")
		return types.Listing{}, errors.FromFS(err, "readdir", dir)
	}

	classified := make([]types.Entry, 0, len(entries))
	for _, entry := range entries {
		classified = append(classified, types.Entry{
			Name: entry.Name(),
			Kind: c.classify(dir, entry),
		})
	}

	c.logger.Trace().Str("dir", dir).Int("entries", len(classified)).Msg("Directory scanned")
	return types.NewListing(classified), nil
}

func (c *Cache) classify(dir string, entry os.DirEntry) types.EntryKind {
	mode := entry.Type()
	switch {
	case mode&os.ModeSymlink != 0:
		return c.classifySymlink(filepath.Join(dir, entry.Name()))
	case entry.IsDir():
		return types.KindDirectory
	case mode.IsRegular():
		return types.KindRegular
	default:
		return types.KindOther
	}
}

func (c *Cache) classifySymlink(path string) types.EntryKind {
	if target, err := c.fs.Readlink(path); err == nil && filepath.Clean(target) == os.DevNull {
		return types.KindNull
	}

	info, err := c.fs.Stat(path)
	if err != nil {
		return types.KindOther
	}
	switch {
	case info.IsDir():
		return types.KindDirectory
	case info.Mode().IsRegular():
		return types.KindRegular
	default:
		return types.KindOther
	}
}
