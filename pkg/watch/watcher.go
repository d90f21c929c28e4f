// Package watch keeps a path cache honest by invalidating it when a
// watched configuration root or drop-in directory changes.
//
// Every existing search root and its first-level "*.d" directories are
// watched. Events inside the debounce window coalesce into a single
// Invalidate of the cache followed by the OnInvalidate callback.
package watch

import (
	"context"
	stderrors "errors"
	"maps"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/arthur-debert/dropin/pkg/errors"
	"github.com/arthur-debert/dropin/pkg/filesystem"
	"github.com/arthur-debert/dropin/pkg/logging"
	"github.com/arthur-debert/dropin/pkg/names"
	"github.com/arthur-debert/dropin/pkg/pathcache"
	"github.com/arthur-debert/dropin/pkg/types"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce is used when Config.Debounce is zero or negative
const DefaultDebounce = 250 * time.Millisecond

// Config holds the parameters for a Watcher
type Config struct {
	// Debounce is the quiet period after the last event before the cache
	// is invalidated
	Debounce time.Duration

	// OnInvalidate runs after each invalidation with the sorted changed
	// paths. A nil callback is a no-op.
	OnInvalidate func(changed []string)

	// FS lists roots to find their drop-in directories. It must see the
	// same tree fsnotify does; nil means the OS filesystem.
	FS types.FS
}

// Watcher invalidates a cache on filesystem changes. Run must be called
// exactly once; a second call returns an error.
type Watcher struct {
	cache    *pathcache.Cache
	fs       types.FS
	fsw      *fsnotify.Watcher
	roots    map[string]struct{}
	debounce time.Duration
	onChange func([]string)
	logger   zerolog.Logger
	started  atomic.Bool

	mu      sync.Mutex
	watched map[string]struct{}
}

// New creates a Watcher for the roots of searchPath. Roots that do not
// exist yet are not watched.
func New(cache *pathcache.Cache, searchPath types.SearchPath, cfg Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrWatch, "failed to create fsnotify watcher")
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsys := cfg.FS
	if fsys == nil {
		fsys = filesystem.NewOS()
	}

	w := &Watcher{
		cache:    cache,
		fs:       fsys,
		fsw:      fsw,
		roots:    make(map[string]struct{}),
		debounce: debounce,
		onChange: cfg.OnInvalidate,
		logger:   logging.GetLogger("watch"),
		watched:  make(map[string]struct{}),
	}

	for _, root := range searchPath.Roots() {
		w.roots[root] = struct{}{}
		if err := w.addRoot(root); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

// Watched returns the sorted watched directories
func (w *Watcher) Watched() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := slices.Collect(maps.Keys(w.watched))
	sort.Strings(out)
	return out
}

// Close releases the underlying watcher
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Run blocks until ctx is cancelled, invalidating the cache after each
// burst of events. It returns nil on cancellation and an error when the
// watcher breaks.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return errors.New(errors.ErrWatch, "Run called more than once")
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]struct{})
		timer   *time.Timer
	)

	fire := func() {
		if ctx.Err() != nil {
			return
		}
		mu.Lock()
		if len(pending) == 0 {
			mu.Unlock()
			return
		}
		changed := slices.Collect(maps.Keys(pending))
		clear(pending)
		mu.Unlock()

		sort.Strings(changed)
		w.cache.Invalidate()
		w.logger.Debug().Strs("changed", changed).Msg("Cache invalidated")

		if w.onChange != nil {
			w.onChange(changed)
		}
	}

	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
		if err := w.fsw.Close(); err != nil {
			w.logger.Warn().Err(err).Msg("Failed to close fsnotify watcher")
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New(errors.ErrWatch, "fsnotify event channel closed unexpectedly")
			}
			if evt.Has(fsnotify.Chmod) && !evt.Has(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) {
				continue
			}
			if evt.Has(fsnotify.Create) {
				w.maybeAddDir(evt.Name)
			}
			w.logger.Trace().Str("path", evt.Name).Str("op", evt.Op.String()).Msg("Filesystem event")

			mu.Lock()
			pending[evt.Name] = struct{}{}
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New(errors.ErrWatch, "fsnotify error channel closed unexpectedly")
			}
			if isFatal(err) {
				return errors.Wrap(err, errors.ErrWatch, "fatal fsnotify error")
			}
			w.logger.Warn().Err(err).Msg("fsnotify error")
		}
	}
}

// addRoot watches root and its drop-in directories
func (w *Watcher) addRoot(root string) error {
	info, err := w.fs.Stat(root)
	if err != nil || !info.IsDir() {
		w.logger.Debug().Str("root", root).Msg("Root not watchable, skipping")
		return nil
	}
	if err := w.add(root); err != nil {
		return err
	}

	entries, err := w.fs.ReadDir(root)
	if err != nil {
		w.logger.Warn().Err(err).Str("root", root).Msg("Cannot list root, watching it alone")
		return nil
	}
	for _, entry := range entries {
		if entry.IsDir() && strings.HasSuffix(entry.Name(), names.DirSuffix) {
			if err := w.add(filepath.Join(root, entry.Name())); err != nil {
				return err
			}
		}
	}
	return nil
}

// maybeAddDir starts watching a drop-in directory created under a root
func (w *Watcher) maybeAddDir(path string) {
	if _, isRoot := w.roots[filepath.Dir(path)]; !isRoot {
		return
	}
	if !strings.HasSuffix(path, names.DirSuffix) {
		return
	}
	info, err := w.fs.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	if err := w.add(path); err != nil {
		w.logger.Warn().Err(err).Str("dir", path).Msg("Failed to watch new drop-in directory")
	}
}

func (w *Watcher) add(dir string) error {
	if err := w.fsw.Add(dir); err != nil {
		return errors.Wrapf(err, errors.ErrWatch, "failed to watch %s", dir).WithDetail("path", dir)
	}
	w.mu.Lock()
	w.watched[dir] = struct{}{}
	w.mu.Unlock()
	w.logger.Trace().Str("dir", dir).Msg("Watching directory")
	return nil
}

// isFatal reports resource exhaustion, after which the watcher is useless
func isFatal(err error) bool {
	return stderrors.Is(err, syscall.ENOSPC) || stderrors.Is(err, syscall.EMFILE)
}
