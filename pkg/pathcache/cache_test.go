// Test Type: Unit Test
// Description: Tests for the directory listing cache

package pathcache_test

import (
	"io/fs"
	"sync"
	"testing"
	"time"

	"github.com/arthur-debert/dropin/pkg/errors"
	"github.com/arthur-debert/dropin/pkg/pathcache"
	"github.com/arthur-debert/dropin/pkg/testutil"
	"github.com/arthur-debert/dropin/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_Lookup(t *testing.T) {
	t.Run("scans_once_and_caches", func(t *testing.T) {
		env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
		env.Touch("etc/u/foo.d/b.conf", "etc/u/foo.d/a.conf")
		env.MkdirAll("etc/u/foo.d/nested")

		efs := testutil.NewErrorFS(env.FS)
		cache := pathcache.New(efs)
		dir := env.Path("etc/u/foo.d")

		listing, err := cache.Lookup(dir)
		require.NoError(t, err)
		assert.Equal(t, []string{"a.conf", "b.conf", "nested"}, listing.Names())

		entry, ok := listing.Get("nested")
		require.True(t, ok)
		assert.Equal(t, types.KindDirectory, entry.Kind)
		entry, _ = listing.Get("a.conf")
		assert.Equal(t, types.KindRegular, entry.Kind)

		_, err = cache.Lookup(dir + "/")
		require.NoError(t, err)
		assert.Equal(t, 1, efs.ReadDirCount(dir))

		stats := cache.Stats()
		assert.Equal(t, uint64(1), stats.Hits)
		assert.Equal(t, uint64(1), stats.Misses)
		assert.Equal(t, uint64(1), stats.Scans)
		assert.Equal(t, 1, stats.Entries)
	})

	t.Run("missing_directory_is_cached_empty", func(t *testing.T) {
		env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
		efs := testutil.NewErrorFS(env.FS)
		cache := pathcache.New(efs)

		listing, err := cache.Lookup(env.Path("nope/foo.d"))
		require.NoError(t, err)
		assert.Equal(t, 0, listing.Len())

		_, err = cache.Lookup(env.Path("nope/foo.d"))
		require.NoError(t, err)
		assert.Equal(t, 1, efs.TotalReadDirs())
		assert.Equal(t, 1, cache.Len())
	})

	t.Run("errors_are_reported_and_not_cached", func(t *testing.T) {
		env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
		env.Touch("etc/u/foo.d/a.conf", "lib/u/foo.d/b.conf")

		efs := testutil.NewErrorFS(env.FS)
		cache := pathcache.New(efs)
		bad := env.Path("etc/u/foo.d")
		good := env.Path("lib/u/foo.d")
		efs.InjectError(bad, fs.ErrPermission)

		_, err := cache.Lookup(bad)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrPermission))
		assert.Equal(t, bad, errors.GetErrorDetails(err)["path"])

		listing, err := cache.Lookup(good)
		require.NoError(t, err)
		assert.Equal(t, []string{"b.conf"}, listing.Names())

		efs.ClearError(bad)
		listing, err = cache.Lookup(bad)
		require.NoError(t, err)
		assert.Equal(t, []string{"a.conf"}, listing.Names())
		assert.Equal(t, 2, efs.ReadDirCount(bad))
	})

	t.Run("io_errors_use_io_code", func(t *testing.T) {
		env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
		efs := testutil.NewErrorFS(env.FS)
		efs.InjectError("/broken", fs.ErrClosed)

		_, err := pathcache.New(efs).Lookup("/broken")
		assert.True(t, errors.IsErrorCode(err, errors.ErrIO))
	})
}

func TestCache_Invalidate(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	env.Touch("etc/u/foo.d/a.conf")
	cache := pathcache.New(env.FS)
	dir := env.Path("etc/u/foo.d")

	listing, err := cache.Lookup(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.conf"}, listing.Names())

	env.Touch("etc/u/foo.d/b.conf")

	listing, err = cache.Lookup(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.conf"}, listing.Names(), "stale until invalidated")

	cache.Invalidate()
	assert.Equal(t, 0, cache.Len())

	listing, err = cache.Lookup(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.conf", "b.conf"}, listing.Names())

	env.Touch("etc/u/foo.d/c.conf")
	cache.InvalidateDir(dir)
	listing, err = cache.Lookup(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.conf", "b.conf", "c.conf"}, listing.Names())
}

func TestCache_ConcurrentLookupsShareOneScan(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	env.Touch("etc/u/foo.d/a.conf")

	efs := testutil.NewErrorFS(env.FS)
	release := make(chan struct{})
	efs.ReadDirHook = func(string) { <-release }
	cache := pathcache.New(efs)
	dir := env.Path("etc/u/foo.d")

	const workers = 16
	var wg sync.WaitGroup
	results := make([][]string, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			listing, err := cache.Lookup(dir)
			if err == nil {
				results[i] = listing.Names()
			}
		}(i)
	}

	// Give the goroutines time to pile up behind the first scan.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	for _, names := range results {
		assert.Equal(t, []string{"a.conf"}, names)
	}
	assert.LessOrEqual(t, efs.ReadDirCount(dir), 2)
}

func TestCache_Symlinks(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvIsolated)
	env.Touch("lib/u/real.conf")
	env.MkdirAll("lib/u/realdir")
	env.Symlink("lib/u/real.conf", "etc/u/foo.d/linked.conf")
	env.Symlink("lib/u/realdir", "etc/u/foo.d/linkeddir")
	env.Symlink("/dev/null", "etc/u/foo.d/masked.conf")
	env.Symlink("lib/u/missing.conf", "etc/u/foo.d/dangling.conf")

	listing, err := pathcache.New(env.FS).Lookup(env.Path("etc/u/foo.d"))
	require.NoError(t, err)

	kinds := map[string]types.EntryKind{}
	for _, e := range listing.Entries() {
		kinds[e.Name] = e.Kind
	}
	assert.Equal(t, map[string]types.EntryKind{
		"dangling.conf": types.KindOther,
		"linked.conf":   types.KindRegular,
		"linkeddir":     types.KindDirectory,
		"masked.conf":   types.KindNull,
	}, kinds)
}
