// Test Type: Unit Test
// Description: Tests for fragment filtering and ordering within a directory

package scanner_test

import (
	"io/fs"
	"testing"

	"github.com/arthur-debert/dropin/pkg/errors"
	"github.com/arthur-debert/dropin/pkg/pathcache"
	"github.com/arthur-debert/dropin/pkg/scanner"
	"github.com/arthur-debert/dropin/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanner_Scan(t *testing.T) {
	t.Run("sorted_bytewise_case_sensitive", func(t *testing.T) {
		env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
		env.Touch(
			"u/foo.d/z.conf",
			"u/foo.d/a.conf",
			"u/foo.d/B.conf",
			"u/foo.d/10-x.conf",
			"u/foo.d/b.conf",
		)

		names, err := scanner.New(pathcache.New(env.FS)).Scan(env.Path("u/foo.d"))
		require.NoError(t, err)
		assert.Equal(t, []string{"10-x.conf", "B.conf", "a.conf", "b.conf", "z.conf"}, names)
	})

	t.Run("filters_hidden_wrong_suffix_and_dirs", func(t *testing.T) {
		env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
		env.Touch(
			"u/foo.d/ok.conf",
			"u/foo.d/.hidden.conf",
			"u/foo.d/notes.txt",
			"u/foo.d/ok.conf~",
			"u/foo.d/.conf",
		)
		env.MkdirAll("u/foo.d/sub.conf")

		names, err := scanner.New(pathcache.New(env.FS)).Scan(env.Path("u/foo.d"))
		require.NoError(t, err)
		assert.Equal(t, []string{"ok.conf"}, names)
	})

	t.Run("custom_suffixes", func(t *testing.T) {
		env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
		env.Touch("u/foo.d/a.toml", "u/foo.d/b.yaml", "u/foo.d/c.conf")

		s := scanner.New(pathcache.New(env.FS), ".toml", ".yaml")
		names, err := s.Scan(env.Path("u/foo.d"))
		require.NoError(t, err)
		assert.Equal(t, []string{"a.toml", "b.yaml"}, names)
		assert.Equal(t, []string{".toml", ".yaml"}, s.Suffixes())
	})

	t.Run("missing_directory_is_empty", func(t *testing.T) {
		env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)

		names, err := scanner.New(pathcache.New(env.FS)).Scan(env.Path("u/foo.d"))
		require.NoError(t, err)
		assert.Empty(t, names)
	})

	t.Run("propagates_access_errors", func(t *testing.T) {
		env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
		env.Touch("u/foo.d/a.conf")
		efs := testutil.NewErrorFS(env.FS)
		efs.InjectError(env.Path("u/foo.d"), fs.ErrPermission)

		_, err := scanner.New(pathcache.New(efs)).Scan(env.Path("u/foo.d"))
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrPermission))
	})
}

func TestScanner_ScanEntries_Symlinks(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvIsolated)
	env.Touch("store/real.conf")
	env.Symlink("store/real.conf", "u/foo.d/20-linked.conf")
	env.Symlink("/dev/null", "u/foo.d/10-masked.conf")
	env.Symlink("store/gone.conf", "u/foo.d/30-dangling.conf")

	res, err := scanner.New(pathcache.New(env.FS)).ScanEntries(env.Path("u/foo.d"))
	require.NoError(t, err)
	assert.Equal(t, []string{"20-linked.conf"}, res.Files)
	assert.Equal(t, []string{"10-masked.conf"}, res.Masks)
}

func TestScanner_Matches(t *testing.T) {
	s := scanner.New(nil)

	assert.True(t, s.Matches("10-override.conf"))
	assert.False(t, s.Matches(".conf"))
	assert.False(t, s.Matches(".10-override.conf"))
	assert.False(t, s.Matches("override.conf.bak"))
	assert.False(t, s.Matches("override"))
}
