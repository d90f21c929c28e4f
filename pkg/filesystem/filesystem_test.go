// Test Type: Unit Test
// Description: Tests for the OS and afero filesystem implementations

package filesystem_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/dropin/pkg/filesystem"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOS(t *testing.T) {
	fsys := filesystem.NewOS()
	require.NotNil(t, fsys)

	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "10-limits.conf")
	require.NoError(t, os.WriteFile(testFile, []byte("[Service]\nLimitNOFILE=1024\n"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, "sub.d"), 0755))
	require.NoError(t, os.Symlink(os.DevNull, filepath.Join(tmpDir, "20-masked.conf")))

	info, err := fsys.Stat(testFile)
	require.NoError(t, err)
	assert.Equal(t, "10-limits.conf", info.Name())

	content, err := fsys.ReadFile(testFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), "LimitNOFILE")

	entries, err := fsys.ReadDir(tmpDir)
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	linfo, err := fsys.Lstat(filepath.Join(tmpDir, "20-masked.conf"))
	require.NoError(t, err)
	assert.True(t, linfo.Mode()&fs.ModeSymlink != 0)

	target, err := fsys.Readlink(filepath.Join(tmpDir, "20-masked.conf"))
	require.NoError(t, err)
	assert.Equal(t, os.DevNull, target)

	_, err = fsys.Stat(filepath.Join(tmpDir, "missing"))
	assert.True(t, os.IsNotExist(err))
}

func TestNewAferoFS(t *testing.T) {
	mem := afero.NewMemMapFs()
	require.NoError(t, mem.MkdirAll("/etc/u/foo.d", 0755))
	require.NoError(t, afero.WriteFile(mem, "/etc/u/foo.d/b.conf", []byte("b"), 0644))
	require.NoError(t, afero.WriteFile(mem, "/etc/u/foo.d/a.conf", []byte("a"), 0644))

	fsys := filesystem.NewAferoFS(mem)

	t.Run("read_dir_is_sorted", func(t *testing.T) {
		entries, err := fsys.ReadDir("/etc/u/foo.d")
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "a.conf", entries[0].Name())
		assert.Equal(t, "b.conf", entries[1].Name())
	})

	t.Run("read_file_rejects_directories", func(t *testing.T) {
		_, err := fsys.ReadFile("/etc/u/foo.d")
		assert.ErrorIs(t, err, fs.ErrInvalid)
	})

	t.Run("lstat_falls_back_to_stat", func(t *testing.T) {
		info, err := fsys.Lstat("/etc/u/foo.d/a.conf")
		require.NoError(t, err)
		assert.True(t, info.Mode().IsRegular())
	})

	t.Run("readlink_unsupported", func(t *testing.T) {
		_, err := fsys.Readlink("/etc/u/foo.d/a.conf")
		assert.Error(t, err)
	})

	t.Run("missing_directory", func(t *testing.T) {
		_, err := fsys.ReadDir("/lib/u")
		assert.True(t, os.IsNotExist(err))
	})
}
