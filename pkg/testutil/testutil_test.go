package testutil_test

import (
	"io/fs"
	"testing"

	"github.com/arthur-debert/dropin/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestEnvironment(t *testing.T) {
	for _, envType := range []testutil.EnvType{testutil.EnvMemoryOnly, testutil.EnvIsolated} {
		env := testutil.NewTestEnvironment(t, envType)

		env.WriteTree(map[string]string{
			"etc/u/foo.d/10-a.conf": "a",
			"lib/u/foo.d/20-b.conf": "b",
		})

		content, err := env.FS.ReadFile(env.Path("etc/u/foo.d/10-a.conf"))
		require.NoError(t, err)
		assert.Equal(t, "a", string(content))

		sp := env.SearchPath("etc/u", "lib/u")
		assert.Equal(t, []string{env.Path("etc/u"), env.Path("lib/u")}, sp.Roots())

		env.Remove("lib/u/foo.d/20-b.conf")
		_, err = env.FS.Stat(env.Path("lib/u/foo.d/20-b.conf"))
		assert.ErrorIs(t, err, fs.ErrNotExist)
	}
}

func TestErrorFS(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	env.Touch("etc/u/foo.d/a.conf")

	efs := testutil.NewErrorFS(env.FS)
	dir := env.Path("etc/u/foo.d")

	_, err := efs.ReadDir(dir)
	require.NoError(t, err)

	efs.InjectError(dir, fs.ErrPermission)
	_, err = efs.ReadDir(dir)
	assert.ErrorIs(t, err, fs.ErrPermission)

	efs.ClearError(dir)
	_, err = efs.ReadDir(dir)
	require.NoError(t, err)

	assert.Equal(t, 3, efs.ReadDirCount(dir))
	assert.Equal(t, 3, efs.TotalReadDirs())
}
