// Test Type: Integration Test
// Description: Tests for loading a unit and its resolved drop-ins

package loader_test

import (
	"testing"

	"github.com/arthur-debert/dropin/pkg/errors"
	"github.com/arthur-debert/dropin/pkg/loader"
	"github.com/arthur-debert/dropin/pkg/pathcache"
	"github.com/arthur-debert/dropin/pkg/resolver"
	"github.com/arthur-debert/dropin/pkg/testutil"
	"github.com/arthur-debert/dropin/pkg/types"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParserFor(t *testing.T) {
	assert.IsType(t, toml.Parser(), loader.ParserFor("/x/10-a.toml"))
	assert.IsType(t, yaml.Parser(), loader.ParserFor("/x/10-a.YAML"))
	assert.IsType(t, yaml.Parser(), loader.ParserFor("/x/10-a.yml"))
	assert.IsType(t, loader.Parser(), loader.ParserFor("/x/10-a.conf"))
}

func TestLoadUnit(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	env.WriteTree(map[string]string{
		"units/app.service": `[Service]
Type=simple
ExecStartPre=/bin/one
ExecStartPre=/bin/two
`,
		// lower root, applied first
		"usr/app.service.d/10-limits.conf": `[Service]
LimitNOFILE=1024
`,
		// masked by etc/app.service.d/20-override.conf
		"usr/app.service.d/20-override.conf": `[Service]
Type=masked
`,
		"etc/app.service.d/20-override.conf": `[Service]
Type=notify
ExecStartPre=
ExecStartPre=/bin/three
`,
		"etc/app.service.d/30-env.conf": `[Service]
Environment=A=1
`,
	})

	r := resolver.New(pathcache.New(env.FS))
	l := loader.New(env.FS)

	k, res, err := l.LoadUnit(env.Path("units/app.service"),
		types.NewUnitIdentity("app.service"), env.SearchPath("etc", "usr"), r)
	require.NoError(t, err)

	assert.Len(t, res.Fragments, 3)
	assert.Len(t, res.Overridden, 1)

	assert.Equal(t, "notify", k.String("Service.Type"))
	assert.Equal(t, "1024", k.String("Service.LimitNOFILE"))
	assert.Equal(t, "A=1", k.String("Service.Environment"))
	assert.Equal(t, []string{"/bin/three"}, k.Strings("Service.ExecStartPre"))
}

func TestLoadUnit_SameDirectoryOrder(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	env.WriteTree(map[string]string{
		"etc/app.service.d/10-a.conf": "[Service]\nType=simple\n",
		"etc/app.service.d/20-b.conf": "[Service]\nType=notify\n",
		"usr/app.service.d/30-c.conf": "[Service]\nRestart=always\n",
	})

	r := resolver.New(pathcache.New(env.FS))
	k, res, err := loader.New(env.FS).LoadUnit("", types.NewUnitIdentity("app.service"), env.SearchPath("etc", "usr"), r)
	require.NoError(t, err)

	assert.Equal(t, []string{
		env.Path("etc/app.service.d/10-a.conf"),
		env.Path("etc/app.service.d/20-b.conf"),
		env.Path("usr/app.service.d/30-c.conf"),
	}, types.Paths(res.ApplicationOrder()))
	assert.Equal(t, "notify", k.String("Service.Type"))
	assert.Equal(t, "always", k.String("Service.Restart"))
}

func TestLoad_MixedFormats(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	env.WriteTree(map[string]string{
		"d/10-base.toml": `
[server]
port = 80
tags = ["a"]
`,
		"d/20-more.yaml": `
server:
  port: 8080
  tags: [b]
`,
	})

	k, err := loader.New(env.FS).Load("", []types.Fragment{
		types.NewFragment(env.Path("d"), "", "10-base.toml", 0),
		types.NewFragment(env.Path("d"), "", "20-more.yaml", 0),
	})
	require.NoError(t, err)

	assert.Equal(t, 8080, k.Int("server.port"))
	assert.Equal(t, []string{"a", "b"}, k.Strings("server.tags"))
}

func TestLoad_NoFiles(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)

	k, err := loader.New(env.FS).Load("", nil)
	require.NoError(t, err)
	assert.Empty(t, k.Keys())
}

func TestLoad_Errors(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	env.WriteFile("d/bad.conf", "no section here\n")

	l := loader.New(env.FS)

	_, err := l.Load(env.Path("missing.service"), nil)
	require.Error(t, err)
	assert.Equal(t, errors.ErrNotFound, errors.GetErrorCode(err))

	_, err = l.Load("", []types.Fragment{types.NewFragment(env.Path("d"), "", "bad.conf", 0)})
	require.Error(t, err)
	assert.Equal(t, errors.ErrConfigParse, errors.GetErrorCode(err))
	assert.Equal(t, env.Path("d/bad.conf"), errors.GetErrorDetails(err)["path"])
}
