// Test Type: Unit Test
// Description: Tests for format parsing and result rendering

package output

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"os"
	"testing"

	"github.com/arthur-debert/dropin/pkg/errors"
	"github.com/arthur-debert/dropin/pkg/resolver"
	"github.com/arthur-debert/dropin/pkg/types"
	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleResult() *resolver.Result {
	return &resolver.Result{
		Identity: types.NewUnitIdentity("app.service", "alias.service"),
		Fragments: []types.Fragment{
			types.NewFragment("/etc/systemd/system", "app.service.d", "10-a.conf", 0),
			types.NewFragment("/usr/lib/systemd/system", "app.service.d", "20-b.conf", 1),
		},
		Overridden: []types.Fragment{
			types.NewFragment("/usr/lib/systemd/system", "app.service.d", "10-a.conf", 1),
		},
		Nulled: []types.Fragment{
			types.NewFragment("/etc/systemd/system", "app.service.d", "30-c.conf", 0),
		},
		Skipped: []*resolver.ResolutionError{
			{Root: "/run/systemd/system", Dir: "/run/systemd/system/app.service.d", Err: stderrors.New("permission denied")},
		},
	}
}

func render(t *testing.T, format Format, fn func(*Renderer) error) string {
	t.Helper()
	var buf bytes.Buffer
	r, err := NewRenderer(&buf, format, false)
	require.NoError(t, err)
	require.NoError(t, fn(r))
	return buf.String()
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"", FormatText},
		{"text", FormatText},
		{"JSON", FormatJSON},
		{"yml", FormatYAML},
		{"toml", FormatTOML},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseFormat("xml")
	require.Error(t, err)
	assert.Equal(t, errors.ErrInvalidInput, errors.GetErrorCode(err))
}

func TestColorEnabled_NotATerminal(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.False(t, ColorEnabled(f))
}

func TestNewResultView(t *testing.T) {
	res := sampleResult()

	brief := NewResultView(res, false)
	assert.Equal(t, "app.service", brief.Unit)
	assert.Len(t, brief.Fragments, 2)
	assert.Empty(t, brief.Overridden)
	assert.Empty(t, brief.Skipped)

	all := NewResultView(res, true)
	assert.Len(t, all.Overridden, 1)
	assert.Len(t, all.Nulled, 1)
	require.Len(t, all.Skipped, 1)
	assert.Equal(t, "permission denied", all.Skipped[0].Error)

	empty := NewResultView(&resolver.Result{Identity: types.NewUnitIdentity("x")}, false)
	assert.NotNil(t, empty.Fragments)
}

func TestRenderResult_Text(t *testing.T) {
	out := render(t, FormatText, func(r *Renderer) error {
		return r.RenderResult(NewResultView(sampleResult(), true))
	})

	assert.Contains(t, out, "app.service (alias.service)")
	assert.Contains(t, out, "[0] /etc/systemd/system/app.service.d/10-a.conf")
	assert.Contains(t, out, "[1] /usr/lib/systemd/system/app.service.d/10-a.conf (overridden)")
	assert.Contains(t, out, "30-c.conf (masked)")
	assert.Contains(t, out, "skipped /run/systemd/system/app.service.d")
	assert.NotContains(t, out, "\x1b[", "no escape sequences without color")
}

func TestRenderResult_TextEmpty(t *testing.T) {
	out := render(t, FormatText, func(r *Renderer) error {
		return r.RenderResult(NewResultView(&resolver.Result{Identity: types.NewUnitIdentity("x")}, false))
	})
	assert.Contains(t, out, "no drop-ins")
}

func TestRenderResult_Structured(t *testing.T) {
	view := NewResultView(sampleResult(), false)

	t.Run("json", func(t *testing.T) {
		out := render(t, FormatJSON, func(r *Renderer) error { return r.RenderResult(view) })
		var got ResultView
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Equal(t, view, got)
	})

	t.Run("yaml", func(t *testing.T) {
		out := render(t, FormatYAML, func(r *Renderer) error { return r.RenderResult(view) })
		var got ResultView
		require.NoError(t, yaml.Unmarshal([]byte(out), &got))
		assert.Equal(t, view.Fragments, got.Fragments)
	})

	t.Run("toml list", func(t *testing.T) {
		out := render(t, FormatTOML, func(r *Renderer) error { return r.RenderResults([]ResultView{view}) })
		var got map[string][]ResultView
		require.NoError(t, toml.Unmarshal([]byte(out), &got))
		require.Len(t, got["units"], 1)
		assert.Equal(t, "app.service", got["units"][0].Unit)
	})
}

func TestRenderPaths(t *testing.T) {
	view := PathsView{Scope: "system", SearchPath: []string{"/etc/systemd/system", "/usr/lib/systemd/system"}}

	out := render(t, FormatText, func(r *Renderer) error { return r.RenderPaths(view) })
	assert.Contains(t, out, "system search path")
	assert.Contains(t, out, " 1 /usr/lib/systemd/system")

	out = render(t, FormatJSON, func(r *Renderer) error { return r.RenderPaths(view) })
	assert.Contains(t, out, `"search_path"`)
}

func TestRenderTree(t *testing.T) {
	tree := map[string]interface{}{
		"Service": map[string]interface{}{"Type": "notify"},
	}

	out := render(t, FormatText, func(r *Renderer) error { return r.RenderTree(tree) })
	assert.Equal(t, "[Service]\nType=notify\n", out)

	out = render(t, FormatTOML, func(r *Renderer) error { return r.RenderTree(tree) })
	assert.Contains(t, out, "[Service]")
	assert.Regexp(t, `Type = ['"]notify['"]`, out)
}

func TestRenderError(t *testing.T) {
	out := render(t, FormatText, func(r *Renderer) error {
		return r.RenderError(errors.New(errors.ErrNotFound, "no such unit"))
	})
	assert.Equal(t, "Error: [NOT_FOUND] no such unit\n", out)
}

func TestLoadStyles(t *testing.T) {
	var buf bytes.Buffer
	r, err := NewRenderer(&buf, FormatText, true)
	require.NoError(t, err)

	for _, name := range []string{"Header", "FilePath", "Rank", "Override", "Masked", "Warning", "Error"} {
		_, ok := r.styles[name]
		assert.True(t, ok, name)
	}
	assert.NotPanics(t, func() { r.styles.Get("Missing").Render("x") })
}
