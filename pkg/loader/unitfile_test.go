// Test Type: Unit Test
// Description: Tests for the unit-file parser

package loader

import (
	"testing"

	"github.com/arthur-debert/dropin/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitParser_Unmarshal(t *testing.T) {
	input := `
# leading comment
[Unit]
Description = Example service
; other comment style

[Service]
Type=simple
ExecStart=/usr/bin/a \
    --flag \
    # comments inside a continuation are dropped
    value
Environment=A=1
Environment=B=2

[Unit]
After=network.target
`
	got, err := Parser().Unmarshal([]byte(input))
	require.NoError(t, err)

	assert.Equal(t, map[string]interface{}{
		"Unit": map[string]interface{}{
			"Description": "Example service",
			"After":       "network.target",
		},
		"Service": map[string]interface{}{
			"Type":        "simple",
			"ExecStart":   "/usr/bin/a --flag value",
			"Environment": []interface{}{"A=1", "B=2"},
		},
	}, got)
}

func TestUnitParser_KeepsEmptyAssignments(t *testing.T) {
	got, err := Parser().Unmarshal([]byte("[S]\nK=a\nK=\nK=b\nE=\n"))
	require.NoError(t, err)

	section := got["S"].(map[string]interface{})
	assert.Equal(t, []interface{}{"a", "", "b"}, section["K"])
	assert.Equal(t, "", section["E"])
}

func TestUnitParser_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		line  int
	}{
		{"outside section", "Key=value\n", 1},
		{"missing equals", "[S]\n\nJustAWord\n", 3},
		{"bad header", "[S\n", 1},
		{"empty header", "[]\n", 1},
		{"empty key", "[S]\n=value\n", 2},
		{"unterminated continuation", "[S]\nnot an assignment \\", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parser().Unmarshal([]byte(tt.input))
			require.Error(t, err)
			assert.Equal(t, errors.ErrConfigParse, errors.GetErrorCode(err))
			assert.Equal(t, tt.line, errors.GetErrorDetails(err)["line"])
		})
	}
}

func TestUnitParser_Marshal(t *testing.T) {
	out, err := Parser().Marshal(map[string]interface{}{
		"Service": map[string]interface{}{
			"Type":        "simple",
			"Environment": []interface{}{"A=1", "B=2"},
		},
		"Install": map[string]interface{}{
			"WantedBy": "multi-user.target",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, `[Install]
WantedBy=multi-user.target

[Service]
Environment=A=1
Environment=B=2
Type=simple
`, string(out))

	_, err = Parser().Marshal(map[string]interface{}{"loose": "value"})
	assert.Error(t, err)
}
