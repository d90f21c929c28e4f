// pkg/testutil/environment.go
// DEPENDENCIES: None (base test utilities)
// PURPOSE: Lay out configuration roots and drop-in trees for tests

package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arthur-debert/dropin/pkg/filesystem"
	"github.com/arthur-debert/dropin/pkg/types"
	"github.com/spf13/afero"
)

// EnvType defines the type of test environment
type EnvType int

const (
	EnvMemoryOnly EnvType = iota // Pure in-memory, no real filesystem
	EnvIsolated                  // Real filesystem in temp directory
)

// TestEnvironment holds a filesystem and helpers to populate it
type TestEnvironment struct {
	// Root prefixes every relative path given to the helpers
	Root string

	// FS reads the environment
	FS types.FS

	// Type of the environment
	Type EnvType

	t   *testing.T
	mem afero.Fs
}

// NewTestEnvironment creates a new test environment
func NewTestEnvironment(t *testing.T, envType EnvType) *TestEnvironment {
	t.Helper()

	env := &TestEnvironment{t: t, Type: envType}
	switch envType {
	case EnvMemoryOnly:
		env.mem = afero.NewMemMapFs()
		env.FS = filesystem.NewAferoFS(env.mem)
		env.Root = "/"
	case EnvIsolated:
		env.FS = filesystem.NewOS()
		env.Root = t.TempDir()
	default:
		t.Fatalf("unknown environment type %d", envType)
	}
	return env
}

// Path returns the absolute path of rel inside the environment
func (e *TestEnvironment) Path(rel string) string {
	return filepath.Join(e.Root, rel)
}

// SearchPath builds a search path from relative roots
func (e *TestEnvironment) SearchPath(rels ...string) types.SearchPath {
	sp := make(types.SearchPath, len(rels))
	for i, rel := range rels {
		sp[i] = e.Path(rel)
	}
	return sp
}

// WriteFile creates a file and its parent directories
func (e *TestEnvironment) WriteFile(rel, content string) string {
	e.t.Helper()

	path := e.Path(rel)
	e.MkdirAll(filepath.Dir(rel))
	var err error
	if e.mem != nil {
		err = afero.WriteFile(e.mem, path, []byte(content), 0644)
	} else {
		err = os.WriteFile(path, []byte(content), 0644)
	}
	if err != nil {
		e.t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// WriteTree writes every file of a relative-path to content map
func (e *TestEnvironment) WriteTree(files map[string]string) {
	e.t.Helper()
	for rel, content := range files {
		e.WriteFile(rel, content)
	}
}

// Touch creates empty files named by relative paths
func (e *TestEnvironment) Touch(rels ...string) {
	e.t.Helper()
	for _, rel := range rels {
		e.WriteFile(rel, "")
	}
}

// MkdirAll creates a directory and its parents
func (e *TestEnvironment) MkdirAll(rel string) string {
	e.t.Helper()

	path := e.Path(rel)
	var err error
	if e.mem != nil {
		err = e.mem.MkdirAll(path, 0755)
	} else {
		err = os.MkdirAll(path, 0755)
	}
	if err != nil {
		e.t.Fatalf("mkdir %s: %v", path, err)
	}
	return path
}

// Symlink creates a symlink at rel pointing to target. Targets that are
// not absolute and do not start with "." are taken relative to Root.
// Memory environments have no symlinks, so the test is skipped there.
func (e *TestEnvironment) Symlink(target, rel string) string {
	e.t.Helper()

	if e.mem != nil {
		e.t.Skip("symlinks need EnvIsolated")
	}
	if !filepath.IsAbs(target) && !strings.HasPrefix(target, ".") {
		target = e.Path(target)
	}

	path := e.Path(rel)
	e.MkdirAll(filepath.Dir(rel))
	if err := os.Symlink(target, path); err != nil {
		e.t.Fatalf("symlink %s -> %s: %v", path, target, err)
	}
	return path
}

// Remove deletes a file or an empty directory
func (e *TestEnvironment) Remove(rel string) {
	e.t.Helper()

	path := e.Path(rel)
	var err error
	if e.mem != nil {
		err = e.mem.Remove(path)
	} else {
		err = os.Remove(path)
	}
	if err != nil {
		e.t.Fatalf("remove %s: %v", path, err)
	}
}
