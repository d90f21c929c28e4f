package lookup

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/dropin/pkg/errors"
	"github.com/arthur-debert/dropin/pkg/types"
)

// Environment variable names
const (
	// EnvUnitPath overrides the default search path
	EnvUnitPath = "DROPIN_UNIT_PATH"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// DefaultApp names the directory under each configuration root
const DefaultApp = "systemd"

// Scope selects which family of roots is searched
type Scope string

const (
	ScopeSystem Scope = "system"
	ScopeUser   Scope = "user"
)

// ParseScope validates a scope name
func ParseScope(s string) (Scope, error) {
	switch Scope(strings.ToLower(strings.TrimSpace(s))) {
	case "", ScopeSystem:
		return ScopeSystem, nil
	case ScopeUser:
		return ScopeUser, nil
	default:
		return "", errors.Newf(errors.ErrInvalidInput, "unknown scope %q", s).
			WithDetail("allowed", []string{string(ScopeSystem), string(ScopeUser)})
	}
}

// Env holds the XDG locations used by the user scope
type Env struct {
	ConfigHome string
	DataHome   string
	RuntimeDir string
	DataDirs   []string
}

// EnvFromXDG reads the current XDG locations
func EnvFromXDG() Env {
	return Env{
		ConfigHome: xdg.ConfigHome,
		DataHome:   xdg.DataHome,
		RuntimeDir: xdg.RuntimeDir,
		DataDirs:   xdg.DataDirs,
	}
}

// Options configures search path assembly
type Options struct {
	// Scope defaults to ScopeSystem
	Scope Scope

	// App names the per-root directory; defaults to DefaultApp
	App string

	// Root is prepended to every path, for inspecting an image or chroot
	Root string

	// Override is a colon separated root list; see EnvUnitPath
	Override string

	// Env supplies XDG locations; nil reads them from the environment
	Env *Env
}

// Paths is an assembled search path
type Paths struct {
	scope      Scope
	root       string
	searchPath types.SearchPath
}

// New assembles the search path for opts
func New(opts Options) (*Paths, error) {
	scope, err := ParseScope(string(opts.Scope))
	if err != nil {
		return nil, err
	}

	app := opts.App
	if app == "" {
		app = DefaultApp
	}

	env := opts.Env
	if env == nil {
		e := EnvFromXDG()
		env = &e
	}

	var defaults []string
	switch scope {
	case ScopeUser:
		defaults = userPaths(app, *env)
	default:
		defaults = systemPaths(app)
	}

	roots := defaults
	if opts.Override != "" {
		roots = applyOverride(opts.Override, defaults)
	}

	root := ExpandHome(opts.Root)
	searchPath := make(types.SearchPath, 0, len(roots))
	seen := make(map[string]struct{}, len(roots))
	for _, r := range roots {
		r = ExpandHome(r)
		if r == "" {
			continue
		}
		if root != "" {
			r = filepath.Join(root, r)
		}
		r = filepath.Clean(r)
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		searchPath = append(searchPath, r)
	}

	return &Paths{scope: scope, root: root, searchPath: searchPath}, nil
}

// FromEnvironment assembles the search path honouring EnvUnitPath
func FromEnvironment(scope Scope) (*Paths, error) {
	return New(Options{Scope: scope, Override: os.Getenv(EnvUnitPath)})
}

// SearchPath returns a copy of the assembled search path
func (p *Paths) SearchPath() types.SearchPath {
	out := make(types.SearchPath, len(p.searchPath))
	copy(out, p.searchPath)
	return out
}

// Scope returns the scope the path was built for
func (p *Paths) Scope() Scope {
	return p.scope
}

// Root returns the prefix applied to every path
func (p *Paths) Root() string {
	return p.root
}

func systemPaths(app string) []string {
	return []string{
		filepath.Join("/etc", app, "system.control"),
		filepath.Join("/run", app, "system.control"),
		filepath.Join("/run", app, "transient"),
		filepath.Join("/etc", app, "system"),
		filepath.Join("/run", app, "system"),
		filepath.Join("/usr/local/lib", app, "system"),
		filepath.Join("/usr/lib", app, "system"),
	}
}

func userPaths(app string, env Env) []string {
	var paths []string
	add := func(base string, elem ...string) {
		if base == "" {
			return
		}
		paths = append(paths, filepath.Join(append([]string{base}, elem...)...))
	}

	add(env.ConfigHome, app, "user.control")
	add(env.RuntimeDir, app, "user.control")
	add(env.RuntimeDir, app, "transient")
	add(env.ConfigHome, app, "user")
	add("/etc", app, "user")
	add(env.RuntimeDir, app, "user")
	add(env.DataHome, app, "user")
	for _, dir := range env.DataDirs {
		add(dir, app, "user")
	}
	add("/usr/lib", app, "user")
	return paths
}

// applyOverride parses a colon separated list. A trailing colon appends the
// defaults.
func applyOverride(override string, defaults []string) []string {
	appendDefaults := strings.HasSuffix(override, ":")
	var roots []string
	for _, r := range strings.Split(strings.TrimSuffix(override, ":"), ":") {
		if r != "" {
			roots = append(roots, r)
		}
	}
	if appendDefaults {
		roots = append(roots, defaults...)
	}
	return roots
}

// ExpandHome expands ~ to the home directory
func ExpandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv(EnvHome)
		if homeDir == "" {
			return path
		}
	}

	if len(path) == 1 {
		return homeDir
	}
	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:])
	}

	// ~something (not the user's home)
	return path
}
