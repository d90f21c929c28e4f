package testutil

import (
	"io/fs"
	"path/filepath"
	"sync"

	"github.com/arthur-debert/dropin/pkg/types"
)

// ErrorFS wraps a types.FS, injecting errors for chosen paths and counting
// ReadDir calls per directory
type ErrorFS struct {
	types.FS

	mu         sync.Mutex
	errorPaths map[string]error
	readDirs   map[string]int

	// ReadDirHook, if set, runs before every ReadDir
	ReadDirHook func(name string)
}

// NewErrorFS wraps base
func NewErrorFS(base types.FS) *ErrorFS {
	return &ErrorFS{
		FS:         base,
		errorPaths: make(map[string]error),
		readDirs:   make(map[string]int),
	}
}

// InjectError makes every operation on path fail with err
func (e *ErrorFS) InjectError(path string, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.errorPaths[filepath.Clean(path)] = err
}

// ClearError removes an injected error
func (e *ErrorFS) ClearError(path string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.errorPaths, filepath.Clean(path))
}

// ReadDirCount returns how many times name was listed
func (e *ErrorFS) ReadDirCount(name string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.readDirs[filepath.Clean(name)]
}

// TotalReadDirs returns the number of ReadDir calls across all paths
func (e *ErrorFS) TotalReadDirs() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	total := 0
	for _, n := range e.readDirs {
		total += n
	}
	return total
}

func (e *ErrorFS) injected(op, name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err, ok := e.errorPaths[filepath.Clean(name)]; ok {
		return &fs.PathError{Op: op, Path: name, Err: err}
	}
	return nil
}

func (e *ErrorFS) ReadDir(name string) ([]fs.DirEntry, error) {
	if e.ReadDirHook != nil {
		e.ReadDirHook(name)
	}

	e.mu.Lock()
	e.readDirs[filepath.Clean(name)]++
	e.mu.Unlock()

	if err := e.injected("readdir", name); err != nil {
		return nil, err
	}
	return e.FS.ReadDir(name)
}

func (e *ErrorFS) Stat(name string) (fs.FileInfo, error) {
	if err := e.injected("stat", name); err != nil {
		return nil, err
	}
	return e.FS.Stat(name)
}

func (e *ErrorFS) Lstat(name string) (fs.FileInfo, error) {
	if err := e.injected("lstat", name); err != nil {
		return nil, err
	}
	return e.FS.Lstat(name)
}

func (e *ErrorFS) ReadFile(name string) ([]byte, error) {
	if err := e.injected("read", name); err != nil {
		return nil, err
	}
	return e.FS.ReadFile(name)
}
