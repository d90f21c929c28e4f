package types

import (
	"io/fs"
)

// FS is the read-only filesystem interface required for drop-in resolution
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)

	// Directory operations
	ReadDir(name string) ([]fs.DirEntry, error)

	// Symlink operations
	// Implementations without symlink support fall back to Stat and
	// return an error from Readlink.
	Lstat(name string) (fs.FileInfo, error)
	Readlink(name string) (string, error)
}
