package errors

import (
	"errors"
	"io/fs"
	"syscall"
)

// IsNotExist reports whether err means the path is absent. ENOTDIR counts as
// absent: a search root that is a regular file has no drop-in directories.
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}

// FromFS wraps a filesystem error with the code matching its cause:
// ErrNotFound, ErrPermission or ErrIO. The path is recorded as a detail.
func FromFS(err error, op, path string) *Error {
	if err == nil {
		return nil
	}

	code := ErrIO
	switch {
	case IsNotExist(err):
		code = ErrNotFound
	case errors.Is(err, fs.ErrPermission):
		code = ErrPermission
	}

	return Wrapf(err, code, "%s %s", op, path).
		WithDetail("op", op).
		WithDetail("path", path)
}
