// Package filesystem provides filesystem implementations for drop-in
// resolution.
//
// This package contains implementations of the read-only types.FS interface:
// the OS filesystem used in production and an afero-backed filesystem used by
// in-memory tests.
package filesystem
