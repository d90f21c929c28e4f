// Package types defines the core types and interfaces shared by the drop-in
// packages: the unit identity being resolved, the directory listings kept by
// the path cache, the resolved fragments, and the read-only filesystem
// interface every component scans through.
package types
