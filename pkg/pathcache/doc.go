// Package pathcache memoizes directory listings of configuration roots.
//
// A Cache scans each directory once, classifies its entries (regular file,
// directory, null symlink, other) and serves later lookups from memory until
// Invalidate is called. A missing directory is cached as an empty listing;
// any other filesystem error is returned to the caller and not cached, so
// one unreadable directory never affects lookups of the others.
//
// # Concurrency
//
// Lookups are safe for concurrent use. Goroutines racing to populate the
// same directory share one filesystem scan. Invalidate may run concurrently
// with lookups: a scan that started before an invalidation is returned to
// its callers but never stored.
package pathcache
