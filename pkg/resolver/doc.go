// Package resolver discovers the drop-in fragments of a unit across a
// prioritized search path.
//
// # Ordering
//
// The search path lists roots highest precedence first. Under every root
// each candidate directory (see package names) is scanned, and each
// fragment file name is accepted the first time it is seen. A later file
// with the same name, in a lower root or a later candidate directory, is
// masked. A fragment linked to /dev/null masks the name without being
// returned.
//
// Resolve returns fragments in discovery order: root, then candidate, then
// file name. That is precedence order, highest first. Result.ApplicationOrder
// gives the merge order: all accepted fragments sorted byte-wise by file
// name, so "20-b.conf" is applied after "10-a.conf" whether they share a
// directory or not. Merge semantics belong to the caller (see package
// loader).
//
// # Errors
//
// Missing directories are not errors. Any other filesystem failure is
// reported as a *ResolutionError naming the root and directory. With
// PolicySkip the failing directory is logged, recorded in Result.Skipped,
// and resolution continues.
package resolver
