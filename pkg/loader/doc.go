// Package loader parses a unit file and its drop-in fragments and merges
// them into one koanf tree.
//
// Fragments are applied in the order given, so callers pass
// resolver.Result.ApplicationOrder(): sorted by file name, letting the
// last name have the last word. Files ending in .toml,
// .yaml or .yml are read with the koanf parsers; everything else is read
// as unit-file syntax (see UnitParser).
//
// Merge rules:
//   - tables (sections) merge recursively
//   - lists append
//   - an empty assignment to a key holding a list resets the list
//   - any other value replaces the earlier one
package loader
