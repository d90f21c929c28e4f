// Package output renders resolution results, search paths and merged
// configuration for the command line.
//
// Text output is styled with lipgloss using the embedded styles.yaml and
// falls back to plain text when color is disabled. Structured formats
// (json, yaml, toml) render stable view types so scripts can consume them.
package output
