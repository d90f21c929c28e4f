// Package config handles configuration management for dropin.
// It layers embedded defaults, the user config file, an explicit config
// file, DROPIN_* environment variables and command-line overrides.
package config
