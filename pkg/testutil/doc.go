// Package testutil provides utilities for testing drop-in resolution.
//
// Key components:
//   - TestEnvironment: fixture trees on an in-memory or real filesystem
//   - ErrorFS: a types.FS wrapper that injects per-path errors and counts
//     directory scans
//
// Usage guidelines:
//   - Most tests should use EnvMemoryOnly for speed and isolation
//   - Tests involving symlinks or permissions need EnvIsolated
//   - All test data should be defined inline, not in external files
package testutil
