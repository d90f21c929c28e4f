// Package hashutil computes content digests of configuration files.
package hashutil

import (
	"crypto/sha256"
	"fmt"

	"github.com/arthur-debert/dropin/pkg/errors"
	"github.com/arthur-debert/dropin/pkg/types"
)

// CalculateFileChecksum calculates the SHA256 checksum of a file
func CalculateFileChecksum(fs types.FS, path string) (string, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return "", errors.FromFS(err, "read", path)
	}
	return fmt.Sprintf("sha256:%x", sha256.Sum256(data)), nil
}

// Fingerprint digests the paths and contents of fragments in order. Two
// resolutions with the same fingerprint merge to the same configuration.
func Fingerprint(fs types.FS, fragments []types.Fragment) (string, error) {
	hash := sha256.New()
	for _, f := range fragments {
		data, err := fs.ReadFile(f.Path)
		if err != nil {
			return "", errors.FromFS(err, "read", f.Path)
		}
		// length prefixes keep path/content boundaries unambiguous
		fmt.Fprintf(hash, "%d:%s\n%d:", len(f.Path), f.Path, len(data))
		hash.Write(data)
	}
	return fmt.Sprintf("sha256:%x", hash.Sum(nil)), nil
}
