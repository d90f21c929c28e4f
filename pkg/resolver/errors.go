package resolver

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/dropin/pkg/errors"
)

// ErrorPolicy decides what happens when a drop-in directory cannot be read
type ErrorPolicy int

const (
	// PolicyFail aborts resolution with the first error
	PolicyFail ErrorPolicy = iota
	// PolicySkip logs the error, records it and continues
	PolicySkip
)

func (p ErrorPolicy) String() string {
	if p == PolicySkip {
		return "skip"
	}
	return "fail"
}

// ParseErrorPolicy parses "fail" or "skip"
func ParseErrorPolicy(s string) (ErrorPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fail":
		return PolicyFail, nil
	case "skip":
		return PolicySkip, nil
	default:
		return PolicyFail, errors.Newf(errors.ErrInvalidInput, "unknown error policy %q", s).
			WithDetail("allowed", []string{"fail", "skip"})
	}
}

// ResolutionError reports a directory that could not be scanned
type ResolutionError struct {
	Root string
	Dir  string
	Err  error
}

func newResolutionError(root, dir string, cause error) *ResolutionError {
	return &ResolutionError{
		Root: root,
		Dir:  dir,
		Err: errors.Wrapf(cause, errors.ErrResolution, "cannot scan drop-in directory %s", dir).
			WithDetail("root", root).
			WithDetail("dir", dir),
	}
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve drop-ins under %s: %v", e.Root, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}
