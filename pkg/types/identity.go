package types

import (
	"strings"

	"github.com/arthur-debert/dropin/pkg/errors"
)

// UnitIdentity names the unit whose drop-ins are resolved. Aliases are
// equally valid lookup keys (for example symlink names pointing at the same
// unit file) and are probed after the canonical name, in the given order.
type UnitIdentity struct {
	Name    string   `json:"name" yaml:"name"`
	Aliases []string `json:"aliases,omitempty" yaml:"aliases,omitempty"`
}

// NewUnitIdentity creates an identity from a canonical name and aliases
func NewUnitIdentity(name string, aliases ...string) UnitIdentity {
	return UnitIdentity{Name: name, Aliases: aliases}
}

// Names returns the canonical name followed by the aliases
func (u UnitIdentity) Names() []string {
	names := make([]string, 0, len(u.Aliases)+1)
	names = append(names, u.Name)
	return append(names, u.Aliases...)
}

// Validate checks that every name can be used as a directory component
func (u UnitIdentity) Validate() error {
	if u.Name == "" {
		return errors.New(errors.ErrInvalidIdentity, "unit name is empty")
	}
	for i, name := range u.Names() {
		if err := validateName(name); err != nil {
			return err.WithDetail("unit", u.Name).WithDetail("index", i)
		}
	}
	return nil
}

func validateName(name string) *errors.Error {
	switch {
	case name == "":
		return errors.New(errors.ErrInvalidIdentity, "alias is empty")
	case name == "." || name == "..":
		return errors.Newf(errors.ErrInvalidIdentity, "invalid unit name %q", name)
	case strings.ContainsRune(name, '/'):
		return errors.Newf(errors.ErrInvalidIdentity, "unit name %q contains a path separator", name)
	case strings.ContainsRune(name, 0):
		return errors.Newf(errors.ErrInvalidIdentity, "unit name %q contains a NUL byte", name)
	}
	return nil
}

// String returns the canonical name
func (u UnitIdentity) String() string {
	return u.Name
}
