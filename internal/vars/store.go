// Package vars implements the variable store: declared names with defaults,
// overridable from the environment or the CLI before evaluation starts.
package vars

import (
	"errors"
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

var (
	// ErrDuplicateVariable reports a second declaration of the same name.
	ErrDuplicateVariable = errors.New("duplicate variable")
	// ErrUndeclaredVariable reports a reference to a name never declared.
	ErrUndeclaredVariable = errors.New("undeclared variable")
)

// Store holds declared variables and their resolved values. It is mutable
// while declarations and overrides are applied during parse, then read-only
// for the remainder of the resolve pass. All values are strings; numeric or
// boolean interpretation is the caller's responsibility.
type Store struct {
	values map[string]string
}

// New creates an empty store.
func New() *Store {
	return &Store{values: make(map[string]string)}
}

// Declare registers a variable with its default value. Declaring the same
// name twice fails; resolution must stay deterministic.
func (s *Store) Declare(name, defaultValue string) error {
	if _, ok := s.values[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateVariable, name)
	}
	s.values[name] = defaultValue
	return nil
}

// Override replaces a declared variable's value. Overrides always take
// precedence over defaults. Overriding an undeclared name fails fast so
// that typos in -set flags or the environment surface immediately.
func (s *Store) Override(name, value string) error {
	if _, ok := s.values[name]; !ok {
		return fmt.Errorf("%w: cannot override %q", ErrUndeclaredVariable, name)
	}
	s.values[name] = value
	return nil
}

// Resolve returns the current value of a declared variable.
func (s *Store) Resolve(name string) (string, error) {
	value, ok := s.values[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUndeclaredVariable, name)
	}
	return value, nil
}

// Len returns the number of declared variables.
func (s *Store) Len() int {
	return len(s.values)
}

// Snapshot returns the variable bindings as cty values for expression
// evaluation. The returned map is a copy; later evaluation never aliases
// the store.
func (s *Store) Snapshot() map[string]cty.Value {
	snap := make(map[string]cty.Value, len(s.values))
	for name, value := range s.values {
		snap[name] = cty.StringVal(value)
	}
	return snap
}
