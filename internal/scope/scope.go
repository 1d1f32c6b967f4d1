// Package scope implements the backing stores of diagram variables.
//
// A variable lives in one of three tiers. Object-scoped cells are kept on
// the variable node itself. Subprogram-scoped cells live in a Store owned by
// one subroutine invocation, global cells in a Store owned by the program
// run. Stores are keyed by variable name and allocate their map on the first
// write.
package scope

import (
	"errors"
	"fmt"
)

// ErrInvalidCommand is returned by Apply for operators other than =, + and -.
var ErrInvalidCommand = errors.New("command cannot be applied on variables")

// Store is a lazily allocated name to value mapping.
type Store struct {
	values map[string]float64
}

// New returns an empty store.
func New() *Store {
	return &Store{}
}

// Lookup returns the stored value of name.
func (s *Store) Lookup(name string) (float64, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Set stores value under name.
func (s *Store) Set(name string, value float64) {
	if s.values == nil {
		s.values = make(map[string]float64)
	}
	s.values[name] = value
}

// Len returns the number of stored variables.
func (s *Store) Len() int {
	return len(s.values)
}

// Snapshot returns a copy of the stored values.
func (s *Store) Snapshot() map[string]float64 {
	out := make(map[string]float64, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Apply computes the new value of a cell from its prior value.
func Apply(prior float64, op string, operand float64) (float64, error) {
	switch op {
	case "=":
		return operand, nil
	case "+":
		return prior + operand, nil
	case "-":
		return prior - operand, nil
	}
	return prior, fmt.Errorf("%w: %q", ErrInvalidCommand, op)
}
