package registry

import (
	"sort"

	"github.com/specialistvlad/roprogo/internal/interp"
)

// Registry holds the subroutines of one program instance.
type Registry struct {
	subroutines map[string]interp.Subroutine
}

var _ interp.Registry = (*Registry)(nil)

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		subroutines: make(map[string]interp.Subroutine),
	}
}

// Lookup implements interp.Registry.
func (r *Registry) Lookup(name string) (interp.Subroutine, bool) {
	s, ok := r.subroutines[name]
	return s, ok
}

// Names returns the registered subroutine names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.subroutines))
	for name := range r.subroutines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered subroutines.
func (r *Registry) Len() int {
	return len(r.subroutines)
}
