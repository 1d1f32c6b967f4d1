package registry

import (
	"context"
	"fmt"

	"github.com/specialistvlad/roprogo/internal/ctxlog"
	"github.com/specialistvlad/roprogo/internal/interp"
)

// Register adds a subroutine under name. Registering the same name twice is
// a programming error in the builder and panics.
func (r *Registry) Register(ctx context.Context, name string, sub interp.Subroutine) {
	if _, exists := r.subroutines[name]; exists {
		panic(fmt.Sprintf("subroutine with name '%s' already registered", name))
	}
	ctxlog.FromContext(ctx).Debug("Registering subroutine.", "name", name)
	r.subroutines[name] = sub
}
