package registry

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/specialistvlad/roprogo/internal/ctxlog"
)

// CallSite is one subroutine reference found in a diagram.
type CallSite struct {
	Caller string
	NodeID string
	Callee string
}

// Validate checks that every call site names a registered subroutine.
// Missing callees only end the calling path at runtime, so they are logged
// as warnings and returned together for callers that want to be strict.
func (r *Registry) Validate(ctx context.Context, sites []CallSite) error {
	logger := ctxlog.FromContext(ctx)
	var errs []string
	for _, s := range sites {
		if _, ok := r.subroutines[s.Callee]; ok {
			continue
		}
		logger.Warn("Diagram calls a subroutine that is not defined.",
			"caller", s.Caller, "node_id", s.NodeID, "callee", s.Callee)
		errs = append(errs, fmt.Sprintf("subroutine '%s' (node %s) calls undefined subroutine '%s'", s.Caller, s.NodeID, s.Callee))
	}

	if len(errs) > 0 {
		sort.Strings(errs)
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}
