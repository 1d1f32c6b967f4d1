package program

import (
	"context"
	"fmt"

	"github.com/specialistvlad/roprogo/internal/ctxlog"
	"github.com/specialistvlad/roprogo/internal/diagram"
	"github.com/specialistvlad/roprogo/internal/interp"
	"github.com/specialistvlad/roprogo/internal/wire"
)

// Subroutine is one diagram body together with the driver that moves control
// through it.
type Subroutine struct {
	name    string
	table   *wire.Table
	entries map[string]*diagram.Node // Key: boundary unique id
	start   *diagram.Node
	in      *interp.Interpreter
	status  *Status
}

var _ interp.Subroutine = (*Subroutine)(nil)

// Name returns the subroutine name.
func (s *Subroutine) Name() string {
	return s.name
}

// Start returns the ProcessStart node of the body, if it has one.
func (s *Subroutine) Start() (*diagram.Node, bool) {
	return s.start, s.start != nil
}

// FindEntryNode implements interp.Subroutine.
func (s *Subroutine) FindEntryNode(pinID string) (*diagram.Node, bool) {
	n, ok := s.entries[pinID]
	return n, ok
}

// Invoke implements interp.Subroutine. Every invocation gets fresh
// subprogram variables.
func (s *Subroutine) Invoke(ctx context.Context, entry *diagram.Node, caller *interp.CallerRef) (*diagram.Node, error) {
	f := caller.Nested(s.name, s.table)
	ctx = ctxlog.With(ctx, "subroutine", s.name, "depth", f.Depth)
	ctxlog.FromContext(ctx).Debug("Entering subroutine.", "caller", caller.Name, "entry", entry.ID)
	return s.drive(ctx, f, entry, "")
}

// drive runs nodes from n onwards. It returns the flow-output boundary node
// control reached, or nil when a node handed control nowhere.
func (s *Subroutine) drive(ctx context.Context, f *interp.Frame, n *diagram.Node, entered string) (*diagram.Node, error) {
	logger := ctxlog.FromContext(ctx)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		f.LastPin = entered
		if n.Kind == diagram.KindSubroutineFlowOut {
			logger.Debug("Leaving subroutine.", "exit", n.ID)
			return n, nil
		}
		s.status.step(s.name, n.ID)

		next, _, err := s.in.Run(ctx, f, n, entered, interp.Bag{}, interp.Forward)
		if err != nil {
			return nil, fmt.Errorf("subroutine %q, node %s: %w", s.name, n, err)
		}
		if next == "" {
			logger.Debug("Control flow ended.", "node_id", n.ID)
			return nil, nil
		}
		target, ok := s.table.FollowWire(next)
		if !ok {
			logger.Debug("Output pin is not wired, control flow ended.", "node_id", n.ID, "pin", next)
			return nil, nil
		}
		if n, ok = s.table.FindOwningNode(target); !ok {
			return nil, nil
		}
		entered = target
	}
}
