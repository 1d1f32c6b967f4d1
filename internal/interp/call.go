package interp

import (
	"context"
	"fmt"

	"github.com/specialistvlad/roprogo/internal/diagram"
)

// runCall executes a subroutine call site. The pin control arrived through
// selects the callee's entry; the exit boundary the callee leaves through
// selects the call site pin control continues from.
func (in *Interpreter) runCall(ctx context.Context, f *Frame, n *diagram.Node, enteredFrom string, bag Bag) (string, Bag, error) {
	name := n.Payload.(*diagram.SubroutineRef).Name
	var sub Subroutine
	ok := false
	if in.subroutines != nil {
		sub, ok = in.subroutines.Lookup(name)
	}
	if !ok {
		logger(ctx).Error("Subroutine cannot be found.", "callee", name)
		return "", bag, nil
	}

	pin, ok := n.FindPin(enteredFrom)
	if !ok {
		return "", bag, structureErr(n, "control did not arrive through a pin of the call site (pin %q)", enteredFrom)
	}
	entry, ok := sub.FindEntryNode(pin.PinID)
	if !ok {
		return "", bag, structureErr(n, "subroutine %q has no entry for pinid %q", name, pin.PinID)
	}
	if f.Depth+1 > in.opts.MaxCallDepth {
		return "", bag, fmt.Errorf("%w: calling %q at depth %d", ErrCallDepthExceeded, name, f.Depth+1)
	}

	logger(ctx).Debug("Calling subroutine.", "callee", name, "entry", entry.ID)
	exit, err := sub.Invoke(ctx, entry, &CallerRef{Name: f.Name, Node: n, Frame: f})
	if err != nil {
		return "", bag, err
	}
	if exit == nil {
		logger(ctx).Debug("Subroutine ended without reaching an exit.", "callee", name)
		return "", bag, nil
	}

	b, ok := exit.Payload.(*diagram.Boundary)
	if !ok {
		return "", bag, structureErr(exit, "subroutine exit is not a boundary node")
	}
	back, ok := n.PinWithPinID(b.UniqueID)
	if !ok {
		return "", bag, structureErr(n, "call site has no pin for exit %q of %q", b.UniqueID, name)
	}
	return back.ID, bag, nil
}

// callerPin returns the call site pin correlated with a boundary node.
func callerPin(ctx context.Context, f *Frame, n *diagram.Node) (*CallerRef, string, error) {
	if f.Caller == nil {
		logger(ctx).Error("Boundary node used outside a subroutine call.")
		return nil, "", nil
	}
	uid := n.Payload.(*diagram.Boundary).UniqueID
	pins := f.Caller.Node.FindPinsByAttribute(diagram.AttrPinID, uid)
	if len(pins) == 0 {
		return nil, "", structureErr(f.Caller.Node, "call site has no pin with pinid %q", uid)
	}
	return f.Caller, pins[0], nil
}

func (in *Interpreter) runBoundaryDataIn(ctx context.Context, f *Frame, n *diagram.Node, bag Bag) (string, Bag, error) {
	caller, pin, err := callerPin(ctx, f, n)
	if err != nil || caller == nil {
		return "", bag, err
	}
	out, err := in.ResolveValue(ctx, caller.Frame, pin)
	return "", out, err
}

func (in *Interpreter) runBoundaryDataOut(ctx context.Context, f *Frame, n *diagram.Node, bag Bag) (string, Bag, error) {
	caller, pin, err := callerPin(ctx, f, n)
	if err != nil || caller == nil {
		return "", bag, err
	}
	return "", bag, in.PushValue(ctx, caller.Frame, pin, bag)
}
