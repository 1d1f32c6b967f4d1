package interp

import (
	"context"

	"github.com/specialistvlad/roprogo/internal/diagram"
	"github.com/specialistvlad/roprogo/internal/scope"
)

// Direction selects how a node executes.
type Direction int

const (
	// Forward performs effects and advances control.
	Forward Direction = iota
	// Reverse only computes a value.
	Reverse
)

func (d Direction) String() string {
	if d == Reverse {
		return "reverse"
	}
	return "forward"
}

// Resolver maps pins to wires and nodes within one subroutine body.
type Resolver interface {
	FollowWire(pinID string) (string, bool)
	FollowWireReverse(pinID string) (string, bool)
	FollowWireList(pinID string) []string
	FindOwningNode(pinID string) (*diagram.Node, bool)
}

// Subroutine is a callable diagram body.
type Subroutine interface {
	// FindEntryNode returns the boundary flow-input node whose unique id
	// equals the call site's pin correlation id.
	FindEntryNode(pinID string) (*diagram.Node, bool)
	// Invoke runs the body from entry and returns the flow-output boundary
	// node it left through, or nil if control ended inside the body.
	Invoke(ctx context.Context, entry *diagram.Node, caller *CallerRef) (*diagram.Node, error)
}

// Registry looks up subroutines by name.
type Registry interface {
	Lookup(name string) (Subroutine, bool)
}

// CallerRef links a subroutine invocation back to its call site so that
// boundary data nodes can reach values across the call.
type CallerRef struct {
	Name  string
	Node  *diagram.Node
	Frame *Frame
}

// Frame is the execution context of one subroutine invocation.
type Frame struct {
	Name    string
	Wires   Resolver
	Locals  *scope.Store
	Globals *scope.Store
	// LastPin is the pin control most recently arrived through.
	LastPin string
	Caller  *CallerRef
	Depth   int
}

// NewFrame returns the frame of a top-level run with fresh variable stores.
func NewFrame(name string, wires Resolver) *Frame {
	return &Frame{
		Name:    name,
		Wires:   wires,
		Locals:  scope.New(),
		Globals: scope.New(),
	}
}

// Nested returns the frame of a call made from caller into a body.
func (c *CallerRef) Nested(name string, wires Resolver) *Frame {
	return &Frame{
		Name:    name,
		Wires:   wires,
		Locals:  scope.New(),
		Globals: c.Frame.Globals,
		Caller:  c,
		Depth:   c.Frame.Depth + 1,
	}
}
