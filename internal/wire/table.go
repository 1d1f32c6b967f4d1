// Package wire provides an in-memory wire table for one diagram body. It
// answers the interpreter's resolver queries: where a flow wire leads, which
// pin feeds a data input, who listens on a data output and which node owns
// a pin.
//
// Wires are directed from an output pin to an input pin and are kept in the
// order they were connected, so fan-out queries return consumers in wire
// declaration order.
package wire

import (
	"fmt"

	"github.com/specialistvlad/roprogo/internal/diagram"
)

// Table stores the nodes and wires of one subroutine body.
type Table struct {
	nodes  []*diagram.Node
	owners map[string]*diagram.Node // Key: pin id
	out    map[string][]string      // Key: source pin, Value: targets in order
	in     map[string][]string      // Key: target pin, Value: sources in order
}

// New creates an empty wire table.
func New() *Table {
	return &Table{
		owners: make(map[string]*diagram.Node),
		out:    make(map[string][]string),
		in:     make(map[string][]string),
	}
}

// AddNode registers a node and its pins. Pin ids must be unique.
func (t *Table) AddNode(n *diagram.Node) error {
	for _, p := range n.Pins {
		if p.ID == "" {
			return fmt.Errorf("node %s has a pin without id", n)
		}
		if other, exists := t.owners[p.ID]; exists {
			return fmt.Errorf("pin id %q of node %s already belongs to node %s", p.ID, n, other)
		}
	}
	for _, p := range n.Pins {
		t.owners[p.ID] = n
	}
	t.nodes = append(t.nodes, n)
	return nil
}

// Connect adds a wire from one pin to another. Both pins must be known.
func (t *Table) Connect(from, to string) error {
	if _, ok := t.owners[from]; !ok {
		return fmt.Errorf("wire source pin %q not found", from)
	}
	if _, ok := t.owners[to]; !ok {
		return fmt.Errorf("wire target pin %q not found", to)
	}
	if from == to {
		return fmt.Errorf("self-referential wire not allowed: %s", from)
	}
	t.out[from] = append(t.out[from], to)
	t.in[to] = append(t.in[to], from)
	return nil
}

// Nodes returns all nodes in registration order.
func (t *Table) Nodes() []*diagram.Node {
	return t.nodes
}

// FollowWire returns the pin at the far end of the first wire leaving pinID.
func (t *Table) FollowWire(pinID string) (string, bool) {
	targets := t.out[pinID]
	if len(targets) == 0 {
		return "", false
	}
	return targets[0], true
}

// FollowWireReverse returns the pin feeding pinID.
func (t *Table) FollowWireReverse(pinID string) (string, bool) {
	sources := t.in[pinID]
	if len(sources) == 0 {
		return "", false
	}
	return sources[0], true
}

// FollowWireList returns every pin wired to pinID's output, in wire order.
func (t *Table) FollowWireList(pinID string) []string {
	return append([]string(nil), t.out[pinID]...)
}

// FindOwningNode returns the node that owns pinID.
func (t *Table) FindOwningNode(pinID string) (*diagram.Node, bool) {
	n, ok := t.owners[pinID]
	return n, ok
}
