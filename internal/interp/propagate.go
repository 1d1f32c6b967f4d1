package interp

import (
	"context"
	"fmt"
	"strings"

	"github.com/specialistvlad/roprogo/internal/diagram"
)

// ResolveValue follows the wire feeding pinID backwards, through any merge
// helpers, to the node producing its value and runs that node in reverse.
func (in *Interpreter) ResolveValue(ctx context.Context, f *Frame, pinID string) (Bag, error) {
	seen := make(map[*diagram.Node]bool)
	target := pinID
	for {
		src, ok := f.Wires.FollowWireReverse(target)
		if !ok {
			return nil, &StructureError{NodeID: target, Msg: "data input is not connected"}
		}
		producer, ok := f.Wires.FindOwningNode(src)
		if !ok {
			return nil, &StructureError{NodeID: src, Msg: "wire source belongs to no node"}
		}
		if producer.Kind != diagram.KindDataHelper {
			_, out, err := in.Run(ctx, f, producer, "", Bag{}, Reverse)
			if out == nil {
				out = Bag{}
			}
			return out, err
		}

		if seen[producer] {
			return nil, structureErr(producer, "merge helpers form a cycle")
		}
		seen[producer] = true
		inputs := producer.FindPinsByClass(diagram.ClassDataInput)
		if len(inputs) == 0 {
			return nil, structureErr(producer, "merge helper has no %s pin", diagram.ClassDataInput)
		}
		target = inputs[0]
	}
}

// PushValue runs every consumer wired to the data output pinID, in wire order,
// each with its own copy of bag. A value arriving again at a data input it
// already passed on the same path is a wiring cycle and fails the push.
func (in *Interpreter) PushValue(ctx context.Context, f *Frame, pinID string, bag Bag) error {
	return in.push(ctx, f, pinID, bag, make(map[pushStep]bool))
}

// pushStep is a node entered through one of its data inputs.
type pushStep struct {
	node *diagram.Node
	pin  string
}

func (in *Interpreter) push(ctx context.Context, f *Frame, pinID string, bag Bag, path map[pushStep]bool) error {
	for _, target := range f.Wires.FollowWireList(pinID) {
		consumer, ok := f.Wires.FindOwningNode(target)
		if !ok {
			logger(ctx).Warn("Data wire leads to no node.", "pin", target)
			continue
		}
		step := pushStep{node: consumer, pin: target}
		if path[step] {
			return structureErr(consumer, "data wires form a cycle through pin %q", target)
		}
		path[step] = true
		err := in.pushChain(ctx, f, consumer, target, bag.Clone(), path)
		delete(path, step)
		if err != nil {
			return fmt.Errorf("pushing %s to %s: %w", pinID, consumer, err)
		}
	}
	return nil
}

// pushChain runs n forward and keeps following the pins it returns until
// one leads nowhere. A returned data output fans out again.
func (in *Interpreter) pushChain(ctx context.Context, f *Frame, n *diagram.Node, entered string, bag Bag, path map[pushStep]bool) error {
	for {
		next, out, err := in.Run(ctx, f, n, entered, bag, Forward)
		if err != nil || next == "" {
			return err
		}
		if out != nil {
			bag = out
		}
		if pin, ok := n.FindPin(next); ok && strings.Contains(pin.Class, diagram.ClassDataOutput) {
			return in.push(ctx, f, next, bag, path)
		}
		target, ok := f.Wires.FollowWire(next)
		if !ok {
			return nil
		}
		if n, ok = f.Wires.FindOwningNode(target); !ok {
			return nil
		}
		entered = target
	}
}
