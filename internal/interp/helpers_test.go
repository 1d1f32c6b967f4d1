package interp

import (
	"context"
	"testing"

	"github.com/specialistvlad/roprogo/internal/diagram"
	"github.com/specialistvlad/roprogo/internal/hwio/sim"
	"github.com/specialistvlad/roprogo/internal/wire"
	"github.com/stretchr/testify/require"
)

func flowIn(id string) diagram.Pin  { return diagram.Pin{ID: id, Class: diagram.ClassFlowInput} }
func flowOut(id string) diagram.Pin { return diagram.Pin{ID: id, Class: diagram.ClassFlowOutput} }
func dataIn(id string) diagram.Pin  { return diagram.Pin{ID: id, Class: diagram.ClassDataInput} }
func dataOut(id string) diagram.Pin { return diagram.Pin{ID: id, Class: diagram.ClassDataOutput} }

func named(p diagram.Pin, name string) diagram.Pin {
	p.Name = name
	return p
}

func correlated(p diagram.Pin, pinID string) diagram.Pin {
	p.PinID = pinID
	return p
}

// graph is one subroutine body under construction.
type graph struct {
	t   *testing.T
	tbl *wire.Table
}

func newGraph(t *testing.T) *graph {
	return &graph{t: t, tbl: wire.New()}
}

func (g *graph) node(class, id string, attrs map[string]string, pins ...diagram.Pin) *diagram.Node {
	g.t.Helper()
	n, err := diagram.NewNode(diagram.Record{ClassName: class, ID: id, Attributes: attrs, Pins: pins})
	require.NoError(g.t, err)
	require.NoError(g.t, g.tbl.AddNode(n))
	return n
}

func (g *graph) wire(from, to string) {
	g.t.Helper()
	require.NoError(g.t, g.tbl.Connect(from, to))
}

type fixture struct {
	dev   *sim.Device
	in    *Interpreter
	subs  registryMap
	frame *Frame
	g     *graph
}

func newFixture(t *testing.T, opts Options) *fixture {
	g := newGraph(t)
	fx := &fixture{dev: sim.New(), subs: registryMap{}, g: g}
	fx.in = New(fx.dev, fx.subs, opts)
	fx.frame = NewFrame("main", g.tbl)
	return fx
}

type registryMap map[string]Subroutine

func (r registryMap) Lookup(name string) (Subroutine, bool) {
	s, ok := r[name]
	return s, ok
}

// drive follows control from n until it leaves the body, mirroring what a
// subroutine driver does.
func drive(ctx context.Context, in *Interpreter, f *Frame, n *diagram.Node, entered string) (*diagram.Node, error) {
	for {
		f.LastPin = entered
		if n.Kind == diagram.KindSubroutineFlowOut {
			return n, nil
		}
		next, _, err := in.Run(ctx, f, n, entered, Bag{}, Forward)
		if err != nil || next == "" {
			return nil, err
		}
		target, ok := f.Wires.FollowWire(next)
		if !ok {
			return nil, nil
		}
		if n, ok = f.Wires.FindOwningNode(target); !ok {
			return nil, nil
		}
		entered = target
	}
}

type bodySub struct {
	name string
	g    *graph
	in   *Interpreter
}

func (s *bodySub) FindEntryNode(pinID string) (*diagram.Node, bool) {
	for _, n := range s.g.tbl.Nodes() {
		if n.Kind == diagram.KindSubroutineFlowIn && n.Payload.(*diagram.Boundary).UniqueID == pinID {
			return n, true
		}
	}
	return nil, false
}

func (s *bodySub) Invoke(ctx context.Context, entry *diagram.Node, caller *CallerRef) (*diagram.Node, error) {
	return drive(ctx, s.in, caller.Nested(s.name, s.g.tbl), entry, "")
}
