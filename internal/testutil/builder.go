package testutil

import (
	"fmt"
	"testing"

	"github.com/specialistvlad/roprogo/internal/config"
	"github.com/specialistvlad/roprogo/internal/diagram"
	"github.com/specialistvlad/roprogo/internal/hcl"
	"github.com/stretchr/testify/require"
)

// Pin helpers. The pin id doubles as its wire endpoint.

func FlowIn(id string) *config.Pin  { return &config.Pin{ID: id, Class: diagram.ClassFlowInput} }
func FlowOut(id string) *config.Pin { return &config.Pin{ID: id, Class: diagram.ClassFlowOutput} }
func DataIn(id string) *config.Pin  { return &config.Pin{ID: id, Class: diagram.ClassDataInput} }
func DataOut(id string) *config.Pin { return &config.Pin{ID: id, Class: diagram.ClassDataOutput} }

// Named sets the pin's display name, e.g. "J" or "=1".
func Named(name string, p *config.Pin) *config.Pin {
	p.Name = name
	return p
}

// Correlated sets the pin's correlation id used by the call protocol.
func Correlated(pinID string, p *config.Pin) *config.Pin {
	p.PinID = pinID
	return p
}

// Attrs is a node attribute set; values are rendered with fmt.Sprint.
type Attrs map[string]any

// Diagram builds a config.Model for tests.
type Diagram struct {
	model *config.Model
}

// NewDiagram starts an empty diagram.
func NewDiagram() *Diagram {
	return &Diagram{model: config.NewModel()}
}

// Sub returns the builder of the named subroutine, creating it on first use.
func (d *Diagram) Sub(name string) *Sub {
	s, ok := d.model.Subroutines[name]
	if !ok {
		s = &config.Subroutine{Name: name}
		d.model.Subroutines[name] = s
	}
	return &Sub{sub: s}
}

// Sensor seeds a simulated sensor reading.
func (d *Diagram) Sensor(module string, port int, value float64) *Diagram {
	d.model.Sensors = append(d.model.Sensors, &config.Sensor{Module: module, Port: port, Value: value})
	return d
}

// Model returns the built model.
func (d *Diagram) Model() *config.Model { return d.model }

// HCL renders the diagram as a loadable file.
func (d *Diagram) HCL(t *testing.T) string {
	t.Helper()
	out, err := hcl.NewEncoder().Encode(d.model)
	require.NoError(t, err)
	return string(out)
}

// Sub builds one subroutine body.
type Sub struct {
	sub *config.Subroutine
}

// Node adds a node of the given kind.
func (s *Sub) Node(id string, kind diagram.Kind, attrs Attrs, pins ...*config.Pin) *Sub {
	n := &config.Node{ID: id, Class: kind.String(), Attributes: make(map[string]string, len(attrs)), Pins: pins}
	for k, v := range attrs {
		n.Attributes[k] = fmt.Sprint(v)
	}
	s.sub.Nodes = append(s.sub.Nodes, n)
	return s
}

// Wire connects one source pin to one or more targets.
func (s *Sub) Wire(from string, to ...string) *Sub {
	s.sub.Wires = append(s.sub.Wires, &config.Wire{From: []string{from}, To: to})
	return s
}

// Merge joins several sources onto one target.
func (s *Sub) Merge(to string, from ...string) *Sub {
	s.sub.Wires = append(s.sub.Wires, &config.Wire{From: from, To: []string{to}})
	return s
}
