package config

import (
	"fmt"
	"sort"
	"strings"
)

// Wire kinds.
const (
	WireFlow = "flow"
	WireData = "data"
)

// Model is the unified, format-agnostic representation of a diagram: its
// subroutine bodies and the initial sensor readings used by simulated runs.
type Model struct {
	Subroutines map[string]*Subroutine
	Sensors     []*Sensor
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{Subroutines: make(map[string]*Subroutine)}
}

// SubroutineNames returns the subroutine names, sorted.
func (m *Model) SubroutineNames() []string {
	names := make([]string, 0, len(m.Subroutines))
	for name := range m.Subroutines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Subroutine is one diagram body.
type Subroutine struct {
	Name  string
	Nodes []*Node
	Wires []*Wire
}

// Node is the format-agnostic representation of a diagram element.
type Node struct {
	ID         string
	Class      string
	Attributes map[string]string
	Pins       []*Pin
}

// Pin is a connection point of a node.
type Pin struct {
	ID    string
	PinID string
	Name  string
	Class string
}

// Wire joins output pins to input pins. A wire with several sources is a
// merge: it is built as a pass-through helper node joining all sources
// before the targets.
type Wire struct {
	ID   string
	Kind string
	From []string
	To   []string
}

// Sensor is the initial reading of one simulated input.
type Sensor struct {
	Module string
	Port   int
	Value  float64
}

// Label returns a readable identification of the wire for messages.
func (w *Wire) Label() string {
	if w.ID != "" {
		return w.ID
	}
	return fmt.Sprintf("[%s] -> [%s]", strings.Join(w.From, ","), strings.Join(w.To, ","))
}
