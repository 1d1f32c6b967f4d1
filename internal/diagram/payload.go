package diagram

import (
	"math"
	"time"
)

// Payload is the typed attribute set of one node kind.
type Payload interface {
	payload()
}

// Sensor input numbering: diagram files store inputs I1..I8 as 160..167.
const inputPortBase = 159

// SensorRef addresses one sensor input on an interface module.
type SensorRef struct {
	Module string `attr:"module"`
	Port   int    `attr:"input"`
	Mode   int    `attr:"inputMode"`
}

func readSensor(d *attrDecoder) SensorRef {
	var s SensorRef
	d.decode(&s, []string{"module", "input", "inputMode"})
	s.Port -= inputPortBase
	return s
}

// Comparison operators of a sensor-driven branch.
const (
	OpGreater = iota
	OpGreaterEqual
	OpEqual
	OpLessEqual
	OpLess
	OpNotEqual
)

// Comparison is the optional operator/trigger pair of a sensor branch.
type Comparison struct {
	Op      int `attr:"operation"`
	Trigger int `attr:"value"`
}

// Holds applies the comparison to a sensor reading.
func (c Comparison) Holds(v float64) bool {
	t := float64(c.Trigger)
	switch c.Op {
	case OpGreater:
		return v > t
	case OpGreaterEqual:
		return v >= t
	case OpEqual:
		return v == t
	case OpLessEqual:
		return v <= t
	case OpLess:
		return v < t
	case OpNotEqual:
		return v != t
	}
	return false
}

// Branch styles.
const (
	StyleDataInput = 1
	StyleSensor    = 2
)

type FlowIf struct {
	Style   int         `attr:"style"`
	Sensor  SensorRef   `attr:"-"`
	Compare *Comparison `attr:"-"`
}

type DataIn struct {
	Sensor SensorRef `attr:"-"`
}

// DataMssg is an immediate actuator command. HasValue is false when the
// literal value attribute is absent; the value must then come over a wire.
type DataMssg struct {
	Command  string `attr:"command"`
	Value    int    `attr:"value"`
	HasValue bool   `attr:"-"`
}

// Motor speed scaling between 8-step diagrams and the 512-step interface.
const SpeedScale = 64

// ClassicStopValue is the literal that marks a classic stop command.
const ClassicStopValue = -32768

// DataOutDual drives one motor output. Stop is set for classic elements
// whose value is ClassicStopValue.
type DataOutDual struct {
	Classic    bool   `attr:"-"`
	Command    string `attr:"command"`
	Value      int    `attr:"value"`
	Stop       bool   `attr:"-"`
	Module     string `attr:"module"`
	Output     int    `attr:"output"`
	Resolution *int   `attr:"resolution"`
}

// Action modes of an encoder motor pair.
const (
	ActionDistance     = "0"
	ActionSync         = "1"
	ActionSyncDistance = "2"
	ActionStop         = "3"
)

// NoOutput is the port index used for "no second motor".
const NoOutput = -1

type DataOutDualEx struct {
	Module     string `attr:"module"`
	Direction1 string `attr:"direction1"`
	Direction2 string `attr:"direction2"`
	Distance   int    `attr:"distance"`
	Speed      int    `attr:"speed"`
	Output1    int    `attr:"output1"`
	// Output2 is already shifted so that NoOutput means "none".
	Output2 int    `attr:"output2"`
	Action  string `attr:"action"`
}

// DataOutSngl drives a single output such as a lamp. Outputs sit four
// ports after the motor outputs.
type DataOutSngl struct {
	Classic    bool   `attr:"-"`
	Module     string `attr:"module"`
	Output     int    `attr:"output"`
	Value      int    `attr:"value"`
	Resolution int    `attr:"resolution"`
}

// SingleOutputOffset maps an O-output number onto the interface port.
const SingleOutputOffset = 4

// Wait describes FlowWaitChange and FlowWaitCount nodes.
type Wait struct {
	Classic bool      `attr:"-"`
	Count   int       `attr:"count"`
	Level   bool      `attr:"-"`
	Up      bool      `attr:"-"`
	Down    bool      `attr:"-"`
	Sensor  SensorRef `attr:"-"`
}

// CountLoop carries the loop counter of a counting loop node.
type CountLoop struct {
	Count   int `attr:"count"`
	counter int
}

// Reset sets the counter back to one.
func (c *CountLoop) Reset() {
	c.counter = 1
}

// Advance increments the counter and reports whether it now exceeds Count.
func (c *CountLoop) Advance() bool {
	c.counter++
	return c.counter > c.Count
}

// Counter returns the current counter value.
func (c *CountLoop) Counter() int {
	return c.counter
}

// Sound is valid only when the diagram supplied a sound index.
type Sound struct {
	Valid  bool `attr:"-"`
	Index  int  `attr:"sounindex"`
	Wait   bool `attr:"wait"`
	Repeat int  `attr:"repeatcount"`
}

type Const struct {
	Value float64 `attr:"value"`
}

// Variable scopes as stored in diagram files.
const (
	ScopeSubprogram = 0
	ScopeGlobal     = 1
	ScopeObject     = 2
)

// Variable is a named numeric cell. The object-scope cell lives here.
type Variable struct {
	Name  string  `attr:"name"`
	Scope int     `attr:"scope"`
	Init  float64 `attr:"init"`
	cell  *float64
}

// Stored returns the object-scope value, if one was ever written.
func (v *Variable) Stored() (float64, bool) {
	if v.cell == nil {
		return 0, false
	}
	return *v.cell, true
}

// Store writes the object-scope value.
func (v *Variable) Store(val float64) {
	v.cell = &val
}

type Delay struct {
	Value float64 `attr:"value"`
	Scale int     `attr:"scale"`
}

// Duration returns value × 10^scale milliseconds.
func (d Delay) Duration() time.Duration {
	ms := d.Value * math.Pow10(d.Scale)
	return time.Duration(math.Round(ms * float64(time.Millisecond)))
}

type SubroutineRef struct {
	Name string `attr:"name"`
}

// Boundary is the payload of subroutine boundary nodes.
type Boundary struct {
	UniqueID string `attr:"uniqueID"`
}

func (*FlowIf) payload()        {}
func (*DataIn) payload()        {}
func (*DataMssg) payload()      {}
func (*DataOutDual) payload()   {}
func (*DataOutDualEx) payload() {}
func (*DataOutSngl) payload()   {}
func (*Wait) payload()          {}
func (*CountLoop) payload()     {}
func (*Sound) payload()         {}
func (*Const) payload()         {}
func (*Variable) payload()      {}
func (*Delay) payload()         {}
func (*SubroutineRef) payload() {}
func (*Boundary) payload()      {}

// decodePayload builds the typed payload for a kind. Mode-dependent
// attributes are read leniently; the interpreter checks them when the mode
// that needs them is entered.
func decodePayload(kind Kind, attrs map[string]string) (Payload, error) {
	d := &attrDecoder{attrs: attrs}
	var p Payload
	switch kind {
	case KindFlowIf:
		f := &FlowIf{}
		d.decode(f, []string{"style"})
		if f.Style == StyleSensor {
			f.Sensor = readSensor(d)
			if d.has("operation") {
				f.Compare = &Comparison{}
				d.decode(f.Compare, []string{"operation", "value"})
			}
		}
		p = f
	case KindDataIn:
		p = &DataIn{Sensor: readSensor(d)}
	case KindDataMssg:
		m := &DataMssg{HasValue: d.has("value")}
		d.decode(m, []string{"command"}, "value")
		p = m
	case KindDataOutDual:
		o := &DataOutDual{Classic: d.has("classic")}
		d.decode(o, []string{"module", "output"}, "resolution")
		if o.Classic {
			d.decode(o, []string{"command", "value"})
			o.Stop = o.Value == ClassicStopValue
		}
		p = o
	case KindDataOutDualEx:
		o := &DataOutDualEx{Direction1: "0", Direction2: "0"}
		d.decode(o, []string{"module", "speed", "output1", "output2", "action"}, "direction1", "direction2", "distance")
		o.Output2--
		p = o
	case KindDataOutSngl:
		o := &DataOutSngl{Classic: d.has("classic")}
		if o.Classic {
			d.decode(o, []string{"module", "output", "value"})
		} else {
			d.decode(o, []string{"module", "output", "resolution"})
		}
		p = o
	case KindFlowWaitChange, KindFlowWaitCount:
		w := &Wait{
			Classic: d.has("classic"),
			Count:   1,
			Level:   d.has("level"),
			Up:      d.has("up"),
			Down:    d.has("down"),
		}
		d.decode(w, nil, "count")
		if w.Classic {
			w.Sensor = readSensor(d)
		}
		p = w
	case KindFlowCountLoop:
		c := &CountLoop{}
		d.decode(c, []string{"count"})
		p = c
	case KindFlowSound:
		s := &Sound{Valid: d.has("sounindex"), Repeat: 1}
		if s.Valid {
			d.decode(s, []string{"sounindex"}, "wait", "repeatcount")
		}
		p = s
	case KindDataConst:
		c := &Const{}
		d.decode(c, []string{"value"})
		p = c
	case KindDataVariable:
		v := &Variable{}
		d.decode(v, []string{"name", "scope", "init"})
		p = v
	case KindFlowDelay:
		l := &Delay{}
		d.decode(l, []string{"value"}, "scale")
		p = l
	case KindSubroutineRef:
		r := &SubroutineRef{}
		d.decode(r, []string{"name"})
		p = r
	case KindSubroutineFlowIn, KindSubroutineFlowOut, KindSubroutineDataIn, KindSubroutineDataOut:
		b := &Boundary{}
		d.decode(b, []string{"uniqueID"})
		p = b
	}
	return p, d.err()
}
