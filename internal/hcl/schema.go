package hcl

import (
	"github.com/hashicorp/hcl/v2"
)

// fileRoot is used to decode all possible top-level blocks from any file.
type fileRoot struct {
	Subroutines []*subroutineBlock `hcl:"subroutine,block"`
	Sensors     []*sensorBlock     `hcl:"sensor,block"`
	Remain      hcl.Body           `hcl:",remain"`
}

type subroutineBlock struct {
	Name  string       `hcl:"name,label"`
	Nodes []*nodeBlock `hcl:"node,block"`
	Wires []*wireBlock `hcl:"wire,block"`
}

type nodeBlock struct {
	ID   string `hcl:"id,label"`
	Kind string `hcl:"kind"`
	// Attributes is an object of primitive values; numbers and bools are
	// converted to their string form.
	Attributes hcl.Expression `hcl:"attributes,optional"`
	Pins       []*pinBlock    `hcl:"pin,block"`
}

type pinBlock struct {
	ID    string `hcl:"id,label"`
	Class string `hcl:"class"`
	PinID string `hcl:"pinid,optional"`
	Name  string `hcl:"name,optional"`
}

type wireBlock struct {
	ID   string   `hcl:"id,optional"`
	Kind string   `hcl:"kind,optional"`
	From []string `hcl:"from"`
	To   []string `hcl:"to"`
}

type sensorBlock struct {
	Module string  `hcl:"module,label"`
	Port   int     `hcl:"port"`
	Value  float64 `hcl:"value,optional"`
}
