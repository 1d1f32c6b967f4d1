package hcl

import (
	"sort"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/specialistvlad/roprogo/internal/config"
	"github.com/zclconf/go-cty/cty"
)

// Encoder writes models as HCL diagram files.
type Encoder struct{}

var _ config.Encoder = (*Encoder)(nil)

// NewEncoder creates a new HCL encoder.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// Encode renders m in the format Loader reads. Subroutines are written in
// name order; nodes, pins and wires keep their model order.
func (e *Encoder) Encode(m *config.Model) ([]byte, error) {
	f := hclwrite.NewEmptyFile()
	root := f.Body()

	for i, name := range m.SubroutineNames() {
		if i > 0 {
			root.AppendNewline()
		}
		sub := m.Subroutines[name]
		body := root.AppendNewBlock("subroutine", []string{name}).Body()
		for _, n := range sub.Nodes {
			encodeNode(body, n)
		}
		for _, w := range sub.Wires {
			wb := body.AppendNewBlock("wire", nil).Body()
			if w.ID != "" {
				wb.SetAttributeValue("id", cty.StringVal(w.ID))
			}
			if w.Kind != "" {
				wb.SetAttributeValue("kind", cty.StringVal(w.Kind))
			}
			wb.SetAttributeValue("from", stringList(w.From))
			wb.SetAttributeValue("to", stringList(w.To))
		}
	}

	for _, s := range m.Sensors {
		root.AppendNewline()
		sb := root.AppendNewBlock("sensor", []string{s.Module}).Body()
		sb.SetAttributeValue("port", cty.NumberIntVal(int64(s.Port)))
		sb.SetAttributeValue("value", cty.NumberFloatVal(s.Value))
	}
	return f.Bytes(), nil
}

func encodeNode(parent *hclwrite.Body, n *config.Node) {
	body := parent.AppendNewBlock("node", []string{n.ID}).Body()
	body.SetAttributeValue("kind", cty.StringVal(n.Class))
	if len(n.Attributes) > 0 {
		keys := make([]string, 0, len(n.Attributes))
		for k := range n.Attributes {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		attrs := make(map[string]cty.Value, len(keys))
		for _, k := range keys {
			attrs[k] = cty.StringVal(n.Attributes[k])
		}
		body.SetAttributeValue("attributes", cty.ObjectVal(attrs))
	}
	for _, p := range n.Pins {
		pb := body.AppendNewBlock("pin", []string{p.ID}).Body()
		pb.SetAttributeValue("class", cty.StringVal(p.Class))
		if p.PinID != "" {
			pb.SetAttributeValue("pinid", cty.StringVal(p.PinID))
		}
		if p.Name != "" {
			pb.SetAttributeValue("name", cty.StringVal(p.Name))
		}
	}
}
