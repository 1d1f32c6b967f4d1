package diagram

// Pin classes used by the interpreter when searching a node's pins.
const (
	ClassFlowInput  = "flowobjectinput"
	ClassFlowOutput = "flowobjectoutput"
	ClassDataInput  = "dataobjectinput"
	ClassDataOutput = "dataobjectoutput"
)

// Pin attribute names accepted by Node.FindPinsByAttribute.
const (
	AttrID    = "id"
	AttrPinID = "pinid"
	AttrName  = "name"
	AttrClass = "pinclass"
)

// Pin is a connection point on a node.
//
// ID is unique across the whole diagram. PinID is a port role that is only
// unique within one call-site/boundary correlation; it links the pins of a
// subroutine call site with the boundary nodes inside the callee.
type Pin struct {
	ID    string
	PinID string
	Name  string
	Class string
}

// Attr returns the value of the named pin attribute, or "" for names a pin
// does not carry.
func (p Pin) Attr(name string) string {
	switch name {
	case AttrID:
		return p.ID
	case AttrPinID:
		return p.PinID
	case AttrName:
		return p.Name
	case AttrClass:
		return p.Class
	}
	return ""
}
