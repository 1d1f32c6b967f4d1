package diagram

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingKind is returned by NewNode for a record without a class name.
var ErrMissingKind = errors.New("diagram: record has no classname")

// Record is the loader-supplied description of one diagram element.
type Record struct {
	ClassName  string
	ID         string
	Attributes map[string]string
	Pins       []Pin
}

// Node is one executable element of a diagram.
type Node struct {
	Kind      Kind
	ClassName string
	ID        string
	Attrs     map[string]string
	Pins      []Pin

	// Payload is the typed attribute set of the node's kind. It is nil for
	// kinds without attributes.
	Payload Payload

	// DecodeErr records attribute problems found while decoding the payload.
	// The interpreter reports them when the node runs.
	DecodeErr error
}

// NewNode validates a record and builds its node. Only the class name is
// mandatory; a missing id is left empty. Attribute problems do not fail
// construction, they are kept in DecodeErr.
func NewNode(rec Record) (*Node, error) {
	if rec.ClassName == "" {
		return nil, ErrMissingKind
	}
	attrs := make(map[string]string, len(rec.Attributes))
	for k, v := range rec.Attributes {
		attrs[k] = v
	}
	n := &Node{
		Kind:      ParseKind(rec.ClassName),
		ClassName: rec.ClassName,
		ID:        rec.ID,
		Attrs:     attrs,
		Pins:      append([]Pin(nil), rec.Pins...),
	}
	n.Payload, n.DecodeErr = decodePayload(n.Kind, attrs)
	return n, nil
}

// String implements fmt.Stringer.
func (n *Node) String() string {
	return fmt.Sprintf("%s[%s]", n.ClassName, n.ID)
}

// FindPinsByClass returns the ids of all pins whose class contains class.
func (n *Node) FindPinsByClass(class string) []string {
	return n.FindPinsByAttribute(AttrClass, class)
}

// FindPinsByAttribute returns, in declaration order, the ids of all pins
// whose attr value contains substr.
func (n *Node) FindPinsByAttribute(attr, substr string) []string {
	var ids []string
	for _, p := range n.Pins {
		if strings.Contains(p.Attr(attr), substr) {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

// FindPin returns the pin with the given id.
func (n *Node) FindPin(id string) (Pin, bool) {
	for _, p := range n.Pins {
		if p.ID == id {
			return p, true
		}
	}
	return Pin{}, false
}

// PinWithPinID returns the first pin whose correlation id equals pinID.
func (n *Node) PinWithPinID(pinID string) (Pin, bool) {
	for _, p := range n.Pins {
		if p.PinID == pinID {
			return p, true
		}
	}
	return Pin{}, false
}
