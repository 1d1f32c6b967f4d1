package interp

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/roprogo/internal/diagram"
)

var (
	// ErrCallDepthExceeded is returned when nested subroutine calls go deeper
	// than Options.MaxCallDepth, which is how recursive call graphs end.
	ErrCallDepthExceeded = errors.New("subroutine call depth exceeded")

	// ErrWaitTimeout is returned when a sensor wait outlives
	// Options.WaitTimeout.
	ErrWaitTimeout = errors.New("sensor wait timed out")
)

// StructureError reports a diagram whose wiring does not match what a node
// kind requires.
type StructureError struct {
	NodeID string
	Kind   diagram.Kind
	Msg    string
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("diagram structure error at %s[%s]: %s", e.Kind, e.NodeID, e.Msg)
}

func structureErr(n *diagram.Node, format string, args ...any) error {
	return &StructureError{NodeID: n.ID, Kind: n.Kind, Msg: fmt.Sprintf(format, args...)}
}
