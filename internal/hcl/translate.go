package hcl

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/specialistvlad/roprogo/internal/config"
)

// translateSubroutine converts a subroutine block into the agnostic model,
// collecting every problem it finds.
func translateSubroutine(sb *subroutineBlock) (*config.Subroutine, error) {
	var errs *multierror.Error
	sub := &config.Subroutine{Name: sb.Name}
	nodeIDs := make(map[string]bool)
	pinIDs := make(map[string]bool)

	for _, nb := range sb.Nodes {
		if nodeIDs[nb.ID] {
			errs = multierror.Append(errs, fmt.Errorf("subroutine %q: node %q is defined more than once", sb.Name, nb.ID))
			continue
		}
		nodeIDs[nb.ID] = true

		n, err := translateNode(nb)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("subroutine %q: %w", sb.Name, err))
			continue
		}
		for _, p := range n.Pins {
			if pinIDs[p.ID] {
				errs = multierror.Append(errs, fmt.Errorf("subroutine %q: pin %q is defined more than once", sb.Name, p.ID))
			}
			pinIDs[p.ID] = true
		}
		sub.Nodes = append(sub.Nodes, n)
	}

	for i, wb := range sb.Wires {
		w, err := translateWire(wb, i)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("subroutine %q: %w", sb.Name, err))
			continue
		}
		for _, id := range append(append([]string(nil), w.From...), w.To...) {
			if !pinIDs[id] {
				errs = multierror.Append(errs, fmt.Errorf("subroutine %q: wire %s references unknown pin %q", sb.Name, w.Label(), id))
			}
		}
		sub.Wires = append(sub.Wires, w)
	}

	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return sub, nil
}

func translateNode(nb *nodeBlock) (*config.Node, error) {
	if nb.Kind == "" {
		return nil, fmt.Errorf("node %q has no kind", nb.ID)
	}
	attrs, err := decodeAttributes(nb.Attributes)
	if err != nil {
		return nil, fmt.Errorf("node %q: %w", nb.ID, err)
	}
	n := &config.Node{ID: nb.ID, Class: nb.Kind, Attributes: attrs}
	for _, pb := range nb.Pins {
		if pb.Class == "" {
			return nil, fmt.Errorf("node %q: pin %q has no class", nb.ID, pb.ID)
		}
		n.Pins = append(n.Pins, &config.Pin{ID: pb.ID, PinID: pb.PinID, Name: pb.Name, Class: pb.Class})
	}
	return n, nil
}

func translateWire(wb *wireBlock, index int) (*config.Wire, error) {
	w := &config.Wire{ID: wb.ID, Kind: wb.Kind, From: wb.From, To: wb.To}
	if w.ID == "" {
		w.ID = fmt.Sprintf("wire%d", index)
	}
	switch w.Kind {
	case "", config.WireFlow, config.WireData:
	default:
		return nil, fmt.Errorf("wire %s has unknown kind %q", w.Label(), w.Kind)
	}
	if len(w.From) == 0 || len(w.To) == 0 {
		return nil, fmt.Errorf("wire %s needs at least one source and one target", w.Label())
	}
	return w, nil
}
