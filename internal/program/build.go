package program

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/specialistvlad/roprogo/internal/config"
	"github.com/specialistvlad/roprogo/internal/ctxlog"
	"github.com/specialistvlad/roprogo/internal/dag"
	"github.com/specialistvlad/roprogo/internal/diagram"
	"github.com/specialistvlad/roprogo/internal/hwio"
	"github.com/specialistvlad/roprogo/internal/interp"
	"github.com/specialistvlad/roprogo/internal/registry"
	"github.com/specialistvlad/roprogo/internal/wire"
)

// DefaultEntry is preferred when several subroutines hold a ProcessStart.
const DefaultEntry = "main"

// Options controls how a program is built.
type Options struct {
	// Entry names the subroutine to start in. When empty, the subroutine
	// holding a ProcessStart node is used.
	Entry  string
	Interp interp.Options
}

// Build assembles a program from a model. Every problem of every subroutine
// body is reported together.
func Build(ctx context.Context, model *config.Model, device hwio.Device, opts Options) (*Program, error) {
	logger := ctxlog.FromContext(ctx)
	if len(model.Subroutines) == 0 {
		return nil, fmt.Errorf("diagram defines no subroutines")
	}

	reg := registry.New()
	p := &Program{
		subs:   reg,
		calls:  dag.New(),
		interp: interp.New(device, reg, opts.Interp),
		status: newStatus(),
	}

	var errs *multierror.Error
	for _, name := range model.SubroutineNames() {
		sub, sites, err := p.buildSubroutine(ctx, model.Subroutines[name])
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		reg.Register(ctx, name, sub)
		p.calls.AddNode(name)
		p.callSites = append(p.callSites, sites...)
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}

	if err := reg.Validate(ctx, p.callSites); err != nil {
		logger.Debug("Diagram has unresolved subroutine calls.", "error", err)
	}
	for _, site := range p.callSites {
		if _, ok := reg.Lookup(site.Callee); ok {
			if err := p.calls.AddEdge(site.Caller, site.Callee); err != nil {
				return nil, err
			}
		}
	}
	for _, name := range reg.Names() {
		if callees, err := p.calls.Callees(name); err == nil && len(callees) > 0 {
			logger.Debug("Subroutine calls resolved.", "subroutine", name, "callees", callees)
		}
	}
	if err := p.calls.DetectCycles(); err != nil {
		logger.Warn("Subroutines call each other recursively; runs stop at the call depth limit.",
			"error", err, "max_call_depth", p.interp.Options().MaxCallDepth)
	}

	entry, err := p.selectEntry(opts.Entry)
	if err != nil {
		return nil, err
	}
	p.entry = entry

	for _, name := range p.Unreachable() {
		callers, _ := p.calls.Callers(name)
		logger.Info("Subroutine is never called from the entry.", "entry", entry.name, "subroutine", name, "callers", callers)
	}
	logger.Info("Program built.", "entry", entry.name, "subroutines", reg.Len(), "call_sites", len(p.callSites))
	return p, nil
}

func (p *Program) selectEntry(name string) (*Subroutine, error) {
	if name != "" {
		s, ok := p.subs.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("entry subroutine %q is not defined", name)
		}
		return s.(*Subroutine), nil
	}

	var candidates []string
	for _, n := range p.subs.Names() {
		s, _ := p.subs.Lookup(n)
		if _, ok := s.(*Subroutine).Start(); ok {
			candidates = append(candidates, n)
		}
	}
	switch {
	case len(candidates) == 1:
		name = candidates[0]
	case len(candidates) == 0:
		return nil, fmt.Errorf("no subroutine contains a ProcessStart node")
	default:
		for _, c := range candidates {
			if c == DefaultEntry {
				name = c
			}
		}
		if name == "" {
			return nil, fmt.Errorf("several subroutines contain a ProcessStart node (%s); choose one as entry",
				strings.Join(candidates, ", "))
		}
	}
	s, _ := p.subs.Lookup(name)
	return s.(*Subroutine), nil
}

// buildSubroutine creates the nodes and wire table of one body and returns
// the call sites it contains.
func (p *Program) buildSubroutine(ctx context.Context, cs *config.Subroutine) (*Subroutine, []registry.CallSite, error) {
	logger := ctxlog.FromContext(ctx).With("subroutine", cs.Name)
	sub := &Subroutine{
		name:    cs.Name,
		table:   wire.New(),
		entries: make(map[string]*diagram.Node),
		in:      p.interp,
		status:  p.status,
	}

	var errs *multierror.Error
	var sites []registry.CallSite
	for _, cn := range cs.Nodes {
		n, err := diagram.NewNode(toRecord(cn))
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("subroutine %q, node %q: %w", cs.Name, cn.ID, err))
			continue
		}
		if n.Kind == diagram.KindUnknown {
			logger.Warn("Diagram uses an element kind that is not implemented.", "node_id", n.ID, "class", n.ClassName)
		}
		if n.DecodeErr != nil {
			logger.Warn("Diagram element has malformed attributes.", "node_id", n.ID, "error", n.DecodeErr)
		}
		if err := sub.table.AddNode(n); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("subroutine %q: %w", cs.Name, err))
			continue
		}

		switch n.Kind {
		case diagram.KindProcessStart:
			if sub.start != nil {
				logger.Warn("Subroutine has several ProcessStart nodes; the first one is used.", "node_id", n.ID)
				break
			}
			sub.start = n
		case diagram.KindSubroutineFlowIn:
			if b, ok := n.Payload.(*diagram.Boundary); ok && n.DecodeErr == nil {
				if other, dup := sub.entries[b.UniqueID]; dup {
					errs = multierror.Append(errs, fmt.Errorf("subroutine %q: entries %s and %s share unique id %q", cs.Name, other, n, b.UniqueID))
					break
				}
				sub.entries[b.UniqueID] = n
			}
		case diagram.KindSubroutineRef:
			if ref, ok := n.Payload.(*diagram.SubroutineRef); ok && n.DecodeErr == nil {
				sites = append(sites, registry.CallSite{Caller: cs.Name, NodeID: n.ID, Callee: ref.Name})
			}
		}
	}

	for i, w := range cs.Wires {
		if err := connect(ctx, sub.table, w, i); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("subroutine %q, wire %s: %w", cs.Name, w.Label(), err))
		}
	}

	if err := errs.ErrorOrNil(); err != nil {
		return nil, nil, err
	}
	return sub, sites, nil
}

func toRecord(cn *config.Node) diagram.Record {
	rec := diagram.Record{ClassName: cn.Class, ID: cn.ID, Attributes: cn.Attributes}
	for _, p := range cn.Pins {
		rec.Pins = append(rec.Pins, diagram.Pin{ID: p.ID, PinID: p.PinID, Name: p.Name, Class: p.Class})
	}
	return rec
}

// connect adds a wire to the table. A wire with several sources is joined
// through a synthesized pass-through merge helper.
func connect(ctx context.Context, tbl *wire.Table, w *config.Wire, index int) error {
	kind, err := wireKind(tbl, w)
	if err != nil {
		return err
	}
	if kind == config.WireFlow && len(w.To) > 1 {
		ctxlog.FromContext(ctx).Warn("Flow wire has several targets; control only follows the first.", "wire", w.Label())
	}

	sources := w.From
	if len(w.From) > 1 {
		helper, err := mergeHelper(w, kind, index)
		if err != nil {
			return err
		}
		if err := tbl.AddNode(helper); err != nil {
			return err
		}
		for i, from := range w.From {
			if err := tbl.Connect(from, helper.Pins[i].ID); err != nil {
				return err
			}
		}
		sources = []string{helper.Pins[len(helper.Pins)-1].ID}
	}

	for _, from := range sources {
		for _, to := range w.To {
			if err := tbl.Connect(from, to); err != nil {
				return err
			}
		}
	}
	return nil
}

// wireKind returns the declared kind of w or infers it from its first source.
func wireKind(tbl *wire.Table, w *config.Wire) (string, error) {
	if w.Kind != "" {
		return w.Kind, nil
	}
	owner, ok := tbl.FindOwningNode(w.From[0])
	if !ok {
		return "", fmt.Errorf("wire source pin %q not found", w.From[0])
	}
	if pin, _ := owner.FindPin(w.From[0]); strings.Contains(pin.Class, "data") {
		return config.WireData, nil
	}
	return config.WireFlow, nil
}

// mergeHelper builds the pass-through node joining the sources of w: one
// input per source followed by a single output.
func mergeHelper(w *config.Wire, kind string, index int) (*diagram.Node, error) {
	inClass, outClass := diagram.ClassFlowInput, diagram.ClassFlowOutput
	if kind == config.WireData {
		inClass, outClass = diagram.ClassDataInput, diagram.ClassDataOutput
	}
	id := "merge." + w.ID
	if w.ID == "" {
		id = fmt.Sprintf("merge.wire%d", index)
	}
	rec := diagram.Record{ClassName: diagram.KindDataHelper.String(), ID: id}
	for i := range w.From {
		rec.Pins = append(rec.Pins, diagram.Pin{ID: fmt.Sprintf("%s.in%d", id, i), Class: inClass})
	}
	rec.Pins = append(rec.Pins, diagram.Pin{ID: id + ".out", Class: outClass})
	return diagram.NewNode(rec)
}
