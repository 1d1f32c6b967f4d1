package program

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/specialistvlad/roprogo/internal/ctxlog"
	"github.com/specialistvlad/roprogo/internal/dag"
	"github.com/specialistvlad/roprogo/internal/interp"
	"github.com/specialistvlad/roprogo/internal/registry"
)

// Program is a built diagram ready to run.
type Program struct {
	entry     *Subroutine
	subs      *registry.Registry
	calls     *dag.Graph
	interp    *interp.Interpreter
	status    *Status
	callSites []registry.CallSite
}

// Entry returns the name of the subroutine runs start in.
func (p *Program) Entry() string {
	return p.entry.name
}

// Subroutines returns the registered subroutine names, sorted.
func (p *Program) Subroutines() []string {
	return p.subs.Names()
}

// CallGraph returns the subroutine call graph.
func (p *Program) CallGraph() *dag.Graph {
	return p.calls
}

// Unreachable returns, sorted, the subroutines that no call chain starting
// at the entry reaches.
func (p *Program) Unreachable() []string {
	reachable := p.calls.Reachable(p.entry.name)
	var out []string
	for _, name := range p.subs.Names() {
		if !slices.Contains(reachable, name) {
			out = append(out, name)
		}
	}
	return out
}

// Status returns the progress tracker of the program.
func (p *Program) Status() *Status {
	return p.status
}

// Run executes the program once: it drives control from the entry
// subroutine's ProcessStart node until the flow ends. Every run starts with
// fresh subprogram and global variables.
func (p *Program) Run(ctx context.Context) error {
	runID := uuid.NewString()
	ctx = ctxlog.With(ctx, "run_id", runID)
	logger := ctxlog.FromContext(ctx)

	start, ok := p.entry.Start()
	if !ok {
		return fmt.Errorf("entry subroutine %q has no ProcessStart node", p.entry.name)
	}

	p.status.begin(runID)
	began := time.Now()
	logger.Info("Program run started.", "entry", p.entry.name, "start_node", start.ID)

	f := interp.NewFrame(p.entry.name, p.entry.table)
	_, err := p.entry.drive(ctxlog.With(ctx, "subroutine", p.entry.name), f, start, "")
	p.status.end(err)

	snap := p.status.Snapshot()
	if err != nil {
		logger.Error("Program run failed.", "error", err, "steps", snap.Steps, "duration", time.Since(began))
		return err
	}
	logger.Info("Program run finished.", "steps", snap.Steps, "duration", time.Since(began),
		"globals", f.Globals.Snapshot())
	return nil
}
