package program_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/roprogo/internal/ctxlog"
	"github.com/specialistvlad/roprogo/internal/diagram"
	"github.com/specialistvlad/roprogo/internal/hwio/sim"
	"github.com/specialistvlad/roprogo/internal/interp"
	"github.com/specialistvlad/roprogo/internal/program"
	tu "github.com/specialistvlad/roprogo/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func start(s *tu.Sub) *tu.Sub {
	return s.Node("start", diagram.KindProcessStart, nil, tu.FlowOut("start.out"))
}

func stop(s *tu.Sub) *tu.Sub {
	return s.Node("stop", diagram.KindProcessStop, nil, tu.FlowIn("stop.in"))
}

func build(t *testing.T, d *tu.Diagram, opts program.Options) (*program.Program, *sim.Device) {
	t.Helper()
	dev := sim.New()
	p, err := program.Build(context.Background(), d.Model(), dev, opts)
	require.NoError(t, err)
	return p, dev
}

func TestRun_CountLoopBlink(t *testing.T) {
	d := tu.NewDiagram()
	main := d.Sub("main")
	start(main)
	main.Node("loop", diagram.KindFlowCountLoop, tu.Attrs{"count": 3},
		tu.Named("=1", tu.FlowIn("loop.reset")),
		tu.Named("+1", tu.FlowIn("loop.next")),
		tu.Named("J", tu.FlowOut("loop.J")),
		tu.Named("N", tu.FlowOut("loop.N")))
	main.Node("lamp", diagram.KindDataOutSngl, tu.Attrs{"classic": true, "module": "IF1", "output": 1, "value": 7},
		tu.FlowIn("lamp.in"), tu.FlowOut("lamp.out"))
	stop(main)
	main.Wire("start.out", "loop.reset").
		Wire("loop.N", "lamp.in").
		Wire("lamp.out", "loop.next").
		Wire("loop.J", "stop.in")

	p, dev := build(t, d, program.Options{})
	require.NoError(t, p.Run(context.Background()))

	want := []sim.Write{
		{Module: "IF1", Port: 5, Settings: map[string]any{"value": 7}},
		{Module: "IF1", Port: 5, Settings: map[string]any{"value": 7}},
		{Module: "IF1", Port: 5, Settings: map[string]any{"value": 7}},
	}
	if diff := cmp.Diff(want, dev.Writes()); diff != "" {
		t.Errorf("writes mismatch (-want +got):\n%s", diff)
	}

	snap := p.Status().Snapshot()
	assert.Equal(t, program.StateFinished, snap.State)
	assert.Equal(t, "stop", snap.Node)
	assert.NotEmpty(t, snap.RunID)
}

// relayDiagram calls "relay", which reads its argument through a data
// boundary and pushes it back out to a lamp on the caller's side.
func relayDiagram() *tu.Diagram {
	d := tu.NewDiagram()
	main := d.Sub("main")
	start(main)
	main.Node("arg", diagram.KindDataConst, tu.Attrs{"value": 5}, tu.DataOut("arg.out"))
	main.Node("call", diagram.KindSubroutineRef, tu.Attrs{"name": "relay"},
		tu.Correlated("u-in", tu.FlowIn("call.in")),
		tu.Correlated("u-out", tu.FlowOut("call.out")),
		tu.Correlated("u-arg", tu.DataIn("call.arg")),
		tu.Correlated("u-res", tu.DataOut("call.res")))
	main.Node("lamp", diagram.KindDataOutSngl, tu.Attrs{"module": "IF1", "output": 2, "resolution": 0},
		tu.DataIn("lamp.v"))
	stop(main)
	main.Wire("start.out", "call.in").
		Wire("arg.out", "call.arg").
		Wire("call.res", "lamp.v").
		Wire("call.out", "stop.in")

	relay := d.Sub("relay")
	relay.Node("fin", diagram.KindSubroutineFlowIn, tu.Attrs{"uniqueID": "u-in"}, tu.FlowOut("fin.out"))
	relay.Node("din", diagram.KindSubroutineDataIn, tu.Attrs{"uniqueID": "u-arg"}, tu.DataOut("din.out"))
	relay.Node("set", diagram.KindDataMssg, tu.Attrs{"command": "="},
		tu.FlowIn("set.in"), tu.FlowOut("set.out"), tu.DataIn("set.v"), tu.DataOut("set.res"))
	relay.Node("dout", diagram.KindSubroutineDataOut, tu.Attrs{"uniqueID": "u-res"}, tu.DataIn("dout.in"))
	relay.Node("fout", diagram.KindSubroutineFlowOut, tu.Attrs{"uniqueID": "u-out"}, tu.FlowIn("fout.in"))
	relay.Wire("fin.out", "set.in").
		Wire("din.out", "set.v").
		Wire("set.res", "dout.in").
		Wire("set.out", "fout.in")
	return d
}

func TestRun_SubroutineCallCarriesData(t *testing.T) {
	p, dev := build(t, relayDiagram(), program.Options{})
	assert.Equal(t, "main", p.Entry())
	assert.Equal(t, []string{"main", "relay"}, p.Subroutines())
	callees, err := p.CallGraph().Callees("main")
	require.NoError(t, err)
	assert.Equal(t, []string{"relay"}, callees)

	require.NoError(t, p.Run(context.Background()))

	want := []sim.Write{{Module: "IF1", Port: 6, Settings: map[string]any{"value": 5}}}
	if diff := cmp.Diff(want, dev.Writes()); diff != "" {
		t.Errorf("writes mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "stop", p.Status().Snapshot().Node, "control returns through the correlated exit")
}

func TestBuild_ReportsUnreachableSubroutines(t *testing.T) {
	d := relayDiagram()
	orphan := d.Sub("orphan")
	orphan.Node("fin", diagram.KindSubroutineFlowIn, tu.Attrs{"uniqueID": "o-in"}, tu.FlowOut("fin.out"))
	orphan.Node("call", diagram.KindSubroutineRef, tu.Attrs{"name": "lonely"},
		tu.Correlated("l-in", tu.FlowIn("call.in")), tu.Correlated("l-out", tu.FlowOut("call.out")))
	orphan.Wire("fin.out", "call.in")
	lonely := d.Sub("lonely")
	lonely.Node("fin", diagram.KindSubroutineFlowIn, tu.Attrs{"uniqueID": "l-in"}, tu.FlowOut("fin.out"))
	lonely.Node("fout", diagram.KindSubroutineFlowOut, tu.Attrs{"uniqueID": "l-out"}, tu.FlowIn("fout.in"))
	lonely.Wire("fin.out", "fout.in")

	var buf bytes.Buffer
	ctx := ctxlog.WithLogger(context.Background(), slog.New(slog.NewTextHandler(&buf, nil)))
	p, err := program.Build(ctx, d.Model(), sim.New(), program.Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"lonely", "orphan"}, p.Unreachable())
	assert.Contains(t, buf.String(), "subroutine=lonely callers=[orphan]")
	assert.Contains(t, buf.String(), "subroutine=orphan callers=[]")
	assert.NotContains(t, buf.String(), "subroutine=relay callers")
}

func TestRun_MergedWires(t *testing.T) {
	d := tu.NewDiagram()
	main := d.Sub("main")
	start(main)
	main.Node("a", diagram.KindDataConst, tu.Attrs{"value": 2}, tu.DataOut("a.out"))
	main.Node("b", diagram.KindDataConst, tu.Attrs{"value": 9}, tu.DataOut("b.out"))
	main.Node("set", diagram.KindDataMssg, tu.Attrs{"command": "="},
		tu.FlowIn("set.in"), tu.FlowOut("set.out"), tu.DataIn("set.v"), tu.DataOut("set.res"))
	main.Node("lamp", diagram.KindDataOutSngl, tu.Attrs{"module": "IF1", "output": 3, "resolution": 0},
		tu.DataIn("lamp.v"))
	main.Node("if", diagram.KindFlowIf, tu.Attrs{"style": 2, "module": "IF1", "input": 160, "inputMode": 0},
		tu.FlowIn("if.in"), tu.Named("J", tu.FlowOut("if.J")), tu.Named("N", tu.FlowOut("if.N")))
	stop(main)
	main.Wire("start.out", "set.in").
		Merge("set.v", "a.out", "b.out").
		Wire("set.res", "lamp.v").
		Wire("set.out", "if.in").
		Merge("stop.in", "if.J", "if.N")

	p, dev := build(t, d, program.Options{})
	require.NoError(t, p.Run(context.Background()))

	want := []sim.Write{{Module: "IF1", Port: 7, Settings: map[string]any{"value": 2}}}
	if diff := cmp.Diff(want, dev.Writes()); diff != "" {
		t.Errorf("writes mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "stop", p.Status().Snapshot().Node, "both branch exits reach stop through the merge")
}

func TestRun_MissingCalleeEndsPath(t *testing.T) {
	d := tu.NewDiagram()
	main := d.Sub("main")
	start(main)
	main.Node("call", diagram.KindSubroutineRef, tu.Attrs{"name": "ghost"},
		tu.Correlated("u-in", tu.FlowIn("call.in")), tu.Correlated("u-out", tu.FlowOut("call.out")))
	stop(main)
	main.Wire("start.out", "call.in").Wire("call.out", "stop.in")

	p, _ := build(t, d, program.Options{})
	require.NoError(t, p.Run(context.Background()))
	assert.Equal(t, "call", p.Status().Snapshot().Node)
}

func TestRun_RecursionHitsCallDepth(t *testing.T) {
	d := tu.NewDiagram()
	main := d.Sub("main")
	start(main)
	main.Node("call", diagram.KindSubroutineRef, tu.Attrs{"name": "rec"},
		tu.Correlated("r-in", tu.FlowIn("call.in")), tu.Correlated("r-out", tu.FlowOut("call.out")))
	stop(main)
	main.Wire("start.out", "call.in").Wire("call.out", "stop.in")

	rec := d.Sub("rec")
	rec.Node("fin", diagram.KindSubroutineFlowIn, tu.Attrs{"uniqueID": "r-in"}, tu.FlowOut("fin.out"))
	rec.Node("self", diagram.KindSubroutineRef, tu.Attrs{"name": "rec"},
		tu.Correlated("r-in", tu.FlowIn("self.in")), tu.Correlated("r-out", tu.FlowOut("self.out")))
	rec.Node("fout", diagram.KindSubroutineFlowOut, tu.Attrs{"uniqueID": "r-out"}, tu.FlowIn("fout.in"))
	rec.Wire("fin.out", "self.in").Wire("self.out", "fout.in")

	p, _ := build(t, d, program.Options{Interp: interp.Options{MaxCallDepth: 5}})
	assert.ErrorContains(t, p.CallGraph().DetectCycles(), "rec -> rec")

	err := p.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, interp.ErrCallDepthExceeded))
	snap := p.Status().Snapshot()
	assert.Equal(t, program.StateFailed, snap.State)
	assert.Contains(t, snap.Error, "rec")
}

func TestRun_ContextCancellation(t *testing.T) {
	d := tu.NewDiagram()
	main := d.Sub("main")
	start(main)
	main.Node("wait", diagram.KindFlowDelay, tu.Attrs{"value": 5, "scale": 3},
		tu.FlowIn("wait.in"), tu.FlowOut("wait.out"))
	stop(main)
	main.Wire("start.out", "wait.in").Wire("wait.out", "stop.in")

	p, _ := build(t, d, program.Options{})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	began := time.Now()
	err := p.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(began), time.Second)
	assert.Equal(t, program.StateFailed, p.Status().Snapshot().State)
}

func TestRun_FreshVariablesPerRun(t *testing.T) {
	d := tu.NewDiagram()
	main := d.Sub("main")
	start(main)
	main.Node("one", diagram.KindDataConst, tu.Attrs{"value": 1}, tu.DataOut("one.out"))
	main.Node("add", diagram.KindDataMssg, tu.Attrs{"command": "+"},
		tu.FlowIn("add.in"), tu.FlowOut("add.out"), tu.DataIn("add.v"), tu.DataOut("add.res"))
	main.Node("var", diagram.KindDataVariable, tu.Attrs{"name": "n", "scope": diagram.ScopeGlobal, "init": 0},
		tu.DataIn("var.in"), tu.DataOut("var.out"))
	main.Node("show", diagram.KindDataMssg, tu.Attrs{"command": "="},
		tu.FlowIn("show.in"), tu.FlowOut("show.out"), tu.DataIn("show.v"), tu.DataOut("show.res"))
	main.Node("lamp", diagram.KindDataOutSngl, tu.Attrs{"module": "IF1", "output": 1, "resolution": 0},
		tu.DataIn("lamp.v"))
	stop(main)
	main.Wire("start.out", "add.in").
		Wire("one.out", "add.v").
		Wire("add.res", "var.in").
		Wire("add.out", "show.in").
		Wire("var.out", "show.v").
		Wire("show.res", "lamp.v").
		Wire("show.out", "stop.in")

	p, dev := build(t, d, program.Options{})
	require.NoError(t, p.Run(context.Background()))
	require.NoError(t, p.Run(context.Background()))

	writes := dev.Writes()
	require.Len(t, writes, 2)
	assert.Equal(t, 1, writes[0].Settings["value"])
	assert.Equal(t, 1, writes[1].Settings["value"], "globals start over on every run")
}
