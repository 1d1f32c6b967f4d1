package program_test

import (
	"context"
	"testing"

	"github.com/specialistvlad/roprogo/internal/config"
	"github.com/specialistvlad/roprogo/internal/diagram"
	"github.com/specialistvlad/roprogo/internal/hwio/sim"
	"github.com/specialistvlad/roprogo/internal/program"
	tu "github.com/specialistvlad/roprogo/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startStop(s *tu.Sub) {
	start(s)
	stop(s)
	s.Wire("start.out", "stop.in")
}

func TestBuild_EntrySelection(t *testing.T) {
	testCases := []struct {
		name      string
		diagram   func() *tu.Diagram
		entry     string
		wantEntry string
		wantErr   string
	}{
		{
			name: "only subroutine with a start",
			diagram: func() *tu.Diagram {
				d := tu.NewDiagram()
				startStop(d.Sub("blink"))
				d.Sub("helper").Node("fin", diagram.KindSubroutineFlowIn, tu.Attrs{"uniqueID": "x"}, tu.FlowOut("fin.out"))
				return d
			},
			wantEntry: "blink",
		},
		{
			name: "main wins among several",
			diagram: func() *tu.Diagram {
				d := tu.NewDiagram()
				startStop(d.Sub("main"))
				startStop(d.Sub("other"))
				return d
			},
			wantEntry: "main",
		},
		{
			name: "explicit entry",
			diagram: func() *tu.Diagram {
				d := tu.NewDiagram()
				startStop(d.Sub("main"))
				startStop(d.Sub("other"))
				return d
			},
			entry:     "other",
			wantEntry: "other",
		},
		{
			name: "ambiguous",
			diagram: func() *tu.Diagram {
				d := tu.NewDiagram()
				startStop(d.Sub("a"))
				startStop(d.Sub("b"))
				return d
			},
			wantErr: "several subroutines contain a ProcessStart node",
		},
		{
			name: "unknown explicit entry",
			diagram: func() *tu.Diagram {
				d := tu.NewDiagram()
				startStop(d.Sub("main"))
				return d
			},
			entry:   "nope",
			wantErr: `entry subroutine "nope" is not defined`,
		},
		{
			name: "no start anywhere",
			diagram: func() *tu.Diagram {
				d := tu.NewDiagram()
				d.Sub("helper").Node("fin", diagram.KindSubroutineFlowIn, tu.Attrs{"uniqueID": "x"}, tu.FlowOut("fin.out"))
				return d
			},
			wantErr: "no subroutine contains a ProcessStart node",
		},
		{
			name:    "empty diagram",
			diagram: tu.NewDiagram,
			wantErr: "diagram defines no subroutines",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := program.Build(context.Background(), tc.diagram().Model(), sim.New(), program.Options{Entry: tc.entry})
			if tc.wantErr != "" {
				assert.ErrorContains(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantEntry, p.Entry())
		})
	}
}

func TestBuild_ReportsAllProblems(t *testing.T) {
	d := tu.NewDiagram()
	a := d.Sub("main")
	startStop(a)
	a.Wire("ghost.out", "stop.in")
	b := d.Sub("b")
	b.Node("fin", diagram.KindSubroutineFlowIn, tu.Attrs{"uniqueID": "dup"}, tu.FlowOut("fin.out"))
	b.Node("fin2", diagram.KindSubroutineFlowIn, tu.Attrs{"uniqueID": "dup"}, tu.FlowOut("fin2.out"))
	d.Model().Subroutines["b"].Nodes = append(d.Model().Subroutines["b"].Nodes, &config.Node{ID: "classless"})

	_, err := program.Build(context.Background(), d.Model(), sim.New(), program.Options{})
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, `wire source pin "ghost.out" not found`)
	assert.Contains(t, msg, `share unique id "dup"`)
	assert.Contains(t, msg, `node "classless"`)
}

func TestBuild_FlowFanOutFollowsFirstTarget(t *testing.T) {
	d := tu.NewDiagram()
	main := d.Sub("main")
	start(main)
	main.Node("lamp", diagram.KindDataOutSngl, tu.Attrs{"classic": true, "module": "IF1", "output": 1, "value": 1},
		tu.FlowIn("lamp.in"), tu.FlowOut("lamp.out"))
	main.Node("motor", diagram.KindDataOutSngl, tu.Attrs{"classic": true, "module": "IF1", "output": 2, "value": 1},
		tu.FlowIn("motor.in"), tu.FlowOut("motor.out"))
	stop(main)
	main.Wire("start.out", "lamp.in", "motor.in").Merge("stop.in", "lamp.out", "motor.out")

	p, dev := build(t, d, program.Options{})
	require.NoError(t, p.Run(context.Background()))
	require.Len(t, dev.Writes(), 1)
	assert.Equal(t, 5, dev.Writes()[0].Port)
}
