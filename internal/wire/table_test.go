package wire

import (
	"testing"

	"github.com/specialistvlad/roprogo/internal/diagram"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustNode(t *testing.T, class, id string, pins ...diagram.Pin) *diagram.Node {
	t.Helper()
	n, err := diagram.NewNode(diagram.Record{ClassName: class, ID: id, Pins: pins})
	require.NoError(t, err)
	return n
}

func TestTable_FollowQueries(t *testing.T) {
	tbl := New()
	src := mustNode(t, "dataHelper", "src", diagram.Pin{ID: "out", Class: diagram.ClassDataOutput})
	a := mustNode(t, "dataHelper", "a", diagram.Pin{ID: "a.in", Class: diagram.ClassDataInput})
	b := mustNode(t, "dataHelper", "b", diagram.Pin{ID: "b.in", Class: diagram.ClassDataInput})
	c := mustNode(t, "dataHelper", "c", diagram.Pin{ID: "c.in", Class: diagram.ClassDataInput})
	for _, n := range []*diagram.Node{src, a, b, c} {
		require.NoError(t, tbl.AddNode(n))
	}
	require.NoError(t, tbl.Connect("out", "b.in"))
	require.NoError(t, tbl.Connect("out", "a.in"))
	require.NoError(t, tbl.Connect("out", "c.in"))

	next, ok := tbl.FollowWire("out")
	require.True(t, ok)
	assert.Equal(t, "b.in", next)

	assert.Equal(t, []string{"b.in", "a.in", "c.in"}, tbl.FollowWireList("out"))

	prev, ok := tbl.FollowWireReverse("c.in")
	require.True(t, ok)
	assert.Equal(t, "out", prev)

	_, ok = tbl.FollowWireReverse("out")
	assert.False(t, ok)
	_, ok = tbl.FollowWire("a.in")
	assert.False(t, ok)

	owner, ok := tbl.FindOwningNode("a.in")
	require.True(t, ok)
	assert.Same(t, a, owner)
	_, ok = tbl.FindOwningNode("ghost")
	assert.False(t, ok)

	assert.Len(t, tbl.Nodes(), 4)
}

func TestTable_RejectsDuplicatePins(t *testing.T) {
	tbl := New()
	require.NoError(t, tbl.AddNode(mustNode(t, "dataHelper", "a", diagram.Pin{ID: "p"})))
	err := tbl.AddNode(mustNode(t, "dataHelper", "b", diagram.Pin{ID: "p"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already belongs")
}

func TestTable_ConnectValidatesPins(t *testing.T) {
	tbl := New()
	require.NoError(t, tbl.AddNode(mustNode(t, "dataHelper", "a", diagram.Pin{ID: "p"}, diagram.Pin{ID: "q"})))
	require.Error(t, tbl.Connect("p", "missing"))
	require.Error(t, tbl.Connect("missing", "p"))
	require.Error(t, tbl.Connect("p", "p"))
	require.NoError(t, tbl.Connect("p", "q"))
}
