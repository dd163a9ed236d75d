package state

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kknero/neromind/pkg/events"
	"github.com/kknero/neromind/pkg/mindmap"
)

var epoch = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func fixedClock() func() time.Time { return func() time.Time { return epoch } }

// rename is a minimal command used to exercise Apply.
type rename struct {
	id, text string
	prev     string
	fail     bool
}

func (r *rename) Execute(ctx *Context) error {
	if r.fail {
		return errors.New("refused")
	}
	n := ctx.Node(r.id)
	if n == nil {
		return nil
	}
	r.prev = n.Content
	n.Content = r.text
	ctx.Touch(n)
	ctx.Emit(events.NodeUpdated, events.NodeUpdatedPayload{Node: n.Clone()})
	return nil
}

func (r *rename) Undo(ctx *Context) error {
	if n := ctx.Node(r.id); n != nil {
		n.Content = r.prev
	}
	return nil
}

func (r *rename) Description() string { return "Rename" }

func TestAddNodeFirstBecomesRoot(t *testing.T) {
	s := New()
	s.AddNode(mindmap.Node{ID: "r"})
	s.AddNode(mindmap.Node{ID: "a", ParentID: "r"})
	s.AddNode(mindmap.Node{ID: "z"})

	root, ok := s.RootNode()
	require.True(t, ok)
	assert.Equal(t, "r", root.ID)
	assert.Equal(t, 3, s.NodeCount())
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	s := New()
	s.AddNode(mindmap.Node{ID: "r", ChildIDs: []string{"a"}})
	s.AddNode(mindmap.Node{ID: "a", ParentID: "r"})

	snap := s.Snapshot()
	i := slices.IndexFunc(snap.Nodes, func(n mindmap.Node) bool { return n.ID == "r" })
	require.GreaterOrEqual(t, i, 0)
	snap.Nodes[i].ChildIDs[0] = "mutated"
	snap.Nodes[i].Position.X = 999

	again := s.Snapshot()
	root, _ := again.Node("r")
	assert.Equal(t, []string{"a"}, root.ChildIDs)
	assert.Zero(t, root.Position.X)

	n, _ := s.Node("r")
	n.ChildIDs = append(n.ChildIDs, "b")
	fresh, _ := s.Node("r")
	assert.Equal(t, []string{"a"}, fresh.ChildIDs)
}

func TestSnapshotSorted(t *testing.T) {
	s := New()
	for _, id := range []string{"c", "a", "b"} {
		s.AddNode(mindmap.Node{ID: id, IsPinned: true})
	}
	s.AddEdge(mindmap.Edge{ID: "e2"})
	s.AddEdge(mindmap.Edge{ID: "e1"})
	s.SetCollapsed("b", true)
	s.SetCollapsed("a", true)

	snap := s.Snapshot()
	ids := make([]string, len(snap.Nodes))
	for i, n := range snap.Nodes {
		ids[i] = n.ID
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids)
	assert.Equal(t, "e1", snap.Edges[0].ID)
	assert.Equal(t, []string{"a", "b", "c"}, snap.PinnedNodeIDs)
	assert.Equal(t, []string{"a", "b"}, snap.CollapsedNodeIDs)
	assert.Equal(t, "c", snap.RootID)
}

func TestApplyForwardAndInverse(t *testing.T) {
	bus := events.NewBus(nil)
	var updates int
	bus.On(events.NodeUpdated, func(any) { updates++ })

	s := New(WithEventBus(bus), WithClock(fixedClock()))
	s.AddNode(mindmap.Node{ID: "r", Content: "old"})

	cmd := &rename{id: "r", text: "new"}
	snap, err := s.Apply(Forward(cmd))
	require.NoError(t, err)
	root, _ := snap.Root()
	assert.Equal(t, "new", root.Content)
	assert.Equal(t, epoch, root.UpdatedAt)
	assert.Equal(t, 1, updates)

	snap, err = s.Apply(Inverse(cmd))
	require.NoError(t, err)
	root, _ = snap.Root()
	assert.Equal(t, "old", root.Content)
}

func TestApplyReturnsError(t *testing.T) {
	s := New()
	s.AddNode(mindmap.Node{ID: "r"})
	_, err := s.Apply(Forward(&rename{id: "r", fail: true}))
	assert.Error(t, err)
}

func TestPanickingHandlerDoesNotEscapeApply(t *testing.T) {
	bus := events.NewBus(nil)
	bus.On(events.NodeUpdated, func(any) { panic("handler bug") })

	s := New(WithEventBus(bus))
	s.AddNode(mindmap.Node{ID: "r", Content: "old"})

	var snap Snapshot
	require.NotPanics(t, func() {
		snap, _ = s.Apply(Forward(&rename{id: "r", text: "new"}))
	})
	root, _ := snap.Root()
	assert.Equal(t, "new", root.Content, "state change must survive a failing handler")
}

func TestUpdateNode(t *testing.T) {
	bus := events.NewBus(nil)
	var got events.NodeUpdatedPayload
	bus.On(events.NodeUpdated, func(p any) { got = p.(events.NodeUpdatedPayload) })

	s := New(WithEventBus(bus), WithClock(fixedClock()))
	s.AddNode(mindmap.Node{ID: "r"})

	s.UpdateNode("r", func(n *mindmap.Node) {
		n.ID = "hijack"
		n.Position = mindmap.Position{X: 1, Y: 2}
	})
	s.UpdateNode("missing", func(*mindmap.Node) { t.Fatal("must not be called") })

	n, ok := s.Node("r")
	require.True(t, ok)
	assert.Equal(t, mindmap.Position{X: 1, Y: 2}, n.Position)
	assert.Equal(t, epoch, n.UpdatedAt)
	assert.Equal(t, "r", got.Node.ID)
}

func TestRemoveNodeDoesNotCascade(t *testing.T) {
	s := New()
	s.AddNode(mindmap.Node{ID: "r", ChildIDs: []string{"a"}})
	s.AddNode(mindmap.Node{ID: "a", ParentID: "r"})
	s.AddEdge(mindmap.Edge{ID: "e", FromNodeID: "r", ToNodeID: "a"})

	s.RemoveNode("a")

	root, _ := s.RootNode()
	assert.Equal(t, []string{"a"}, root.ChildIDs)
	_, ok := s.Edge("e")
	assert.True(t, ok)

	s.RemoveNode("r")
	_, ok = s.RootNode()
	assert.False(t, ok)
	assert.Empty(t, s.Snapshot().RootID)
}

func TestEphemeralSetters(t *testing.T) {
	s := New()
	s.SetEditingNode("a")
	assert.Equal(t, "a", s.EditingNodeID())

	drag := &DragContext{NodeID: "a", Start: mindmap.Position{X: 1}}
	s.SetDragState(drag)
	drag.NodeID = "changed"
	require.NotNil(t, s.DragState())
	assert.Equal(t, "a", s.DragState().NodeID)

	s.SetDragState(nil)
	assert.Nil(t, s.DragState())

	s.SetCollapsed("a", true)
	s.SetCollapsed("a", false)
	assert.Empty(t, s.Snapshot().CollapsedNodeIDs)
}

func TestDestroy(t *testing.T) {
	s := New()
	s.AddNode(mindmap.Node{ID: "r", IsPinned: true})
	s.SetEditingNode("r")
	s.Destroy()

	snap := s.Snapshot()
	assert.Empty(t, snap.Nodes)
	assert.Empty(t, snap.PinnedNodeIDs)
	assert.Empty(t, snap.RootID)
	assert.Empty(t, snap.EditingNodeID)
}

func TestStepDescription(t *testing.T) {
	cmd := &rename{}
	assert.Equal(t, "Rename", Forward(cmd).Description())
	assert.Equal(t, "Undo: Rename", Inverse(cmd).Description())
	assert.Equal(t, "inverse", Inverse(cmd).Mode.String())
	assert.NoError(t, Step{}.Execute(nil))
}
