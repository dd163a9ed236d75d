package command

import (
	"slices"

	"github.com/kknero/neromind/pkg/events"
	"github.com/kknero/neromind/pkg/mindmap"
	"github.com/kknero/neromind/pkg/state"
)

// DeleteSubtree removes a node together with everything below it.
//
// Edges touching a removed node, pins on removed nodes and a selection
// pointing into the subtree go with it. Undo puts all of it back, with the
// node at its original index among its siblings. Deleting the root is a
// no-op.
type DeleteSubtree struct {
	nodeID string

	removed     []mindmap.Node
	edges       []mindmap.Edge
	pinned      []string
	parentIndex int
	selection   string
	clearedSel  bool
	editing     string
}

// NewDeleteSubtree returns a command that deletes nodeID and its
// descendants.
func NewDeleteSubtree(nodeID string) *DeleteSubtree {
	return &DeleteSubtree{nodeID: nodeID, parentIndex: -1}
}

func (d *DeleteSubtree) Description() string { return "Delete node" }

// Removed returns how many nodes the last Execute deleted.
func (d *DeleteSubtree) Removed() int { return len(d.removed) }

func (d *DeleteSubtree) Execute(ctx *state.Context) error {
	g := ctx.Graph()
	target := g.Node(d.nodeID)
	if target == nil || target.ID == g.RootID || target.IsRoot() {
		return nil
	}

	ids := append([]string{target.ID}, g.Descendants(target.ID)...)
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}

	d.removed = d.removed[:0]
	for _, id := range ids {
		d.removed = append(d.removed, g.Nodes[id].Clone())
	}
	d.edges = d.edges[:0]
	for _, id := range g.EdgesTouching(set) {
		d.edges = append(d.edges, *g.Edges[id])
	}
	d.pinned = d.pinned[:0]
	for _, id := range ids {
		if ctx.Persistent.PinnedNodes[id] {
			d.pinned = append(d.pinned, id)
		}
	}

	d.parentIndex = -1
	if parent := g.Node(target.ParentID); parent != nil {
		if i := slices.Index(parent.ChildIDs, target.ID); i >= 0 {
			d.parentIndex = i
			parent.ChildIDs = slices.Delete(parent.ChildIDs, i, i+1)
			ctx.Touch(parent)
		}
	}

	d.clearedSel = false
	if sel := ctx.Persistent.UI.SelectedNodeID; set[sel] {
		d.selection = sel
		d.clearedSel = true
		ctx.Persistent.UI.SelectedNodeID = ""
	}
	d.editing = ""
	if set[ctx.Ephemeral.EditingNodeID] {
		d.editing = ctx.Ephemeral.EditingNodeID
		ctx.Ephemeral.EditingNodeID = ""
	}

	for _, e := range d.edges {
		delete(g.Edges, e.ID)
	}
	for _, id := range slices.Backward(ids) {
		delete(g.Nodes, id)
		delete(ctx.Persistent.PinnedNodes, id)
		ctx.Emit(events.NodeDeleted, events.NodeDeletedPayload{NodeID: id})
	}
	return nil
}

func (d *DeleteSubtree) Undo(ctx *state.Context) error {
	if len(d.removed) == 0 {
		return nil
	}
	g := ctx.Graph()

	for _, n := range d.removed {
		c := n.Clone()
		g.Nodes[c.ID] = &c
	}
	for _, e := range d.edges {
		c := e
		g.Edges[c.ID] = &c
	}
	for _, id := range d.pinned {
		ctx.Persistent.PinnedNodes[id] = true
	}

	root := d.removed[0]
	if parent := g.Node(root.ParentID); parent != nil && d.parentIndex >= 0 && !parent.HasChild(root.ID) {
		i := min(d.parentIndex, len(parent.ChildIDs))
		parent.ChildIDs = slices.Insert(parent.ChildIDs, i, root.ID)
		ctx.Touch(parent)
	}
	if d.clearedSel {
		ctx.Persistent.UI.SelectedNodeID = d.selection
	}
	if d.editing != "" && ctx.Ephemeral.EditingNodeID == "" {
		ctx.Ephemeral.EditingNodeID = d.editing
	}

	for _, n := range d.removed {
		ctx.Emit(events.NodeCreated, events.NodeCreatedPayload{Node: g.Nodes[n.ID].Clone()})
	}
	d.removed = d.removed[:0]
	return nil
}
