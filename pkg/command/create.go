package command

import (
	"slices"

	"github.com/kknero/neromind/pkg/events"
	"github.com/kknero/neromind/pkg/mindmap"
	"github.com/kknero/neromind/pkg/state"
)

// CreateNode inserts a node and links it under its parent.
type CreateNode struct {
	node mindmap.Node

	inserted     bool
	becameRoot   bool
	linkedParent bool
}

// NewCreateNode returns a command that inserts node.
func NewCreateNode(node mindmap.Node) *CreateNode {
	return &CreateNode{node: node.Clone()}
}

func (c *CreateNode) Description() string { return "Create node" }

// Node returns a copy of the node this command inserts.
func (c *CreateNode) Node() mindmap.Node { return c.node.Clone() }

// Execute inserts the node. The first node of an empty graph becomes the
// root. An id that already exists, or a second parentless node, is
// ignored. If the parent exists and does not list the node yet, the node
// is appended to its ChildIDs.
func (c *CreateNode) Execute(ctx *state.Context) error {
	if c.inserted {
		return nil
	}
	g := ctx.Graph()
	c.becameRoot, c.linkedParent = false, false

	if _, exists := g.Nodes[c.node.ID]; exists {
		return nil
	}
	if c.node.ParentID == "" && g.RootID != "" {
		return nil
	}

	n := c.node.Clone()
	now := ctx.Now()
	if n.CreatedAt.IsZero() {
		n.CreatedAt = now
	}
	n.UpdatedAt = now
	g.Nodes[n.ID] = &n
	c.inserted = true

	if g.RootID == "" {
		g.RootID = n.ID
		c.becameRoot = true
	}
	if n.IsPinned {
		ctx.Persistent.PinnedNodes[n.ID] = true
	}

	if parent := g.Node(n.ParentID); parent != nil && !parent.HasChild(n.ID) {
		parent.ChildIDs = append(parent.ChildIDs, n.ID)
		ctx.Touch(parent)
		c.linkedParent = true
	}

	ctx.Emit(events.NodeCreated, events.NodeCreatedPayload{Node: n.Clone()})
	return nil
}

// Undo removes the node and the parent link if Execute added them.
func (c *CreateNode) Undo(ctx *state.Context) error {
	if !c.inserted {
		return nil
	}
	g := ctx.Graph()

	if c.linkedParent {
		if parent := g.Node(c.node.ParentID); parent != nil {
			if i := slices.Index(parent.ChildIDs, c.node.ID); i >= 0 {
				parent.ChildIDs = slices.Delete(parent.ChildIDs, i, i+1)
				ctx.Touch(parent)
			}
		}
	}

	delete(g.Nodes, c.node.ID)
	delete(ctx.Persistent.PinnedNodes, c.node.ID)
	if c.becameRoot && g.RootID == c.node.ID {
		g.RootID = ""
	}
	c.inserted = false

	ctx.Emit(events.NodeDeleted, events.NodeDeletedPayload{NodeID: c.node.ID})
	return nil
}
