package command

import (
	"github.com/kknero/neromind/pkg/events"
	"github.com/kknero/neromind/pkg/state"
)

// EditContent replaces a node's text.
type EditContent struct {
	nodeID string
	text   string

	captured bool
	previous string
}

// NewEditContent returns a command that sets the text of nodeID.
func NewEditContent(nodeID, text string) *EditContent {
	return &EditContent{nodeID: nodeID, text: text}
}

func (e *EditContent) Description() string { return "Edit node" }

func (e *EditContent) Execute(ctx *state.Context) error {
	n := ctx.Node(e.nodeID)
	if n == nil {
		return nil
	}
	if !e.captured {
		e.previous = n.Content
		e.captured = true
	}
	n.Content = e.text
	ctx.Touch(n)
	ctx.Emit(events.NodeUpdated, events.NodeUpdatedPayload{Node: n.Clone()})
	return nil
}

func (e *EditContent) Undo(ctx *state.Context) error {
	n := ctx.Node(e.nodeID)
	if n == nil || !e.captured {
		return nil
	}
	n.Content = e.previous
	ctx.Touch(n)
	ctx.Emit(events.NodeUpdated, events.NodeUpdatedPayload{Node: n.Clone()})
	return nil
}

// TogglePin flips whether a node is pinned. A pinned node is held in place
// by automatic layout.
type TogglePin struct {
	nodeID string

	captured bool
	wasSet   bool
}

// NewTogglePin returns a command that flips the pin on nodeID.
func NewTogglePin(nodeID string) *TogglePin {
	return &TogglePin{nodeID: nodeID}
}

func (p *TogglePin) Description() string { return "Toggle pin" }

func (p *TogglePin) Execute(ctx *state.Context) error {
	n := ctx.Node(p.nodeID)
	if n == nil {
		return nil
	}
	if !p.captured {
		p.wasSet = n.IsPinned
		p.captured = true
	}
	p.set(ctx, !p.wasSet)
	return nil
}

func (p *TogglePin) Undo(ctx *state.Context) error {
	if !p.captured || ctx.Node(p.nodeID) == nil {
		return nil
	}
	p.set(ctx, p.wasSet)
	return nil
}

func (p *TogglePin) set(ctx *state.Context, pinned bool) {
	n := ctx.Node(p.nodeID)
	n.IsPinned = pinned
	if pinned {
		ctx.Persistent.PinnedNodes[n.ID] = true
	} else {
		delete(ctx.Persistent.PinnedNodes, n.ID)
	}
	ctx.Touch(n)
	ctx.Emit(events.NodeUpdated, events.NodeUpdatedPayload{Node: n.Clone()})
}
