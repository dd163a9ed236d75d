package command

import "github.com/kknero/neromind/pkg/state"

// SelectNode changes the persisted selection. An empty id clears it.
type SelectNode struct {
	nodeID      string
	description string

	captured bool
	previous string
}

// NewSelectNode returns a command that selects nodeID.
func NewSelectNode(nodeID string) *SelectNode {
	return &SelectNode{nodeID: nodeID, description: "Select node"}
}

// NewClearSelection returns a command that clears the selection.
func NewClearSelection() *SelectNode {
	return &SelectNode{description: "Clear selection"}
}

func (s *SelectNode) Description() string { return s.description }

// NodeID returns the node to select, empty when clearing.
func (s *SelectNode) NodeID() string { return s.nodeID }

// Execute records the selection it replaces on first run and moves any
// current selection into the ephemeral LastSelectedNodeID.
func (s *SelectNode) Execute(ctx *state.Context) error {
	ui := &ctx.Persistent.UI
	if !s.captured {
		s.previous = ui.SelectedNodeID
		s.captured = true
	}
	if ui.SelectedNodeID != "" {
		ctx.Ephemeral.LastSelectedNodeID = ui.SelectedNodeID
	}
	ui.SelectedNodeID = s.nodeID
	return nil
}

// Undo restores the selection captured by the first Execute.
func (s *SelectNode) Undo(ctx *state.Context) error {
	if !s.captured {
		return nil
	}
	ctx.Persistent.UI.SelectedNodeID = s.previous
	return nil
}
