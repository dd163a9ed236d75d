package command

import (
	"github.com/kknero/neromind/pkg/events"
	"github.com/kknero/neromind/pkg/mindmap"
	"github.com/kknero/neromind/pkg/state"
)

type placement struct {
	position     mindmap.Position
	userPosition bool
}

// ResetToAutoLayout hands manually positioned nodes back to automatic
// layout.
type ResetToAutoLayout struct {
	nodeIDs []string
	order   []string
	prev    map[string]placement
}

// NewResetToAutoLayout returns a command that clears UserPosition on each
// of nodeIDs.
func NewResetToAutoLayout(nodeIDs ...string) *ResetToAutoLayout {
	return &ResetToAutoLayout{
		nodeIDs: append([]string(nil), nodeIDs...),
		prev:    make(map[string]placement),
	}
}

func (r *ResetToAutoLayout) Description() string { return "Reset node to auto layout" }

// Execute clears UserPosition on every existing node and requests a
// layout of their subtrees. Missing ids are skipped; if none exist no
// event is emitted.
func (r *ResetToAutoLayout) Execute(ctx *state.Context) error {
	var found []string
	for _, id := range r.nodeIDs {
		n := ctx.Node(id)
		if n == nil {
			continue
		}
		if _, ok := r.prev[id]; !ok {
			r.prev[id] = placement{position: n.Position, userPosition: n.UserPosition}
			r.order = append(r.order, id)
		}
		n.UserPosition = false
		ctx.Touch(n)
		found = append(found, id)
	}

	if len(found) > 0 {
		ctx.Emit(events.LayoutResetRequested, events.LayoutResetPayload{RootIDs: found})
	}
	return nil
}

// Undo restores each captured position and UserPosition.
func (r *ResetToAutoLayout) Undo(ctx *state.Context) error {
	for _, id := range r.order {
		n := ctx.Node(id)
		if n == nil {
			continue
		}
		p := r.prev[id]
		n.Position = p.position
		n.UserPosition = p.userPosition
		ctx.Touch(n)
		ctx.Emit(events.NodeUpdated, events.NodeUpdatedPayload{Node: n.Clone()})
	}
	return nil
}
