package command

import (
	"maps"
	"slices"

	"github.com/kknero/neromind/pkg/events"
	"github.com/kknero/neromind/pkg/layout"
	"github.com/kknero/neromind/pkg/mindmap"
	"github.com/kknero/neromind/pkg/settings"
	"github.com/kknero/neromind/pkg/state"
)

// =============================================================================
// ChangeLayout
// =============================================================================

// ChangeLayout switches the layout algorithm. Settings live outside the
// store, so the command changes nothing itself: it announces the new
// layout fields with a layoutSettingsChanged event, and its undo announces
// the old ones.
type ChangeLayout struct {
	current settings.Settings
	patch   settings.LayoutPatch
	scope   layout.Scope

	captured bool
	previous settings.Layout
}

// NewChangeLayout returns a command that applies patch on top of current
// and asks for a recompute of scope.
func NewChangeLayout(current settings.Settings, patch settings.LayoutPatch, scope layout.Scope) *ChangeLayout {
	if scope.Kind == "" {
		scope = layout.All()
	}
	return &ChangeLayout{current: current, patch: patch, scope: scope}
}

func (c *ChangeLayout) Description() string { return "Change layout settings" }

// Next returns the layout fields the command switches to.
func (c *ChangeLayout) Next() settings.Layout { return c.current.Apply(c.patch).Layout() }

// Execute emits the merged layout fields.
func (c *ChangeLayout) Execute(ctx *state.Context) error {
	if !c.captured {
		c.previous = c.current.Layout()
		c.captured = true
	}
	ctx.Emit(events.LayoutSettingsChanged, events.LayoutSettingsPayload{
		Settings: c.Next(),
		Scope:    c.scope,
	})
	return nil
}

// Undo emits the layout fields captured by the first Execute.
func (c *ChangeLayout) Undo(ctx *state.Context) error {
	if !c.captured {
		return nil
	}
	ctx.Emit(events.LayoutSettingsChanged, events.LayoutSettingsPayload{
		Settings: c.previous,
		Scope:    c.scope,
	})
	return nil
}

// =============================================================================
// ApplyLayout
// =============================================================================

// ApplyLayout writes automatically computed positions into the graph.
// Nodes that were positioned by hand are left alone even if positions
// lists them.
type ApplyLayout struct {
	positions map[string]mindmap.Position
	prev      map[string]mindmap.Position
	order     []string
}

// NewApplyLayout returns a command that writes positions.
func NewApplyLayout(positions map[string]mindmap.Position) *ApplyLayout {
	return &ApplyLayout{positions: maps.Clone(positions)}
}

func (a *ApplyLayout) Description() string { return "Apply layout" }

// Len returns the number of positions the command carries.
func (a *ApplyLayout) Len() int { return len(a.positions) }

// Execute moves every listed node that exists and is not user
// positioned. Nodes are visited in id order.
func (a *ApplyLayout) Execute(ctx *state.Context) error {
	a.prev = make(map[string]mindmap.Position, len(a.positions))
	a.order = a.order[:0]

	for _, id := range slices.Sorted(maps.Keys(a.positions)) {
		n := ctx.Node(id)
		if n == nil || n.UserPosition {
			continue
		}
		pos := a.positions[id]
		if n.Position == pos {
			continue
		}
		a.prev[id] = n.Position
		a.order = append(a.order, id)
		n.Position = pos
		ctx.Touch(n)
		ctx.Emit(events.NodeUpdated, events.NodeUpdatedPayload{Node: n.Clone()})
	}
	return nil
}

// Undo restores the positions Execute replaced.
func (a *ApplyLayout) Undo(ctx *state.Context) error {
	for _, id := range slices.Backward(a.order) {
		n := ctx.Node(id)
		if n == nil {
			continue
		}
		n.Position = a.prev[id]
		ctx.Touch(n)
		ctx.Emit(events.NodeUpdated, events.NodeUpdatedPayload{Node: n.Clone()})
	}
	return nil
}

// Changed returns the ids the last Execute moved, in id order.
func (a *ApplyLayout) Changed() []string { return slices.Clone(a.order) }
