package command

import (
	"time"

	"github.com/kknero/neromind/pkg/events"
	"github.com/kknero/neromind/pkg/mindmap"
	"github.com/kknero/neromind/pkg/state"
)

// MoveNode places a node at a chosen position and marks it as manually
// positioned.
//
// The previous position is captured on the first execution, not at
// construction, so the history can keep re-applying one MoveNode with new
// targets while a drag is in progress and still undo to where the drag
// started.
type MoveNode struct {
	nodeID string
	next   mindmap.Position

	captured     bool
	prevPosition mindmap.Position
	prevUser     bool

	now           func() time.Time
	createdAt     time.Time
	lastAppliedAt time.Time
}

// MoveOption configures a [MoveNode].
type MoveOption func(*MoveNode)

// WithClock sets the clock used for CreatedAt and LastAppliedAt.
func WithClock(now func() time.Time) MoveOption {
	return func(m *MoveNode) {
		if now != nil {
			m.now = now
		}
	}
}

// NewMoveNode returns a command that moves nodeID to next.
func NewMoveNode(nodeID string, next mindmap.Position, opts ...MoveOption) *MoveNode {
	m := &MoveNode{nodeID: nodeID, next: next, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	m.createdAt = m.now()
	return m
}

func (m *MoveNode) Description() string { return "Move node" }

// NodeID returns the node being moved.
func (m *MoveNode) NodeID() string { return m.nodeID }

// NextPosition returns the target position.
func (m *MoveNode) NextPosition() mindmap.Position { return m.next }

// UpdateNextPosition retargets the command. It takes effect on the next
// Execute.
func (m *MoveNode) UpdateNextPosition(p mindmap.Position) { m.next = p }

// CreatedAt returns when the command was constructed.
func (m *MoveNode) CreatedAt() time.Time { return m.createdAt }

// LastAppliedAt returns when Execute last changed the node, or the zero
// time if it never did.
func (m *MoveNode) LastAppliedAt() time.Time { return m.lastAppliedAt }

// Execute moves the node and sets UserPosition.
func (m *MoveNode) Execute(ctx *state.Context) error {
	n := ctx.Node(m.nodeID)
	if n == nil {
		return nil
	}
	if !m.captured {
		m.prevPosition = n.Position
		m.prevUser = n.UserPosition
		m.captured = true
	}

	n.Position = m.next
	n.UserPosition = true
	ctx.Touch(n)
	m.lastAppliedAt = m.now()

	ctx.Emit(events.NodeUpdated, events.NodeUpdatedPayload{Node: n.Clone()})
	return nil
}

// Undo restores the position and UserPosition captured by the first
// Execute.
func (m *MoveNode) Undo(ctx *state.Context) error {
	if !m.captured {
		return nil
	}
	n := ctx.Node(m.nodeID)
	if n == nil {
		return nil
	}

	n.Position = m.prevPosition
	n.UserPosition = m.prevUser
	ctx.Touch(n)

	ctx.Emit(events.NodeUpdated, events.NodeUpdatedPayload{Node: n.Clone()})
	return nil
}
