// Package direction decides which side of the map a new node belongs to.
//
// A [Plan] is a hint for the layout engine, not a coordinate. It carries the
// semantic [mindmap.Direction] of the new node and its lane, the number of
// siblings already heading the same way. Children inherit their parent's
// direction; nodes without one are treated as heading right.
package direction

import "github.com/kknero/neromind/pkg/mindmap"

// Fallback is the direction used when a node carries none.
const Fallback = mindmap.DirectionRight

// Plan is where a new node should go.
type Plan struct {
	Direction mindmap.Direction
	Lane      int
}

// Manager plans directions for new nodes. The zero value is ready to use.
type Manager struct{}

// New returns a Manager.
func New() *Manager { return &Manager{} }

// FromRoot plans a child of the root heading dir, given the root's existing
// children.
func (m *Manager) FromRoot(dir mindmap.Direction, existing []mindmap.Node) Plan {
	return Plan{Direction: dir, Lane: lane(existing, dir, "")}
}

// FromNode plans a child of parent. The child inherits the parent's
// direction.
func (m *Manager) FromNode(parent mindmap.Node, siblings []mindmap.Node) Plan {
	dir := orFallback(parent.Direction)
	return Plan{Direction: dir, Lane: lane(siblings, dir, "")}
}

// Sibling plans a node next to node. siblings may include node itself; it
// is not counted.
func (m *Manager) Sibling(node mindmap.Node, siblings []mindmap.Node) Plan {
	dir := orFallback(node.Direction)
	return Plan{Direction: dir, Lane: lane(siblings, dir, node.ID)}
}

// lane counts siblings heading dir. A sibling without a direction counts
// as heading dir.
func lane(siblings []mindmap.Node, dir mindmap.Direction, skip string) int {
	n := 0
	for _, s := range siblings {
		if skip != "" && s.ID == skip {
			continue
		}
		if s.Direction == mindmap.DirectionNone || s.Direction == dir {
			n++
		}
	}
	return n
}

func orFallback(d mindmap.Direction) mindmap.Direction {
	if d == mindmap.DirectionNone {
		return Fallback
	}
	return d
}
