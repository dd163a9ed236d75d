package layout

import "github.com/kknero/neromind/pkg/mindmap"

// Viewport is the visible canvas size.
type Viewport struct {
	Width  float64
	Height float64
}

// Center returns the middle of the viewport.
func (v Viewport) Center() mindmap.Position {
	return mindmap.Position{X: v.Width / 2, Y: v.Height / 2}
}

type side int

const (
	sideRight side = iota
	sideLeft
)

// CenterRoot places the root at the viewport center and lays depth-1
// branches out to both sides.
//
// A depth-1 child with an explicit left or right direction goes to that
// side; any other child goes right at an even index and left at an odd
// one. Each side is a vertical stack centered on the root, and every
// deeper node is offset one horizontal gap further out and centered over
// its own subtree. A subtree's height is 0 for a leaf, otherwise the sum
// of its children's heights plus one vertical gap between each pair.
//
// Only the WithGaps and WithScope options apply. The result holds the
// nodes that were recomputed; frozen nodes are omitted.
func CenterRoot(nodes []mindmap.Node, vp Viewport, opts ...Option) map[string]mindmap.Position {
	cfg := newConfig(opts)
	out := make(map[string]mindmap.Position)
	t := newTree(nodes, cfg.scope)

	root := t.root(nodes, "")
	if root == nil {
		return out
	}
	t.visited[root.ID] = true

	origin := vp.Center()
	if t.frozen(root) {
		origin = root.Position
	} else {
		out[root.ID] = origin
	}

	l := &centered{
		tree:    t,
		cfg:     cfg,
		out:     out,
		heights: make(map[string]float64),
		kids:    make(map[string][]*mindmap.Node),
	}
	var right, left []*mindmap.Node
	for i, c := range t.children(root) {
		switch {
		case c.Direction == mindmap.DirectionRight:
			right = append(right, c)
		case c.Direction == mindmap.DirectionLeft:
			left = append(left, c)
		case i%2 == 0:
			right = append(right, c)
		default:
			left = append(left, c)
		}
	}
	l.stack(right, sideRight, origin)
	l.stack(left, sideLeft, origin)
	return out
}

type centered struct {
	*tree
	cfg     config
	out     map[string]mindmap.Position
	heights map[string]float64
	kids    map[string][]*mindmap.Node
}

// stack places nodes one gap outward from parent, stacked top to bottom
// and centered on the parent's y.
func (l *centered) stack(nodes []*mindmap.Node, s side, parent mindmap.Position) {
	if len(nodes) == 0 {
		return
	}
	// Resolve children first so heights are computed over the same
	// visited-once tree that is laid out.
	for _, n := range nodes {
		l.resolve(n)
	}

	total := 0.0
	for i, n := range nodes {
		total += l.heights[n.ID]
		if i < len(nodes)-1 {
			total += l.cfg.vGap
		}
	}

	x := parent.X + l.cfg.hGap
	if s == sideLeft {
		x = parent.X - l.cfg.hGap
	}

	y := parent.Y - total/2
	for _, n := range nodes {
		h := l.heights[n.ID]
		pos := mindmap.Position{X: x, Y: y + h/2}
		if l.frozen(n) {
			pos = n.Position
		} else {
			l.out[n.ID] = pos
		}
		l.stack(l.kids[n.ID], s, pos)
		y += h + l.cfg.vGap
	}
}

// resolve collects n's subtree and records its height bottom-up.
func (l *centered) resolve(n *mindmap.Node) float64 {
	if h, ok := l.heights[n.ID]; ok {
		return h
	}
	kids := l.children(n)
	l.kids[n.ID] = kids

	h := 0.0
	for i, c := range kids {
		h += max(l.resolve(c), 0)
		if i < len(kids)-1 {
			h += l.cfg.vGap
		}
	}
	l.heights[n.ID] = h
	return h
}
