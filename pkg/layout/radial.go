package layout

import (
	"math"

	"github.com/kknero/neromind/pkg/mindmap"
)

// Radial places nodes on concentric rings around the root.
//
// The root goes to center unless it is frozen. Each node's children split
// the node's sector evenly, and a child never gets less than the minimum
// angle gap. A child sits on the bisector of its sector at radius
// base + (depth-1)*depthGap from its parent. The sector starts from the
// orientation's angle range: horizontal [-90,90], vertical [0,180],
// radial [0,360].
//
// An empty rootID selects the first parentless node. The result holds the
// nodes that were recomputed; frozen nodes are omitted.
func Radial(nodes []mindmap.Node, rootID string, center mindmap.Position, opts ...Option) map[string]mindmap.Position {
	cfg := newConfig(opts)
	out := make(map[string]mindmap.Position)
	t := newTree(nodes, cfg.scope)

	root := t.root(nodes, rootID)
	if root == nil {
		return out
	}
	t.visited[root.ID] = true

	origin := center
	if t.frozen(root) {
		origin = root.Position
	} else {
		out[root.ID] = origin
	}

	r := &radial{tree: t, cfg: cfg, out: out}
	start, end := cfg.orientation.AngleRange()
	r.place(root, 1, start, end, origin)
	return out
}

type radial struct {
	*tree
	cfg config
	out map[string]mindmap.Position
}

func (r *radial) place(parent *mindmap.Node, depth int, start, end float64, anchor mindmap.Position) {
	kids := r.children(parent)
	if len(kids) == 0 {
		return
	}

	step := max((end-start)/float64(len(kids)), r.cfg.minAngle)
	angle := start + step/2
	radius := r.cfg.base + float64(depth-1)*r.cfg.depth

	for _, c := range kids {
		pos := c.Position
		if !r.frozen(c) {
			pos = polar(anchor, radius, angle)
			r.out[c.ID] = pos
		}
		r.place(c, depth+1, angle-step/2, angle+step/2, pos)
		angle += step
	}
}

func polar(origin mindmap.Position, radius, degrees float64) mindmap.Position {
	rad := degrees * math.Pi / 180
	return mindmap.Position{
		X: origin.X + math.Cos(rad)*radius,
		Y: origin.Y + math.Sin(rad)*radius,
	}
}
