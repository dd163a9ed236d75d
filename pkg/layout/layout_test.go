package layout

import (
	"math"
	"reflect"
	"slices"
	"testing"

	"github.com/kknero/neromind/pkg/mindmap"
)

func node(id, parent string, children ...string) mindmap.Node {
	return mindmap.Node{ID: id, ParentID: parent, ChildIDs: children}
}

func withDir(n mindmap.Node, d mindmap.Direction) mindmap.Node {
	n.Direction = d
	return n
}

func frozenAt(n mindmap.Node, x, y float64) mindmap.Node {
	n.UserPosition = true
	n.Position = mindmap.Position{X: x, Y: y}
	return n
}

func at(n mindmap.Node, x, y float64) mindmap.Node {
	n.Position = mindmap.Position{X: x, Y: y}
	return n
}

func assertPositions(t *testing.T, got, want map[string]mindmap.Position) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d positions %v, want %d %v", len(got), got, len(want), want)
	}
	for id, w := range want {
		g, ok := got[id]
		if !ok {
			t.Errorf("missing position for %s", id)
			continue
		}
		if math.Abs(g.X-w.X) > 1e-9 || math.Abs(g.Y-w.Y) > 1e-9 {
			t.Errorf("%s = (%v, %v), want (%v, %v)", id, g.X, g.Y, w.X, w.Y)
		}
	}
}

var viewport = Viewport{Width: 800, Height: 600}

func TestCenterRoot(t *testing.T) {
	tests := []struct {
		name  string
		nodes []mindmap.Node
		opts  []Option
		want  map[string]mindmap.Position
	}{
		{
			name:  "empty",
			nodes: nil,
			want:  map[string]mindmap.Position{},
		},
		{
			name:  "root only",
			nodes: []mindmap.Node{node("r", "")},
			want:  map[string]mindmap.Position{"r": {X: 400, Y: 300}},
		},
		{
			name: "two right children stack around the root",
			nodes: []mindmap.Node{
				node("r", "", "a", "b"),
				withDir(node("a", "r"), mindmap.DirectionRight),
				withDir(node("b", "r"), mindmap.DirectionRight),
			},
			want: map[string]mindmap.Position{
				"r": {X: 400, Y: 300},
				"a": {X: 500, Y: 270},
				"b": {X: 500, Y: 330},
			},
		},
		{
			name: "index parity without direction",
			nodes: []mindmap.Node{
				node("r", "", "c1", "c2", "c3"),
				node("c1", "r"),
				node("c2", "r"),
				node("c3", "r"),
			},
			want: map[string]mindmap.Position{
				"r":  {X: 400, Y: 300},
				"c1": {X: 500, Y: 270},
				"c2": {X: 300, Y: 300},
				"c3": {X: 500, Y: 330},
			},
		},
		{
			name: "explicit left overrides parity",
			nodes: []mindmap.Node{
				node("r", "", "a"),
				withDir(node("a", "r"), mindmap.DirectionLeft),
			},
			want: map[string]mindmap.Position{
				"r": {X: 400, Y: 300},
				"a": {X: 300, Y: 300},
			},
		},
		{
			name: "grandchildren center on their parent",
			nodes: []mindmap.Node{
				node("r", "", "a"),
				node("a", "r", "a1", "a2"),
				node("a1", "a"),
				node("a2", "a"),
			},
			want: map[string]mindmap.Position{
				"r":  {X: 400, Y: 300},
				"a":  {X: 500, Y: 300},
				"a1": {X: 600, Y: 270},
				"a2": {X: 600, Y: 330},
			},
		},
		{
			name: "sibling subtree heights keep branches apart",
			nodes: []mindmap.Node{
				node("r", "", "a", "b"),
				withDir(node("a", "r", "a1", "a2"), mindmap.DirectionRight),
				withDir(node("b", "r"), mindmap.DirectionRight),
				node("a1", "a"),
				node("a2", "a"),
			},
			want: map[string]mindmap.Position{
				"r":  {X: 400, Y: 300},
				"a":  {X: 500, Y: 270},
				"b":  {X: 500, Y: 360},
				"a1": {X: 600, Y: 240},
				"a2": {X: 600, Y: 300},
			},
		},
		{
			name: "user positioned node anchors its children",
			nodes: []mindmap.Node{
				node("r", "", "a"),
				frozenAt(node("a", "r", "a1", "a2"), 900, 100),
				node("a1", "a"),
				node("a2", "a"),
			},
			want: map[string]mindmap.Position{
				"r":  {X: 400, Y: 300},
				"a1": {X: 1000, Y: 70},
				"a2": {X: 1000, Y: 130},
			},
		},
		{
			name: "subtree scope returns only descendants",
			nodes: []mindmap.Node{
				node("r", "", "a", "b"),
				at(withDir(node("a", "r", "a1", "a2"), mindmap.DirectionRight), 0, 0),
				withDir(node("b", "r"), mindmap.DirectionRight),
				node("a1", "a"),
				node("a2", "a"),
			},
			opts: []Option{WithScope(Subtree("a"))},
			want: map[string]mindmap.Position{
				"a1": {X: 100, Y: -30},
				"a2": {X: 100, Y: 30},
			},
		},
		{
			name: "custom gaps",
			nodes: []mindmap.Node{
				node("r", "", "a", "b"),
				withDir(node("a", "r"), mindmap.DirectionRight),
				withDir(node("b", "r"), mindmap.DirectionRight),
			},
			opts: []Option{WithGaps(50, 20)},
			want: map[string]mindmap.Position{
				"r": {X: 400, Y: 300},
				"a": {X: 450, Y: 290},
				"b": {X: 450, Y: 310},
			},
		},
		{
			name: "missing children and cycles are skipped",
			nodes: []mindmap.Node{
				node("r", "", "a", "ghost"),
				node("a", "r", "r", "a"),
			},
			want: map[string]mindmap.Position{
				"r": {X: 400, Y: 300},
				"a": {X: 500, Y: 300},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CenterRoot(tt.nodes, viewport, tt.opts...)
			assertPositions(t, got, tt.want)
		})
	}
}

func TestCenterRootDeterministic(t *testing.T) {
	nodes := []mindmap.Node{
		node("r", "", "a", "b", "c"),
		node("a", "r", "a1"),
		node("b", "r"),
		node("c", "r", "c1", "c2"),
		node("a1", "a"),
		node("c1", "c"),
		node("c2", "c"),
	}
	first := CenterRoot(nodes, viewport)
	second := CenterRoot(nodes, viewport)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("layouts differ:\n%v\n%v", first, second)
	}
	if first["r"] != viewport.Center() {
		t.Errorf("root = %v, want viewport center", first["r"])
	}
}

func TestCenterRootDoesNotMutateInput(t *testing.T) {
	nodes := []mindmap.Node{node("r", "", "a"), node("a", "r")}
	before := make([]mindmap.Node, len(nodes))
	for i, n := range nodes {
		before[i] = n
		before[i].ChildIDs = slices.Clone(n.ChildIDs)
	}
	CenterRoot(nodes, viewport)
	if !reflect.DeepEqual(nodes, before) {
		t.Errorf("input mutated: %v", nodes)
	}
}

func TestRadial(t *testing.T) {
	center := mindmap.Position{X: 400, Y: 300}

	tests := []struct {
		name   string
		nodes  []mindmap.Node
		rootID string
		opts   []Option
		want   map[string]mindmap.Position
	}{
		{
			name: "two children split the circle",
			nodes: []mindmap.Node{
				node("r", "", "a", "b"),
				node("a", "r"),
				node("b", "r"),
			},
			want: map[string]mindmap.Position{
				"r": {X: 400, Y: 300},
				"a": {X: 400, Y: 460},
				"b": {X: 400, Y: 140},
			},
		},
		{
			name: "horizontal orientation and depth radius",
			nodes: []mindmap.Node{
				node("r", "", "a"),
				node("a", "r", "a1"),
				node("a1", "a"),
			},
			opts: []Option{WithOrientation(OrientationHorizontal)},
			want: map[string]mindmap.Position{
				"r":  {X: 400, Y: 300},
				"a":  {X: 560, Y: 300},
				"a1": {X: 860, Y: 300},
			},
		},
		{
			name: "vertical orientation",
			nodes: []mindmap.Node{
				node("r", "", "a"),
				node("a", "r"),
			},
			opts: []Option{WithOrientation(OrientationVertical)},
			want: map[string]mindmap.Position{
				"r": {X: 400, Y: 300},
				"a": {X: 400, Y: 460},
			},
		},
		{
			name: "frozen root stays put",
			nodes: []mindmap.Node{
				frozenAt(node("r", "", "a"), 10, 10),
				node("a", "r"),
			},
			opts: []Option{WithOrientation(OrientationHorizontal)},
			want: map[string]mindmap.Position{
				"a": {X: 170, Y: 10},
			},
		},
		{
			name: "user positioned child anchors grandchildren",
			nodes: []mindmap.Node{
				node("r", "", "a"),
				frozenAt(node("a", "r", "a1"), 100, 100),
				node("a1", "a"),
			},
			opts: []Option{WithOrientation(OrientationHorizontal)},
			want: map[string]mindmap.Position{
				"r":  {X: 400, Y: 300},
				"a1": {X: 400, Y: 100},
			},
		},
		{
			name: "pinned child is frozen",
			nodes: []mindmap.Node{
				node("r", "", "a"),
				func() mindmap.Node {
					n := at(node("a", "r"), 7, 7)
					n.IsPinned = true
					return n
				}(),
			},
			want: map[string]mindmap.Position{
				"r": {X: 400, Y: 300},
			},
		},
		{
			name: "subtree scope",
			nodes: []mindmap.Node{
				node("r", "", "a", "b"),
				at(node("a", "r", "a1"), 560, 300),
				node("b", "r"),
				node("a1", "a"),
			},
			opts: []Option{
				WithOrientation(OrientationHorizontal),
				WithScope(Subtree("a")),
			},
			want: map[string]mindmap.Position{
				"a1": {X: 560 + 300*math.Cos(-45*math.Pi/180), Y: 300 + 300*math.Sin(-45*math.Pi/180)},
			},
		},
		{
			name: "explicit root id",
			nodes: []mindmap.Node{
				node("r", "", "a"),
				node("a", "r"),
			},
			rootID: "a",
			want: map[string]mindmap.Position{
				"a": {X: 400, Y: 300},
			},
		},
		{
			name: "custom radii",
			nodes: []mindmap.Node{
				node("r", "", "a"),
				node("a", "r", "a1"),
				node("a1", "a"),
			},
			opts: []Option{WithOrientation(OrientationHorizontal), WithRadii(100, 50)},
			want: map[string]mindmap.Position{
				"r":  {X: 400, Y: 300},
				"a":  {X: 500, Y: 300},
				"a1": {X: 650, Y: 300},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Radial(tt.nodes, tt.rootID, center, tt.opts...)
			assertPositions(t, got, tt.want)
		})
	}
}

func TestRadialMinAngleGap(t *testing.T) {
	root := node("r", "")
	nodes := []mindmap.Node{root}
	for i := range 40 {
		id := string(rune('A' + i))
		nodes[0].ChildIDs = append(nodes[0].ChildIDs, id)
		nodes = append(nodes, node(id, "r"))
	}

	got := Radial(nodes, "r", mindmap.Position{}, WithMinAngleGap(12))

	// 360/40 = 9 degrees is below the floor, so each step is 12.
	for i, deg := range []float64{6, 18, 30} {
		id := string(rune('A' + i))
		want := polar(mindmap.Position{}, DefaultBaseRadius, deg)
		if math.Abs(got[id].X-want.X) > 1e-9 || math.Abs(got[id].Y-want.Y) > 1e-9 {
			t.Errorf("%s = %v, want %v", id, got[id], want)
		}
	}
}

func TestRadialPreservesPinnedAcrossRecompute(t *testing.T) {
	nodes := []mindmap.Node{
		node("r", "", "a", "b"),
		frozenAt(node("a", "r", "a1"), 42, 24),
		node("b", "r"),
		node("a1", "a"),
	}
	for range 3 {
		got := Radial(nodes, "", mindmap.Position{X: 400, Y: 300})
		if _, ok := got["a"]; ok {
			t.Fatal("user positioned node must not be recomputed")
		}
		for id, pos := range got {
			for i := range nodes {
				if nodes[i].ID == id {
					nodes[i].Position = pos
				}
			}
		}
	}
	for _, n := range nodes {
		if n.ID == "a" && (n.Position != mindmap.Position{X: 42, Y: 24}) {
			t.Errorf("pinned node moved to %v", n.Position)
		}
	}
}

func TestScope(t *testing.T) {
	tests := []struct {
		scope Scope
		want  bool
	}{
		{All(), false},
		{Subtree("x"), true},
		{Scope{Kind: ScopeSubtree}, false},
	}
	for _, tt := range tests {
		if got := tt.scope.IsSubtree(); got != tt.want {
			t.Errorf("%+v.IsSubtree() = %v, want %v", tt.scope, got, tt.want)
		}
	}
}

func TestOrientationAngleRange(t *testing.T) {
	tests := []struct {
		o          Orientation
		start, end float64
	}{
		{OrientationHorizontal, -90, 90},
		{OrientationVertical, 0, 180},
		{OrientationRadial, 0, 360},
		{Orientation("spiral"), 0, 360},
	}
	for _, tt := range tests {
		s, e := tt.o.AngleRange()
		if s != tt.start || e != tt.end {
			t.Errorf("%s.AngleRange() = (%v, %v), want (%v, %v)", tt.o, s, e, tt.start, tt.end)
		}
	}
}
