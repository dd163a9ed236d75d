package mindmap

import "testing"

func buildTree() *Graph {
	g := NewGraph()
	g.Nodes["r"] = &Node{ID: "r", ChildIDs: []string{"a", "b"}}
	g.Nodes["a"] = &Node{ID: "a", ParentID: "r", ChildIDs: []string{"a1"}}
	g.Nodes["a1"] = &Node{ID: "a1", ParentID: "a"}
	g.Nodes["b"] = &Node{ID: "b", ParentID: "r", ChildIDs: []string{"ghost"}}
	g.RootID = "r"
	return g
}

func TestDescendants(t *testing.T) {
	g := buildTree()

	tests := []struct {
		id   string
		want []string
	}{
		{"r", []string{"a", "a1", "b"}},
		{"a", []string{"a1"}},
		{"a1", nil},
		{"missing", nil},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got := g.Descendants(tt.id)
			if len(got) != len(tt.want) {
				t.Fatalf("Descendants(%s) = %v, want %v", tt.id, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Descendants(%s)[%d] = %s, want %s", tt.id, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestDescendantsTerminatesOnCycle(t *testing.T) {
	g := buildTree()
	g.Nodes["a1"].ChildIDs = []string{"a"}

	got := g.Descendants("a")
	if len(got) != 1 || got[0] != "a1" {
		t.Errorf("Descendants(a) = %v, want [a1]", got)
	}
}

func TestCloneDoesNotShareChildren(t *testing.T) {
	n := Node{ID: "r", ChildIDs: []string{"a"}}
	c := n.Clone()
	c.ChildIDs[0] = "changed"
	c.Position.X = 10

	if n.ChildIDs[0] != "a" {
		t.Errorf("original ChildIDs mutated: %v", n.ChildIDs)
	}
	if n.Position.X != 0 {
		t.Errorf("original Position mutated: %v", n.Position)
	}
}

func TestCloneNormalizesNilChildren(t *testing.T) {
	c := Node{ID: "leaf"}.Clone()
	if c.ChildIDs == nil {
		t.Error("Clone() ChildIDs = nil, want empty slice")
	}
}

func TestEdgesTouching(t *testing.T) {
	g := buildTree()
	g.Edges["e1"] = &Edge{ID: "e1", FromNodeID: "r", ToNodeID: "a"}
	g.Edges["e2"] = &Edge{ID: "e2", FromNodeID: "b", ToNodeID: "a1"}
	g.Edges["e3"] = &Edge{ID: "e3", FromNodeID: "r", ToNodeID: "b"}

	got := g.EdgesTouching(map[string]bool{"a": true, "a1": true})
	if len(got) != 2 || got[0] != "e1" || got[1] != "e2" {
		t.Errorf("EdgesTouching = %v, want [e1 e2]", got)
	}
}

func TestDirectionValid(t *testing.T) {
	for _, d := range []Direction{DirectionNone, DirectionUp, DirectionDown, DirectionLeft, DirectionRight} {
		if !d.Valid() {
			t.Errorf("%q.Valid() = false", d)
		}
	}
	if Direction("sideways").Valid() {
		t.Error(`"sideways".Valid() = true`)
	}
}
