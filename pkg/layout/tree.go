package layout

import "github.com/kknero/neromind/pkg/mindmap"

// tree is a read-only index over the input nodes. It also tracks which
// nodes have been visited so a corrupt graph cannot recurse forever.
type tree struct {
	byID    map[string]*mindmap.Node
	visited map[string]bool
	targets map[string]bool // nil means every node is a target
}

func newTree(nodes []mindmap.Node, scope Scope) *tree {
	t := &tree{
		byID:    make(map[string]*mindmap.Node, len(nodes)),
		visited: make(map[string]bool, len(nodes)),
	}
	for i := range nodes {
		if _, dup := t.byID[nodes[i].ID]; !dup {
			t.byID[nodes[i].ID] = &nodes[i]
		}
	}
	if scope.IsSubtree() {
		t.targets = t.descendants(scope.RootID)
	}
	return t
}

// root returns rootID if present, otherwise the first parentless node.
func (t *tree) root(nodes []mindmap.Node, rootID string) *mindmap.Node {
	if n := t.byID[rootID]; n != nil {
		return n
	}
	for i := range nodes {
		if nodes[i].ParentID == "" {
			return t.byID[nodes[i].ID]
		}
	}
	return nil
}

// children returns the existing, not yet visited children of n in ChildIDs
// order and marks them visited.
func (t *tree) children(n *mindmap.Node) []*mindmap.Node {
	var out []*mindmap.Node
	for _, id := range n.ChildIDs {
		c := t.byID[id]
		if c == nil || t.visited[id] {
			continue
		}
		t.visited[id] = true
		out = append(out, c)
	}
	return out
}

// descendants returns the strict descendants of id.
func (t *tree) descendants(id string) map[string]bool {
	out := make(map[string]bool)
	seen := map[string]bool{id: true}
	stack := []string{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := t.byID[cur]
		if n == nil {
			continue
		}
		for _, c := range n.ChildIDs {
			if seen[c] || t.byID[c] == nil {
				continue
			}
			seen[c] = true
			out[c] = true
			stack = append(stack, c)
		}
	}
	return out
}

// frozen reports whether n keeps its stored position.
func (t *tree) frozen(n *mindmap.Node) bool {
	if n.UserPosition || n.IsPinned {
		return true
	}
	return t.targets != nil && !t.targets[n.ID]
}
