package state

import "github.com/kknero/neromind/pkg/mindmap"

// Snapshot is an immutable deep copy of the state seen by renderers and
// exporters.
type Snapshot struct {
	Nodes            []mindmap.Node
	Edges            []mindmap.Edge
	RootID           string
	PinnedNodeIDs    []string
	CollapsedNodeIDs []string
	SelectedNodeID   string
	EditingNodeID    string
	Viewport         Viewport
}

// Node returns the node with id.
func (s Snapshot) Node(id string) (mindmap.Node, bool) {
	for _, n := range s.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return mindmap.Node{}, false
}

// Root returns the root node.
func (s Snapshot) Root() (mindmap.Node, bool) {
	if s.RootID == "" {
		return mindmap.Node{}, false
	}
	return s.Node(s.RootID)
}

// Positions returns every node's position keyed by id.
func (s Snapshot) Positions() map[string]mindmap.Position {
	out := make(map[string]mindmap.Position, len(s.Nodes))
	for _, n := range s.Nodes {
		out[n.ID] = n.Position
	}
	return out
}
