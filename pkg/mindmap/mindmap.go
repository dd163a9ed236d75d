package mindmap

import (
	"maps"
	"slices"
	"time"
)

// Direction is the semantic placement of a node relative to the root.
// It is a layout hint, not a coordinate: "left" means the node belongs to
// the left branch, whatever x it ends up at. The root has no direction.
type Direction string

const (
	DirectionNone  Direction = ""
	DirectionUp    Direction = "up"
	DirectionDown  Direction = "down"
	DirectionLeft  Direction = "left"
	DirectionRight Direction = "right"
)

// Valid reports whether d is one of the four directions or empty.
func (d Direction) Valid() bool {
	switch d {
	case DirectionNone, DirectionUp, DirectionDown, DirectionLeft, DirectionRight:
		return true
	}
	return false
}

// Position is a point in canvas coordinates.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is a single idea in the map.
//
// A node with an empty ParentID is the root. ChildIDs is ordered and is the
// authoritative sibling order for layout. UserPosition marks a position that
// was set by hand and must not be overwritten by automatic layout.
type Node struct {
	ID             string    `json:"id"`
	Content        string    `json:"content"`
	Position       Position  `json:"position"`
	UserPosition   bool      `json:"userPosition"`
	ParentID       string    `json:"parentId,omitempty"`
	ChildIDs       []string  `json:"childIds"`
	Direction      Direction `json:"direction,omitempty"`
	IsPinned       bool      `json:"isPinned"`
	IsCollapsed    bool      `json:"isCollapsed"`
	LinkedNotePath string    `json:"linkedNotePath,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// IsRoot reports whether the node has no parent.
func (n Node) IsRoot() bool { return n.ParentID == "" }

// HasChild reports whether id is listed in ChildIDs.
func (n Node) HasChild(id string) bool { return slices.Contains(n.ChildIDs, id) }

// Clone returns a deep copy of the node. The ChildIDs slice is never shared.
func (n Node) Clone() Node {
	c := n
	c.ChildIDs = slices.Clone(n.ChildIDs)
	if c.ChildIDs == nil {
		c.ChildIDs = []string{}
	}
	return c
}

// Edge is a drawn connection between two nodes.
type Edge struct {
	ID         string    `json:"id"`
	FromNodeID string    `json:"fromNodeId"`
	ToNodeID   string    `json:"toNodeId"`
	Direction  Direction `json:"direction"`
}

// Touches reports whether the edge has nodeID as one of its endpoints.
func (e Edge) Touches(nodeID string) bool {
	return e.FromNodeID == nodeID || e.ToNodeID == nodeID
}

// Graph holds the nodes and edges of one map plus the designated root.
//
// The zero value is not usable - use NewGraph. Graph is not safe for
// concurrent use; the state store owns it exclusively.
type Graph struct {
	Nodes  map[string]*Node
	Edges  map[string]*Edge
	RootID string
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		Nodes: make(map[string]*Node),
		Edges: make(map[string]*Edge),
	}
}

// Node returns the live node pointer for id, or nil.
func (g *Graph) Node(id string) *Node {
	if id == "" {
		return nil
	}
	return g.Nodes[id]
}

// Root returns the live root node, or nil if the graph is empty.
func (g *Graph) Root() *Node { return g.Node(g.RootID) }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.Nodes) }

// SortedNodeIDs returns all node ids in ascending order.
func (g *Graph) SortedNodeIDs() []string {
	return slices.Sorted(maps.Keys(g.Nodes))
}

// SortedEdgeIDs returns all edge ids in ascending order.
func (g *Graph) SortedEdgeIDs() []string {
	return slices.Sorted(maps.Keys(g.Edges))
}

// Descendants returns the ids of every node below id, in depth-first
// pre-order following ChildIDs. The node itself is not included.
// Ids listed as children but missing from the graph are skipped, and each
// node is visited at most once so corrupt cycles terminate.
func (g *Graph) Descendants(id string) []string {
	var out []string
	seen := map[string]bool{id: true}
	var walk func(string)
	walk = func(cur string) {
		n := g.Nodes[cur]
		if n == nil {
			return
		}
		for _, child := range n.ChildIDs {
			if seen[child] || g.Nodes[child] == nil {
				continue
			}
			seen[child] = true
			out = append(out, child)
			walk(child)
		}
	}
	walk(id)
	return out
}

// EdgesTouching returns the ids of edges with an endpoint in ids, sorted.
func (g *Graph) EdgesTouching(ids map[string]bool) []string {
	var out []string
	for id, e := range g.Edges {
		if ids[e.FromNodeID] || ids[e.ToNodeID] {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return out
}

// Clear removes all nodes and edges and resets the root.
func (g *Graph) Clear() {
	clear(g.Nodes)
	clear(g.Edges)
	g.RootID = ""
}
