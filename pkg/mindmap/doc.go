// Package mindmap defines the graph model edited by neromind.
//
// # Overview
//
// A mind map is a tree of [Node] values rooted at a single node, plus a set
// of free-standing [Edge] values drawn between nodes. The tree is encoded
// twice, on purpose: each node records its ParentID, and each parent keeps
// an ordered ChildIDs list. The two must agree, and ChildIDs order is the
// sibling order used by layout.
//
// # Invariants
//
//   - Exactly one node has an empty ParentID, and it is [Graph.RootID].
//   - Every other ParentID references an existing node.
//   - An id appears at most once across all ChildIDs lists.
//
// The model itself does not enforce these; the state store and the
// commands that mutate it do, and the document loader checks them at load
// time.
//
// # Copies
//
// [Graph] holds pointers because the store mutates nodes in place. Anything
// leaving the store goes through [Node.Clone], which never shares the
// ChildIDs backing array.
package mindmap
