// Package layout computes automatic node positions for a mind map.
//
// # Overview
//
// Layouts are pure functions from a list of nodes to a map of positions.
// They never mutate their input and never touch the state store; callers
// apply the result through a command. Two algorithms are available:
//
//   - [CenterRoot]: the root sits at the viewport center and depth-1
//     branches fan out to the right and left, each subtree stacked
//     vertically and centered on its parent.
//
//   - [Radial]: every node receives an angular sector of its parent's
//     sector and is placed on a ring whose radius grows with depth.
//
// Both walk the tree once along each node's ChildIDs, so they run in O(n).
// Ids listed as children but missing from the input are skipped, as are
// repeated visits, so a corrupt graph degrades instead of looping.
//
// # Frozen Nodes
//
// A node that was placed by hand (UserPosition) or pinned (IsPinned) is
// frozen: it keeps its stored position and is left out of the result, but
// its children are still laid out relative to it. A manually dragged branch
// therefore carries its automatic subtree along with it.
//
// # Scope
//
// [Scope] limits a recompute to part of the map. [All] recomputes every
// node that is not frozen. [Subtree] recomputes only the strict descendants
// of one node; everything else behaves as frozen and positions outside the
// subtree are never returned:
//
//	positions := layout.Radial(nodes, rootID, center,
//	    layout.WithScope(layout.Subtree("n-42")),
//	)
//
// # Options
//
//   - [WithGaps]: horizontal and vertical gaps for [CenterRoot] (default 100, 60)
//   - [WithOrientation]: angle range for [Radial] (default [OrientationRadial])
//   - [WithRadii]: base radius and per-depth gap for [Radial] (default 160, 140)
//   - [WithMinAngleGap]: smallest sector per child in degrees (default 12)
//   - [WithScope]: part of the map to recompute (default [All])
package layout
