// Package dot renders a map snapshot as a Graphviz diagram.
//
// Node positions come from the snapshot and are pinned with "pos=x,y!" so
// the neato engine draws exactly what the layout computed instead of
// running its own placement. Canvas coordinates grow downward and Graphviz
// coordinates grow upward, so y is negated on the way out.
//
//	src := dot.ToDOT(snap, dot.Options{WrapWidth: 160})
//	svg, err := dot.RenderSVG(src)
//
// Tree links are drawn from each node to its children. Edges stored in the
// map that do not follow a parent link are drawn dashed.
package dot
