// Package render turns map snapshots into visual outputs.
//
// The [dot] subpackage writes Graphviz DOT with every node pinned at its
// layout position and renders it to SVG in-process. Format conversion from
// SVG to PDF or PNG shells out to rsvg-convert (from librsvg):
//
//	src := dot.ToDOT(snap, dot.Options{})
//	svg, err := dot.RenderSVG(src)
//	png, err := render.ToPNG(svg, 2.0)
//
// [dot]: github.com/kknero/neromind/pkg/render/dot
package render
