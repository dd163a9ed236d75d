package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/kknero/neromind/pkg/mindmap"
	"github.com/kknero/neromind/pkg/render"
	"github.com/kknero/neromind/pkg/state"
	"github.com/kknero/neromind/pkg/textlayout"
)

// Options configures diagram generation.
type Options struct {
	// WrapWidth wraps labels at this many canvas units. Zero disables wrapping.
	WrapWidth float64

	// HideCollapsed omits the descendants of collapsed nodes.
	HideCollapsed bool

	// Detailed appends the node id and direction to each label.
	Detailed bool

	// Measurer sizes labels for wrapping. The zero value uses the default
	// font size.
	Measurer textlayout.Measurer
}

// ToDOT converts a snapshot to Graphviz DOT source for the neato engine.
// Nodes are emitted in snapshot order, which is sorted by id.
func ToDOT(snap state.Snapshot, opts Options) string {
	hidden := hiddenNodes(snap, opts.HideCollapsed)
	pinned := make(map[string]bool, len(snap.PinnedNodeIDs))
	for _, id := range snap.PinnedNodeIDs {
		pinned[id] = true
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12, margin=\"0.15,0.08\"];\n")
	buf.WriteString("  edge [arrowhead=none, color=\"#888888\"];\n")
	buf.WriteString("\n")

	for _, n := range snap.Nodes {
		if hidden[n.ID] {
			continue
		}
		attrs := fmtAttrs(n, snap, pinned[n.ID] || n.IsPinned, opts)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, n := range snap.Nodes {
		if hidden[n.ID] {
			continue
		}
		for _, child := range n.ChildIDs {
			if hidden[child] {
				continue
			}
			if _, ok := snap.Node(child); !ok {
				continue
			}
			fmt.Fprintf(&buf, "  %q -> %q;\n", n.ID, child)
		}
	}
	for _, e := range snap.Edges {
		if hidden[e.FromNodeID] || hidden[e.ToNodeID] || isTreeLink(snap, e) {
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [style=dashed];\n", e.FromNodeID, e.ToNodeID)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtAttrs(n mindmap.Node, snap state.Snapshot, pinned bool, opts Options) []string {
	attrs := []string{
		fmt.Sprintf("label=%q", fmtLabel(n, opts)),
		fmt.Sprintf("pos=%q", fmtPos(n.Position)),
	}
	if n.ID == snap.RootID {
		attrs = append(attrs, "fillcolor=\"#e8eefc\"", "fontsize=14")
	}
	if pinned {
		attrs = append(attrs, "penwidth=2")
	}
	if n.ID == snap.SelectedNodeID {
		attrs = append(attrs, "color=\"#3b6fd8\"")
	}
	if n.IsCollapsed {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"")
	}
	return attrs
}

func fmtLabel(n mindmap.Node, opts Options) string {
	label := n.Content
	if opts.WrapWidth > 0 {
		label = strings.Join(opts.Measurer.Layout(n.Content, opts.WrapWidth).Lines, "\n")
	}
	if !opts.Detailed {
		return label
	}
	meta := n.ID
	if n.Direction != mindmap.DirectionNone {
		meta += " " + string(n.Direction)
	}
	return label + "\n" + meta
}

// fmtPos flips y because Graphviz grows upward.
func fmtPos(p mindmap.Position) string {
	y := -p.Y
	if y == 0 {
		y = 0 // drop negative zero
	}
	return strconv.FormatFloat(p.X, 'f', -1, 64) + "," + strconv.FormatFloat(y, 'f', -1, 64) + "!"
}

func isTreeLink(snap state.Snapshot, e mindmap.Edge) bool {
	to, ok := snap.Node(e.ToNodeID)
	if ok && to.ParentID == e.FromNodeID {
		return true
	}
	from, ok := snap.Node(e.FromNodeID)
	return ok && from.ParentID == e.ToNodeID
}

func hiddenNodes(snap state.Snapshot, hideCollapsed bool) map[string]bool {
	hidden := map[string]bool{}
	if !hideCollapsed {
		return hidden
	}
	byID := make(map[string]mindmap.Node, len(snap.Nodes))
	for _, n := range snap.Nodes {
		byID[n.ID] = n
	}
	collapsed := map[string]bool{}
	for _, id := range snap.CollapsedNodeIDs {
		collapsed[id] = true
	}
	var hide func(string)
	hide = func(id string) {
		for _, child := range byID[id].ChildIDs {
			if hidden[child] {
				continue
			}
			hidden[child] = true
			hide(child)
		}
	}
	for _, n := range snap.Nodes {
		if n.IsCollapsed || collapsed[n.ID] {
			hide(n.ID)
		}
	}
	return hidden
}

// RenderSVG renders DOT source to SVG using Graphviz with the neato engine.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}

// RenderPNG renders DOT source as PNG via SVG conversion.
// Requires librsvg (rsvg-convert) on PATH.
func RenderPNG(dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}

// RenderPDF renders DOT source as PDF via SVG conversion.
// Requires librsvg (rsvg-convert) on PATH.
func RenderPDF(dot string) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}
