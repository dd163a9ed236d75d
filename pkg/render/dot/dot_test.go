package dot

import (
	"strings"
	"testing"

	"github.com/kknero/neromind/pkg/mindmap"
	"github.com/kknero/neromind/pkg/state"
	"github.com/kknero/neromind/pkg/textlayout"
)

func sampleSnapshot() state.Snapshot {
	return state.Snapshot{
		RootID: "r",
		Nodes: []mindmap.Node{
			{ID: "a", Content: "Flights", ParentID: "r", Direction: mindmap.DirectionRight, Position: mindmap.Position{X: 500, Y: 270}, ChildIDs: []string{"a1"}, IsCollapsed: true},
			{ID: "a1", Content: "Return leg", ParentID: "a", Direction: mindmap.DirectionRight, Position: mindmap.Position{X: 600, Y: 270}},
			{ID: "b", Content: "Hotels", ParentID: "r", Direction: mindmap.DirectionRight, Position: mindmap.Position{X: 500, Y: 330}, IsPinned: true},
			{ID: "r", Content: "Trip", Position: mindmap.Position{X: 400, Y: 300}, ChildIDs: []string{"a", "b"}},
		},
		Edges: []mindmap.Edge{
			{ID: "e1", FromNodeID: "r", ToNodeID: "a"},
			{ID: "e2", FromNodeID: "b", ToNodeID: "a1"},
		},
		PinnedNodeIDs:  []string{"b"},
		SelectedNodeID: "a",
	}
}

func TestToDOT(t *testing.T) {
	got := ToDOT(sampleSnapshot(), Options{})

	for _, want := range []string{
		"layout=neato;",
		"inputscale=72;",
		`"r" [label="Trip", pos="400,-300!", fillcolor="#e8eefc", fontsize=14];`,
		`"b" [label="Hotels", pos="500,-330!", penwidth=2];`,
		`"a" [label="Flights", pos="500,-270!", color="#3b6fd8", style="rounded,filled,dashed"];`,
		`"r" -> "a";`,
		`"r" -> "b";`,
		`"a" -> "a1";`,
		`"b" -> "a1" [style=dashed];`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("ToDOT() missing %q\n%s", want, got)
		}
	}
	if strings.Contains(got, `"r" -> "a" [style=dashed]`) {
		t.Error("stored edge along a parent link should not be drawn twice")
	}
}

func TestToDOTHideCollapsed(t *testing.T) {
	got := ToDOT(sampleSnapshot(), Options{HideCollapsed: true})

	if strings.Contains(got, `"a1"`) {
		t.Errorf("descendant of collapsed node should be hidden:\n%s", got)
	}
	if !strings.Contains(got, `"a" [`) {
		t.Error("collapsed node itself should stay visible")
	}
}

func TestFmtLabel(t *testing.T) {
	tests := []struct {
		name string
		node mindmap.Node
		opts Options
		want string
	}{
		{"plain", mindmap.Node{ID: "n", Content: "hello world"}, Options{}, "hello world"},
		{"wrapped", mindmap.Node{ID: "n", Content: "hello world"}, Options{WrapWidth: 40}, "hello\nworld"},
		{"small font", mindmap.Node{ID: "n", Content: "hello world"}, Options{WrapWidth: 40, Measurer: textlayout.Measurer{FontSize: 6}}, "hello world"},
		{"detailed", mindmap.Node{ID: "n", Content: "x", Direction: mindmap.DirectionLeft}, Options{Detailed: true}, "x\nn left"},
		{"detailed root", mindmap.Node{ID: "r", Content: "x"}, Options{Detailed: true}, "x\nr"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fmtLabel(tt.node, tt.opts); got != tt.want {
				t.Errorf("fmtLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFmtPos(t *testing.T) {
	tests := []struct {
		pos  mindmap.Position
		want string
	}{
		{mindmap.Position{X: 0, Y: 0}, "0,0!"},
		{mindmap.Position{X: 5, Y: 0}, "5,0!"},
		{mindmap.Position{X: 12.5, Y: -40}, "12.5,40!"},
		{mindmap.Position{X: -3, Y: 7.25}, "-3,-7.25!"},
	}
	for _, tt := range tests {
		if got := fmtPos(tt.pos); got != tt.want {
			t.Errorf("fmtPos(%v) = %q, want %q", tt.pos, got, tt.want)
		}
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(ToDOT(sampleSnapshot(), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Fatal("output is not SVG")
	}
	if !strings.Contains(string(svg), "Hotels") {
		t.Error("SVG should contain node labels")
	}
}

func TestRenderSVGInvalid(t *testing.T) {
	if _, err := RenderSVG("digraph {"); err == nil {
		t.Error("expected parse error")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 10.00 20.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10.00 20.00" width="10" height="20"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox() = %q, want %q", got, want)
	}
	if string(normalizeViewBox([]byte("<svg/>"))) != "<svg/>" {
		t.Error("svg without viewBox should pass through")
	}
}
