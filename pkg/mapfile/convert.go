package mapfile

import (
	"time"

	"github.com/kknero/neromind/pkg/buildinfo"
	"github.com/kknero/neromind/pkg/command"
	"github.com/kknero/neromind/pkg/mindmap"
	"github.com/kknero/neromind/pkg/state"
)

// Load replaces the contents of s with d. The root is inserted first so it
// becomes the store's root; the remaining nodes and edges follow in id
// order. A saved selection is restored when the node exists. Load does not
// record history.
func Load(d *Document, s *state.Store) error {
	if err := d.Validate(); err != nil {
		return err
	}

	s.Reset()
	s.AddNode(d.Nodes[d.RootNodeID].Node())
	for _, id := range sortedKeys(d.Nodes) {
		if id == d.RootNodeID {
			continue
		}
		s.AddNode(d.Nodes[id].Node())
	}
	for _, id := range sortedKeys(d.Edges) {
		s.AddEdge(d.Edges[id].Edge())
	}

	if d.View == nil {
		return nil
	}
	vp := state.Viewport{Zoom: 1}
	if d.View.Zoom != nil && *d.View.Zoom > 0 {
		vp.Zoom = *d.View.Zoom
	}
	if d.View.Pan != nil {
		vp.X, vp.Y = d.View.Pan.X, d.View.Pan.Y
	}
	s.SetViewport(vp)

	if sel := d.View.SelectedNodeID; sel != nil {
		if _, ok := s.Node(*sel); ok {
			if _, err := s.Apply(command.NewSelectNode(*sel)); err != nil {
				return err
			}
		}
	}
	return nil
}

// FromSnapshot builds a document from snap. created is the map's original
// creation time; when zero, now is used.
func FromSnapshot(snap state.Snapshot, created, now time.Time) *Document {
	if created.IsZero() {
		created = now
	}
	d := &Document{
		Meta: Meta{
			CreatedWith:   Signature,
			SchemaVersion: SchemaVersion,
			PluginVersion: buildinfo.Version,
			CreatedAt:     created.UnixMilli(),
			UpdatedAt:     now.UnixMilli(),
		},
		Nodes:      make(map[string]NodeRecord, len(snap.Nodes)),
		Edges:      make(map[string]EdgeRecord, len(snap.Edges)),
		RootNodeID: snap.RootID,
	}
	for _, n := range snap.Nodes {
		d.Nodes[n.ID] = NewNodeRecord(n)
	}
	for _, e := range snap.Edges {
		d.Edges[e.ID] = EdgeRecord{ID: e.ID, FromNodeID: e.FromNodeID, ToNodeID: e.ToNodeID, Direction: e.Direction}
	}

	zoom := snap.Viewport.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	d.View = &View{
		Zoom: &zoom,
		Pan:  &mindmap.Position{X: snap.Viewport.X, Y: snap.Viewport.Y},
	}
	if snap.SelectedNodeID != "" {
		sel := snap.SelectedNodeID
		d.View.SelectedNodeID = &sel
	}
	return d
}
