package state

import (
	"slices"

	"github.com/kknero/neromind/pkg/mindmap"
	"github.com/kknero/neromind/pkg/settings"
)

// SchemaVersion is the version of the persistent state layout.
const SchemaVersion = 1

// Persistent is the undo-eligible part of the state.
type Persistent struct {
	SchemaVersion int
	Graph         *mindmap.Graph
	Layout        LayoutData
	Settings      UserSettings
	PinnedNodes   map[string]bool
	UI            UIState
}

// LayoutData is the saved camera and any explicitly stored positions.
type LayoutData struct {
	Viewport      Viewport
	NodePositions map[string]mindmap.Position
}

// Viewport is the camera offset and zoom of the canvas.
type Viewport struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Zoom float64 `json:"zoom"`
}

// UserSettings are the per-map settings saved with the state.
type UserSettings struct {
	AutoAlign      bool
	CenterOnCreate bool
	Minimap        settings.Minimap
}

// UIState is the persisted part of the interface state.
type UIState struct {
	SelectedNodeID string
}

// Ephemeral is the transient part of the state. It is never undone.
type Ephemeral struct {
	// SelectedNodeID is kept for callers that predate the persisted
	// selection in UIState. Commands do not write it.
	SelectedNodeID     string
	EditingNodeID      string
	CollapsedNodes     map[string]bool
	DragState          *DragContext
	LastSelectedNodeID string
}

// DragContext describes a drag gesture in progress.
type DragContext struct {
	NodeID  string
	Start   mindmap.Position
	Current mindmap.Position
}

func newPersistent() *Persistent {
	return &Persistent{
		SchemaVersion: SchemaVersion,
		Graph:         mindmap.NewGraph(),
		Layout: LayoutData{
			Viewport:      Viewport{Zoom: 1},
			NodePositions: make(map[string]mindmap.Position),
		},
		Settings:    defaultUserSettings(),
		PinnedNodes: make(map[string]bool),
	}
}

func newEphemeral() *Ephemeral {
	return &Ephemeral{CollapsedNodes: make(map[string]bool)}
}

func defaultUserSettings() UserSettings {
	d := settings.Default()
	return UserSettings{
		AutoAlign:      d.AutoAlign,
		CenterOnCreate: d.CenterOnCreate,
		Minimap:        d.Minimap,
	}
}

func sortedSet(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for id, ok := range m {
		if ok {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return out
}
