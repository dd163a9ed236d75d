package mapfile

import (
	"time"

	"github.com/kknero/neromind/pkg/mindmap"
)

const (
	// Signature identifies a .kknm file.
	Signature = "KK-NeroMind"

	// SchemaVersion is the newest schema this package reads and the one it
	// writes.
	SchemaVersion = 1

	// Extension is the file extension for map documents.
	Extension = ".kknm"
)

// Document is the on-disk form of one map.
type Document struct {
	Meta       Meta                  `json:"meta"`
	Nodes      map[string]NodeRecord `json:"nodes"`
	Edges      map[string]EdgeRecord `json:"edges"`
	RootNodeID string                `json:"rootNodeId"`
	View       *View                 `json:"view,omitempty"`
}

// Meta is the document header.
type Meta struct {
	CreatedWith   string `json:"createdWith"`
	SchemaVersion int    `json:"schemaVersion"`
	PluginVersion string `json:"pluginVersion"`
	CreatedAt     int64  `json:"createdAt"`
	UpdatedAt     int64  `json:"updatedAt"`
}

// NodeRecord is one serialized node.
type NodeRecord struct {
	ID             string             `json:"id"`
	Content        string             `json:"content"`
	Position       mindmap.Position   `json:"position"`
	UserPosition   bool               `json:"userPosition"`
	ParentID       *string            `json:"parentId"`
	ChildIDs       []string           `json:"childIds"`
	Direction      *mindmap.Direction `json:"direction"`
	IsPinned       bool               `json:"isPinned"`
	IsCollapsed    bool               `json:"isCollapsed"`
	LinkedNotePath *string            `json:"linkedNotePath"`
	CreatedAt      int64              `json:"createdAt"`
	UpdatedAt      int64              `json:"updatedAt"`
}

// EdgeRecord is one serialized edge.
type EdgeRecord struct {
	ID         string            `json:"id"`
	FromNodeID string            `json:"fromNodeId"`
	ToNodeID   string            `json:"toNodeId"`
	Direction  mindmap.Direction `json:"direction"`
}

// View is the saved camera and selection. It is a hint: unknown node ids
// are ignored on load.
type View struct {
	Zoom           *float64          `json:"zoom,omitempty"`
	Pan            *mindmap.Position `json:"pan,omitempty"`
	SelectedNodeID *string           `json:"selectedNodeId"`
}

// Node converts the record to a graph node.
func (r NodeRecord) Node() mindmap.Node {
	n := mindmap.Node{
		ID:           r.ID,
		Content:      r.Content,
		Position:     r.Position,
		UserPosition: r.UserPosition,
		ChildIDs:     append([]string{}, r.ChildIDs...),
		IsPinned:     r.IsPinned,
		IsCollapsed:  r.IsCollapsed,
		CreatedAt:    fromMillis(r.CreatedAt),
		UpdatedAt:    fromMillis(r.UpdatedAt),
	}
	if r.ParentID != nil {
		n.ParentID = *r.ParentID
	}
	if r.Direction != nil {
		n.Direction = *r.Direction
	}
	if r.LinkedNotePath != nil {
		n.LinkedNotePath = *r.LinkedNotePath
	}
	return n
}

// NewNodeRecord converts a graph node to its record.
func NewNodeRecord(n mindmap.Node) NodeRecord {
	r := NodeRecord{
		ID:           n.ID,
		Content:      n.Content,
		Position:     n.Position,
		UserPosition: n.UserPosition,
		ChildIDs:     append([]string{}, n.ChildIDs...),
		IsPinned:     n.IsPinned,
		IsCollapsed:  n.IsCollapsed,
		CreatedAt:    toMillis(n.CreatedAt),
		UpdatedAt:    toMillis(n.UpdatedAt),
	}
	if n.ParentID != "" {
		r.ParentID = &n.ParentID
	}
	if n.Direction != mindmap.DirectionNone {
		r.Direction = &n.Direction
	}
	if n.LinkedNotePath != "" {
		r.LinkedNotePath = &n.LinkedNotePath
	}
	return r
}

// Edge converts the record to a graph edge.
func (r EdgeRecord) Edge() mindmap.Edge {
	return mindmap.Edge{ID: r.ID, FromNodeID: r.FromNodeID, ToNodeID: r.ToNodeID, Direction: r.Direction}
}

func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

func toMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}
