package state

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/kknero/neromind/pkg/events"
	"github.com/kknero/neromind/pkg/mindmap"
	"github.com/kknero/neromind/pkg/observability"
)

// Store owns the persistent and ephemeral state of one session.
type Store struct {
	persistent *Persistent
	ephemeral  *Ephemeral
	bus        *events.Bus
	logger     *log.Logger
	now        func() time.Time
}

// Option configures a [Store].
type Option func(*Store)

// WithEventBus publishes node events on bus. Without a bus, events are
// dropped.
func WithEventBus(bus *events.Bus) Option {
	return func(s *Store) { s.bus = bus }
}

// WithLogger sets the logger for debug output.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock sets the time source used for node timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		persistent: newPersistent(),
		ephemeral:  newEphemeral(),
		logger:     log.New(io.Discard),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Apply runs op against the current state and returns a fresh snapshot.
// The snapshot is returned even when op fails, reflecting whatever op left
// behind.
func (s *Store) Apply(op Operation) (Snapshot, error) {
	start := time.Now()
	err := op.Execute(s.context())

	inverse := false
	if step, ok := op.(Step); ok {
		inverse = step.Mode == ModeInverse
	}
	observability.Store().OnApply(op.Description(), inverse, time.Since(start), err)
	if err != nil {
		s.logger.Debug("apply failed", "op", op.Description(), "err", err)
	} else {
		s.logger.Debug("applied", "op", op.Description())
	}
	return s.Snapshot(), err
}

func (s *Store) context() *Context {
	return &Context{
		Persistent: s.persistent,
		Ephemeral:  s.ephemeral,
		now:        s.now,
		emit:       s.emit,
	}
}

func (s *Store) emit(name events.Name, payload any) {
	if s.bus == nil {
		return
	}
	s.bus.Emit(name, payload)
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() Snapshot {
	g := s.persistent.Graph

	nodes := make([]mindmap.Node, 0, len(g.Nodes))
	for _, id := range g.SortedNodeIDs() {
		nodes = append(nodes, g.Nodes[id].Clone())
	}
	edges := make([]mindmap.Edge, 0, len(g.Edges))
	for _, id := range g.SortedEdgeIDs() {
		edges = append(edges, *g.Edges[id])
	}

	return Snapshot{
		Nodes:            nodes,
		Edges:            edges,
		RootID:           g.RootID,
		PinnedNodeIDs:    sortedSet(s.persistent.PinnedNodes),
		CollapsedNodeIDs: sortedSet(s.ephemeral.CollapsedNodes),
		SelectedNodeID:   s.persistent.UI.SelectedNodeID,
		EditingNodeID:    s.ephemeral.EditingNodeID,
		Viewport:         s.persistent.Layout.Viewport,
	}
}

// =============================================================================
// Read Accessors
// =============================================================================

// Node returns a copy of the node with id.
func (s *Store) Node(id string) (mindmap.Node, bool) {
	n := s.persistent.Graph.Node(id)
	if n == nil {
		return mindmap.Node{}, false
	}
	return n.Clone(), true
}

// Nodes returns copies of all nodes sorted by id.
func (s *Store) Nodes() []mindmap.Node {
	return s.Snapshot().Nodes
}

// RootNode returns a copy of the root node.
func (s *Store) RootNode() (mindmap.Node, bool) {
	return s.Node(s.persistent.Graph.RootID)
}

// Edge returns a copy of the edge with id.
func (s *Store) Edge(id string) (mindmap.Edge, bool) {
	e, ok := s.persistent.Graph.Edges[id]
	if !ok {
		return mindmap.Edge{}, false
	}
	return *e, true
}

// NodeCount returns the number of nodes.
func (s *Store) NodeCount() int { return s.persistent.Graph.NodeCount() }

// SelectedNodeID returns the persisted selection.
func (s *Store) SelectedNodeID() string { return s.persistent.UI.SelectedNodeID }

// LastSelectedNodeID returns the selection that preceded the current one.
func (s *Store) LastSelectedNodeID() string { return s.ephemeral.LastSelectedNodeID }

// EditingNodeID returns the node whose text is being edited.
func (s *Store) EditingNodeID() string { return s.ephemeral.EditingNodeID }

// IsPinned reports whether id is in the pinned set.
func (s *Store) IsPinned(id string) bool { return s.persistent.PinnedNodes[id] }

// Settings returns the per-map user settings.
func (s *Store) Settings() UserSettings { return s.persistent.Settings }

// Viewport returns the saved camera.
func (s *Store) Viewport() Viewport { return s.persistent.Layout.Viewport }

// DragState returns a copy of the drag in progress, or nil.
func (s *Store) DragState() *DragContext {
	if s.ephemeral.DragState == nil {
		return nil
	}
	d := *s.ephemeral.DragState
	return &d
}

// =============================================================================
// Load-time Population
// =============================================================================

// AddNode inserts a copy of node without recording history. The first
// node added to an empty graph becomes the root; later additions never
// change the root. The parent's ChildIDs are not touched.
func (s *Store) AddNode(node mindmap.Node) {
	g := s.persistent.Graph
	n := node.Clone()
	g.Nodes[n.ID] = &n
	if g.RootID == "" {
		g.RootID = n.ID
	}
	if n.IsPinned {
		s.persistent.PinnedNodes[n.ID] = true
	}
	if n.IsCollapsed {
		s.ephemeral.CollapsedNodes[n.ID] = true
	}
	s.emit(events.NodeCreated, events.NodeCreatedPayload{Node: n.Clone()})
}

// AddEdge inserts a copy of edge without recording history.
func (s *Store) AddEdge(edge mindmap.Edge) {
	e := edge
	s.persistent.Graph.Edges[e.ID] = &e
}

// RemoveNode deletes the node with id. It does not cascade: children,
// edges and the parent's ChildIDs are left as they are. Use the
// DeleteSubtree command for a complete, undoable removal.
func (s *Store) RemoveNode(id string) {
	g := s.persistent.Graph
	if _, ok := g.Nodes[id]; !ok {
		return
	}
	delete(g.Nodes, id)
	delete(s.persistent.PinnedNodes, id)
	delete(s.ephemeral.CollapsedNodes, id)
	if g.RootID == id {
		g.RootID = ""
	}
	s.emit(events.NodeDeleted, events.NodeDeletedPayload{NodeID: id})
}

// UpdateNode applies fn to the node with id and stamps it. A missing node
// is ignored. fn cannot change the node's id.
func (s *Store) UpdateNode(id string, fn func(*mindmap.Node)) {
	n := s.persistent.Graph.Node(id)
	if n == nil {
		return
	}
	fn(n)
	n.ID = id
	n.UpdatedAt = s.now()
	s.emit(events.NodeUpdated, events.NodeUpdatedPayload{Node: n.Clone()})
}

// SetViewport replaces the saved camera.
func (s *Store) SetViewport(v Viewport) { s.persistent.Layout.Viewport = v }

// SetSettings replaces the per-map user settings.
func (s *Store) SetSettings(u UserSettings) { s.persistent.Settings = u }

// Reset discards all state and starts over empty.
func (s *Store) Reset() {
	s.persistent = newPersistent()
	s.ephemeral = newEphemeral()
}

// =============================================================================
// Ephemeral Setters
// =============================================================================

// SetEditingNode marks id as being edited. An empty id ends editing.
func (s *Store) SetEditingNode(id string) { s.ephemeral.EditingNodeID = id }

// SetCollapsed records whether id is collapsed.
func (s *Store) SetCollapsed(id string, collapsed bool) {
	if collapsed {
		s.ephemeral.CollapsedNodes[id] = true
		return
	}
	delete(s.ephemeral.CollapsedNodes, id)
}

// SetDragState records the drag in progress. nil ends the drag.
func (s *Store) SetDragState(d *DragContext) {
	if d == nil {
		s.ephemeral.DragState = nil
		return
	}
	c := *d
	s.ephemeral.DragState = &c
}

// Destroy clears all state. The store stays usable but empty.
func (s *Store) Destroy() {
	s.persistent.Graph.Clear()
	clear(s.persistent.Layout.NodePositions)
	clear(s.persistent.PinnedNodes)
	clear(s.ephemeral.CollapsedNodes)
	s.persistent.UI = UIState{}
	*s.ephemeral = Ephemeral{CollapsedNodes: s.ephemeral.CollapsedNodes}
}
