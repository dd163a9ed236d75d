package editor

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/kknero/neromind/pkg/command"
	"github.com/kknero/neromind/pkg/direction"
	"github.com/kknero/neromind/pkg/errors"
	"github.com/kknero/neromind/pkg/events"
	"github.com/kknero/neromind/pkg/history"
	"github.com/kknero/neromind/pkg/layout"
	"github.com/kknero/neromind/pkg/mindmap"
	"github.com/kknero/neromind/pkg/observability"
	"github.com/kknero/neromind/pkg/schedule"
	"github.com/kknero/neromind/pkg/settings"
	"github.com/kknero/neromind/pkg/state"
)

// Default labels for nodes created without content.
const (
	DefaultRootContent = "Central Topic"
	DefaultNodeContent = "New Node"
)

// Editor is one editing session. It is not safe for concurrent use; in
// async mode only the scheduler callback runs on another goroutine.
type Editor struct {
	bus        *events.Bus
	store      *state.Store
	history    *history.Manager
	directions *direction.Manager
	scheduler  *schedule.Scheduler

	settings      settings.Settings
	viewport      layout.Viewport
	newID         func() string
	now           func() time.Time
	logger        *log.Logger
	async         func(schedule.Request)
	onSettings    func(settings.Settings)
	onLayout      func(state.Snapshot)
	unsubscribers []func()
}

// Option configures an [Editor].
type Option func(*Editor)

// WithSettings sets the initial settings. Defaults to [settings.Default].
func WithSettings(s settings.Settings) Option {
	return func(e *Editor) { e.settings = s }
}

// WithViewport sets the canvas size used to center the root.
func WithViewport(vp layout.Viewport) Option {
	return func(e *Editor) { e.viewport = vp }
}

// WithLogger sets the logger passed to every component.
func WithLogger(l *log.Logger) Option {
	return func(e *Editor) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithIDGenerator overrides how node ids are minted. Defaults to random
// UUIDs.
func WithIDGenerator(fn func() string) Option {
	return func(e *Editor) {
		if fn != nil {
			e.newID = fn
		}
	}
}

// WithClock sets the time source for node stamps and move coalescing.
func WithClock(now func() time.Time) Option {
	return func(e *Editor) {
		if now != nil {
			e.now = now
		}
	}
}

// WithAsyncLayout debounces layout requests by the configured
// LayoutDebounce and hands each merged request to notify instead of
// running it. notify is called from a timer goroutine; the owner passes
// the request back to [Editor.Relayout] on its own loop.
func WithAsyncLayout(notify func(schedule.Request)) Option {
	return func(e *Editor) { e.async = notify }
}

// WithSettingsHook registers fn to receive the settings after every layout
// settings change, including undone ones.
func WithSettingsHook(fn func(settings.Settings)) Option {
	return func(e *Editor) { e.onSettings = fn }
}

// WithLayoutHook registers fn to receive the snapshot after every
// recompute.
func WithLayoutHook(fn func(state.Snapshot)) Option {
	return func(e *Editor) { e.onLayout = fn }
}

// New creates an editor with an empty map.
func New(opts ...Option) *Editor {
	e := &Editor{
		settings:   settings.Default(),
		viewport:   layout.Viewport{Width: 800, Height: 600},
		newID:      uuid.NewString,
		now:        time.Now,
		logger:     log.New(io.Discard),
		directions: direction.New(),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.bus = events.NewBus(e.logger)
	e.store = state.New(
		state.WithEventBus(e.bus),
		state.WithLogger(e.logger),
		state.WithClock(e.now),
	)
	e.history = history.New(e.store, history.WithLogger(e.logger))

	if e.async != nil {
		// A non-positive delay would leave the scheduler in manual mode,
		// and nothing flushes it asynchronously.
		delay := e.settings.LayoutDebounce.Std()
		if delay <= 0 {
			delay = schedule.DefaultDelay
		}
		e.scheduler = schedule.New(delay, e.async, schedule.WithLogger(e.logger))
	} else {
		e.scheduler = schedule.New(0, e.Relayout, schedule.WithLogger(e.logger))
	}

	e.unsubscribers = append(e.unsubscribers,
		e.bus.On(events.LayoutResetRequested, e.onLayoutReset),
		e.bus.On(events.LayoutSettingsChanged, e.onLayoutSettings),
	)
	return e
}

// =============================================================================
// Accessors
// =============================================================================

// Store returns the session's state store. Use it to load a map before
// editing; changes made through it are not undoable.
func (e *Editor) Store() *state.Store { return e.store }

// History returns the undo history.
func (e *Editor) History() *history.Manager { return e.history }

// Bus returns the event bus.
func (e *Editor) Bus() *events.Bus { return e.bus }

// Settings returns the current settings.
func (e *Editor) Settings() settings.Settings { return e.settings }

// Viewport returns the canvas size.
func (e *Editor) Viewport() layout.Viewport { return e.viewport }

// SetViewport changes the canvas size and schedules a full recompute.
func (e *Editor) SetViewport(vp layout.Viewport) {
	e.viewport = vp
	e.scheduler.Enqueue(layout.All())
	e.settle()
}

// Snapshot returns the current state.
func (e *Editor) Snapshot() state.Snapshot { return e.store.Snapshot() }

// =============================================================================
// Actions
// =============================================================================

// Init creates the root node if the map is empty and returns the root id.
func (e *Editor) Init(content string) (string, state.Snapshot, error) {
	if root, ok := e.store.RootNode(); ok {
		return root.ID, e.store.Snapshot(), nil
	}
	if content == "" {
		content = DefaultRootContent
	}
	root := mindmap.Node{
		ID:       e.newID(),
		Content:  content,
		Position: e.viewport.Center(),
	}
	snap, err := e.history.Execute(command.NewCreateNode(root))
	if err != nil {
		return "", snap, err
	}
	e.logger.Debug("map initialized", "root", root.ID)
	return root.ID, snap, nil
}

// AddChild creates a node under parentID, selects it and returns its id.
// Children of the root go to whichever side of the root has fewer nodes,
// right first.
func (e *Editor) AddChild(parentID, content string) (string, state.Snapshot, error) {
	parent, ok := e.store.Node(parentID)
	if !ok {
		return "", e.store.Snapshot(), errors.New(errors.ErrCodeNotFound, "node %q not found", parentID)
	}
	siblings := e.children(parent)

	var plan direction.Plan
	if parent.IsRoot() {
		right := e.directions.FromRoot(mindmap.DirectionRight, siblings)
		left := e.directions.FromRoot(mindmap.DirectionLeft, siblings)
		plan = right
		if left.Lane < right.Lane {
			plan = left
		}
	} else {
		plan = e.directions.FromNode(parent, siblings)
	}
	return e.insert(parent, plan, content, "Add child")
}

// AddChildToward creates a child of the root heading dir.
func (e *Editor) AddChildToward(dir mindmap.Direction, content string) (string, state.Snapshot, error) {
	if dir == mindmap.DirectionNone || !dir.Valid() {
		return "", e.store.Snapshot(), errors.New(errors.ErrCodeInvalidInput, "invalid direction %q", dir)
	}
	root, ok := e.store.RootNode()
	if !ok {
		return "", e.store.Snapshot(), errors.New(errors.ErrCodeMissingRoot, "map has no root")
	}
	plan := e.directions.FromRoot(dir, e.children(root))
	return e.insert(root, plan, content, "Add child")
}

// AddSibling creates a node next to nodeID, selects it and returns its id.
// The root has no siblings.
func (e *Editor) AddSibling(nodeID, content string) (string, state.Snapshot, error) {
	node, ok := e.store.Node(nodeID)
	if !ok {
		return "", e.store.Snapshot(), errors.New(errors.ErrCodeNotFound, "node %q not found", nodeID)
	}
	if node.IsRoot() {
		return "", e.store.Snapshot(), errors.New(errors.ErrCodeInvalidInput, "the root node has no siblings")
	}
	parent, ok := e.store.Node(node.ParentID)
	if !ok {
		return "", e.store.Snapshot(), errors.New(errors.ErrCodeNotFound, "parent %q not found", node.ParentID)
	}
	plan := e.directions.Sibling(node, e.children(parent))
	return e.insert(parent, plan, content, "Add sibling")
}

func (e *Editor) insert(parent mindmap.Node, plan direction.Plan, content, description string) (string, state.Snapshot, error) {
	if content == "" {
		content = DefaultNodeContent
	}
	node := mindmap.Node{
		ID:        e.newID(),
		Content:   content,
		Position:  parent.Position,
		ParentID:  parent.ID,
		Direction: plan.Direction,
	}
	snap, err := e.history.ExecuteBatch(description,
		command.NewCreateNode(node),
		command.NewSelectNode(node.ID),
	)
	if err != nil {
		return "", snap, err
	}
	e.logger.Debug("node added", "id", node.ID, "parent", parent.ID, "direction", plan.Direction, "lane", plan.Lane)
	e.autoAlign(parent.ID)
	return node.ID, e.store.Snapshot(), nil
}

// Move drags a node to pos. Consecutive moves of the same node merge into
// one undo entry until [Editor.EndDrag].
func (e *Editor) Move(nodeID string, pos mindmap.Position) (state.Snapshot, error) {
	return e.history.Execute(command.NewMoveNode(nodeID, pos, command.WithClock(e.now)))
}

// EndDrag ends the current drag gesture.
func (e *Editor) EndDrag() { e.history.EndMoveCoalescing() }

// Edit replaces a node's text.
func (e *Editor) Edit(nodeID, content string) (state.Snapshot, error) {
	return e.history.Execute(command.NewEditContent(nodeID, content))
}

// TogglePin pins or unpins a node.
func (e *Editor) TogglePin(nodeID string) (state.Snapshot, error) {
	return e.history.Execute(command.NewTogglePin(nodeID))
}

// Delete removes a node and its subtree. Deleting the root is refused.
func (e *Editor) Delete(nodeID string) (state.Snapshot, error) {
	node, ok := e.store.Node(nodeID)
	if !ok {
		return e.store.Snapshot(), errors.New(errors.ErrCodeNotFound, "node %q not found", nodeID)
	}
	if node.IsRoot() {
		return e.store.Snapshot(), errors.New(errors.ErrCodeInvalidInput, "the root node cannot be deleted")
	}
	if _, err := e.history.Execute(command.NewDeleteSubtree(nodeID)); err != nil {
		return e.store.Snapshot(), err
	}
	e.autoAlign(node.ParentID)
	return e.store.Snapshot(), nil
}

// Select selects a node. An empty id clears the selection.
func (e *Editor) Select(nodeID string) (state.Snapshot, error) {
	if nodeID == "" {
		return e.history.Execute(command.NewClearSelection())
	}
	return e.history.Execute(command.NewSelectNode(nodeID))
}

// ResetToAuto hands nodes back to automatic layout and recomputes their
// subtrees.
func (e *Editor) ResetToAuto(nodeIDs ...string) (state.Snapshot, error) {
	if _, err := e.history.Execute(command.NewResetToAutoLayout(nodeIDs...)); err != nil {
		return e.store.Snapshot(), err
	}
	e.settle()
	return e.store.Snapshot(), nil
}

// ChangeLayout applies patch to the layout settings as an undoable step
// and recomputes scope.
func (e *Editor) ChangeLayout(patch settings.LayoutPatch, scope layout.Scope) (state.Snapshot, error) {
	if _, err := e.history.Execute(command.NewChangeLayout(e.settings, patch, scope)); err != nil {
		return e.store.Snapshot(), err
	}
	e.settle()
	return e.store.Snapshot(), nil
}

// Undo reverts the newest history entry.
func (e *Editor) Undo() (state.Snapshot, error) {
	snap, err := e.history.Undo()
	if err != nil {
		return snap, err
	}
	if e.settings.AutoAlign {
		e.scheduler.Enqueue(layout.All())
	}
	e.settle()
	return e.store.Snapshot(), nil
}

// Close stops the scheduler and detaches from the bus. The map is kept.
func (e *Editor) Close() {
	e.scheduler.Stop()
	for _, unsubscribe := range e.unsubscribers {
		unsubscribe()
	}
	e.unsubscribers = nil
}

// =============================================================================
// Layout
// =============================================================================

// Relayout runs a merged layout request now. In async mode the owner calls
// it with each request handed to the notify callback.
func (e *Editor) Relayout(req schedule.Request) {
	if e.store.NodeCount() == 0 {
		return
	}
	for _, scope := range req.Scopes() {
		e.recompute(scope)
	}
	if e.onLayout != nil {
		e.onLayout(e.store.Snapshot())
	}
}

// Flush runs any pending layout request. It reports whether one ran.
func (e *Editor) Flush() bool { return e.scheduler.Flush() }

func (e *Editor) recompute(scope layout.Scope) {
	start := time.Now()
	snap := e.store.Snapshot()

	opts := append(e.settings.LayoutOptions(), layout.WithScope(scope))
	var positions map[string]mindmap.Position
	algorithm := "center"
	if e.settings.EnableRadialLayout {
		algorithm = "radial"
		positions = layout.Radial(snap.Nodes, snap.RootID, e.viewport.Center(), opts...)
	} else {
		positions = layout.CenterRoot(snap.Nodes, e.viewport, opts...)
	}

	apply := command.NewApplyLayout(positions)
	if _, err := e.store.Apply(apply); err != nil {
		e.logger.Warn("layout apply failed", "err", err)
		return
	}
	observability.Layout().OnLayoutComplete(algorithm, string(scope.Kind), len(apply.Changed()), time.Since(start))
	e.logger.Debug("layout", "algorithm", algorithm, "scope", scope.Kind, "root", scope.RootID, "moved", len(apply.Changed()))
}

func (e *Editor) autoAlign(rootID string) {
	if e.settings.AutoAlign {
		e.scheduler.Enqueue(layout.Subtree(rootID))
	}
	e.settle()
}

// settle runs pending requests in synchronous mode.
func (e *Editor) settle() {
	if e.async == nil {
		e.scheduler.Flush()
	}
}

func (e *Editor) onLayoutReset(payload any) {
	p, ok := payload.(events.LayoutResetPayload)
	if !ok {
		return
	}
	if len(p.RootIDs) == 0 {
		e.scheduler.Enqueue(layout.All())
		return
	}
	// A subtree scope excludes its own root, so a reset node is
	// recomputed as part of its parent's subtree.
	for _, id := range p.RootIDs {
		n, ok := e.store.Node(id)
		if !ok || n.IsRoot() {
			e.scheduler.Enqueue(layout.All())
			continue
		}
		e.scheduler.Enqueue(layout.Subtree(n.ParentID))
	}
}

func (e *Editor) onLayoutSettings(payload any) {
	p, ok := payload.(events.LayoutSettingsPayload)
	if !ok {
		return
	}
	e.settings = e.settings.WithLayout(p.Settings)
	if e.onSettings != nil {
		e.onSettings(e.settings)
	}
	e.scheduler.Enqueue(p.Scope)
}

func (e *Editor) children(parent mindmap.Node) []mindmap.Node {
	out := make([]mindmap.Node, 0, len(parent.ChildIDs))
	for _, id := range parent.ChildIDs {
		if n, ok := e.store.Node(id); ok {
			out = append(out, n)
		}
	}
	return out
}
