package cli

import (
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kknero/neromind/pkg/command"
	"github.com/kknero/neromind/pkg/editor"
	"github.com/kknero/neromind/pkg/errors"
	"github.com/kknero/neromind/pkg/layout"
	"github.com/kknero/neromind/pkg/mindmap"
	"github.com/kknero/neromind/pkg/schedule"
	"github.com/kknero/neromind/pkg/settings"
	"github.com/kknero/neromind/pkg/state"
)

// moveStep is how far shift+arrow drags a node.
const moveStep = 10

// Outline styles
var (
	outlineCursorStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	outlineNormalStyle = lipgloss.NewStyle().Foreground(colorWhite)
	outlineDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	outlinePinStyle    = lipgloss.NewStyle().Foreground(colorYellow)
	statusErrorStyle   = lipgloss.NewStyle().Foreground(colorRed)
)

// layoutMsg carries a debounced layout request into the program loop.
type layoutMsg schedule.Request

// =============================================================================
// EditModel - Interactive map editing
// =============================================================================

// EditModel is the bubbletea model for the edit command. It owns the
// editor; every editor call happens on the program goroutine.
type EditModel struct {
	Editor *editor.Editor
	Snap   state.Snapshot
	Cursor string
	Status string
	Err    bool
	Height int
	Offset int

	editing  bool
	buffer   []rune
	dragging bool
	save     func() error
}

// NewEditModel creates a model for e. save is called on ctrl+s; nil
// disables saving.
func NewEditModel(e *editor.Editor, save func() error) EditModel {
	m := EditModel{Editor: e, Height: 20, save: save}
	m.refresh(e.Snapshot())
	if m.Snap.SelectedNodeID != "" {
		m.Cursor = m.Snap.SelectedNodeID
	}
	return m
}

func (m EditModel) Init() tea.Cmd {
	return nil
}

func (m EditModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case layoutMsg:
		m.Editor.Relayout(schedule.Request(msg))
		m.refresh(m.Editor.Snapshot())
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	case tea.KeyMsg:
		if m.editing {
			return m.updateEditing(msg)
		}
		return m.updateNormal(msg)
	}
	return m, nil
}

func (m EditModel) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.editing = false
		text := strings.TrimSpace(string(m.buffer))
		if text == "" {
			return m, nil
		}
		m.apply(m.Editor.Edit(m.Cursor, text))
		m.setStatus("Edited", nil)
	case tea.KeyEsc:
		m.editing = false
		m.setStatus("", nil)
	case tea.KeyBackspace:
		if len(m.buffer) > 0 {
			m.buffer = m.buffer[:len(m.buffer)-1]
		}
	case tea.KeySpace:
		m.buffer = append(m.buffer, ' ')
	case tea.KeyRunes:
		m.buffer = append(m.buffer, msg.Runes...)
	case tea.KeyCtrlC:
		return m, tea.Quit
	}
	return m, nil
}

func (m EditModel) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if m.dragging && !strings.HasPrefix(key, "shift+") {
		m.Editor.EndDrag()
		m.dragging = false
	}

	switch key {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		m.moveCursor(-1)
	case "down", "j":
		m.moveCursor(1)
	case "left", "h":
		if n, ok := m.Snap.Node(m.Cursor); ok && n.ParentID != "" {
			m.Cursor = n.ParentID
		}
	case "right", "l":
		if n, ok := m.Snap.Node(m.Cursor); ok && len(n.ChildIDs) > 0 {
			m.Cursor = n.ChildIDs[0]
		}
	case "tab":
		m.add(m.Editor.AddChild(m.Cursor, ""))
	case "enter":
		if m.Cursor == m.Snap.RootID {
			m.add(m.Editor.AddChild(m.Cursor, ""))
		} else {
			m.add(m.Editor.AddSibling(m.Cursor, ""))
		}
	case "<":
		m.add(m.Editor.AddChildToward(mindmap.DirectionLeft, ""))
	case ">":
		m.add(m.Editor.AddChildToward(mindmap.DirectionRight, ""))
	case "e", "f2":
		if n, ok := m.Snap.Node(m.Cursor); ok {
			m.editing = true
			m.buffer = []rune(n.Content)
			m.setStatus("Editing: enter to apply, esc to cancel", nil)
		}
	case "d", "delete":
		parent := ""
		if n, ok := m.Snap.Node(m.Cursor); ok {
			parent = n.ParentID
		}
		if m.apply(m.Editor.Delete(m.Cursor)) {
			m.Cursor = parent
			m.setStatus("Deleted", nil)
		}
	case "p":
		if m.apply(m.Editor.TogglePin(m.Cursor)) {
			m.setStatus("Pin toggled", nil)
		}
	case "r":
		if m.apply(m.Editor.ResetToAuto(m.Cursor)) {
			m.setStatus("Back to automatic layout", nil)
		}
	case "L":
		radial := !m.Editor.Settings().EnableRadialLayout
		if m.apply(m.Editor.ChangeLayout(settings.LayoutPatch{EnableRadialLayout: &radial}, layout.All())) {
			m.setStatus(fmt.Sprintf("Layout: %s", layoutName(radial)), nil)
		}
	case "u", "ctrl+z":
		m.undo()
	case "shift+up":
		m.drag(0, -moveStep)
	case "shift+down":
		m.drag(0, moveStep)
	case "shift+left":
		m.drag(-moveStep, 0)
	case "shift+right":
		m.drag(moveStep, 0)
	case "ctrl+s":
		m.doSave()
	}
	return m, nil
}

// =============================================================================
// Actions
// =============================================================================

func (m *EditModel) refresh(snap state.Snapshot) {
	m.Snap = snap
	if _, ok := snap.Node(m.Cursor); !ok {
		m.Cursor = snap.RootID
	}
}

// apply refreshes the model and reports whether err was nil.
func (m *EditModel) apply(_ state.Snapshot, err error) bool {
	m.refresh(m.Editor.Snapshot())
	if err != nil {
		m.setStatus("", err)
		return false
	}
	return true
}

func (m *EditModel) add(id string, snap state.Snapshot, err error) {
	if !m.apply(snap, err) {
		return
	}
	m.Cursor = id
	m.editing = true
	m.buffer = nil
	m.setStatus("New node: type its text, enter to apply", nil)
}

func (m *EditModel) drag(dx, dy float64) {
	n, ok := m.Snap.Node(m.Cursor)
	if !ok {
		return
	}
	pos := mindmap.Position{X: n.Position.X + dx, Y: n.Position.Y + dy}
	if m.apply(m.Editor.Move(m.Cursor, pos)) {
		m.dragging = true
		m.setStatus(fmt.Sprintf("Moved to (%.0f, %.0f)", pos.X, pos.Y), nil)
	}
}

func (m *EditModel) undo() {
	descs := m.Editor.History().Descriptions()
	if !m.apply(m.Editor.Undo()) {
		return
	}
	if len(descs) > 0 {
		m.setStatus("Undo: "+descs[len(descs)-1], nil)
	}
}

func (m *EditModel) doSave() {
	if m.save == nil {
		m.setStatus("", errors.New(errors.ErrCodeInvalidInput, "saving is disabled"))
		return
	}
	if m.Cursor != "" {
		if _, err := m.Editor.Store().Apply(command.NewSelectNode(m.Cursor)); err != nil {
			m.setStatus("", err)
			return
		}
	}
	if err := m.save(); err != nil {
		m.setStatus("", err)
		return
	}
	m.setStatus("Saved", nil)
}

func (m *EditModel) setStatus(msg string, err error) {
	m.Err = err != nil
	if err != nil {
		msg = errors.UserMessage(err)
	}
	m.Status = msg
}

// moveCursor steps through the outline order.
func (m *EditModel) moveCursor(delta int) {
	order := outlineOrder(m.Snap)
	i := slices.Index(order, m.Cursor)
	if i < 0 {
		return
	}
	i = min(max(i+delta, 0), len(order)-1)
	m.Cursor = order[i]
	if i < m.Offset {
		m.Offset = i
	}
	if i >= m.Offset+m.Height {
		m.Offset = i - m.Height + 1
	}
}

// =============================================================================
// View
// =============================================================================

func (m EditModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("neromind"))
	b.WriteString(outlineDimStyle.Render(fmt.Sprintf("  %d nodes · %s layout · %d undo", len(m.Snap.Nodes), layoutName(m.Editor.Settings().EnableRadialLayout), m.Editor.History().Size())))
	b.WriteString("\n")
	b.WriteString(outlineDimStyle.Render("↑/↓ move  ←/→ parent/child  tab child  ⏎ sibling  e edit  d delete  p pin  shift+arrows drag  r reset  L layout  u undo  ctrl+s save  q quit"))
	b.WriteString("\n\n")

	order := outlineOrder(m.Snap)
	depth := depths(m.Snap)
	start := min(m.Offset, len(order))
	end := min(start+m.Height, len(order))
	for _, id := range order[start:end] {
		n, _ := m.Snap.Node(id)
		b.WriteString(m.renderNode(n, depth[id]))
		b.WriteString("\n")
	}

	if m.Status != "" {
		b.WriteString("\n")
		if m.Err {
			b.WriteString(statusErrorStyle.Render(iconError + " " + m.Status))
		} else {
			b.WriteString(outlineDimStyle.Render(iconInfo + " " + m.Status))
		}
	}
	return b.String()
}

func (m EditModel) renderNode(n mindmap.Node, depth int) string {
	cursor := "  "
	style := outlineNormalStyle
	if n.ID == m.Cursor {
		cursor = "▸ "
		style = outlineCursorStyle
	}

	content := n.Content
	if m.editing && n.ID == m.Cursor {
		content = string(m.buffer) + "▏"
	}

	line := cursor + strings.Repeat("  ", depth) + style.Render(content)
	if n.IsPinned {
		line += " " + outlinePinStyle.Render(iconPin)
	}
	meta := fmt.Sprintf("(%.0f, %.0f)", n.Position.X, n.Position.Y)
	if n.Direction != mindmap.DirectionNone {
		meta = string(n.Direction) + " " + meta
	}
	if n.UserPosition {
		meta += " manual"
	}
	return line + "  " + outlineDimStyle.Render(meta)
}

func layoutName(radial bool) string {
	if radial {
		return "radial"
	}
	return "centered"
}

// outlineOrder lists node ids depth-first from the root.
func outlineOrder(snap state.Snapshot) []string {
	byID := make(map[string]mindmap.Node, len(snap.Nodes))
	for _, n := range snap.Nodes {
		byID[n.ID] = n
	}
	var out []string
	seen := map[string]bool{}
	var walk func(string)
	walk = func(id string) {
		n, ok := byID[id]
		if !ok || seen[id] {
			return
		}
		seen[id] = true
		out = append(out, id)
		for _, child := range n.ChildIDs {
			walk(child)
		}
	}
	walk(snap.RootID)
	return out
}

func depths(snap state.Snapshot) map[string]int {
	out := map[string]int{}
	byID := make(map[string]mindmap.Node, len(snap.Nodes))
	for _, n := range snap.Nodes {
		byID[n.ID] = n
	}
	var walk func(string, int)
	walk = func(id string, d int) {
		if _, seen := out[id]; seen {
			return
		}
		out[id] = d
		for _, child := range byID[id].ChildIDs {
			walk(child, d+1)
		}
	}
	walk(snap.RootID, 0)
	return out
}
