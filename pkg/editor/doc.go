// Package editor ties the editing core together into one session.
//
// An [Editor] owns an event bus, a state store, an undo history, a
// direction planner and a layout scheduler. User actions (add a child, add
// a sibling, move, edit, delete, select, undo) go through the history as
// commands. Layout output does not: recomputed positions are written
// straight through the store so they never become undo entries.
//
// # Layout Requests
//
// The editor listens for layoutResetRequested and layoutSettingsChanged
// and turns them into scheduled recomputes. Structural edits schedule a
// recompute of the parent's subtree when auto-align is on. By default the
// editor is synchronous: pending requests run before each action returns.
// [WithAsyncLayout] switches to the debounced mode, where the scheduler
// hands merged requests to a callback and the owner runs them on its own
// loop with [Editor.Relayout].
//
// # Usage
//
//	ed := editor.New(editor.WithViewport(layout.Viewport{Width: 800, Height: 600}))
//	root, _, _ := ed.Init("Project")
//	child, _, _ := ed.AddChild(root, "Research")
//	ed.Move(child, mindmap.Position{X: 620, Y: 180})
//	ed.EndDrag()
//	ed.Undo()
package editor
