// Package command implements the reversible editing commands.
//
// Every type here satisfies [state.Command]: Execute applies the change,
// Undo restores what Execute captured. Commands are plain values built by
// the caller and handed to the history manager or directly to
// [state.Store.Apply]:
//
//	cmd := command.NewMoveNode("n-1", mindmap.Position{X: 120, Y: 40})
//	snap, err := history.Execute(cmd)
//
// # Failure Semantics
//
// A command that refers to a node that does not exist is a silent no-op;
// a missed edit is preferred over a corrupted graph. The only command that
// returns an error from Execute is [Transaction], after rolling back.
//
// # Events
//
// Commands announce what they changed through the context's emitter:
// nodeCreated, nodeUpdated and nodeDeleted for graph changes,
// layoutResetRequested when nodes are handed back to automatic layout and
// layoutSettingsChanged when the layout algorithm should change.
package command
