// Package state holds the single source of truth for an editing session.
//
// # Partitions
//
// State is split in two:
//
//   - [Persistent]: the graph, pinned nodes, persisted selection, viewport
//     and user settings. It changes only inside a [Command], which makes
//     every change undoable.
//   - [Ephemeral]: editing target, collapsed nodes, drag gesture and the
//     previous selection. It is transient and changes through plain setters
//     on the [Store].
//
// # Applying Changes
//
// [Store.Apply] runs an [Operation] against a [Context] that exposes both
// partitions, a clock and a best-effort event emitter, and returns a fresh
// [Snapshot]. A [Command] is turned into an operation with [Forward] (run
// it) or [Inverse] (undo it):
//
//	snap, err := store.Apply(state.Forward(cmd))
//	snap, err = store.Apply(state.Inverse(cmd))
//
// Commands are built outside this package and passed in; the store never
// constructs one itself.
//
// # Copies
//
// Every read path returns deep copies. A [Snapshot] shares no memory with
// the store, so callers may keep or mutate it freely.
//
// # Concurrency
//
// A Store is owned by one goroutine (an event loop) and is not safe for
// concurrent use. Operations are not re-entrant: an Execute or Undo must
// not call [Store.Apply].
package state
