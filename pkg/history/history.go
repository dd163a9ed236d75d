// Package history records executed commands so they can be undone.
//
// # Overview
//
// [Manager] wraps a [state.Store]. Every command executed through it is
// applied to the store and pushed onto a bounded queue; [Manager.Undo] pops
// the newest entry and applies its inverse. There is no redo: an undone
// command is discarded.
//
// # Capacity
//
// The queue holds 10 entries by default. Recording one more evicts the
// oldest, which can then never be undone.
//
// # Move Coalescing
//
// A drag produces a stream of [command.MoveNode] values. Consecutive moves
// of the same node that arrive within the coalescing window (300ms by
// default) of the previous move's last application are merged: the queued
// move is retargeted and re-applied instead of recording a new entry, so a
// whole drag is one undo step. [Manager.EndMoveCoalescing] marks the end of
// a gesture; the next move then always starts a new entry.
//
// # Usage
//
//	h := history.New(store)
//	if _, err := h.Execute(command.NewCreateNode(node)); err != nil {
//	    return err
//	}
//	if h.CanUndo() {
//	    snap, err := h.Undo()
//	}
package history

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/kknero/neromind/pkg/command"
	"github.com/kknero/neromind/pkg/errors"
	"github.com/kknero/neromind/pkg/observability"
	"github.com/kknero/neromind/pkg/state"
)

// Defaults for [New].
const (
	DefaultCapacity       = 10
	DefaultCoalesceWindow = 300 * time.Millisecond
)

// ErrEmptyHistory is returned by [Manager.Undo] when nothing is recorded.
var ErrEmptyHistory = errors.New(errors.ErrCodeEmptyHistory, "no history to undo")

// Manager is a bounded undo history over a store. It is not safe for
// concurrent use.
type Manager struct {
	store    *state.Store
	queue    []state.Command
	capacity int
	window   time.Duration
	blocked  bool
	logger   *log.Logger
}

// Option configures a [Manager].
type Option func(*Manager)

// WithCapacity sets the maximum number of entries. Values below 1 are
// ignored.
func WithCapacity(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.capacity = n
		}
	}
}

// WithCoalesceWindow sets how close two moves must be to merge.
func WithCoalesceWindow(d time.Duration) Option {
	return func(m *Manager) {
		if d >= 0 {
			m.window = d
		}
	}
}

// WithLogger sets the logger for debug output.
func WithLogger(l *log.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// New creates a history over store.
func New(store *state.Store, opts ...Option) *Manager {
	m := &Manager{
		store:    store,
		capacity: DefaultCapacity,
		window:   DefaultCoalesceWindow,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Execute applies cmd and records it. A move that coalesces with the
// previous entry is merged into it instead. A command that fails is not
// recorded.
func (m *Manager) Execute(cmd state.Command) (state.Snapshot, error) {
	if snap, ok := m.tryCoalesce(cmd); ok {
		return snap, nil
	}

	snap, err := m.store.Apply(state.Forward(cmd))
	if err != nil {
		m.logger.Debug("command failed", "cmd", cmd.Description(), "err", err)
		observability.History().OnExecute(cmd.Description(), len(m.queue), err)
		return snap, err
	}

	m.queue = append(m.queue, cmd)
	if len(m.queue) > m.capacity {
		evicted := m.queue[0]
		m.queue[0] = nil
		m.queue = m.queue[1:]
		m.logger.Debug("history full, dropped oldest", "cmd", evicted.Description())
		observability.History().OnEvict(evicted.Description())
	}
	observability.History().OnExecute(cmd.Description(), len(m.queue), nil)
	return snap, nil
}

// ExecuteBatch applies cmds as one [command.Transaction] entry.
func (m *Manager) ExecuteBatch(description string, cmds ...state.Command) (state.Snapshot, error) {
	return m.Execute(command.NewTransaction(description, cmds...))
}

// EndMoveCoalescing marks the end of a drag. The next move is recorded as
// a new entry.
func (m *Manager) EndMoveCoalescing() { m.blocked = true }

func (m *Manager) tryCoalesce(cmd state.Command) (state.Snapshot, bool) {
	next, ok := cmd.(*command.MoveNode)
	if !ok {
		m.blocked = false
		return state.Snapshot{}, false
	}
	if m.blocked {
		m.blocked = false
		return state.Snapshot{}, false
	}
	if len(m.queue) == 0 {
		return state.Snapshot{}, false
	}
	last, ok := m.queue[len(m.queue)-1].(*command.MoveNode)
	if !ok || !m.canMerge(last, next) {
		return state.Snapshot{}, false
	}

	last.UpdateNextPosition(next.NextPosition())
	snap, err := m.store.Apply(state.Forward(last))
	if err != nil {
		return state.Snapshot{}, false
	}
	observability.History().OnCoalesce(last.NodeID())
	return snap, true
}

func (m *Manager) canMerge(prev, next *command.MoveNode) bool {
	if prev.NodeID() != next.NodeID() {
		return false
	}
	applied := prev.LastAppliedAt()
	if applied.IsZero() {
		return false
	}
	return next.CreatedAt().Sub(applied) <= m.window
}

// Undo reverts the newest entry and discards it. It returns
// [ErrEmptyHistory] when nothing is recorded.
func (m *Manager) Undo() (state.Snapshot, error) {
	if !m.CanUndo() {
		observability.History().OnUndo("", ErrEmptyHistory)
		return m.store.Snapshot(), ErrEmptyHistory
	}

	cmd := m.queue[len(m.queue)-1]
	m.queue[len(m.queue)-1] = nil
	m.queue = m.queue[:len(m.queue)-1]

	snap, err := m.store.Apply(state.Inverse(cmd))
	observability.History().OnUndo(cmd.Description(), err)
	if err != nil {
		m.logger.Debug("undo failed", "cmd", cmd.Description(), "err", err)
	}
	return snap, err
}

// CanUndo reports whether there is anything to undo.
func (m *Manager) CanUndo() bool { return len(m.queue) > 0 }

// Size returns the number of recorded entries.
func (m *Manager) Size() int { return len(m.queue) }

// Descriptions returns the recorded entries' descriptions, oldest first.
func (m *Manager) Descriptions() []string {
	out := make([]string, len(m.queue))
	for i, cmd := range m.queue {
		out[i] = cmd.Description()
	}
	return out
}

// Clear drops every entry.
func (m *Manager) Clear() {
	clear(m.queue)
	m.queue = m.queue[:0]
	m.blocked = false
}

// Store returns the wrapped store.
func (m *Manager) Store() *state.Store { return m.store }

// Destroy clears the history and destroys the store.
func (m *Manager) Destroy() {
	m.Clear()
	m.store.Destroy()
}
