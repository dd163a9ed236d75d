package state

import (
	"time"

	"github.com/kknero/neromind/pkg/events"
	"github.com/kknero/neromind/pkg/mindmap"
)

// Operation is anything the store can apply.
type Operation interface {
	Execute(ctx *Context) error
	Description() string
}

// Command is a reversible change to persistent state. Undo after Execute
// must leave the state observably as it was before, timestamps aside.
// Execute may run again after Undo; a command captures what it needs to
// restore the first time it runs.
type Command interface {
	Operation
	Undo(ctx *Context) error
}

// Mode tells a [Step] which half of a command to run.
type Mode int

const (
	ModeForward Mode = iota
	ModeInverse
)

func (m Mode) String() string {
	if m == ModeInverse {
		return "inverse"
	}
	return "forward"
}

// Step applies a command forwards or backwards.
type Step struct {
	Command Command
	Mode    Mode
}

// Forward returns a step that executes cmd.
func Forward(cmd Command) Step { return Step{Command: cmd, Mode: ModeForward} }

// Inverse returns a step that undoes cmd.
func Inverse(cmd Command) Step { return Step{Command: cmd, Mode: ModeInverse} }

// Execute runs the command's Execute or Undo depending on the mode.
func (s Step) Execute(ctx *Context) error {
	if s.Command == nil {
		return nil
	}
	if s.Mode == ModeInverse {
		return s.Command.Undo(ctx)
	}
	return s.Command.Execute(ctx)
}

// Description returns the command description, prefixed for inverse steps.
func (s Step) Description() string {
	if s.Command == nil {
		return ""
	}
	if s.Mode == ModeInverse {
		return "Undo: " + s.Command.Description()
	}
	return s.Command.Description()
}

// =============================================================================
// Context
// =============================================================================

// Context is what an operation sees while it runs. It is only valid for
// the duration of one [Store.Apply] call.
type Context struct {
	Persistent *Persistent
	Ephemeral  *Ephemeral

	now  func() time.Time
	emit func(events.Name, any)
}

// Graph returns the live graph.
func (c *Context) Graph() *mindmap.Graph { return c.Persistent.Graph }

// Node returns the live node for id, or nil.
func (c *Context) Node(id string) *mindmap.Node { return c.Persistent.Graph.Node(id) }

// Now returns the store clock's current time.
func (c *Context) Now() time.Time {
	if c.now == nil {
		return time.Now()
	}
	return c.now()
}

// Emit publishes an event. It never fails and never panics.
func (c *Context) Emit(name events.Name, payload any) {
	if c.emit != nil {
		c.emit(name, payload)
	}
}

// Touch stamps n as updated now.
func (c *Context) Touch(n *mindmap.Node) {
	n.UpdatedAt = c.Now()
}
