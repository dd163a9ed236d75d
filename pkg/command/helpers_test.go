package command

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kknero/neromind/pkg/events"
	"github.com/kknero/neromind/pkg/mindmap"
	"github.com/kknero/neromind/pkg/state"
)

type recorder struct {
	names []events.Name
	last  map[events.Name]any
}

func record(bus *events.Bus) *recorder {
	r := &recorder{last: make(map[events.Name]any)}
	for _, name := range []events.Name{
		events.NodeCreated, events.NodeUpdated, events.NodeDeleted,
		events.LayoutResetRequested, events.LayoutSettingsChanged,
	} {
		bus.On(name, func(p any) {
			r.names = append(r.names, name)
			r.last[name] = p
		})
	}
	return r
}

func (r *recorder) count(name events.Name) int {
	n := 0
	for _, got := range r.names {
		if got == name {
			n++
		}
	}
	return n
}

// newTree builds r -> (a -> a1, b) through commands and returns the store.
func newTree(t *testing.T, opts ...state.Option) *state.Store {
	t.Helper()
	s := state.New(opts...)
	for _, n := range []mindmap.Node{
		{ID: "r", Content: "root"},
		{ID: "a", ParentID: "r", Content: "alpha", Direction: mindmap.DirectionRight},
		{ID: "b", ParentID: "r", Content: "beta", Direction: mindmap.DirectionLeft},
		{ID: "a1", ParentID: "a", Content: "alpha one", Direction: mindmap.DirectionRight},
	} {
		_, err := s.Apply(state.Forward(NewCreateNode(n)))
		require.NoError(t, err)
	}
	return s
}

// stripTimes clears timestamps so snapshots can be compared structurally.
func stripTimes(s state.Snapshot) state.Snapshot {
	for i := range s.Nodes {
		s.Nodes[i].CreatedAt = time.Time{}
		s.Nodes[i].UpdatedAt = time.Time{}
	}
	return s
}

type failing struct{ undone bool }

func (f *failing) Execute(*state.Context) error { return errors.New("boom") }

func (f *failing) Undo(*state.Context) error {
	f.undone = true
	return nil
}

func (f *failing) Description() string { return "Fail" }

// trace records the order in which commands run and undo.
type trace struct {
	name string
	log  *[]string
	err  error
}

func (c *trace) Execute(*state.Context) error {
	*c.log = append(*c.log, "do "+c.name)
	return nil
}

func (c *trace) Undo(*state.Context) error {
	*c.log = append(*c.log, "undo "+c.name)
	return c.err
}

func (c *trace) Description() string { return c.name }

type fakeClock struct{ t time.Time }

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }
