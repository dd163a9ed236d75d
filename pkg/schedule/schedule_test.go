package schedule

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kknero/neromind/pkg/layout"
)

type sink struct {
	mu   sync.Mutex
	reqs []Request
	done chan struct{}
}

func newSink() *sink { return &sink{done: make(chan struct{}, 16)} }

func (s *sink) fire(r Request) {
	s.mu.Lock()
	s.reqs = append(s.reqs, r)
	s.mu.Unlock()
	s.done <- struct{}{}
}

func (s *sink) got() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.reqs...)
}

func TestMergeSubtrees(t *testing.T) {
	out := newSink()
	s := New(time.Hour, out.fire)

	s.Enqueue(layout.Subtree("b"))
	s.Enqueue(layout.Subtree("a"))
	s.Enqueue(layout.Subtree("b"))
	require.True(t, s.Pending())
	require.True(t, s.Flush())

	assert.Equal(t, []Request{{RootIDs: []string{"a", "b"}}}, out.got())
	assert.False(t, s.Pending())
	assert.False(t, s.Flush(), "nothing left to flush")
}

func TestAllAbsorbsSubtrees(t *testing.T) {
	tests := []struct {
		name   string
		scopes []layout.Scope
	}{
		{"all last", []layout.Scope{layout.Subtree("a"), layout.All()}},
		{"all first", []layout.Scope{layout.All(), layout.Subtree("a")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := newSink()
			s := New(time.Hour, out.fire)
			for _, scope := range tt.scopes {
				s.Enqueue(scope)
			}
			s.Flush()

			reqs := out.got()
			require.Len(t, reqs, 1)
			assert.True(t, reqs[0].All)
			assert.Empty(t, reqs[0].RootIDs)
			assert.Equal(t, []layout.Scope{layout.All()}, reqs[0].Scopes())
		})
	}
}

func TestDebounce(t *testing.T) {
	out := newSink()
	s := New(20*time.Millisecond, out.fire)

	for range 5 {
		s.Enqueue(layout.Subtree("a"))
		time.Sleep(2 * time.Millisecond)
	}

	select {
	case <-out.done:
	case <-time.After(2 * time.Second):
		t.Fatal("timer never fired")
	}
	time.Sleep(40 * time.Millisecond)
	assert.Len(t, out.got(), 1, "a burst fires once")
}

func TestZeroDelayWaitsForFlush(t *testing.T) {
	out := newSink()
	s := New(0, out.fire)

	s.EnqueueRoots("x", "y")
	time.Sleep(10 * time.Millisecond)
	assert.Empty(t, out.got())
	require.True(t, s.Pending())

	s.Flush()
	s.EnqueueRoots()
	s.Flush()
	assert.Equal(t, []Request{{RootIDs: []string{"x", "y"}}, {All: true}}, out.got())
	assert.False(t, s.Pending())
}

func TestStop(t *testing.T) {
	out := newSink()
	s := New(10*time.Millisecond, out.fire)
	s.Enqueue(layout.All())
	s.Stop()

	time.Sleep(30 * time.Millisecond)
	assert.Empty(t, out.got())
	assert.False(t, s.Pending())
}

func TestRequestScopes(t *testing.T) {
	r := Request{RootIDs: []string{"a", "b"}}
	assert.Equal(t, []layout.Scope{layout.Subtree("a"), layout.Subtree("b")}, r.Scopes())
	assert.Equal(t, []layout.Scope{layout.All()}, Request{}.Scopes())
}
