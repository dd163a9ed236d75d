// Package schedule batches layout requests behind a debounce timer.
//
// Edits arrive in bursts: a drag, a paste, a settings toggle. Each asks for
// a relayout of some subtree or of the whole map. A [Scheduler] merges them
// into one pending [Request] and hands it to a callback once no new request
// has arrived for the debounce window. A request for the whole map absorbs
// every subtree request; subtree roots are otherwise unioned.
//
// The callback runs on the timer's goroutine. Event-loop callers forward it
// into their loop (bubbletea's Program.Send, for example). Synchronous
// callers create the scheduler without a delay and call [Scheduler.Flush]
// when they are ready.
package schedule

import (
	"io"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/kknero/neromind/pkg/layout"
)

// DefaultDelay is the debounce window used by the editor.
const DefaultDelay = 140 * time.Millisecond

// Request is a merged set of layout requests.
type Request struct {
	All     bool
	RootIDs []string
}

// Scopes expands the request into layout scopes. A request for the whole
// map, or one with no subtree roots, is a single [layout.All].
func (r Request) Scopes() []layout.Scope {
	if r.All || len(r.RootIDs) == 0 {
		return []layout.Scope{layout.All()}
	}
	out := make([]layout.Scope, len(r.RootIDs))
	for i, id := range r.RootIDs {
		out[i] = layout.Subtree(id)
	}
	return out
}

// Scheduler merges and debounces layout requests. It is safe for
// concurrent use.
type Scheduler struct {
	mu      sync.Mutex
	delay   time.Duration
	fire    func(Request)
	pending *pending
	timer   *time.Timer
	logger  *log.Logger
}

type pending struct {
	all   bool
	roots map[string]bool
}

// Option configures a [Scheduler].
type Option func(*Scheduler)

// WithLogger sets the logger for debug output.
func WithLogger(l *log.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a scheduler that calls fire with each merged request. With a
// delay of zero or less no timer is armed and requests wait for
// [Scheduler.Flush].
func New(delay time.Duration, fire func(Request), opts ...Option) *Scheduler {
	s := &Scheduler{
		delay:  delay,
		fire:   fire,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Enqueue adds a layout request for scope and restarts the debounce timer.
func (s *Scheduler) Enqueue(scope layout.Scope) {
	s.mu.Lock()
	if s.pending == nil {
		s.pending = &pending{roots: make(map[string]bool)}
	}
	switch {
	case !scope.IsSubtree():
		s.pending.all = true
		clear(s.pending.roots)
	case !s.pending.all:
		s.pending.roots[scope.RootID] = true
	}

	if s.delay <= 0 {
		s.mu.Unlock()
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, s.onTimer)
	s.mu.Unlock()
}

// EnqueueRoots adds a subtree request for each id. With no ids it requests
// the whole map.
func (s *Scheduler) EnqueueRoots(ids ...string) {
	if len(ids) == 0 {
		s.Enqueue(layout.All())
		return
	}
	for _, id := range ids {
		s.Enqueue(layout.Subtree(id))
	}
}

// Pending reports whether a request is waiting for the timer.
func (s *Scheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending != nil
}

// Flush fires the pending request now, if any, and reports whether it did.
func (s *Scheduler) Flush() bool {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.pending == nil {
		s.mu.Unlock()
		return false
	}
	req := s.takeLocked()
	s.mu.Unlock()

	s.fire(req)
	return true
}

// Stop cancels the timer and drops the pending request.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.pending = nil
}

func (s *Scheduler) onTimer() {
	s.mu.Lock()
	s.timer = nil
	if s.pending == nil {
		s.mu.Unlock()
		return
	}
	req := s.takeLocked()
	s.mu.Unlock()

	s.logger.Debug("layout flush", "all", req.All, "roots", len(req.RootIDs))
	s.fire(req)
}

func (s *Scheduler) takeLocked() Request {
	p := s.pending
	s.pending = nil
	req := Request{All: p.all}
	for id := range p.roots {
		req.RootIDs = append(req.RootIDs, id)
	}
	slices.Sort(req.RootIDs)
	return req
}
