// Package events provides the in-memory event bus used by the state store
// and commands to announce changes.
//
// Delivery is synchronous and best-effort. A panicking handler is recovered
// and logged; it never reaches the publisher and never affects the other
// handlers. Subscribers must tolerate duplicate or stale payloads: by the
// time a handler runs, the store may already have moved on.
package events

import (
	"io"
	"maps"
	"slices"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/kknero/neromind/pkg/layout"
	"github.com/kknero/neromind/pkg/mindmap"
	"github.com/kknero/neromind/pkg/observability"
	"github.com/kknero/neromind/pkg/settings"
)

// Name identifies an event.
type Name string

// Events surfaced by the store and commands.
const (
	NodeCreated           Name = "nodeCreated"
	NodeUpdated           Name = "nodeUpdated"
	NodeDeleted           Name = "nodeDeleted"
	LayoutResetRequested  Name = "layoutResetRequested"
	LayoutSettingsChanged Name = "layoutSettingsChanged"
)

// NodeCreatedPayload carries a copy of the inserted node.
type NodeCreatedPayload struct {
	Node mindmap.Node
}

// NodeUpdatedPayload carries a copy of the node after the change.
type NodeUpdatedPayload struct {
	Node mindmap.Node
}

// NodeDeletedPayload names the removed node.
type NodeDeletedPayload struct {
	NodeID string
}

// LayoutResetPayload lists the nodes that were handed back to automatic
// layout. Each id is the root of a subtree to recompute.
type LayoutResetPayload struct {
	RootIDs []string
}

// LayoutSettingsPayload carries the layout settings to adopt and the part
// of the map to recompute. Scope.RootID is set for subtree scopes.
type LayoutSettingsPayload struct {
	Settings settings.Layout
	Scope    layout.Scope
}

// Handler receives an event payload.
type Handler func(payload any)

type subscription struct {
	id      uint64
	handler Handler
}

// Bus is a synchronous publish/subscribe hub.
// It is safe for concurrent subscription, but handlers run on the
// publisher's goroutine.
type Bus struct {
	mu       sync.RWMutex
	nextID   uint64
	handlers map[Name][]subscription
	logger   *log.Logger
}

// NewBus creates an empty bus. A nil logger discards handler failures.
func NewBus(logger *log.Logger) *Bus {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Bus{
		handlers: make(map[Name][]subscription),
		logger:   logger,
	}
}

// On subscribes handler to name and returns a function that removes the
// subscription. Calling the returned function more than once is harmless.
func (b *Bus) On(name Name, handler Handler) func() {
	if handler == nil {
		return func() {}
	}
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.handlers[name] = append(b.handlers[name], subscription{id: id, handler: handler})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		subs := slices.DeleteFunc(b.handlers[name], func(s subscription) bool { return s.id == id })
		if len(subs) == 0 {
			delete(b.handlers, name)
			return
		}
		b.handlers[name] = subs
	}
}

// Emit delivers payload to every handler subscribed to name, in
// subscription order. Handlers may subscribe or unsubscribe while running;
// the change takes effect from the next Emit.
func (b *Bus) Emit(name Name, payload any) {
	b.mu.RLock()
	subs := slices.Clone(b.handlers[name])
	b.mu.RUnlock()

	for _, s := range subs {
		b.deliver(name, s.handler, payload)
	}
}

func (b *Bus) deliver(name Name, h Handler, payload any) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Debug("event handler failed", "event", name, "panic", r)
			observability.Store().OnHandlerPanic(string(name))
		}
	}()
	h(payload)
}

// Subscribed returns the event names that currently have handlers, sorted.
func (b *Bus) Subscribed() []Name {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Sorted(maps.Keys(b.handlers))
}
