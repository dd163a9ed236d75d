// Package observability provides hooks for metrics and tracing.
//
// The editing core reports what it does through small hook interfaces so
// that it never depends on a metrics backend. Binaries register an
// implementation at startup (see the promhooks subpackage for Prometheus);
// libraries call the registered hooks unconditionally and get no-ops when
// nothing was registered.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetHistoryHooks(&myHistoryHooks{})
//	    observability.SetLayoutHooks(&myLayoutHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	start := time.Now()
//	positions := layout.Radial(nodes, rootID, center)
//	observability.Layout().OnLayoutComplete("radial", "all", len(positions), time.Since(start))
package observability

import (
	"sync"
	"time"
)

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from the state store.
type StoreHooks interface {
	// OnApply records one operation applied through the store.
	OnApply(description string, inverse bool, duration time.Duration, err error)

	// OnHandlerPanic records an event handler that panicked and was recovered.
	OnHandlerPanic(event string)
}

// =============================================================================
// History Hooks
// =============================================================================

// HistoryHooks receives events from the undo history.
type HistoryHooks interface {
	// OnExecute records a command recorded in history. size is the history
	// length afterwards.
	OnExecute(description string, size int, err error)

	// OnCoalesce records a move merged into the previous entry.
	OnCoalesce(nodeID string)

	// OnEvict records the oldest entry dropped because history was full.
	OnEvict(description string)

	// OnUndo records an undo.
	OnUndo(description string, err error)
}

// =============================================================================
// Layout Hooks
// =============================================================================

// LayoutHooks receives events from automatic layout.
type LayoutHooks interface {
	// OnLayoutComplete records a layout recompute. scope is "all" or
	// "subtree"; nodeCount is the number of positions written.
	OnLayoutComplete(algorithm, scope string, nodeCount int, duration time.Duration)
}

// =============================================================================
// Map Store Hooks
// =============================================================================

// MapStoreHooks receives events from document storage backends.
type MapStoreHooks interface {
	// OnStorageOp records a backend operation such as "get" or "put".
	OnStorageOp(backend, op string, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnApply(string, bool, time.Duration, error) {}
func (NoopStoreHooks) OnHandlerPanic(string)                      {}

// NoopHistoryHooks is a no-op implementation of HistoryHooks.
type NoopHistoryHooks struct{}

func (NoopHistoryHooks) OnExecute(string, int, error) {}
func (NoopHistoryHooks) OnCoalesce(string)            {}
func (NoopHistoryHooks) OnEvict(string)               {}
func (NoopHistoryHooks) OnUndo(string, error)         {}

// NoopLayoutHooks is a no-op implementation of LayoutHooks.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnLayoutComplete(string, string, int, time.Duration) {}

// NoopMapStoreHooks is a no-op implementation of MapStoreHooks.
type NoopMapStoreHooks struct{}

func (NoopMapStoreHooks) OnStorageOp(string, string, time.Duration, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	storeHooks    StoreHooks    = NoopStoreHooks{}
	historyHooks  HistoryHooks  = NoopHistoryHooks{}
	layoutHooks   LayoutHooks   = NoopLayoutHooks{}
	mapStoreHooks MapStoreHooks = NoopMapStoreHooks{}
	hooksMu       sync.RWMutex
)

// SetStoreHooks registers custom store hooks.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// SetHistoryHooks registers custom history hooks.
func SetHistoryHooks(h HistoryHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		historyHooks = h
	}
}

// SetLayoutHooks registers custom layout hooks.
func SetLayoutHooks(h LayoutHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		layoutHooks = h
	}
}

// SetMapStoreHooks registers custom map store hooks.
func SetMapStoreHooks(h MapStoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		mapStoreHooks = h
	}
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// History returns the registered history hooks.
func History() HistoryHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return historyHooks
}

// Layout returns the registered layout hooks.
func Layout() LayoutHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return layoutHooks
}

// MapStore returns the registered map store hooks.
func MapStore() MapStoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return mapStoreHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	storeHooks = NoopStoreHooks{}
	historyHooks = NoopHistoryHooks{}
	layoutHooks = NoopLayoutHooks{}
	mapStoreHooks = NoopMapStoreHooks{}
}
