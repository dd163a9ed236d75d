package observability

import (
	"errors"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	s := NoopStoreHooks{}
	s.OnApply("Move node", false, time.Millisecond, nil)
	s.OnHandlerPanic("nodeCreated")

	h := NoopHistoryHooks{}
	h.OnExecute("Create node", 1, nil)
	h.OnCoalesce("n1")
	h.OnEvict("Move node")
	h.OnUndo("Move node", errors.New("empty"))

	l := NoopLayoutHooks{}
	l.OnLayoutComplete("radial", "all", 12, time.Millisecond)

	m := NoopMapStoreHooks{}
	m.OnStorageOp("file", "put", time.Millisecond, nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Store().(NoopStoreHooks); !ok {
		t.Error("Store() should return NoopStoreHooks by default")
	}
	if _, ok := History().(NoopHistoryHooks); !ok {
		t.Error("History() should return NoopHistoryHooks by default")
	}
	if _, ok := Layout().(NoopLayoutHooks); !ok {
		t.Error("Layout() should return NoopLayoutHooks by default")
	}
	if _, ok := MapStore().(NoopMapStoreHooks); !ok {
		t.Error("MapStore() should return NoopMapStoreHooks by default")
	}

	customStore := &testStoreHooks{}
	SetStoreHooks(customStore)
	if Store() != customStore {
		t.Error("SetStoreHooks should set custom hooks")
	}

	customHistory := &testHistoryHooks{}
	SetHistoryHooks(customHistory)
	if History() != customHistory {
		t.Error("SetHistoryHooks should set custom hooks")
	}

	customLayout := &testLayoutHooks{}
	SetLayoutHooks(customLayout)
	if Layout() != customLayout {
		t.Error("SetLayoutHooks should set custom hooks")
	}

	customMapStore := &testMapStoreHooks{}
	SetMapStoreHooks(customMapStore)
	if MapStore() != customMapStore {
		t.Error("SetMapStoreHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := History().(NoopHistoryHooks); !ok {
		t.Error("Reset() should restore NoopHistoryHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testHistoryHooks{}
	SetHistoryHooks(custom)

	// Setting nil should be ignored
	SetHistoryHooks(nil)

	if History() != custom {
		t.Error("SetHistoryHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testStoreHooks struct{ NoopStoreHooks }
type testHistoryHooks struct{ NoopHistoryHooks }
type testLayoutHooks struct{ NoopLayoutHooks }
type testMapStoreHooks struct{ NoopMapStoreHooks }
