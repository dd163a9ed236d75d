package promhooks

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kknero/neromind/pkg/observability"
)

func TestHooksRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := New(reg)

	h.OnApply("Move node", false, time.Millisecond, nil)
	h.OnApply("Move node", true, time.Millisecond, nil)
	h.OnApply("Delete node", false, time.Millisecond, errors.New("boom"))
	h.OnHandlerPanic("nodeMoved")

	h.OnExecute("Add node", 1, nil)
	h.OnExecute("Add node", 2, nil)
	h.OnCoalesce("n1")
	h.OnEvict("Add node")
	h.OnUndo("Add node", nil)

	h.OnLayoutComplete("radial", "all", 5, 2*time.Millisecond)
	h.OnStorageOp("file", "put", time.Millisecond, nil)
	h.OnStorageOp("redis", "get", time.Millisecond, errors.New("down"))

	assert.Equal(t, 1.0, testutil.ToFloat64(h.ApplyTotal.WithLabelValues("forward", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(h.ApplyTotal.WithLabelValues("inverse", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(h.ApplyTotal.WithLabelValues("forward", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(h.HandlerPanics.WithLabelValues("nodeMoved")))
	assert.Equal(t, 2.0, testutil.ToFloat64(h.HistoryExecuted.WithLabelValues("Add node", "ok")))
	assert.Equal(t, 2.0, testutil.ToFloat64(h.HistorySize))
	assert.Equal(t, 1.0, testutil.ToFloat64(h.HistoryCoalesced))
	assert.Equal(t, 1.0, testutil.ToFloat64(h.HistoryEvicted))
	assert.Equal(t, 1.0, testutil.ToFloat64(h.UndoTotal.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(h.LayoutTotal.WithLabelValues("radial", "all")))
	assert.Equal(t, 1.0, testutil.ToFloat64(h.StorageTotal.WithLabelValues("file", "put", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(h.StorageTotal.WithLabelValues("redis", "get", "error")))
}

func TestRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := New(reg)
	h.OnLayoutComplete("center", "subtree", 3, time.Millisecond)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["neromind_layout_total"])
	assert.True(t, names["neromind_layout_duration_seconds"])

	assert.Panics(t, func() { New(reg) }, "registering twice should collide")
}

func TestInstall(t *testing.T) {
	t.Cleanup(observability.Reset)

	h := New(prometheus.NewRegistry())
	h.Install()

	observability.Layout().OnLayoutComplete("center", "all", 2, time.Millisecond)
	observability.MapStore().OnStorageOp("file", "list", time.Millisecond, nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(h.LayoutTotal.WithLabelValues("center", "all")))
	assert.Equal(t, 1, testutil.CollectAndCount(h.StorageTotal))
}
