// Package promhooks implements the observability hooks with Prometheus
// metrics.
//
//	reg := prometheus.NewRegistry()
//	promhooks.New(reg).Install()
//	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
package promhooks

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/kknero/neromind/pkg/observability"
)

const namespace = "neromind"

// Hooks records store, history, layout and map store activity.
type Hooks struct {
	ApplyTotal       *prometheus.CounterVec
	ApplyDuration    prometheus.Histogram
	HandlerPanics    *prometheus.CounterVec
	HistoryExecuted  *prometheus.CounterVec
	HistorySize      prometheus.Gauge
	HistoryCoalesced prometheus.Counter
	HistoryEvicted   prometheus.Counter
	UndoTotal        *prometheus.CounterVec
	LayoutTotal      *prometheus.CounterVec
	LayoutDuration   *prometheus.HistogramVec
	LayoutNodes      *prometheus.HistogramVec
	StorageTotal     *prometheus.CounterVec
	StorageDuration  *prometheus.HistogramVec
}

// New creates the metrics and registers them with reg.
func New(reg prometheus.Registerer) *Hooks {
	f := promauto.With(reg)
	return &Hooks{
		ApplyTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_apply_total",
			Help:      "Operations applied through the state store",
		}, []string{"mode", "status"}),
		ApplyDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_apply_duration_seconds",
			Help:      "Time spent applying one operation",
			Buckets:   []float64{0.00001, 0.0001, 0.001, 0.01, 0.1},
		}),
		HandlerPanics: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_handler_panics_total",
			Help:      "Event handlers that panicked and were recovered",
		}, []string{"event"}),
		HistoryExecuted: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "history_execute_total",
			Help:      "Commands executed through the history",
		}, []string{"command", "status"}),
		HistorySize: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "history_size",
			Help:      "Entries currently held by the history",
		}),
		HistoryCoalesced: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "history_coalesced_moves_total",
			Help:      "Moves merged into the previous history entry",
		}),
		HistoryEvicted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "history_evicted_total",
			Help:      "Entries dropped because the history was full",
		}),
		UndoTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "history_undo_total",
			Help:      "Undo requests",
		}, []string{"status"}),
		LayoutTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "layout_total",
			Help:      "Layout recomputes",
		}, []string{"algorithm", "scope"}),
		LayoutDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "layout_duration_seconds",
			Help:      "Time spent computing and applying a layout",
			Buckets:   []float64{0.0001, 0.001, 0.005, 0.01, 0.05, 0.1},
		}, []string{"algorithm"}),
		LayoutNodes: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "layout_moved_nodes",
			Help:      "Nodes moved by one layout recompute",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 6),
		}, []string{"algorithm"}),
		StorageTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mapstore_operations_total",
			Help:      "Map store operations",
		}, []string{"backend", "operation", "status"}),
		StorageDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "mapstore_operation_duration_seconds",
			Help:      "Map store operation duration",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}, []string{"backend", "operation"}),
	}
}

// Install registers h as every global hook.
func (h *Hooks) Install() {
	observability.SetStoreHooks(h)
	observability.SetHistoryHooks(h)
	observability.SetLayoutHooks(h)
	observability.SetMapStoreHooks(h)
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (h *Hooks) OnApply(description string, inverse bool, duration time.Duration, err error) {
	mode := "forward"
	if inverse {
		mode = "inverse"
	}
	h.ApplyTotal.WithLabelValues(mode, status(err)).Inc()
	h.ApplyDuration.Observe(duration.Seconds())
}

func (h *Hooks) OnHandlerPanic(event string) {
	h.HandlerPanics.WithLabelValues(event).Inc()
}

func (h *Hooks) OnExecute(description string, size int, err error) {
	h.HistoryExecuted.WithLabelValues(description, status(err)).Inc()
	h.HistorySize.Set(float64(size))
}

func (h *Hooks) OnCoalesce(nodeID string) { h.HistoryCoalesced.Inc() }

func (h *Hooks) OnEvict(description string) { h.HistoryEvicted.Inc() }

func (h *Hooks) OnUndo(description string, err error) {
	h.UndoTotal.WithLabelValues(status(err)).Inc()
}

func (h *Hooks) OnLayoutComplete(algorithm, scope string, nodeCount int, duration time.Duration) {
	h.LayoutTotal.WithLabelValues(algorithm, scope).Inc()
	h.LayoutDuration.WithLabelValues(algorithm).Observe(duration.Seconds())
	h.LayoutNodes.WithLabelValues(algorithm).Observe(float64(nodeCount))
}

func (h *Hooks) OnStorageOp(backend, op string, duration time.Duration, err error) {
	h.StorageTotal.WithLabelValues(backend, op, status(err)).Inc()
	h.StorageDuration.WithLabelValues(backend, op).Observe(duration.Seconds())
}

var (
	_ observability.StoreHooks    = (*Hooks)(nil)
	_ observability.HistoryHooks  = (*Hooks)(nil)
	_ observability.LayoutHooks   = (*Hooks)(nil)
	_ observability.MapStoreHooks = (*Hooks)(nil)
)
