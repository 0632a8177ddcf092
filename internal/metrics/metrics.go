package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Tree metrics cover only the whole-structure operations (set algebra,
// InsertAll, Resize). Point operations are not instrumented.
var (
	// BulkOperationsTotal counts whole-tree operations by kind
	BulkOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vebtree_bulk_operations_total",
			Help: "Total number of whole-tree operations (invert, and, or, xor, insert_all, resize)",
		},
		[]string{"op"},
	)

	// BulkOperationDurationSeconds measures the latency of whole-tree operations
	BulkOperationDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vebtree_bulk_operation_duration_seconds",
			Help:    "Duration of whole-tree operations",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		},
		[]string{"op"},
	)

	// ResizedElementsDropped counts elements discarded by shrinking resizes
	ResizedElementsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vebtree_resize_dropped_elements_total",
			Help: "Elements dropped because they fell outside a shrunken universe",
		},
	)
)

// Driver metrics are recorded by cmd/vebtest.
var (
	// TrialsTotal counts verification trials by outcome
	TrialsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vebtree_trials_total",
			Help: "Total number of verification trials by status",
		},
		[]string{"status"},
	)

	// PhaseDurationSeconds measures each verification phase
	PhaseDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vebtree_phase_duration_seconds",
			Help:    "Duration of verification phases",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 16),
		},
		[]string{"phase"},
	)

	// ElementOperationsTotal counts point operations issued by the driver
	ElementOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vebtree_element_operations_total",
			Help: "Total number of point operations issued by the verification driver",
		},
		[]string{"op"},
	)

	// PopulatedElements tracks the element count of the most recent populated tree
	PopulatedElements = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vebtree_populated_elements",
			Help: "Number of distinct elements in the most recently populated tree",
		},
	)
)
