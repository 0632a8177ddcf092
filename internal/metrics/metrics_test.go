package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsInitialization(t *testing.T) {
	assert.NotNil(t, BulkOperationsTotal)
	assert.NotNil(t, BulkOperationDurationSeconds)
	assert.NotNil(t, ResizedElementsDropped)
	assert.NotNil(t, TrialsTotal)
	assert.NotNil(t, PhaseDurationSeconds)
	assert.NotNil(t, ElementOperationsTotal)
	assert.NotNil(t, PopulatedElements)
}

func TestMetricsRecording(t *testing.T) {
	before := testutil.ToFloat64(BulkOperationsTotal.WithLabelValues("xor"))
	BulkOperationsTotal.WithLabelValues("xor").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(BulkOperationsTotal.WithLabelValues("xor")))

	PopulatedElements.Set(42)
	assert.Equal(t, float64(42), testutil.ToFloat64(PopulatedElements))

	PhaseDurationSeconds.WithLabelValues("walks").Observe(0.01)
	assert.Equal(t, 1, testutil.CollectAndCount(PhaseDurationSeconds, "vebtree_phase_duration_seconds"))
}
