package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveRun(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveRun(time.Now(), OutcomeSuccess, 3)
	m.ObserveRun(time.Now(), OutcomeExportFailed, 2)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Runs.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Runs.WithLabelValues(OutcomeExportFailed)))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.RecordsProcessed))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ExportFailures))
}

func TestObserveRun_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() { m.ObserveRun(time.Now(), OutcomeSuccess, 1) })
}
