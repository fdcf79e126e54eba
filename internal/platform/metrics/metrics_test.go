package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Record(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.StrategiesGenerated(3)
	m.StrategiesGenerated(2)
	m.StateWrite("swotAnalysisData")
	m.StateWrite("swotAnalysisData")
	m.StateMalformed("guideProgress")
	m.Export("contract", "pdf")
	m.Simulation("email-campaign")
	m.FitScore(70)

	assert.InDelta(t, 5.0, testutil.ToFloat64(m.strategiesGenerated), 1e-9)
	assert.InDelta(t, 2.0, testutil.ToFloat64(m.stateWrites.WithLabelValues("swotAnalysisData")), 1e-9)
	assert.InDelta(t, 1.0, testutil.ToFloat64(m.stateErrors.WithLabelValues("guideProgress")), 1e-9)
	assert.InDelta(t, 1.0, testutil.ToFloat64(m.exports.WithLabelValues("contract", "pdf")), 1e-9)
	assert.InDelta(t, 1.0, testutil.ToFloat64(m.simulations.WithLabelValues("email-campaign")), 1e-9)
	assert.Equal(t, 1, testutil.CollectAndCount(m.fitScores))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.StrategiesGenerated(1)
		m.FitScore(10)
		m.StateWrite("k")
		m.StateMalformed("k")
		m.Export("f", "json")
		m.Simulation("names")
	})
}
