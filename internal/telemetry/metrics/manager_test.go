package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManager_RegistersAll(t *testing.T) {
	m, reg := NewTestManagerAndRegistry()

	m.CounterSetsLogged.WithLabelValues("coach").Inc()
	m.CounterSetsLogged.WithLabelValues("quick").Add(2)
	m.CounterPersistenceFailures.WithLabelValues("sheets").Inc()
	m.CounterCoachReplies.Inc()
	m.HistCoachReplyDuration.Observe(1.2)
	m.HistogramRequestDuration.WithLabelValues("/log", "POST", "303").Observe(0.01)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.CounterSetsLogged.WithLabelValues("coach")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.CounterSetsLogged.WithLabelValues("quick")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.CounterPersistenceFailures.WithLabelValues("sheets")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.CounterCoachReplies))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.CounterCoachFailures))

	families, err := reg.Gather()
	require.NoError(t, err)

	byName := map[string]*dto.MetricFamily{}
	for _, f := range families {
		byName[f.GetName()] = f
	}
	require.Contains(t, byName, "vibefit_test_server_coach_reply_duration_seconds")
	hist := byName["vibefit_test_server_coach_reply_duration_seconds"].GetMetric()[0].GetHistogram()
	assert.Equal(t, uint64(1), hist.GetSampleCount())
	assert.InDelta(t, 1.2, hist.GetSampleSum(), 0.0001)
}

func TestSetupPrometheus_ExtraCollectors(t *testing.T) {
	extra := prometheus.NewCounter(prometheus.CounterOpts{Name: "extra_counter", Help: "extra"})
	reg := SetupPrometheus(extra)
	extra.Inc()

	count, err := testutil.GatherAndCount(reg, "extra_counter")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
