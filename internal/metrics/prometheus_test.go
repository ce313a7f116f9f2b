package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestPrometheusCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewPrometheus(reg, "test")

	c.RecordEvaluation("hs", true)
	c.RecordEvaluation("hs", true)
	c.RecordEvaluation("hs", false)
	c.RecordReplacement("hs")
	c.RecordBest("hs", 1234.5)
	c.RecordRun("hs", 0.25)

	require.Equal(t, 2.0, testutil.ToFloat64(c.evaluations.WithLabelValues("hs", "true")))
	require.Equal(t, 1.0, testutil.ToFloat64(c.evaluations.WithLabelValues("hs", "false")))
	require.Equal(t, 1.0, testutil.ToFloat64(c.replacements.WithLabelValues("hs")))
	require.Equal(t, 1234.5, testutil.ToFloat64(c.best.WithLabelValues("hs")))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	require.Contains(t, names, "test_search_evaluations_total")
	require.Contains(t, names, "test_search_run_duration_seconds")
}

func TestNopMetrics(t *testing.T) {
	var c Collector = NewNop()
	require.NotPanics(t, func() {
		c.RecordEvaluation("ga", false)
		c.RecordReplacement("ga")
		c.RecordBest("ga", 1)
		c.RecordRun("ga", 1)
	})
}
