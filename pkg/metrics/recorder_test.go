package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRecorderMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := NewRecorder(reg)

	rec.SeriesSynthesized("spectral", 5)
	rec.SeriesSynthesized("sensor", 4)
	require.Equal(t, 5.0, testutil.ToFloat64(rec.synthesized.WithLabelValues("spectral")))
	require.Equal(t, 4.0, testutil.ToFloat64(rec.synthesized.WithLabelValues("sensor")))

	rec.AnalysisDiscarded()
	rec.AnalysisFailed()
	rec.AnalysisFailed()
	require.Equal(t, 1.0, testutil.ToFloat64(rec.discarded))
	require.Equal(t, 2.0, testutil.ToFloat64(rec.failed))

	rec.AnalysisCompleted(3 * time.Millisecond)
	require.Equal(t, 1, testutil.CollectAndCount(rec.duration))
}

func TestNilRecorderIsNoop(t *testing.T) {
	var rec *Recorder
	require.NotPanics(t, func() {
		rec.SeriesSynthesized("sensor", 1)
		rec.AnalysisCompleted(time.Second)
		rec.AnalysisDiscarded()
		rec.AnalysisFailed()
	})
}
