package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder publishes analysis counters and latencies to Prometheus.
type Recorder struct {
	synthesized *prometheus.CounterVec
	duration    prometheus.Histogram
	discarded   prometheus.Counter
	failed      prometheus.Counter
}

// NewRecorder registers the farmsight collectors on reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	synthesized := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "farmsight_series_synthesized_total",
		Help: "Synthetic series generated, by metric kind.",
	}, []string{"kind"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "farmsight_analysis_duration_seconds",
		Help:    "Time spent synthesizing every series for one farm view.",
		Buckets: prometheus.ExponentialBuckets(0.0001, 2, 12),
	})
	discarded := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "farmsight_analysis_discarded_total",
		Help: "Farm view activations whose results were dropped because the view moved on.",
	})
	failed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "farmsight_analysis_failed_total",
		Help: "Farm view activations that ended in the failed state.",
	})

	reg.MustRegister(synthesized, duration, discarded, failed)

	return &Recorder{
		synthesized: synthesized,
		duration:    duration,
		discarded:   discarded,
		failed:      failed,
	}
}

// SeriesSynthesized counts n series of the given kind.
func (r *Recorder) SeriesSynthesized(kind string, n int) {
	if r == nil {
		return
	}
	r.synthesized.WithLabelValues(kind).Add(float64(n))
}

// AnalysisCompleted observes the duration of a ready activation.
func (r *Recorder) AnalysisCompleted(elapsed time.Duration) {
	if r == nil {
		return
	}
	r.duration.Observe(elapsed.Seconds())
}

// AnalysisDiscarded counts a stale activation.
func (r *Recorder) AnalysisDiscarded() {
	if r == nil {
		return
	}
	r.discarded.Inc()
}

// AnalysisFailed counts an activation that failed.
func (r *Recorder) AnalysisFailed() {
	if r == nil {
		return
	}
	r.failed.Inc()
}
