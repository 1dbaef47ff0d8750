package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	scanDuration *prometheus.HistogramVec
	signalsTotal *prometheus.CounterVec
	suppressions *prometheus.CounterVec
	zoneCount    *prometheus.GaugeVec
	errorsTotal  *prometheus.CounterVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		scanDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "swingscan_scan_duration_seconds",
				Help:    "Duration of scan pipeline stages in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
		signalsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "swingscan_signals_total",
				Help: "Signals emitted by symbol, side and quality",
			},
			[]string{"symbol", "side", "quality"},
		),
		suppressions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "swingscan_suppressions_total",
				Help: "Evaluations rejected by gate reason",
			},
			[]string{"reason"},
		),
		zoneCount: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "swingscan_zones",
				Help: "Zones in the latest published snapshot per symbol",
			},
			[]string{"symbol"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "swingscan_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
	}
}

// RecordScan records the duration of a pipeline stage.
func (r *Recorder) RecordScan(stage string, seconds float64) {
	r.scanDuration.WithLabelValues(stage).Observe(seconds)
}

// RecordSignal records an emitted signal.
func (r *Recorder) RecordSignal(symbol string, side, quality string) {
	r.signalsTotal.WithLabelValues(symbol, side, quality).Inc()
}

// RecordSuppression records a gate rejection.
func (r *Recorder) RecordSuppression(reason string) {
	r.suppressions.WithLabelValues(reason).Inc()
}

// RecordZoneCount records the zone count of a published snapshot.
func (r *Recorder) RecordZoneCount(symbol string, n int) {
	r.zoneCount.WithLabelValues(symbol).Set(float64(n))
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}
