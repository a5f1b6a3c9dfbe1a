// Package metrics exposes Prometheus collectors for the recognition pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ayusman/signbridge/internal/gesture"
)

var (
	FramesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "signbridge_frames_total",
		Help: "Frames classified, by source",
	}, []string{"source"})

	GesturesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "signbridge_gestures_total",
		Help: "Frames that reported a gesture, by gesture",
	}, []string{"gesture"})

	HandsRejectedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "signbridge_hands_rejected_total",
		Help: "Hands dropped for malformed or non-finite landmarks",
	})

	FrameErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "signbridge_frame_errors_total",
		Help: "Frames skipped because of capture or tracking errors, by stage",
	}, []string{"stage"})

	DetectDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "signbridge_detect_duration_seconds",
		Help:    "Duration of hand tracking per frame",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	})

	StreamClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "signbridge_stream_clients",
		Help: "Connected live stream clients",
	})

	HookRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "signbridge_hook_runs_total",
		Help: "Hook deliveries, by hook and result",
	}, []string{"hook", "result"})
)

// ObserveReport records one dispatched frame.
func ObserveReport(source string, r gesture.Report) {
	FramesTotal.WithLabelValues(source).Inc()
	if r.Detected() {
		GesturesTotal.WithLabelValues(r.Gesture).Inc()
	}
	for _, h := range r.Hints {
		if h == gesture.HintRejected {
			HandsRejectedTotal.Inc()
		}
	}
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
