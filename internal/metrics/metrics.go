// SPDX-License-Identifier: EPL-2.0

// Package metrics exposes recording and playback counters for Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "audrev"

// Metrics holds every collector, registered on its own registry so several
// studios (and tests) can coexist in one process.
type Metrics struct {
	Registry *prometheus.Registry

	Recordings      prometheus.Counter
	RecordedBytes   prometheus.Counter
	CaptureErrors   prometheus.Counter
	Playbacks       *prometheus.CounterVec
	Notices         *prometheus.CounterVec
	PlaybackSeconds prometheus.Histogram
	Imports         *prometheus.CounterVec
}

// New creates and registers all metrics. The Go runtime and process
// collectors are added too.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		Recordings: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recordings_total",
			Help:      "Total number of recordings converted to WAV",
		}),
		RecordedBytes: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recorded_bytes_total",
			Help:      "Total PCM bytes captured",
		}),
		CaptureErrors: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "capture_errors_total",
			Help:      "Failed device reads and file writes during capture",
		}),
		Playbacks: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "playbacks_total",
			Help:      "Total number of playbacks by direction",
		}, []string{"direction"}),
		Notices: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notices_total",
			Help:      "Notices reported to the caller by kind",
		}, []string{"kind"}),
		PlaybackSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "playback_seconds",
			Help:      "Time spent rendering a take",
			Buckets:   prometheus.ExponentialBuckets(0.25, 2, 10), // 250ms to ~2 minutes
		}),
		Imports: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "imports_total",
			Help:      "Imported files by source format",
		}, []string{"format"}),
	}
}

// Direction returns the playbacks_total label for a play request.
func Direction(reverse bool) string {
	if reverse {
		return "reverse"
	}
	return "forward"
}

// RecordRecording counts one finished take.
func (m *Metrics) RecordRecording(bytes, captureErrors int64) {
	m.Recordings.Inc()
	m.RecordedBytes.Add(float64(bytes))
	m.CaptureErrors.Add(float64(captureErrors))
}

// RecordPlayback counts one rendered playback.
func (m *Metrics) RecordPlayback(reverse bool, seconds float64) {
	m.Playbacks.WithLabelValues(Direction(reverse)).Inc()
	m.PlaybackSeconds.Observe(seconds)
}

func (m *Metrics) RecordNotice(kind string) {
	m.Notices.WithLabelValues(kind).Inc()
}

func (m *Metrics) RecordImport(format string) {
	m.Imports.WithLabelValues(format).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}
