// Package monitoring collects per-run codec metrics. The CLI is short-lived,
// so instead of serving /metrics it can dump them for a textfile collector.
package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "spff"

type Metrics struct {
	reg      *prometheus.Registry
	images   *prometheus.CounterVec
	pixels   *prometheus.CounterVec
	bytes    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		images: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "images_total",
			Help:      "Images processed, by operation and result.",
		}, []string{"op", "result"}),
		pixels: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pixels_total",
			Help:      "Pixels processed, by operation.",
		}, []string{"op"}),
		bytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_total",
			Help:      "Bytes read and written, by operation and direction.",
		}, []string{"op", "direction"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "duration_seconds",
			Help:      "Wall time of each operation.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 10),
		}, []string{"op"}),
	}
	m.reg.MustRegister(m.images, m.pixels, m.bytes, m.duration)
	return m
}

// Observe records a successful operation.
func (m *Metrics) Observe(op string, pixels, in, out int, d time.Duration) {
	m.images.WithLabelValues(op, "ok").Inc()
	m.pixels.WithLabelValues(op).Add(float64(pixels))
	m.bytes.WithLabelValues(op, "in").Add(float64(in))
	m.bytes.WithLabelValues(op, "out").Add(float64(out))
	m.duration.WithLabelValues(op).Observe(d.Seconds())
}

// Fail records a failed operation.
func (m *Metrics) Fail(op string) {
	m.images.WithLabelValues(op, "error").Inc()
}

func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// WriteTextfile writes all metrics to path in the Prometheus text format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.reg)
}
