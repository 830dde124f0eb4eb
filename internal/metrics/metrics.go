// Package metrics wires up the server's Prometheus instrumentation. None
// of it is load-bearing for the protocol: it observes the dispatcher and
// listener, never gates them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the counters and gauges the dispatcher and listener report
// into.
type Metrics struct {
	Connections prometheus.Gauge
	Requests    *prometheus.CounterVec
	Documents   prometheus.Gauge
	Fanout      prometheus.Histogram
}

// New registers every metric against reg.
func New(reg *prometheus.Registry) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Connections: f.NewGauge(prometheus.GaugeOpts{
			Name: "collabtex_connections_active",
			Help: "Number of currently accepted TCP connections.",
		}),
		Requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "collabtex_requests_total",
			Help: "Requests dispatched, labeled by parsed kind.",
		}, []string{"kind"}),
		Documents: f.NewGauge(prometheus.GaugeOpts{
			Name: "collabtex_documents_total",
			Help: "Number of documents that have ever been created.",
		}),
		Fanout: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "collabtex_broadcast_fanout",
			Help:    "Number of writers reached by a single broadcast.",
			Buckets: prometheus.LinearBuckets(0, 2, 10),
		}),
	}
}

func (m *Metrics) IncConnections() {
	if m == nil {
		return
	}
	m.Connections.Inc()
}

func (m *Metrics) DecConnections() {
	if m == nil {
		return
	}
	m.Connections.Dec()
}

func (m *Metrics) IncRequests(kind string) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(kind).Inc()
}

func (m *Metrics) SetDocuments(n int) {
	if m == nil {
		return
	}
	m.Documents.Set(float64(n))
}

func (m *Metrics) ObserveFanout(n int) {
	if m == nil {
		return
	}
	m.Fanout.Observe(float64(n))
}
