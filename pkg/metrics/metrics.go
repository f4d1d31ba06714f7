// Package metrics provides Prometheus collectors for NetSuite request dispatch
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector groups the dispatch metrics of one client
type Collector struct {
	// Requests counts dispatched requests by method and status
	Requests *prometheus.CounterVec
	// Duration records request durations in seconds
	Duration *prometheus.HistogramVec
	// InFlight is the number of permits currently held
	InFlight prometheus.Gauge
	// Waiting is the number of callers blocked on a permit
	Waiting prometheus.Gauge
}

// NewCollector creates the collectors and registers them with reg. A nil
// reg leaves them unregistered.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "netsuite",
				Name:      "requests_total",
				Help:      "Total NetSuite requests by method and status.",
			},
			[]string{"method", "status"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "netsuite",
				Name:      "request_duration_seconds",
				Help:      "NetSuite request duration in seconds.",
				Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"method"},
		),
		InFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "netsuite",
			Name:      "requests_in_flight",
			Help:      "NetSuite requests currently holding a dispatch permit.",
		}),
		Waiting: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "netsuite",
			Name:      "requests_waiting",
			Help:      "NetSuite requests waiting for a dispatch permit.",
		}),
	}

	if reg != nil {
		reg.MustRegister(c.Requests, c.Duration, c.InFlight, c.Waiting)
	}

	return c
}

// Observe records a finished request. status is the HTTP status code as a
// string, or "error" when no response was received.
func (c *Collector) Observe(method, status string, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.Requests.WithLabelValues(method, status).Inc()
	c.Duration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// Acquired marks a permit as taken
func (c *Collector) Acquired() {
	if c == nil {
		return
	}
	c.Waiting.Dec()
	c.InFlight.Inc()
}

// Released marks a permit as returned
func (c *Collector) Released() {
	if c == nil {
		return
	}
	c.InFlight.Dec()
}

// StartWaiting marks a caller as blocked on a permit
func (c *Collector) StartWaiting() {
	if c == nil {
		return
	}
	c.Waiting.Inc()
}

// StopWaiting marks a caller that gave up waiting
func (c *Collector) StopWaiting() {
	if c == nil {
		return
	}
	c.Waiting.Dec()
}
