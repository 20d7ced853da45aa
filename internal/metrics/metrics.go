package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	pageViewsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "statuspage_web",
			Name:      "page_views_total",
			Help:      "Total number of status-page views handled, partitioned by gate decision.",
		},
		[]string{"decision"},
	)

	backendRequestSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "statuspage_web",
			Name:      "backend_request_seconds",
			Help:      "Backend gateway request latency in seconds, partitioned by route.",
			Buckets:   []float64{0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"route"},
	)

	requestSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "statuspage_web",
			Name:      "request_seconds",
			Help:      "Inbound HTTP request latency in seconds, partitioned by status class.",
			Buckets:   []float64{0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"class"},
	)
)

// Register attaches statuspage-web collectors to the supplied Prometheus registerer.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		pageViewsTotal,
		backendRequestSeconds,
		requestSeconds,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// ObservePageView counts one page view by terminal gate decision.
func ObservePageView(decision string) {
	pageViewsTotal.WithLabelValues(decision).Inc()
}

// ObserveBackendRequest records one outbound backend call.
func ObserveBackendRequest(route string, duration time.Duration) {
	if duration < 0 {
		duration = 0
	}
	backendRequestSeconds.WithLabelValues(route).Observe(duration.Seconds())
}

// ObserveRequest records one inbound request by status class ("2xx", "3xx", ...).
func ObserveRequest(class string, duration time.Duration) {
	if duration < 0 {
		duration = 0
	}
	requestSeconds.WithLabelValues(class).Observe(duration.Seconds())
}
