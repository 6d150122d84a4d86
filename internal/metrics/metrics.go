// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ridersclub"

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "route"},
	)

	eventParticipation = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "events",
			Name:      "participation_total",
			Help:      "Join and leave attempts by outcome.",
		},
		[]string{"action", "result"},
	)

	postLikes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "posts",
			Name:      "like_toggles_total",
			Help:      "Like toggles by resulting state.",
		},
		[]string{"liked"},
	)

	benefitRedemptions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "benefits",
			Name:      "redemptions_total",
			Help:      "Benefit redemption attempts by outcome.",
		},
		[]string{"result"},
	)

	applications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "membership",
			Name:      "applications_total",
			Help:      "Membership applications by lifecycle step.",
		},
		[]string{"status"},
	)

	sweptEvents = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "jobs",
			Name:      "events_completed_total",
			Help:      "Events marked completed by the status sweeper.",
		},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		eventParticipation,
		postLikes,
		benefitRedemptions,
		applications,
		sweptEvents,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

func IncInFlight() { httpInFlight.Inc() }
func DecInFlight() { httpInFlight.Dec() }

// ObserveHTTP records one finished request. route is the matched pattern,
// not the raw path, to keep label cardinality bounded.
func ObserveHTTP(method, route, status string, seconds float64) {
	httpRequests.WithLabelValues(method, route, status).Inc()
	httpDuration.WithLabelValues(method, route).Observe(seconds)
}

func RecordParticipation(action, result string) {
	eventParticipation.WithLabelValues(action, result).Inc()
}

func RecordLikeToggle(liked bool) {
	if liked {
		postLikes.WithLabelValues("true").Inc()
		return
	}
	postLikes.WithLabelValues("false").Inc()
}

func RecordRedemption(result string) {
	benefitRedemptions.WithLabelValues(result).Inc()
}

func RecordApplication(status string) {
	applications.WithLabelValues(status).Inc()
}

func RecordSweptEvents(n int64) {
	if n > 0 {
		sweptEvents.Add(float64(n))
	}
}
