package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	Mutations     *prometheus.CounterVec
	Notifications *prometheus.CounterVec
	FlightLookups *prometheus.CounterVec
	ViewBuild     prometheus.Histogram
	Requests      *prometheus.CounterVec
}

// NewMetrics registers the backend metrics on reg. A nil reg uses the default registerer.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		Mutations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reservation_mutations_total",
			Help:      "Reservation changes by operation",
		}, []string{"operation"}),
		Notifications: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "push_notifications_total",
			Help:      "Push notifications by result",
		}, []string{"result"}),
		FlightLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flight_lookups_total",
			Help:      "Flight status lookups by source",
		}, []string{"source"}),
		ViewBuild: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "view_build_seconds",
			Help:      "Time taken to build a reservation view",
			Buckets:   prometheus.DefBuckets,
		}),
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status",
		}, []string{"route", "status"}),
	}
}

// Mutation counts one reservation change. Safe on a nil receiver.
func (m *Metrics) Mutation(op string) {
	if m == nil {
		return
	}
	m.Mutations.WithLabelValues(op).Inc()
}

// Notification counts one push result. Safe on a nil receiver.
func (m *Metrics) Notification(result string) {
	if m == nil {
		return
	}
	m.Notifications.WithLabelValues(result).Inc()
}

// FlightLookup counts one flight status lookup. Safe on a nil receiver.
func (m *Metrics) FlightLookup(source string) {
	if m == nil {
		return
	}
	m.FlightLookups.WithLabelValues(source).Inc()
}

// ObserveView records how long a view build took. Safe on a nil receiver.
func (m *Metrics) ObserveView(seconds float64) {
	if m == nil {
		return
	}
	m.ViewBuild.Observe(seconds)
}
