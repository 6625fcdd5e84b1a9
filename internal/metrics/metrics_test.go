package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry(), "parkd")

	m.Mutation("create")
	m.Mutation("create")
	m.Notification("sent")
	m.FlightLookup("cache")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Mutations.WithLabelValues("create")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Notifications.WithLabelValues("sent")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FlightLookups.WithLabelValues("cache")))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Mutation("create")
		m.Notification("sent")
		m.FlightLookup("http")
		m.ObserveView(0.1)
	})
}
