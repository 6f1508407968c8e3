package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRecord(t *testing.T) {
	m := NewMetrics("voiceout")

	m.RecordRequest("/cases/:id", "GET", 200, 20*time.Millisecond)
	m.RecordRequest("/cases/:id", "GET", 200, 30*time.Millisecond)
	m.RecordError("/cases/:id", "GET", "NOT_FOUND")
	m.RecordLogin("victim", true)
	m.RecordLogin("victim", false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", "/cases/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errorsTotal.WithLabelValues("GET", "/cases/:id", "NOT_FOUND")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.loginsTotal.WithLabelValues("victim", "failure")))
}

func TestNilMetricsAreNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRequest("/", "GET", 200, time.Millisecond)
		m.RecordError("/", "GET", "X")
		m.RecordLogin("admin", true)
	})
}
