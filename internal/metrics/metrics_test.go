package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := NewPrometheusRecorder("test")
	require.NoError(t, rec.Register(reg))

	rec.RecordRequest("/api/analytics/insights", 200, 10*time.Millisecond)
	rec.RecordRequest("/api/analytics/insights", 404, time.Millisecond)
	rec.RecordRequest("/api/analytics/insights", 503, time.Millisecond)
	rec.RecordAnalysis("forecast", 120, time.Millisecond)
	rec.RecordAnomalies(3)
	rec.RecordOverdraftRisk("HIGH")
	rec.RecordNotification("webhook", false)

	assert.Equal(t, 1.0, testutil.ToFloat64(rec.requests.WithLabelValues("/api/analytics/insights", "2xx")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.requests.WithLabelValues("/api/analytics/insights", "4xx")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.requests.WithLabelValues("/api/analytics/insights", "5xx")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.analyses.WithLabelValues("forecast")))
	assert.Equal(t, 3.0, testutil.ToFloat64(rec.anomaliesFlagged))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.overdraftRisk.WithLabelValues("HIGH")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.notifications.WithLabelValues("webhook", "failure")))
}

func TestPrometheusRecorder_DoubleRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, NewPrometheusRecorder("dup").Register(reg))
	assert.Error(t, NewPrometheusRecorder("dup").Register(reg))
}

func TestNoOpRecorder(t *testing.T) {
	var rec Recorder = NoOpRecorder{}
	rec.RecordRequest("/", 200, time.Second)
	rec.RecordAnalysis("x", 1, time.Second)
	rec.RecordAnomalies(1)
	rec.RecordOverdraftRisk("LOW")
	rec.RecordNotification("email", true)
}
