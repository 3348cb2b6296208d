package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder collects service metrics. Implementations must be safe for concurrent use.
type Recorder interface {
	RecordRequest(route string, status int, duration time.Duration)
	RecordAnalysis(operation string, batchSize int, duration time.Duration)
	RecordAnomalies(count int)
	RecordOverdraftRisk(level string)
	RecordNotification(channel string, success bool)
}

// NoOpRecorder discards all metrics. It is the default when metrics are not wired.
type NoOpRecorder struct{}

func (NoOpRecorder) RecordRequest(string, int, time.Duration)  {}
func (NoOpRecorder) RecordAnalysis(string, int, time.Duration) {}
func (NoOpRecorder) RecordAnomalies(int)                       {}
func (NoOpRecorder) RecordOverdraftRisk(string)                {}
func (NoOpRecorder) RecordNotification(string, bool)           {}

// PrometheusRecorder implements Recorder for Prometheus.
type PrometheusRecorder struct {
	requests         *prometheus.CounterVec
	requestLatency   *prometheus.HistogramVec
	analyses         *prometheus.CounterVec
	analysisLatency  *prometheus.HistogramVec
	batchSize        *prometheus.HistogramVec
	anomaliesFlagged prometheus.Counter
	overdraftRisk    *prometheus.CounterVec
	notifications    *prometheus.CounterVec
}

// NewPrometheusRecorder creates collectors under the given namespace.
func NewPrometheusRecorder(namespace string) *PrometheusRecorder {
	return &PrometheusRecorder{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests per route and status",
			},
			[]string{"route", "status"},
		),
		requestLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency per route",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		analyses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "analytics_runs_total",
				Help:      "Total number of analytics computations per operation",
			},
			[]string{"operation"},
		),
		analysisLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "analytics_duration_seconds",
				Help:      "Analytics computation latency per operation",
				Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1},
			},
			[]string{"operation"},
		),
		batchSize: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "analytics_batch_size",
				Help:      "Number of transactions per analytics computation",
				Buckets:   []float64{0, 10, 50, 100, 250, 500, 1000},
			},
			[]string{"operation"},
		),
		anomaliesFlagged: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "anomalies_flagged_total",
				Help:      "Total number of transactions flagged as anomalous",
			},
		),
		overdraftRisk: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "overdraft_assessments_total",
				Help:      "Total number of overdraft assessments per risk level",
			},
			[]string{"level"},
		),
		notifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "notifications_total",
				Help:      "Total number of notification attempts per channel and result",
			},
			[]string{"channel", "result"},
		),
	}
}

// Register registers all collectors with the registry.
func (p *PrometheusRecorder) Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		p.requests,
		p.requestLatency,
		p.analyses,
		p.analysisLatency,
		p.batchSize,
		p.anomaliesFlagged,
		p.overdraftRisk,
		p.notifications,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// RecordRequest records a served HTTP request.
func (p *PrometheusRecorder) RecordRequest(route string, status int, duration time.Duration) {
	p.requests.WithLabelValues(route, statusClass(status)).Inc()
	p.requestLatency.WithLabelValues(route).Observe(duration.Seconds())
}

// RecordAnalysis records one analytics computation over a batch.
func (p *PrometheusRecorder) RecordAnalysis(operation string, batchSize int, duration time.Duration) {
	p.analyses.WithLabelValues(operation).Inc()
	p.analysisLatency.WithLabelValues(operation).Observe(duration.Seconds())
	p.batchSize.WithLabelValues(operation).Observe(float64(batchSize))
}

// RecordAnomalies adds flagged anomalies.
func (p *PrometheusRecorder) RecordAnomalies(count int) {
	p.anomaliesFlagged.Add(float64(count))
}

// RecordOverdraftRisk counts an assessment by level.
func (p *PrometheusRecorder) RecordOverdraftRisk(level string) {
	p.overdraftRisk.WithLabelValues(level).Inc()
}

// RecordNotification counts a notification attempt.
func (p *PrometheusRecorder) RecordNotification(channel string, success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	p.notifications.WithLabelValues(channel, result).Inc()
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
