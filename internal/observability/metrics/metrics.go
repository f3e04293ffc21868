// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "meet_translator"

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	// Session metrics
	SessionsStarted prometheus.Counter
	SessionsActive  prometheus.Gauge
	SessionsFailed  *prometheus.CounterVec
	SessionDuration prometheus.Histogram

	// Transcript metrics
	TranscriptsInterim   prometheus.Counter
	TranscriptsFinal     prometheus.Counter
	SilenceCommits       prometheus.Counter
	DuplicatesSuppressed prometheus.Counter

	// Recognition latency (inter-interim gap, milliseconds)
	RecognitionLatency prometheus.Histogram

	// Token proxy metrics
	TokenFetchTotal   prometheus.Counter
	TokenFetchErrors  prometheus.Counter
	TokenFetchLatency prometheus.Histogram

	// Kafka publish metrics
	KafkaPublishTotal   *prometheus.CounterVec
	KafkaPublishErrors  *prometheus.CounterVec
	KafkaPublishLatency *prometheus.HistogramVec

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPLatency  *prometheus.HistogramVec

	// Subtitle feed metrics
	FeedClients prometheus.Gauge
}

// DefaultMetrics is the global metrics instance.
var DefaultMetrics = NewMetrics()

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		SessionsStarted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_started_total",
			Help:      "Total number of translation sessions started",
		}),
		SessionsActive: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Number of currently active sessions (0 or 1)",
		}),
		SessionsFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_failed_total",
			Help:      "Total number of sessions that ended in error",
		}, []string{"reason"}),
		SessionDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "session_duration_seconds",
			Help:      "Duration of translation sessions in seconds",
			Buckets:   []float64{1, 5, 15, 30, 60, 300, 900, 1800, 3600},
		}),

		TranscriptsInterim: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transcripts_interim_total",
			Help:      "Total number of interim recognition events consumed",
		}),
		TranscriptsFinal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transcripts_final_total",
			Help:      "Total number of final transcript entries committed",
		}),
		SilenceCommits: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "silence_commits_total",
			Help:      "Total number of entries committed by the silence heuristic",
		}),
		DuplicatesSuppressed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "duplicates_suppressed_total",
			Help:      "Total number of duplicate final events suppressed",
		}),

		RecognitionLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "recognition_latency_ms",
			Help:      "Inter-interim recognition latency in milliseconds",
			Buckets:   []float64{50, 100, 200, 300, 500, 750, 1000, 1500, 2000},
		}),

		TokenFetchTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "token_fetch_total",
			Help:      "Total number of token exchange attempts",
		}),
		TokenFetchErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "token_fetch_errors_total",
			Help:      "Total number of failed token exchanges",
		}),
		TokenFetchLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "token_fetch_latency_seconds",
			Help:      "Token exchange latency in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		}),

		KafkaPublishTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_total",
			Help:      "Total number of Kafka messages published",
		}, []string{"topic", "event_type"}),
		KafkaPublishErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_errors_total",
			Help:      "Total number of Kafka publish errors",
		}, []string{"topic", "event_type"}),
		KafkaPublishLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "kafka_publish_latency_seconds",
			Help:      "Kafka publish latency in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"topic"}),

		HTTPRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests served",
		}, []string{"method", "path", "code"}),
		HTTPLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"method", "path"}),

		FeedClients: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "feed_clients",
			Help:      "Number of connected subtitle feed clients",
		}),
	}
}

// RecordSessionStart records a new session starting.
func (m *Metrics) RecordSessionStart() {
	m.SessionsStarted.Inc()
	m.SessionsActive.Inc()
}

// RecordSessionEnd records a session ending.
func (m *Metrics) RecordSessionEnd(durationSeconds float64) {
	m.SessionsActive.Dec()
	m.SessionDuration.Observe(durationSeconds)
}

// RecordSessionFailed records a session ending in error.
func (m *Metrics) RecordSessionFailed(reason string) {
	m.SessionsFailed.WithLabelValues(reason).Inc()
}

// RecordInterim records an interim recognition event.
func (m *Metrics) RecordInterim() {
	m.TranscriptsInterim.Inc()
}

// RecordFinal records a committed final transcript entry.
func (m *Metrics) RecordFinal() {
	m.TranscriptsFinal.Inc()
}

// RecordSilenceCommit records a silence-triggered commit.
func (m *Metrics) RecordSilenceCommit() {
	m.SilenceCommits.Inc()
}

// RecordDuplicateSuppressed records a suppressed duplicate final.
func (m *Metrics) RecordDuplicateSuppressed() {
	m.DuplicatesSuppressed.Inc()
}

// RecordRecognitionLatency records an accepted inter-interim latency sample.
func (m *Metrics) RecordRecognitionLatency(ms float64) {
	m.RecognitionLatency.Observe(ms)
}

// RecordTokenFetch records a token exchange attempt.
func (m *Metrics) RecordTokenFetch(err error, latencySeconds float64) {
	m.TokenFetchTotal.Inc()
	m.TokenFetchLatency.Observe(latencySeconds)
	if err != nil {
		m.TokenFetchErrors.Inc()
	}
}

// RecordKafkaPublish records a Kafka publish attempt.
func (m *Metrics) RecordKafkaPublish(topic, eventType string, err error, latencySeconds float64) {
	m.KafkaPublishTotal.WithLabelValues(topic, eventType).Inc()
	m.KafkaPublishLatency.WithLabelValues(topic).Observe(latencySeconds)
	if err != nil {
		m.KafkaPublishErrors.WithLabelValues(topic, eventType).Inc()
	}
}

// RecordHTTPRequest records a served HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path, code string, durationSeconds float64) {
	m.HTTPRequests.WithLabelValues(method, path, code).Inc()
	m.HTTPLatency.WithLabelValues(method, path).Observe(durationSeconds)
}

// RecordFeedClientConnect records a subtitle feed client connecting.
func (m *Metrics) RecordFeedClientConnect() {
	m.FeedClients.Inc()
}

// RecordFeedClientDisconnect records a subtitle feed client disconnecting.
func (m *Metrics) RecordFeedClientDisconnect() {
	m.FeedClients.Dec()
}
