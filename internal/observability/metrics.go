package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	httpRequestsTotal     *prometheus.CounterVec
	httpLatencySeconds    *prometheus.HistogramVec
	httpErrorsTotal       *prometheus.CounterVec
	passageCacheTotal     *prometheus.CounterVec
	sessionsRecordedTotal *prometheus.CounterVec
	audioUploadSeconds    prometheus.Histogram
)

// RegisterMetrics initialises the Prometheus collectors exposed by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "literacy_http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "literacy_http_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		httpErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "literacy_http_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		passageCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "literacy_passage_cache_requests_total",
			Help: "Passage listing lookups partitioned by cache outcome.",
		}, []string{"result"})

		sessionsRecordedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "literacy_reading_sessions_recorded_total",
			Help: "Oral reading sessions recorded, partitioned by whether audio was attached.",
		}, []string{"audio"})

		audioUploadSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "literacy_audio_upload_seconds",
			Help:    "Time spent uploading session audio to storage.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
		})

		prometheus.MustRegister(
			httpRequestsTotal,
			httpLatencySeconds,
			httpErrorsTotal,
			passageCacheTotal,
			sessionsRecordedTotal,
			audioUploadSeconds,
		)
	})
}

// HTTPRequests exposes the request counter.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the request latency histogram.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// HTTPErrors exposes the counter for error responses.
func HTTPErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return httpErrorsTotal
}

// PassageCacheRequests exposes the passage cache hit/miss counter.
func PassageCacheRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return passageCacheTotal
}

// SessionsRecorded exposes the counter of recorded reading sessions.
func SessionsRecorded() *prometheus.CounterVec {
	RegisterMetrics()
	return sessionsRecordedTotal
}

// AudioUploadLatency exposes the audio upload histogram.
func AudioUploadLatency() prometheus.Histogram {
	RegisterMetrics()
	return audioUploadSeconds
}
