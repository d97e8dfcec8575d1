package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder collects the web frontend's own counters. Every instance owns its
// registry so tests can build as many as they need.
type Recorder struct {
	registry        *prometheus.Registry
	backendRequests *prometheus.CounterVec
	backendLatency  *prometheus.HistogramVec
	fallbacks       *prometheus.CounterVec
	streamTokens    prometheus.Counter
}

func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		backendRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "achievebot",
			Name:      "backend_requests_total",
			Help:      "Backend API calls by method, endpoint and outcome.",
		}, []string{"method", "endpoint", "outcome"}),
		backendLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "achievebot",
			Name:      "backend_request_duration_seconds",
			Help:      "Backend API call latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "endpoint"}),
		fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "achievebot",
			Name:      "page_fallbacks_total",
			Help:      "Pages rendered with placeholder data after a backend failure.",
		}, []string{"page"}),
		streamTokens: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "achievebot",
			Name:      "chat_stream_tokens_total",
			Help:      "Tokens relayed from the agent chat stream.",
		}),
	}
	r.registry.MustRegister(r.backendRequests, r.backendLatency, r.fallbacks, r.streamTokens)
	return r
}

func (r *Recorder) BackendRequest(method, endpoint, outcome string, took time.Duration) {
	r.backendRequests.WithLabelValues(method, endpoint, outcome).Inc()
	r.backendLatency.WithLabelValues(method, endpoint).Observe(took.Seconds())
}

func (r *Recorder) Fallback(page string) {
	r.fallbacks.WithLabelValues(page).Inc()
}

func (r *Recorder) StreamToken() {
	r.streamTokens.Inc()
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
