package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Chat outcomes used as label values.
const (
	OutcomeOK          = "ok"
	OutcomeUpstream    = "upstream_error"
	OutcomeUnavailable = "unavailable"
	OutcomeInvalid     = "invalid"
)

// ChatMetrics records assistant completions and breaker transitions.
type ChatMetrics struct {
	duration *prometheus.HistogramVec
	requests *prometheus.CounterVec
	breaker  prometheus.Gauge
}

// NewChatMetrics registers the chat metrics on the provided registerer.
func NewChatMetrics(reg prometheus.Registerer) *ChatMetrics {
	if reg == nil {
		return &ChatMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "chat_completion_duration_seconds",
		Help:    "Latency of chat completion calls in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chat_requests_total",
		Help: "Chat requests by outcome.",
	}, []string{"outcome"})
	breaker := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "chat_breaker_state",
		Help: "Completion circuit breaker state (0 closed, 1 half-open, 2 open).",
	})
	reg.MustRegister(duration, requests, breaker)
	return &ChatMetrics{
		duration: duration,
		requests: requests,
		breaker:  breaker,
	}
}

// Observe records one chat request with its outcome and latency.
func (c *ChatMetrics) Observe(outcome string, took time.Duration) {
	if c == nil || c.requests == nil {
		return
	}
	outcome = normalizeLabel(outcome)
	c.requests.WithLabelValues(outcome).Inc()
	c.duration.WithLabelValues(outcome).Observe(took.Seconds())
}

// SetBreakerState stores the numeric breaker state.
func (c *ChatMetrics) SetBreakerState(state int) {
	if c == nil || c.breaker == nil {
		return
	}
	c.breaker.Set(float64(state))
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
