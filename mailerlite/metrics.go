package mailerlite

import (
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// requestMetrics records per-resource request counts and latencies. A nil
// *requestMetrics is valid and records nothing.
type requestMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// WithMetrics registers request metrics on reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(c *Client) {
		c.metrics = newRequestMetrics(reg)
	}
}

func newRequestMetrics(reg prometheus.Registerer) *requestMetrics {
	m := &requestMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mailerlite",
			Name:      "requests_total",
			Help:      "MailerLite API requests by resource, method and status.",
		}, []string{"resource", "method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "mailerlite",
			Name:      "request_duration_seconds",
			Help:      "MailerLite API request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"resource", "method"}),
	}
	if reg != nil {
		reg.MustRegister(m.requests, m.duration)
	}
	return m
}

func (m *requestMetrics) observe(method, endpoint string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	resource := resourceLabel(endpoint)
	code := "error"
	if status > 0 {
		code = strconv.Itoa(status)
	}
	m.requests.WithLabelValues(resource, method, code).Inc()
	m.duration.WithLabelValues(resource, method).Observe(elapsed.Seconds())
}

// resourceLabel keeps label cardinality bounded by dropping ids.
func resourceLabel(endpoint string) string {
	trimmed := strings.TrimPrefix(endpoint, "/")
	if i := strings.IndexByte(trimmed, '/'); i >= 0 {
		return trimmed[:i]
	}
	return trimmed
}
