// Package metrics holds the Prometheus collectors of the service. They are
// registered with the global registry and exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	ResultRecorded  = "recorded"
	ResultDuplicate = "duplicate"
	ResultFailed    = "failed"
)

var (
	HttpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Number of HTTP requests by method, route and status code.",
		}, []string{"method", "route", "code"})

	HttpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latency of HTTP requests by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"})

	EmailsSentTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "emails_sent_total",
			Help: "Number of emails accepted by the provider and recorded.",
		})

	EmailSendFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "email_send_failures_total",
			Help: "Number of failed sends by error type.",
		}, []string{"type"})

	WebhookEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_events_total",
			Help: "Number of tracking webhooks by event and result.",
		}, []string{"event", "result"})
)

func init() {
	prometheus.MustRegister(
		HttpRequestsTotal,
		HttpRequestDuration,
		EmailsSentTotal,
		EmailSendFailuresTotal,
		WebhookEventsTotal,
	)
}
