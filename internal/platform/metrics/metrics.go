package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	Deposits         prometheus.Counter
	Purchases        prometheus.Counter
	PurchaseFailures *prometheus.CounterVec
	NDAsSigned       prometheus.Counter
	MessagesPosted   prometheus.Counter
	OutboxPublished  prometheus.Counter
	OutboxFailures   prometheus.Counter
	RequestDuration  *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		Deposits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "richideia_deposits_total",
			Help: "Total number of successful wallet deposits",
		}),
		Purchases: promauto.NewCounter(prometheus.CounterOpts{
			Name: "richideia_purchases_total",
			Help: "Total number of purchases committed to escrow",
		}),
		PurchaseFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "richideia_purchase_failures_total",
			Help: "Total number of rejected or failed purchases, by reason",
		}, []string{"reason"}),
		NDAsSigned: promauto.NewCounter(prometheus.CounterOpts{
			Name: "richideia_ndas_signed_total",
			Help: "Total number of NDA signatures recorded",
		}),
		MessagesPosted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "richideia_messages_posted_total",
			Help: "Total number of messages appended to idea channels",
		}),
		OutboxPublished: promauto.NewCounter(prometheus.CounterOpts{
			Name: "richideia_outbox_published_total",
			Help: "Total number of outbox events published to the broker",
		}),
		OutboxFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "richideia_outbox_publish_failures_total",
			Help: "Total number of outbox publish attempts that failed",
		}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "richideia_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}
