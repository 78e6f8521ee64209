package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics exposes the service's business counters. The stream listener has no
// retry cap, so the reconnect counter is the external alerting hook for a
// relay that never comes back.
type Metrics struct {
	NotificationsReceived prometheus.Counter
	ParseFailures         prometheus.Counter
	StreamReconnects      prometheus.Counter
	CreditedAmountTotal   *prometheus.CounterVec
	PendingRequests       prometheus.Gauge
}

func New() *Metrics {
	return &Metrics{
		NotificationsReceived: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bankapi_notifications_received_total",
			Help: "Push notifications received from the relay",
		}),
		ParseFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bankapi_notification_parse_failures_total",
			Help: "Notifications dropped because free-text parsing failed",
		}),
		StreamReconnects: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bankapi_stream_reconnects_total",
			Help: "Reconnection attempts to the push relay",
		}),
		CreditedAmountTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "bankapi_credited_amount_total",
			Help: "Total amount credited to accounts",
		}, []string{"method"}),
		PendingRequests: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "bankapi_pending_deposit_requests",
			Help: "Deposit requests currently in pending status",
		}),
	}
}
