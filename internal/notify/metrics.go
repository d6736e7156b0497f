package notify

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mailSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "onedrop_notifications_sent_total",
		Help: "Guardian notifications delivered.",
	})
	mailFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "onedrop_notifications_failed_total",
		Help: "Guardian notifications that reached the send step and failed.",
	})
	suppressed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "onedrop_notifications_suppressed_total",
		Help: "Notification attempts aborted before the send step.",
	}, []string{"reason"})
)
