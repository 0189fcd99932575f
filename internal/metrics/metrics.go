// Package metrics объявляет Prometheus-метрики дашборда.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Результаты отправки сообщения в рассылке.
const (
	ResultSent   = "sent"
	ResultFailed = "failed"
)

var (
	// LinksAssigned считает ссылки, выданные пользователям.
	LinksAssigned = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "vpn",
		Name:      "links_assigned_total",
		Help:      "Number of links assigned to users.",
	})

	// AllocationExhausted считает запросы выдачи, для которых не хватило свободных ссылок.
	AllocationExhausted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "vpn",
		Name:      "allocation_exhausted_total",
		Help:      "Number of assignment requests rejected because the free pool was too small.",
	})

	// BroadcastMessages считает сообщения рассылки по результату.
	BroadcastMessages = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vpn",
		Name:      "broadcast_messages_total",
		Help:      "Number of broadcast messages by delivery result.",
	}, []string{"result"})

	// NotificationsProcessed считает обработанные события links.assigned.
	NotificationsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vpn",
		Name:      "assignment_notifications_total",
		Help:      "Number of processed link assignment notifications by result.",
	}, []string{"result"})
)
