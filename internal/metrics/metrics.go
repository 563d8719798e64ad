// Package metrics объявляет счётчики Prometheus, которые отдаются на /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// UnlockDecisions решения о доступе к эпизоду по причине (free_mode, vip, ticket_spent, ...).
	UnlockDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dramabox",
		Name:      "unlock_decisions_total",
		Help:      "Episode access decisions by reason.",
	}, []string{"reason"})

	// TicketsSpent списанные билеты.
	TicketsSpent = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "dramabox",
		Name:      "tickets_spent_total",
		Help:      "Tickets spent on episode unlocks.",
	})

	// BonusesGranted начисленные ежедневные бонусы.
	BonusesGranted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "dramabox",
		Name:      "daily_bonuses_granted_total",
		Help:      "Daily ticket bonuses granted.",
	})

	// CatalogRequests запросы к внешнему каталогу по источнику ответа (cache, remote, error).
	CatalogRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dramabox",
		Name:      "catalog_requests_total",
		Help:      "Catalog lookups by endpoint and source.",
	}, []string{"endpoint", "source"})

	// NotificationsPublished опубликованные уведомления по ключу маршрутизации.
	NotificationsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dramabox",
		Name:      "notifications_published_total",
		Help:      "Notifications published to the broker.",
	}, []string{"routing_key"})

	// EmailsSent отправленные письма по результату (ok, error).
	EmailsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dramabox",
		Name:      "emails_sent_total",
		Help:      "E-mails sent by the notifier.",
	}, []string{"result"})
)
