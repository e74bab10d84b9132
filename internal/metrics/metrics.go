// Package metrics объявляет счётчики Prometheus для доменных событий.
// Сами метрики отдаются через promhttp на /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AnnouncementsFired считает сработавшие напоминания, опубликованные в брокер.
	AnnouncementsFired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "campusnews_announcements_fired_total",
		Help: "Number of reminder announcements published to the broker.",
	})

	// MailsSent считает успешно отправленные письма.
	MailsSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "campusnews_mails_sent_total",
		Help: "Number of emails sent over SMTP.",
	})

	// MailsFailed считает письма, которые не удалось отправить.
	MailsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "campusnews_mails_failed_total",
		Help: "Number of emails that failed to send.",
	})

	// PushEventsSent считает push-события, переданные подписчикам.
	PushEventsSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "campusnews_push_events_total",
		Help: "Number of push events dispatched to subscribers.",
	})
)
