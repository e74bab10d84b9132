package rabbitmq

type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// Ключи маршрутизации уведомлений.
const (
	RoutingKeyAnnouncement = "announcement"
	RoutingKeyPush         = "push"
)

// Имена очередей уведомлений.
const (
	QueueAnnouncements = "notifications.announcements"
	QueuePush          = "notifications.push"
)

func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: QueueAnnouncements, RoutingKey: RoutingKeyAnnouncement},
		{QueueName: QueuePush, RoutingKey: RoutingKeyPush},
	}
}
