package rabbitmq

const (
	// NotificationsExchange: direct exchange для всех уведомлений дашборда.
	NotificationsExchange = "notifications"
	// LinksAssignedRoutingKey: ключ события о выдаче ссылок пользователю.
	LinksAssignedRoutingKey = "links.assigned"
	// LinksAssignedQueue: очередь, которую читает notification-sender.
	LinksAssignedQueue = "links_assigned_queue"
)

// QueueConfig связывает имя очереди с ключом маршрутизации.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetNotificationQueues возвращает очереди, которые объявляют оба процесса.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: LinksAssignedQueue, RoutingKey: LinksAssignedRoutingKey},
	}
}
