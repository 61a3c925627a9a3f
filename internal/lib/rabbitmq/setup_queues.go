package rabbitmq

// Очереди и ключи маршрутизации.
const (
	DueReminderQueue      = "reminder.due"
	DueReminderRoutingKey = "due"
	RentRunQueue          = "rent.run"
	RentRunRoutingKey     = "rent.run"
)

// QueueConfig очередь и ключ, которым она привязана к обменнику.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetNotificationQueues возвращает очереди, которые объявляет каждый сервис.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: DueReminderQueue, RoutingKey: DueReminderRoutingKey},
		{QueueName: RentRunQueue, RoutingKey: RentRunRoutingKey},
	}
}
