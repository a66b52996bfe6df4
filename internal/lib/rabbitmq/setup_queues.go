package rabbitmq

// QueueConfig описывает очередь и ключ маршрутизации для нее.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetNotificationQueues возвращает очереди уведомлений об изменении статуса
// подписки. Имя очереди приходит из конфигурации.
func GetNotificationQueues(queueName string) []QueueConfig {
	return []QueueConfig{
		{QueueName: queueName, RoutingKey: "entitlement"},
	}
}
