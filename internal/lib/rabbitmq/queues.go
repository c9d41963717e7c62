package rabbitmq

// Топология событий платформы.
const (
	BlogEventsExchange = "blog.events"
	ViewRoutingKey     = "view"
	ViewQueue          = "blog.views"

	prefetch = 10
)

// QueueConfig описывает очередь и ключ маршрутизации, с которым она привязана к exchange.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// BlogEventQueues возвращает очереди, привязанные к exchange blog.events.
func BlogEventQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: ViewQueue, RoutingKey: ViewRoutingKey},
	}
}
