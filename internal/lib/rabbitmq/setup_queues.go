package rabbitmq

// SiteEventsExchange — exchange для событий жизненного цикла сайтов.
const SiteEventsExchange = "site-events"

// RoutingKeySiteDeactivated — ключ маршрутизации событий деактивации сайта.
const RoutingKeySiteDeactivated = "site.deactivated"

// QueueConfig описывает очередь и её ключ маршрутизации.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetSweepQueues возвращает очереди, наполняемые воркером проверки льготного периода.
func GetSweepQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "site-events.deactivated", RoutingKey: RoutingKeySiteDeactivated},
	}
}
