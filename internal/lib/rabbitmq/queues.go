package rabbitmq

// Ключи маршрутизации.
const (
	RoutingVipExpiring   = "vip.expiring"
	RoutingVipExpired    = "vip.expired"
	RoutingEpisodeUnlock = "episode.unlocked"
	RoutingBonusGranted  = "bonus.granted"
	QueueVipExpiring     = "notifications.vip_expiring"
	QueueVipExpired      = "notifications.vip_expired"
	QueueAccessEvents    = "events.access"
)

// QueueConfig очередь и ключи, которыми она привязана к exchange.
type QueueConfig struct {
	QueueName   string
	RoutingKeys []string
}

// NotificationQueues очереди уведомлений об окончании VIP.
func NotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: QueueVipExpiring, RoutingKeys: []string{RoutingVipExpiring}},
		{QueueName: QueueVipExpired, RoutingKeys: []string{RoutingVipExpired}},
	}
}

// AccessQueues очередь событий списания билетов и начисления бонусов.
func AccessQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: QueueAccessEvents, RoutingKeys: []string{RoutingEpisodeUnlock, RoutingBonusGranted}},
	}
}
