package models

import "time"

// VipNotification сообщение об окончании VIP, публикуется планировщиком в RabbitMQ.
type VipNotification struct {
	MemberID   int64     `json:"member_id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	ExpiryDate time.Time `json:"expiry_date"`
}

// UnlockEvent событие о списании билета на эпизод.
type UnlockEvent struct {
	Identity  string    `json:"identity"`
	EpisodeID string    `json:"episode_id"`
	Tickets   int       `json:"tickets"`
	At        time.Time `json:"at"`
}

// BonusEvent событие о начислении ежедневного бонуса.
type BonusEvent struct {
	Identity string `json:"identity"`
	Day      string `json:"day"`
	Tickets  int    `json:"tickets"`
}
