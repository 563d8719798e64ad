package models

import "time"

// Subscription: состояние подписки личности: роль, срок VIP, баланс билетов
// и день последнего ежедневного бонуса. Для гостя Role == RoleGuest и ExpiryDate == nil.
type Subscription struct {
	Role           Role
	ExpiryDate     *time.Time
	Tickets        int
	LastDailyCheck *time.Time
}

// SpendResult результат атомарной попытки потратить билет на эпизод.
type SpendResult struct {
	Tickets         int  // Баланс после операции
	Spent           bool // Билет списан и эпизод добавлен в журнал
	AlreadyUnlocked bool // Эпизод уже был в журнале, списания не было
}
