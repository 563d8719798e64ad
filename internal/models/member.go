// Package models содержит доменные структуры сервиса: участников, конфигурацию приложения,
// эпизоды каталога и вспомогательные типы для приёма данных из JSON-запросов.
package models

import "time"

// Role роль учётной записи.
type Role string

const (
	// RoleGuest: анонимный пользователь, идентифицируемый устройством.
	RoleGuest Role = "guest"
	// RoleMember: зарегистрированный пользователь без VIP.
	RoleMember Role = "member"
	// RoleVIP: пользователь с премиум-доступом (бессрочным или до ExpiryDate).
	RoleVIP Role = "vip"
	// RoleOwner: администратор, учётные данные которого хранятся в конфигурации.
	RoleOwner Role = "owner"
)

// Status статус учётной записи участника.
type Status string

const (
	// StatusActive: учётная запись активна.
	StatusActive Status = "active"
	// StatusSuspended: учётная запись приостановлена, вход запрещён.
	StatusSuspended Status = "suspended"
)

// DayLayout формат календарного дня (ISO), в котором хранятся даты участника.
const DayLayout = "2006-01-02"

// Member представляет учётную запись участника, хранящуюся в базе данных.
// ExpiryDate == nil означает бессрочный VIP (для роли vip).
type Member struct {
	ID             int64      `json:"id"`
	Username       string     `json:"username"`
	Email          string     `json:"email"`
	PasswordHash   string     `json:"-"`
	Role           Role       `json:"role"`
	Tickets        int        `json:"tickets"`
	JoinDate       time.Time  `json:"-"`
	ExpiryDate     *time.Time `json:"-"`
	Status         Status     `json:"status"`
	LastDailyCheck *time.Time `json:"-"`
}

// Subscription возвращает срез данных участника, влияющих на доступ к эпизодам.
func (m *Member) Subscription() *Subscription {
	if m == nil {
		return nil
	}
	return &Subscription{
		Role:           m.Role,
		ExpiryDate:     m.ExpiryDate,
		Tickets:        m.Tickets,
		LastDailyCheck: m.LastDailyCheck,
	}
}

// MemberView: представление участника для JSON-ответов, даты в формате 2006-01-02.
type MemberView struct {
	ID             int64   `json:"id"`
	Username       string  `json:"username"`
	Email          string  `json:"email"`
	Role           Role    `json:"role"`
	Tickets        int     `json:"tickets"`
	JoinDate       string  `json:"joinDate"`
	ExpiryDate     *string `json:"expiryDate"`
	Status         Status  `json:"status"`
	LastDailyCheck *string `json:"lastDailyCheck"`
	VipActive      bool    `json:"vipActive"`
}

// View преобразует участника в MemberView; vipActive вычисляется вызывающей стороной.
func (m *Member) View(vipActive bool) MemberView {
	return MemberView{
		ID:             m.ID,
		Username:       m.Username,
		Email:          m.Email,
		Role:           m.Role,
		Tickets:        m.Tickets,
		JoinDate:       m.JoinDate.Format(DayLayout),
		ExpiryDate:     FormatDay(m.ExpiryDate),
		Status:         m.Status,
		LastDailyCheck: FormatDay(m.LastDailyCheck),
		VipActive:      vipActive,
	}
}

// DummyMember используется для приёма данных участника из JSON-запроса админ-панели.
// ID == 0 означает создание новой записи.
type DummyMember struct {
	ID           int64   `json:"id" validate:"gte=0"`
	Username     string  `json:"username" validate:"required,min=3,max=50"`
	Email        string  `json:"email" validate:"omitempty,email"`
	Password     string  `json:"password" validate:"omitempty,min=4"`
	Role         Role    `json:"role" validate:"omitempty,oneof=member vip"`
	Tickets      *int    `json:"tickets" validate:"omitempty,gte=0"`
	ExpiryDate   *string `json:"expiryDate" validate:"omitempty"`
	Status       Status  `json:"status" validate:"omitempty,oneof=active suspended"`
	DurationDays int     `json:"durationDays" validate:"gte=0"`
}

// MemberFilter параметры фильтрации списка участников.
type MemberFilter struct {
	Search string // Подстрока username или email, без учёта регистра
	Role   Role   // Пустая строка: все роли
}

// FormatDay форматирует дату в виде календарного дня, nil остаётся nil.
func FormatDay(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(DayLayout)
	return &s
}

// ParseDay разбирает календарный день формата 2006-01-02 в полночь UTC.
func ParseDay(s string) (time.Time, error) {
	return time.ParseInLocation(DayLayout, s, time.UTC)
}
