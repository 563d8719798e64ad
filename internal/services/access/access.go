// Package access решает, может ли личность смотреть эпизод, и ведёт учёт билетов,
// ежедневного бонуса и журнала разблокированных эпизодов.
//
// Доступ к эпизоду для пары (личность, эпизод) либо выводится заново при каждой проверке
// (бесплатный режим, владелец, действующий VIP), либо закреплён записью в журнале.
// Запись появляется только через UnlockEpisode и стоит ровно один билет.
package access

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/dramabox/internal/lib/clock"
	"github.com/magabrotheeeer/dramabox/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/dramabox/internal/lib/sl"
	"github.com/magabrotheeeer/dramabox/internal/metrics"
	"github.com/magabrotheeeer/dramabox/internal/models"
)

// DefaultDailyBonus билетов за первый заход в день.
const DefaultDailyBonus = 3

// Reason причина решения о доступе.
type Reason string

const (
	ReasonFreeMode            Reason = "free_mode"
	ReasonOwner               Reason = "owner"
	ReasonVIP                 Reason = "vip"
	ReasonAlreadyUnlocked     Reason = "already_unlocked"
	ReasonTicketSpent         Reason = "ticket_spent"
	ReasonInsufficientTickets Reason = "insufficient_tickets"
)

// UnlockResult результат UnlockEpisode. Allowed == false означает пейволл, а не ошибку.
type UnlockResult struct {
	Allowed bool   `json:"allowed"`
	Reason  Reason `json:"reason"`
	Tickets int    `json:"tickets"`
}

// BonusResult результат GrantDailyBonus.
type BonusResult struct {
	Granted bool   `json:"granted"`
	Tickets int    `json:"tickets"`
	Day     string `json:"day"`
}

// Status сводка доступа личности.
type Status struct {
	Role           models.Role `json:"role"`
	Tickets        int         `json:"tickets"`
	Premium        bool        `json:"premium"`
	ExpiryDate     *string     `json:"expiryDate"`
	LastDailyCheck *string     `json:"lastDailyCheck"`
	Unlocked       []string    `json:"unlocked"`
}

// Store хранилище подписок и журнала.
type Store interface {
	Subscription(ctx context.Context, id models.Identity) (*models.Subscription, error)
	GrantBonus(ctx context.Context, id models.Identity, day time.Time, amount int) (int, bool, error)
	HasUnlocked(ctx context.Context, ledgerKey, episodeID string) (bool, error)
	ListUnlocked(ctx context.Context, ledgerKey string) ([]string, error)
	SpendTicket(ctx context.Context, id models.Identity, episodeID string) (models.SpendResult, error)
}

// Publisher публикует события доступа. Может отсутствовать.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// Service ядро контроля доступа.
type Service struct {
	store      Store
	clock      clock.Clock
	pub        Publisher
	dailyBonus int
	log        *slog.Logger
}

// NewService создаёт ядро контроля доступа. pub может быть nil; dailyBonus <= 0
// заменяется на DefaultDailyBonus.
func NewService(store Store, clk clock.Clock, pub Publisher, dailyBonus int, log *slog.Logger) *Service {
	if dailyBonus <= 0 {
		dailyBonus = DefaultDailyBonus
	}
	return &Service{
		store:      store,
		clock:      clk,
		pub:        pub,
		dailyBonus: dailyBonus,
		log:        log,
	}
}

// IsVipValid сообщает, даёт ли подписка безусловный доступ на момент now.
// Владелец всегда проходит; VIP без срока бессрочный; VIP со сроком действует,
// пока день окончания строго позже сегодняшнего.
func IsVipValid(sub *models.Subscription, now time.Time) bool {
	if sub == nil {
		return false
	}
	switch sub.Role {
	case models.RoleOwner:
		return true
	case models.RoleVIP:
		if sub.ExpiryDate == nil {
			return true
		}
		return clock.Today(*sub.ExpiryDate).After(clock.Today(now))
	default:
		return false
	}
}

// GrantDailyBonus начисляет ежедневный бонус, если сегодня он ещё не выдавался.
// Для владельца ничего не делает.
func (s *Service) GrantDailyBonus(ctx context.Context, id models.Identity) (BonusResult, error) {
	const op = "access.GrantDailyBonus"

	today := clock.Today(s.clock.Now())
	res := BonusResult{Day: today.Format(models.DayLayout)}
	if id.IsOwner() {
		return res, nil
	}

	tickets, granted, err := s.store.GrantBonus(ctx, id, today, s.dailyBonus)
	if err != nil {
		return BonusResult{}, fmt.Errorf("%s: %w", op, err)
	}
	res.Tickets, res.Granted = tickets, granted

	if granted {
		metrics.BonusesGranted.Inc()
		s.publish(ctx, rabbitmq.RoutingBonusGranted, models.BonusEvent{
			Identity: id.String(),
			Day:      res.Day,
			Tickets:  tickets,
		})
	}
	return res, nil
}

// IsUnlocked сообщает, может ли личность смотреть эпизод, ничего не меняя.
// Бесплатный режим здесь не учитывается: это флаг вызывающей стороны.
func (s *Service) IsUnlocked(ctx context.Context, id models.Identity, episodeID string) (bool, error) {
	const op = "access.IsUnlocked"

	if _, _, err := ParseEpisodeID(episodeID); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if id.IsOwner() {
		return true, nil
	}

	sub, err := s.store.Subscription(ctx, id)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if IsVipValid(sub, s.clock.Now()) {
		return true, nil
	}

	ok, err := s.store.HasUnlocked(ctx, id.LedgerKey(), episodeID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return ok, nil
}

// UnlockEpisode открывает эпизод:
//  1. бесплатный режим, владелец или действующий VIP: доступ без изменений;
//  2. эпизод уже в журнале: доступ без изменений;
//  3. есть билет: билет списывается и эпизод записывается в журнал одной транзакцией;
//  4. иначе доступа нет.
//
// Повторный вызов для того же эпизода билет не списывает.
func (s *Service) UnlockEpisode(ctx context.Context, id models.Identity, episodeID string, freeMode bool) (UnlockResult, error) {
	const op = "access.UnlockEpisode"
	log := s.log.With(sl.Op(op), slog.String("identity", id.String()), slog.String("episode_id", episodeID))

	if _, _, err := ParseEpisodeID(episodeID); err != nil {
		return UnlockResult{}, fmt.Errorf("%s: %w", op, err)
	}

	if id.IsOwner() {
		return s.decide(UnlockResult{Allowed: true, Reason: ReasonOwner}), nil
	}

	sub, err := s.store.Subscription(ctx, id)
	if err != nil {
		if freeMode {
			log.Warn("subscription unavailable in free mode", sl.Err(err))
			return s.decide(UnlockResult{Allowed: true, Reason: ReasonFreeMode}), nil
		}
		return UnlockResult{}, fmt.Errorf("%s: %w", op, err)
	}

	switch {
	case freeMode:
		return s.decide(UnlockResult{Allowed: true, Reason: ReasonFreeMode, Tickets: sub.Tickets}), nil
	case IsVipValid(sub, s.clock.Now()):
		return s.decide(UnlockResult{Allowed: true, Reason: ReasonVIP, Tickets: sub.Tickets}), nil
	}

	unlocked, err := s.store.HasUnlocked(ctx, id.LedgerKey(), episodeID)
	if err != nil {
		return UnlockResult{}, fmt.Errorf("%s: %w", op, err)
	}
	if unlocked {
		return s.decide(UnlockResult{Allowed: true, Reason: ReasonAlreadyUnlocked, Tickets: sub.Tickets}), nil
	}
	if sub.Tickets <= 0 {
		return s.decide(UnlockResult{Reason: ReasonInsufficientTickets}), nil
	}

	spent, err := s.store.SpendTicket(ctx, id, episodeID)
	if err != nil {
		return UnlockResult{}, fmt.Errorf("%s: %w", op, err)
	}
	switch {
	case spent.AlreadyUnlocked:
		return s.decide(UnlockResult{Allowed: true, Reason: ReasonAlreadyUnlocked, Tickets: spent.Tickets}), nil
	case !spent.Spent:
		log.Info("ticket lost to a concurrent unlock")
		return s.decide(UnlockResult{Reason: ReasonInsufficientTickets, Tickets: spent.Tickets}), nil
	}

	metrics.TicketsSpent.Inc()
	log.Info("episode unlocked with ticket", slog.Int("tickets", spent.Tickets))
	s.publish(ctx, rabbitmq.RoutingEpisodeUnlock, models.UnlockEvent{
		Identity:  id.String(),
		EpisodeID: episodeID,
		Tickets:   spent.Tickets,
		At:        s.clock.Now().UTC(),
	})
	return s.decide(UnlockResult{Allowed: true, Reason: ReasonTicketSpent, Tickets: spent.Tickets}), nil
}

// Status возвращает баланс, признак премиума и журнал личности.
func (s *Service) Status(ctx context.Context, id models.Identity) (Status, error) {
	const op = "access.Status"

	if id.IsOwner() {
		return Status{Role: models.RoleOwner, Premium: true, Unlocked: []string{}}, nil
	}

	sub, err := s.store.Subscription(ctx, id)
	if err != nil {
		return Status{}, fmt.Errorf("%s: %w", op, err)
	}
	unlocked, err := s.store.ListUnlocked(ctx, id.LedgerKey())
	if err != nil {
		return Status{}, fmt.Errorf("%s: %w", op, err)
	}
	return Status{
		Role:           sub.Role,
		Tickets:        sub.Tickets,
		Premium:        IsVipValid(sub, s.clock.Now()),
		ExpiryDate:     models.FormatDay(sub.ExpiryDate),
		LastDailyCheck: models.FormatDay(sub.LastDailyCheck),
		Unlocked:       unlocked,
	}, nil
}

func (s *Service) decide(res UnlockResult) UnlockResult {
	metrics.UnlockDecisions.WithLabelValues(string(res.Reason)).Inc()
	return res
}

// publish отправляет событие; ошибка только логируется.
func (s *Service) publish(ctx context.Context, routingKey string, event any) {
	if s.pub == nil {
		return
	}
	if err := s.pub.Publish(ctx, routingKey, event); err != nil {
		s.log.Warn("failed to publish access event", slog.String("routing_key", routingKey), sl.Err(err))
	}
}
