// Package scheduler находит участников, у которых заканчивается VIP, и публикует
// уведомления о них в RabbitMQ.
package scheduler

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

// MemberRepository источник участников с истекающим VIP.
type MemberRepository interface {
	FindVipExpiringOn(ctx context.Context, day time.Time) ([]*models.Member, error)
}

// Publisher публикует сообщения в брокер.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// Service публикует уведомления об окончании VIP.
type Service struct {
	repo  MemberRepository
	pub   Publisher
	clock clock.Clock
	log   *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(repo MemberRepository, pub Publisher, clk clock.Clock, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		pub:   pub,
		clock: clk,
		log:   log,
	}
}

// Run выполняет один проход: предупреждает тех, у кого VIP истекает завтра,
// и сообщает тем, у кого он истёк сегодня.
func (s *Service) Run(ctx context.Context) {
	const op = "scheduler.Run"
	log := s.log.With(sl.Op(op))

	today := clock.Today(s.clock.Now())
	expiring, err := s.notify(ctx, today.AddDate(0, 0, 1), rabbitmq.RoutingVipExpiring)
	if err != nil {
		log.Error("failed to notify expiring vips", sl.Err(err))
	}
	expired, err := s.notify(ctx, today, rabbitmq.RoutingVipExpired)
	if err != nil {
		log.Error("failed to notify expired vips", sl.Err(err))
	}
	log.Info("vip notifications published",
		slog.Int("expiring", expiring), slog.Int("expired", expired))
}

// NotifyExpiring публикует уведомления для VIP, истекающих завтра.
func (s *Service) NotifyExpiring(ctx context.Context) (int, error) {
	return s.notify(ctx, clock.Today(s.clock.Now()).AddDate(0, 0, 1), rabbitmq.RoutingVipExpiring)
}

// NotifyExpired публикует уведомления для VIP, истёкших сегодня.
func (s *Service) NotifyExpired(ctx context.Context) (int, error) {
	return s.notify(ctx, clock.Today(s.clock.Now()), rabbitmq.RoutingVipExpired)
}

func (s *Service) notify(ctx context.Context, day time.Time, routingKey string) (int, error) {
	const op = "scheduler.notify"

	members, err := s.repo.FindVipExpiringOn(ctx, day)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	published := 0
	for _, m := range members {
		if m.Email == "" {
			s.log.Info("member has no email, skipping", slog.String("username", m.Username))
			continue
		}
		msg := models.VipNotification{
			MemberID:   m.ID,
			Username:   m.Username,
			Email:      m.Email,
			ExpiryDate: day,
		}
		if err := s.pub.Publish(ctx, routingKey, msg); err != nil {
			s.log.Error("failed to publish message", sl.Err(err),
				slog.String("routing_key", routingKey), slog.String("username", m.Username))
			continue
		}
		metrics.NotificationsPublished.WithLabelValues(routingKey).Inc()
		published++
	}
	return published, nil
}
