// Package members реализует администрирование участников: список, создание,
// редактирование и удаление учётных записей.
package members

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/dramabox/internal/lib/clock"
	"github.com/magabrotheeeer/dramabox/internal/lib/password"
	"github.com/magabrotheeeer/dramabox/internal/lib/sl"
	"github.com/magabrotheeeer/dramabox/internal/models"
	"github.com/magabrotheeeer/dramabox/internal/services/access"
)

var (
	// ErrPasswordRequired новый участник создаётся только с паролем.
	ErrPasswordRequired = errors.New("password is required for a new member")
	// ErrInvalidExpiryDate дата окончания VIP не в формате 2006-01-02.
	ErrInvalidExpiryDate = errors.New("invalid expiry date")
)

// Repository хранилище участников.
type Repository interface {
	CreateMember(ctx context.Context, m models.Member) (int64, error)
	UpdateMember(ctx context.Context, m models.Member) error
	GetMember(ctx context.Context, id int64) (*models.Member, error)
	ListMembers(ctx context.Context, filter models.MemberFilter) ([]*models.Member, error)
	DeleteMember(ctx context.Context, id int64) error
}

// Service сервис администрирования участников.
type Service struct {
	repo  Repository
	clock clock.Clock
	log   *slog.Logger
}

// NewService создаёт сервис участников.
func NewService(repo Repository, clk clock.Clock, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		clock: clk,
		log:   log,
	}
}

// List возвращает участников, подходящих под фильтр.
func (s *Service) List(ctx context.Context, filter models.MemberFilter) ([]models.MemberView, error) {
	const op = "members.List"

	list, err := s.repo.ListMembers(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	now := s.clock.Now()
	res := make([]models.MemberView, 0, len(list))
	for _, m := range list {
		res = append(res, m.View(access.IsVipValid(m.Subscription(), now)))
	}
	return res, nil
}

// Get возвращает участника по ID.
func (s *Service) Get(ctx context.Context, id int64) (models.MemberView, error) {
	const op = "members.Get"

	m, err := s.repo.GetMember(ctx, id)
	if err != nil {
		return models.MemberView{}, fmt.Errorf("%s: %w", op, err)
	}
	return m.View(access.IsVipValid(m.Subscription(), s.clock.Now())), nil
}

// Upsert создаёт участника (ID == 0) или обновляет существующего.
// Пустые поля запроса при обновлении не меняют запись. durationDays > 0
// выставляет окончание VIP через столько дней от сегодняшнего, пустая строка
// expiryDate делает VIP бессрочным.
func (s *Service) Upsert(ctx context.Context, req models.DummyMember) (models.MemberView, error) {
	const op = "members.Upsert"
	log := s.log.With(sl.Op(op), slog.Int64("member_id", req.ID), slog.String("username", req.Username))

	today := clock.Today(s.clock.Now())
	var m *models.Member
	if req.ID == 0 {
		if req.Password == "" {
			return models.MemberView{}, fmt.Errorf("%s: %w", op, ErrPasswordRequired)
		}
		m = &models.Member{
			Role:     models.RoleMember,
			Status:   models.StatusActive,
			JoinDate: today,
		}
	} else {
		existing, err := s.repo.GetMember(ctx, req.ID)
		if err != nil {
			return models.MemberView{}, fmt.Errorf("%s: %w", op, err)
		}
		m = existing
	}

	if err := s.apply(m, req, today); err != nil {
		return models.MemberView{}, fmt.Errorf("%s: %w", op, err)
	}

	if m.ID == 0 {
		id, err := s.repo.CreateMember(ctx, *m)
		if err != nil {
			return models.MemberView{}, fmt.Errorf("%s: %w", op, err)
		}
		m.ID = id
		log.Info("member created", slog.Int64("id", id))
	} else {
		if err := s.repo.UpdateMember(ctx, *m); err != nil {
			return models.MemberView{}, fmt.Errorf("%s: %w", op, err)
		}
		log.Info("member updated")
	}
	return m.View(access.IsVipValid(m.Subscription(), s.clock.Now())), nil
}

func (s *Service) apply(m *models.Member, req models.DummyMember, today time.Time) error {
	m.Username = req.Username
	m.Email = req.Email
	if req.Password != "" {
		hash, err := password.GetHash(req.Password)
		if err != nil {
			return err
		}
		m.PasswordHash = hash
	}
	if req.Role != "" {
		m.Role = req.Role
	}
	if req.Status != "" {
		m.Status = req.Status
	}
	if req.Tickets != nil {
		m.Tickets = *req.Tickets
	}

	switch {
	case req.DurationDays > 0:
		expiry := today.AddDate(0, 0, req.DurationDays)
		m.ExpiryDate = &expiry
	case req.ExpiryDate != nil && *req.ExpiryDate == "":
		m.ExpiryDate = nil
	case req.ExpiryDate != nil:
		expiry, err := models.ParseDay(*req.ExpiryDate)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidExpiryDate, *req.ExpiryDate)
		}
		m.ExpiryDate = &expiry
	}
	return nil
}

// Delete удаляет участника вместе с его журналом разблокировок.
func (s *Service) Delete(ctx context.Context, id int64) error {
	const op = "members.Delete"

	if err := s.repo.DeleteMember(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("member deleted", sl.Op(op), slog.Int64("member_id", id))
	return nil
}
