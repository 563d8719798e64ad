// Package favorites хранит библиотеку личности: драмы, отмеченные как избранные.
// В список попадает снимок карточки драмы, так что библиотека открывается
// без обращения к каталогу.
package favorites

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/dramabox/internal/lib/sl"
	"github.com/magabrotheeeer/dramabox/internal/models"
)

// ErrInvalidBookID пустой идентификатор драмы.
var ErrInvalidBookID = errors.New("invalid book id")

// Repository хранилище избранного.
type Repository interface {
	ListFavorites(ctx context.Context, ownerKey string) ([]models.Drama, error)
	AddFavorite(ctx context.Context, ownerKey string, drama models.Drama) (bool, error)
	RemoveFavorite(ctx context.Context, ownerKey, bookID string) (bool, error)
	IsFavorite(ctx context.Context, ownerKey, bookID string) (bool, error)
}

// Service сервис избранного.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// NewService создаёт сервис избранного.
func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
	}
}

// List возвращает избранное в порядке добавления.
func (s *Service) List(ctx context.Context, id models.Identity) ([]models.Drama, error) {
	const op = "favorites.List"

	list, err := s.repo.ListFavorites(ctx, id.FavoritesKey())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

// Add добавляет драму. false, если она уже была в избранном.
func (s *Service) Add(ctx context.Context, id models.Identity, drama models.Drama) (bool, error) {
	const op = "favorites.Add"

	drama.BookID = strings.TrimSpace(drama.BookID)
	if drama.BookID == "" {
		return false, fmt.Errorf("%s: %w", op, ErrInvalidBookID)
	}
	if drama.Tags == nil {
		drama.Tags = []string{}
	}

	added, err := s.repo.AddFavorite(ctx, id.FavoritesKey(), drama)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if added {
		s.log.Info("favorite added", sl.Op(op), slog.String("identity", id.String()), slog.String("book_id", drama.BookID))
	}
	return added, nil
}

// Remove убирает драму. false, если её не было в избранном.
func (s *Service) Remove(ctx context.Context, id models.Identity, bookID string) (bool, error) {
	const op = "favorites.Remove"

	bookID = strings.TrimSpace(bookID)
	if bookID == "" {
		return false, fmt.Errorf("%s: %w", op, ErrInvalidBookID)
	}
	removed, err := s.repo.RemoveFavorite(ctx, id.FavoritesKey(), bookID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return removed, nil
}

// IsFavorite сообщает, отмечена ли драма.
func (s *Service) IsFavorite(ctx context.Context, id models.Identity, bookID string) (bool, error) {
	const op = "favorites.IsFavorite"

	bookID = strings.TrimSpace(bookID)
	if bookID == "" {
		return false, fmt.Errorf("%s: %w", op, ErrInvalidBookID)
	}
	ok, err := s.repo.IsFavorite(ctx, id.FavoritesKey(), bookID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return ok, nil
}

// Toggle снимает отметку с отмеченной драмы и отмечает неотмеченную.
// Возвращает новое состояние.
func (s *Service) Toggle(ctx context.Context, id models.Identity, drama models.Drama) (bool, error) {
	const op = "favorites.Toggle"

	removed, err := s.Remove(ctx, id, drama.BookID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if removed {
		return false, nil
	}
	if _, err := s.Add(ctx, id, drama); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}
