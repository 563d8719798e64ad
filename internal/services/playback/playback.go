// Package playback связывает каталог, конфигурацию и контроль доступа:
// по запросу на эпизод решает, отдавать ли адрес видео.
package playback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/dramabox/internal/models"
	"github.com/magabrotheeeer/dramabox/internal/services/access"
)

var (
	// ErrEpisodeNotFound индекс за пределами списка эпизодов.
	ErrEpisodeNotFound = errors.New("episode not found")
	// ErrEpisodeUnavailable у эпизода нет воспроизводимого адреса.
	ErrEpisodeUnavailable = errors.New("episode unavailable")
)

// Catalog источник списка эпизодов.
type Catalog interface {
	Episodes(ctx context.Context, bookID string) ([]models.Episode, error)
}

// FreeMode флаг бесплатного режима.
type FreeMode interface {
	IsFreeMode(ctx context.Context) bool
}

// Unlocker ядро контроля доступа.
type Unlocker interface {
	UnlockEpisode(ctx context.Context, id models.Identity, episodeID string, freeMode bool) (access.UnlockResult, error)
}

// Result ответ на запрос воспроизведения. VideoURL заполнен только при Allowed.
type Result struct {
	EpisodeID string        `json:"episodeId"`
	Index     int           `json:"index"`
	Title     string        `json:"title"`
	Allowed   bool          `json:"allowed"`
	Reason    access.Reason `json:"reason"`
	Tickets   int           `json:"tickets"`
	VideoURL  *string       `json:"videoUrl,omitempty"`
	HasNext   bool          `json:"hasNext"`
}

// Service сервис воспроизведения.
type Service struct {
	catalog  Catalog
	config   FreeMode
	unlocker Unlocker
	log      *slog.Logger
}

// NewService создаёт сервис воспроизведения.
func NewService(catalog Catalog, config FreeMode, unlocker Unlocker, log *slog.Logger) *Service {
	return &Service{
		catalog:  catalog,
		config:   config,
		unlocker: unlocker,
		log:      log,
	}
}

// Play проверяет доступ к эпизоду index драмы dramaID и при успехе возвращает адрес видео.
// Для недоступного эпизода билет не списывается. Автопереход к следующей серии
// выполняется тем же вызовом с index+1.
func (s *Service) Play(ctx context.Context, id models.Identity, dramaID string, index int) (Result, error) {
	const op = "playback.Play"

	episodes, err := s.catalog.Episodes(ctx, dramaID)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", op, err)
	}
	if index < 0 || index >= len(episodes) {
		return Result{}, fmt.Errorf("%s: %w", op, ErrEpisodeNotFound)
	}
	ep := episodes[index]
	if !ep.Available || ep.VideoURL == nil {
		return Result{}, fmt.Errorf("%s: %w", op, ErrEpisodeUnavailable)
	}

	episodeID := access.EpisodeID(dramaID, index)
	decision, err := s.unlocker.UnlockEpisode(ctx, id, episodeID, s.config.IsFreeMode(ctx))
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", op, err)
	}

	res := Result{
		EpisodeID: episodeID,
		Index:     index,
		Title:     ep.Title,
		Allowed:   decision.Allowed,
		Reason:    decision.Reason,
		Tickets:   decision.Tickets,
		HasNext:   index+1 < len(episodes),
	}
	if decision.Allowed {
		res.VideoURL = ep.VideoURL
	}
	return res, nil
}

// Unlock открывает эпизод по идентификатору {dramaId}_{index} с теми же проверками,
// что и Play: эпизод должен быть в каталоге и иметь адрес видео, иначе билет не тратится.
func (s *Service) Unlock(ctx context.Context, id models.Identity, episodeID string) (Result, error) {
	const op = "playback.Unlock"

	dramaID, index, err := access.ParseEpisodeID(episodeID)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", op, err)
	}
	res, err := s.Play(ctx, id, dramaID, index)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", op, err)
	}
	return res, nil
}
