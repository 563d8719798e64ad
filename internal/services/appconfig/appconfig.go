// Package appconfig хранит глобальные настройки приложения: бесплатный режим, рекламу,
// цены, оформление и учётные данные администратора.
//
// Источник истины: PostgreSQL. Redis держит короткоживущую копию для чтения и
// бессрочную последнюю известную копию, которая отдаётся, если база недоступна.
package appconfig

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/dramabox/internal/lib/password"
	"github.com/magabrotheeeer/dramabox/internal/lib/sl"
	"github.com/magabrotheeeer/dramabox/internal/models"
	"github.com/magabrotheeeer/dramabox/internal/storage"
)

const (
	cacheKey     = "appconfig"
	lastKnownKey = "appconfig:last"

	// DefaultAdminPassword пароль администратора до первой смены.
	DefaultAdminPassword = "admin"
)

// Repository хранилище документа конфигурации.
type Repository interface {
	GetAppConfig(ctx context.Context) (*models.AppConfig, error)
	MergeAppConfig(ctx context.Context, base models.AppConfig, patch []byte) (*models.AppConfig, error)
}

// Cache JSON-кеш.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

// Service сервис конфигурации.
type Service struct {
	repo  Repository
	cache Cache
	ttl   time.Duration
	log   *slog.Logger
}

// NewService создаёт сервис конфигурации. cache может быть nil.
func NewService(repo Repository, cache Cache, ttl time.Duration, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		ttl:   ttl,
		log:   log,
	}
}

// Get возвращает текущую конфигурацию вместе с хэшем пароля администратора.
// Наружу её следует отдавать через AppConfig.Public.
func (s *Service) Get(ctx context.Context) (models.AppConfig, error) {
	const op = "appconfig.Get"
	log := s.log.With(sl.Op(op))

	var cfg models.AppConfig
	if s.cacheGet(ctx, cacheKey, &cfg) {
		return cfg, nil
	}

	stored, err := s.repo.GetAppConfig(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		stored, err = s.seed(ctx)
	}
	if err != nil {
		if s.cacheGet(ctx, lastKnownKey, &cfg) {
			log.Warn("storage unavailable, serving last known config", sl.Err(err))
			return cfg, nil
		}
		return models.AppConfig{}, fmt.Errorf("%s: %w", op, err)
	}

	s.cacheSet(ctx, *stored)
	return *stored, nil
}

// Merge применяет частичное обновление и возвращает новую конфигурацию.
// Открытый пароль администратора заменяется его bcrypt-хэшем.
func (s *Service) Merge(ctx context.Context, patch models.DummyAppConfig) (models.AppConfig, error) {
	const op = "appconfig.Merge"

	doc, err := patchDocument(patch)
	if err != nil {
		return models.AppConfig{}, fmt.Errorf("%s: %w", op, err)
	}
	base, err := defaults()
	if err != nil {
		return models.AppConfig{}, fmt.Errorf("%s: %w", op, err)
	}

	cfg, err := s.repo.MergeAppConfig(ctx, base, doc)
	if err != nil {
		return models.AppConfig{}, fmt.Errorf("%s: %w", op, err)
	}
	s.cacheSet(ctx, *cfg)
	s.log.Info("app config updated", sl.Op(op), slog.Bool("is_free_app", cfg.IsFreeApp))
	return *cfg, nil
}

// VerifyAdmin проверяет учётные данные владельца и возвращает его отображаемое имя.
func (s *Service) VerifyAdmin(ctx context.Context, username, rawPassword string) (string, bool, error) {
	const op = "appconfig.VerifyAdmin"

	cfg, err := s.Get(ctx)
	if err != nil {
		return "", false, fmt.Errorf("%s: %w", op, err)
	}
	if username != cfg.AdminUsername || cfg.AdminPasswordHash == "" {
		return "", false, nil
	}
	err = password.CompareHash(cfg.AdminPasswordHash, rawPassword)
	if errors.Is(err, password.ErrMismatch) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%s: %w", op, err)
	}
	return cfg.AdminDisplayName, true, nil
}

// IsFreeMode сообщает, включён ли бесплатный режим. Если конфигурация недоступна,
// режим считается выключенным.
func (s *Service) IsFreeMode(ctx context.Context) bool {
	cfg, err := s.Get(ctx)
	if err != nil {
		s.log.Error("failed to read free mode flag", sl.Op("appconfig.IsFreeMode"), sl.Err(err))
		return false
	}
	return cfg.IsFreeApp
}

func (s *Service) seed(ctx context.Context) (*models.AppConfig, error) {
	base, err := defaults()
	if err != nil {
		return nil, err
	}
	cfg, err := s.repo.MergeAppConfig(ctx, base, []byte("{}"))
	if err != nil {
		return nil, err
	}
	s.log.Info("default app config stored")
	return cfg, nil
}

func defaults() (models.AppConfig, error) {
	cfg := models.DefaultAppConfig()
	hash, err := password.GetHash(DefaultAdminPassword)
	if err != nil {
		return models.AppConfig{}, err
	}
	cfg.AdminPasswordHash = hash
	return cfg, nil
}

// patchDocument собирает JSON-объект только из заданных полей.
func patchDocument(patch models.DummyAppConfig) ([]byte, error) {
	raw, err := json.Marshal(patch)
	if err != nil {
		return nil, err
	}
	fields := map[string]any{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	for k, v := range fields {
		if v == nil {
			delete(fields, k)
		}
	}
	delete(fields, "adminPassword")
	if patch.AdminPassword != nil {
		hash, err := password.GetHash(*patch.AdminPassword)
		if err != nil {
			return nil, err
		}
		fields["adminPasswordHash"] = hash
	}
	return json.Marshal(fields)
}

func (s *Service) cacheGet(ctx context.Context, key string, cfg *models.AppConfig) bool {
	if s.cache == nil {
		return false
	}
	ok, err := s.cache.Get(ctx, key, cfg)
	if err != nil {
		s.log.Warn("config cache read failed", slog.String("key", key), sl.Err(err))
		return false
	}
	return ok
}

func (s *Service) cacheSet(ctx context.Context, cfg models.AppConfig) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKey, cfg, s.ttl); err != nil {
		s.log.Warn("config cache write failed", sl.Err(err))
	}
	if err := s.cache.Set(ctx, lastKnownKey, cfg, 0); err != nil {
		s.log.Warn("config cache write failed", sl.Err(err))
	}
}
