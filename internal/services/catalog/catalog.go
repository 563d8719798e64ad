// Package catalog проксирует внешний каталог драм: кеширует ответы в Redis
// и приводит их к каноническим структурам.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	catalogclient "github.com/magabrotheeeer/dramabox/internal/catalog"
	"github.com/magabrotheeeer/dramabox/internal/lib/sl"
	"github.com/magabrotheeeer/dramabox/internal/metrics"
	"github.com/magabrotheeeer/dramabox/internal/models"
)

var (
	// ErrUnknownSection запрошена несуществующая витрина.
	ErrUnknownSection = errors.New("unknown catalog section")
	// ErrEmptyQuery пустая строка поиска.
	ErrEmptyQuery = errors.New("empty search query")
	// ErrEmptyBookID не указан идентификатор драмы.
	ErrEmptyBookID = errors.New("empty book id")
)

type endpoint struct {
	path  string
	query url.Values
}

// sections витрины каталога. latest в каталоге отдельного адреса не имеет и совпадает с trending.
var sections = map[string]endpoint{
	"vip":           {path: "/dramabox/vip"},
	"dubindo":       {path: "/dramabox/dubindo", query: url.Values{"classify": {"terbaru"}}},
	"random":        {path: "/dramabox/randomdrama"},
	"foryou":        {path: "/dramabox/foryou"},
	"trending":      {path: "/dramabox/trending"},
	"latest":        {path: "/dramabox/trending"},
	"populersearch": {path: "/dramabox/populersearch"},
}

// SectionNames допустимые имена витрин.
func SectionNames() []string {
	return []string{"vip", "dubindo", "random", "foryou", "trending", "latest", "populersearch"}
}

// Fetcher выполняет запрос к каталогу.
type Fetcher interface {
	Get(ctx context.Context, path string, query url.Values) ([]byte, error)
}

// Cache кеш ответов каталога.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

// Service доступ к каталогу с кешированием.
type Service struct {
	client Fetcher
	cache  Cache
	ttl    time.Duration
	log    *slog.Logger
}

// NewService создаёт сервис каталога. cache может быть nil.
func NewService(client Fetcher, cache Cache, ttl time.Duration, log *slog.Logger) *Service {
	return &Service{
		client: client,
		cache:  cache,
		ttl:    ttl,
		log:    log,
	}
}

// Section возвращает витрину по имени.
func (s *Service) Section(ctx context.Context, name string) ([]models.DramaSection, error) {
	const op = "catalog.Section"
	ep, ok := sections[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w: %s", op, ErrUnknownSection, name)
	}
	raw, err := s.fetch(ctx, name, ep.path, ep.query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return catalogclient.NormalizeDramas(raw, s.log), nil
}

// Search ищет драмы по строке.
func (s *Service) Search(ctx context.Context, query string) ([]models.DramaSection, error) {
	const op = "catalog.Search"
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptyQuery)
	}
	raw, err := s.fetch(ctx, "search", "/dramabox/search", url.Values{"query": {query}})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return catalogclient.NormalizeDramas(raw, s.log), nil
}

// Detail возвращает описание драмы как есть, без обёртки data.
func (s *Service) Detail(ctx context.Context, bookID string) (json.RawMessage, error) {
	const op = "catalog.Detail"
	raw, err := s.detail(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}
	if json.Unmarshal(raw, &wrapper) == nil && len(wrapper.Data) > 0 && wrapper.Data[0] == '{' {
		return wrapper.Data, nil
	}
	if !json.Valid(raw) {
		return json.RawMessage("null"), nil
	}
	return raw, nil
}

// Episodes возвращает нормализованный список эпизодов. Если каталог не вернул
// ни одного эпизода, список заполняется заглушками по числу глав из detail.
func (s *Service) Episodes(ctx context.Context, bookID string) ([]models.Episode, error) {
	const op = "catalog.Episodes"
	bookID = strings.TrimSpace(bookID)
	if bookID == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptyBookID)
	}

	raw, err := s.fetch(ctx, "allepisode", "/dramabox/allepisode", url.Values{"bookId": {bookID}})
	if err != nil {
		s.log.Warn("episode list unavailable, using placeholders", sl.Op(op), sl.Err(err))
	}
	var episodes []models.Episode
	if err == nil {
		episodes = catalogclient.NormalizeEpisodes(raw, s.log)
	}
	if len(episodes) > 0 {
		return episodes, nil
	}

	count := 0
	if detail, derr := s.detail(ctx, bookID); derr == nil {
		count = catalogclient.ChapterCount(detail)
	} else if err != nil {
		return nil, fmt.Errorf("%s: %w", op, errors.Join(err, derr))
	}
	return catalogclient.Placeholder(count).Episodes(), nil
}

func (s *Service) detail(ctx context.Context, bookID string) ([]byte, error) {
	bookID = strings.TrimSpace(bookID)
	if bookID == "" {
		return nil, ErrEmptyBookID
	}
	return s.fetch(ctx, "detail", "/dramabox/detail", url.Values{"bookId": {bookID}})
}

// fetch читает ответ из кеша или из каталога. Ошибки кеша только логируются.
func (s *Service) fetch(ctx context.Context, name, path string, query url.Values) ([]byte, error) {
	key := "catalog:" + path
	if len(query) > 0 {
		key += "?" + query.Encode()
	}
	log := s.log.With(slog.String("key", key))

	if s.cache != nil {
		var cached json.RawMessage
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			log.Warn("catalog cache read failed", sl.Err(err))
		}
		if found {
			metrics.CatalogRequests.WithLabelValues(name, "cache").Inc()
			return cached, nil
		}
	}

	raw, err := s.client.Get(ctx, path, query)
	if err != nil {
		metrics.CatalogRequests.WithLabelValues(name, "error").Inc()
		return nil, err
	}
	metrics.CatalogRequests.WithLabelValues(name, "remote").Inc()

	if s.cache != nil && json.Valid(raw) {
		if err := s.cache.Set(ctx, key, json.RawMessage(raw), s.ttl); err != nil {
			log.Warn("catalog cache write failed", sl.Err(err))
		}
	}
	return raw, nil
}
