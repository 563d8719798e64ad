// Package dramabox собирает HTTP API сервиса: маршруты, зависимости и запуск серверов.
package dramabox

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/dramabox/internal/config"
	"github.com/magabrotheeeer/dramabox/internal/http/handlers/access/bonus"
	"github.com/magabrotheeeer/dramabox/internal/http/handlers/access/check"
	"github.com/magabrotheeeer/dramabox/internal/http/handlers/access/status"
	"github.com/magabrotheeeer/dramabox/internal/http/handlers/access/unlock"
	"github.com/magabrotheeeer/dramabox/internal/http/handlers/auth/guest"
	"github.com/magabrotheeeer/dramabox/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/dramabox/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/dramabox/internal/http/handlers/config/configget"
	"github.com/magabrotheeeer/dramabox/internal/http/handlers/config/configupdate"
	"github.com/magabrotheeeer/dramabox/internal/http/handlers/dramas/detail"
	"github.com/magabrotheeeer/dramabox/internal/http/handlers/dramas/episodes"
	"github.com/magabrotheeeer/dramabox/internal/http/handlers/dramas/search"
	"github.com/magabrotheeeer/dramabox/internal/http/handlers/dramas/section"
	"github.com/magabrotheeeer/dramabox/internal/http/handlers/favorites/favadd"
	"github.com/magabrotheeeer/dramabox/internal/http/handlers/favorites/favcheck"
	"github.com/magabrotheeeer/dramabox/internal/http/handlers/favorites/favlist"
	"github.com/magabrotheeeer/dramabox/internal/http/handlers/favorites/favremove"
	"github.com/magabrotheeeer/dramabox/internal/http/handlers/favorites/favtoggle"
	"github.com/magabrotheeeer/dramabox/internal/http/handlers/health"
	"github.com/magabrotheeeer/dramabox/internal/http/handlers/members/memberlist"
	"github.com/magabrotheeeer/dramabox/internal/http/handlers/members/memberremove"
	"github.com/magabrotheeeer/dramabox/internal/http/handlers/members/memberupsert"
	"github.com/magabrotheeeer/dramabox/internal/http/handlers/playback/play"
	"github.com/magabrotheeeer/dramabox/internal/http/middlewarectx"
	accessservice "github.com/magabrotheeeer/dramabox/internal/services/access"
	"github.com/magabrotheeeer/dramabox/internal/services/appconfig"
	authservice "github.com/magabrotheeeer/dramabox/internal/services/auth"
	catalogservice "github.com/magabrotheeeer/dramabox/internal/services/catalog"
	"github.com/magabrotheeeer/dramabox/internal/services/favorites"
	"github.com/magabrotheeeer/dramabox/internal/services/members"
	"github.com/magabrotheeeer/dramabox/internal/services/playback"
)

// Services зависимости обработчиков.
type Services struct {
	Auth      *authservice.Service
	Members   *members.Service
	Config    *appconfig.Service
	Access    *accessservice.Service
	Playback  *playback.Service
	Catalog   *catalogservice.Service
	Favorites *favorites.Service
	Health    map[string]health.Pinger
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg config.HTTPServer, s Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middlewarectx.RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst, logger))

		// Открытые конечные точки
		r.Post("/register", register.New(logger, s.Auth).ServeHTTP)
		r.Post("/login", login.New(logger, s.Auth).ServeHTTP)
		r.Post("/guest", guest.New(logger).ServeHTTP)
		r.Get("/config", configget.New(logger, s.Config).ServeHTTP)

		// Каталог
		r.Get("/dramas/search", search.New(logger, s.Catalog).ServeHTTP)
		r.Get("/dramas/{id}", section.New(logger, s.Catalog).ServeHTTP)
		r.Get("/dramas/{id}/detail", detail.New(logger, s.Catalog).ServeHTTP)
		r.Get("/dramas/{id}/episodes", episodes.New(logger, s.Catalog).ServeHTTP)

		// Участник, гость или владелец
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.IdentityMiddleware(s.Auth, logger))
			r.Get("/access/status", status.New(logger, s.Access).ServeHTTP)
			r.Post("/access/bonus", bonus.New(logger, s.Access).ServeHTTP)
			r.Get("/access/episodes/{episodeID}", check.New(logger, s.Access).ServeHTTP)
			r.Post("/access/episodes/{episodeID}/unlock", unlock.New(logger, s.Playback).ServeHTTP)
			r.Post("/playback", play.New(logger, s.Playback).ServeHTTP)

			// Библиотека
			r.Get("/favorites", favlist.New(logger, s.Favorites).ServeHTTP)
			r.Post("/favorites", favadd.New(logger, s.Favorites).ServeHTTP)
			r.Post("/favorites/toggle", favtoggle.New(logger, s.Favorites).ServeHTTP)
			r.Get("/favorites/{bookID}", favcheck.New(logger, s.Favorites).ServeHTTP)
			r.Delete("/favorites/{bookID}", favremove.New(logger, s.Favorites).ServeHTTP)

			// Только владелец
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.OwnerOnly(logger))
				r.Post("/config", configupdate.New(logger, s.Config).ServeHTTP)
				r.Get("/members", memberlist.New(logger, s.Members).ServeHTTP)
				r.Post("/members", memberupsert.New(logger, s.Members).ServeHTTP)
				r.Delete("/members/{id}", memberremove.New(logger, s.Members).ServeHTTP)
			})
		})
	})

	r.Get("/health", health.New(logger, s.Health).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
