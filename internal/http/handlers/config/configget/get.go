// Package configget отдаёт публичную конфигурацию приложения.
package configget

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/dramabox/internal/http/response"
	"github.com/magabrotheeeer/dramabox/internal/lib/sl"
	"github.com/magabrotheeeer/dramabox/internal/models"
)

// Service источник конфигурации.
type Service interface {
	Get(ctx context.Context) (models.AppConfig, error)
}

// Handler обрабатывает GET /config.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создаёт обработчик.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Конфигурация приложения
// @Description Возвращает настройки приложения без хэша пароля администратора.
// @Tags Config
// @Produce json
// @Success 200 {object} response.Response{data=models.AppConfig}
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /config [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.config.get"

	cfg, err := h.service.Get(r.Context())
	if err != nil {
		h.log.Error("failed to load config",
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to load config"))
		return
	}
	render.JSON(w, r, response.StatusOKWithData(cfg.Public()))
}
