// Package status отдаёт баланс билетов, признак премиума и журнал личности.
package status

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/dramabox/internal/http/middlewarectx"
	"github.com/magabrotheeeer/dramabox/internal/http/response"
	"github.com/magabrotheeeer/dramabox/internal/lib/sl"
	"github.com/magabrotheeeer/dramabox/internal/models"
	"github.com/magabrotheeeer/dramabox/internal/services/access"
	"github.com/magabrotheeeer/dramabox/internal/storage"
)

// Service сводка доступа.
type Service interface {
	Status(ctx context.Context, id models.Identity) (access.Status, error)
}

// Handler обрабатывает GET /access/status.
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
// @Summary Статус доступа
// @Tags Access
// @Produce json
// @Security BearerAuth
// @Param X-Guest-ID header string false "Идентификатор гостя"
// @Success 200 {object} response.Response{data=access.Status}
// @Failure 401 {object} response.ErrorResponse "Нет личности или участник удалён"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /access/status [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.access.status"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, ok := middlewarectx.IdentityFromContext(r.Context())
	if !ok {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("identity missing"))
		return
	}

	st, err := h.service.Status(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("member not found"))
		return
	}
	if err != nil {
		log.Error("failed to load access status", slog.String("identity", id.String()), sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to load access status"))
		return
	}
	render.JSON(w, r, response.StatusOKWithData(st))
}
