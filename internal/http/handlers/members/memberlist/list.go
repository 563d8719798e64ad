// Package memberlist отдаёт владельцу список участников.
package memberlist

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

// Service список участников.
type Service interface {
	List(ctx context.Context, filter models.MemberFilter) ([]models.MemberView, error)
}

// Handler обрабатывает GET /members.
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
// @Summary Список участников
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Param search query string false "Подстрока имени или e-mail"
// @Param role query string false "Роль" Enums(member, vip)
// @Success 200 {object} response.Response{data=[]models.MemberView}
// @Failure 403 {object} response.ErrorResponse "Только для владельца"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /members [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.members.list"

	filter := models.MemberFilter{
		Search: r.URL.Query().Get("search"),
		Role:   models.Role(r.URL.Query().Get("role")),
	}
	list, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.log.Error("failed to list members",
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list members"))
		return
	}
	render.JSON(w, r, response.StatusOKWithData(list))
}
