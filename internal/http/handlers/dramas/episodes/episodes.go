// Package episodes отдаёт нормализованный список эпизодов драмы.
package episodes

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/dramabox/internal/http/response"
	"github.com/magabrotheeeer/dramabox/internal/lib/sl"
	"github.com/magabrotheeeer/dramabox/internal/models"
	"github.com/magabrotheeeer/dramabox/internal/services/catalog"
)

// Service список эпизодов.
type Service interface {
	Episodes(ctx context.Context, bookID string) ([]models.Episode, error)
}

// Handler обрабатывает GET /dramas/{id}/episodes.
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
// @Summary Эпизоды драмы
// @Description Эпизоды с индексом, названием и адресом видео. Если адрес получить не удалось, available=false.
// @Tags Dramas
// @Produce json
// @Param id path string true "bookId"
// @Success 200 {object} response.Response{data=[]models.Episode}
// @Failure 400 {object} response.ErrorResponse "Пустой bookId"
// @Failure 502 {object} response.ErrorResponse "Каталог недоступен"
// @Router /dramas/{id}/episodes [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.dramas.episodes"

	bookID := chi.URLParam(r, "id")
	list, err := h.service.Episodes(r.Context(), bookID)
	if errors.Is(err, catalog.ErrEmptyBookID) {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("book id is required"))
		return
	}
	if err != nil {
		h.log.Error("catalog episodes failed",
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("book_id", bookID),
			sl.Err(err))
		render.Status(r, http.StatusBadGateway)
		render.JSON(w, r, response.Error("catalog unavailable"))
		return
	}
	render.JSON(w, r, response.StatusOKWithData(list))
}
