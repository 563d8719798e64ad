// Package detail отдаёт описание драмы из каталога.
package detail

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/dramabox/internal/http/response"
	"github.com/magabrotheeeer/dramabox/internal/lib/sl"
	"github.com/magabrotheeeer/dramabox/internal/services/catalog"
)

// Service описание драмы.
type Service interface {
	Detail(ctx context.Context, bookID string) (json.RawMessage, error)
}

// Handler обрабатывает GET /dramas/{id}/detail.
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
// @Summary Описание драмы
// @Description Ответ каталога без изменений, без обёртки data.
// @Tags Dramas
// @Produce json
// @Param id path string true "bookId"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Пустой bookId"
// @Failure 502 {object} response.ErrorResponse "Каталог недоступен"
// @Router /dramas/{id}/detail [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.dramas.detail"

	bookID := chi.URLParam(r, "id")
	raw, err := h.service.Detail(r.Context(), bookID)
	if errors.Is(err, catalog.ErrEmptyBookID) {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("book id is required"))
		return
	}
	if err != nil {
		h.log.Error("catalog detail failed",
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("book_id", bookID),
			sl.Err(err))
		render.Status(r, http.StatusBadGateway)
		render.JSON(w, r, response.Error("catalog unavailable"))
		return
	}
	render.JSON(w, r, response.StatusOKWithData(raw))
}
