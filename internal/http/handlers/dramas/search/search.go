// Package search ищет драмы в каталоге.
package search

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/dramabox/internal/http/response"
	"github.com/magabrotheeeer/dramabox/internal/lib/sl"
	"github.com/magabrotheeeer/dramabox/internal/models"
	"github.com/magabrotheeeer/dramabox/internal/services/catalog"
)

// Service поиск по каталогу.
type Service interface {
	Search(ctx context.Context, query string) ([]models.DramaSection, error)
}

// Handler обрабатывает GET /dramas/search.
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
// @Summary Поиск драм
// @Tags Dramas
// @Produce json
// @Param query query string true "Строка поиска"
// @Success 200 {object} response.Response{data=[]models.DramaSection}
// @Failure 400 {object} response.ErrorResponse "Пустой запрос"
// @Failure 502 {object} response.ErrorResponse "Каталог недоступен"
// @Router /dramas/search [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.dramas.search"

	list, err := h.service.Search(r.Context(), r.URL.Query().Get("query"))
	if errors.Is(err, catalog.ErrEmptyQuery) {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("query is required"))
		return
	}
	if err != nil {
		h.log.Error("catalog search failed",
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			sl.Err(err))
		render.Status(r, http.StatusBadGateway)
		render.JSON(w, r, response.Error("catalog unavailable"))
		return
	}
	render.JSON(w, r, response.StatusOKWithData(list))
}
