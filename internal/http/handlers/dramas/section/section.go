// Package section отдаёт витрины каталога: vip, dubindo, random, foryou,
// trending, latest, populersearch.
package section

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

// Service витрины каталога.
type Service interface {
	Section(ctx context.Context, name string) ([]models.DramaSection, error)
}

// Handler обрабатывает GET /dramas/{id}, где id: имя витрины.
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
// @Summary Витрина каталога
// @Tags Dramas
// @Produce json
// @Param id path string true "Имя витрины" Enums(vip, dubindo, random, foryou, trending, latest, populersearch)
// @Success 200 {object} response.Response{data=[]models.DramaSection}
// @Failure 404 {object} response.ErrorResponse "Неизвестная витрина"
// @Failure 502 {object} response.ErrorResponse "Каталог недоступен"
// @Router /dramas/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.dramas.section"

	name := chi.URLParam(r, "id")
	list, err := h.service.Section(r.Context(), name)
	if errors.Is(err, catalog.ErrUnknownSection) {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("unknown section"))
		return
	}
	if err != nil {
		h.log.Error("catalog request failed",
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("section", name),
			sl.Err(err))
		render.Status(r, http.StatusBadGateway)
		render.JSON(w, r, response.Error("catalog unavailable"))
		return
	}
	render.JSON(w, r, response.StatusOKWithData(list))
}
