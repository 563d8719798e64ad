// Package unlock открывает эпизод: по VIP, по журналу или за один билет.
// Эпизод сначала ищется в каталоге, так что билет не тратится на несуществующий
// или недоступный эпизод.
package unlock

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/dramabox/internal/catalog"
	"github.com/magabrotheeeer/dramabox/internal/http/middlewarectx"
	"github.com/magabrotheeeer/dramabox/internal/http/response"
	"github.com/magabrotheeeer/dramabox/internal/lib/sl"
	"github.com/magabrotheeeer/dramabox/internal/models"
	"github.com/magabrotheeeer/dramabox/internal/services/access"
	"github.com/magabrotheeeer/dramabox/internal/services/playback"
	"github.com/magabrotheeeer/dramabox/internal/storage"
)

// Service открытие эпизода по идентификатору.
type Service interface {
	Unlock(ctx context.Context, id models.Identity, episodeID string) (playback.Result, error)
}

// Handler обрабатывает POST /access/episodes/{episodeID}/unlock.
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
// @Summary Открыть эпизод
// @Description Отказ в доступе возвращается как allowed=false с кодом 200. Повторное открытие билет не списывает.
// @Tags Access
// @Produce json
// @Security BearerAuth
// @Param X-Guest-ID header string false "Идентификатор гостя"
// @Param episodeID path string true "Эпизод {dramaId}_{index}"
// @Success 200 {object} response.Response{data=playback.Result}
// @Failure 400 {object} response.ErrorResponse "Некорректный идентификатор эпизода"
// @Failure 401 {object} response.ErrorResponse "Нет личности или участник удалён"
// @Failure 404 {object} response.ErrorResponse "Эпизода нет в каталоге"
// @Failure 409 {object} response.ErrorResponse "Эпизод недоступен"
// @Failure 502 {object} response.ErrorResponse "Каталог недоступен"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /access/episodes/{episodeID}/unlock [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.access.unlock"

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
	episodeID := chi.URLParam(r, "episodeID")

	res, err := h.service.Unlock(r.Context(), id, episodeID)
	switch {
	case errors.Is(err, access.ErrInvalidEpisodeID):
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid episode id"))
		return
	case errors.Is(err, playback.ErrEpisodeNotFound):
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("episode not found"))
		return
	case errors.Is(err, playback.ErrEpisodeUnavailable):
		render.Status(r, http.StatusConflict)
		render.JSON(w, r, response.Error("episode unavailable"))
		return
	case errors.Is(err, storage.ErrNotFound):
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("member not found"))
		return
	case errors.Is(err, catalog.ErrUpstream):
		log.Error("catalog unavailable", slog.String("episode_id", episodeID), sl.Err(err))
		render.Status(r, http.StatusBadGateway)
		render.JSON(w, r, response.Error("catalog unavailable"))
		return
	case err != nil:
		log.Error("failed to unlock episode", slog.String("episode_id", episodeID), sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to unlock episode"))
		return
	}
	render.JSON(w, r, response.StatusOKWithData(res))
}
