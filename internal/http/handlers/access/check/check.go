// Package check отвечает, открыт ли эпизод для личности, ничего не меняя.
package check

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/dramabox/internal/http/middlewarectx"
	"github.com/magabrotheeeer/dramabox/internal/http/response"
	"github.com/magabrotheeeer/dramabox/internal/lib/sl"
	"github.com/magabrotheeeer/dramabox/internal/models"
	"github.com/magabrotheeeer/dramabox/internal/services/access"
	"github.com/magabrotheeeer/dramabox/internal/storage"
)

// Service проверка доступа.
type Service interface {
	IsUnlocked(ctx context.Context, id models.Identity, episodeID string) (bool, error)
}

// Response ответ проверки.
type Response struct {
	EpisodeID string `json:"episodeId"`
	Unlocked  bool   `json:"unlocked"`
}

// Handler обрабатывает GET /access/episodes/{episodeID}.
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
// @Summary Открыт ли эпизод
// @Tags Access
// @Produce json
// @Security BearerAuth
// @Param X-Guest-ID header string false "Идентификатор гостя"
// @Param episodeID path string true "Эпизод {dramaId}_{index}"
// @Success 200 {object} response.Response{data=Response}
// @Failure 400 {object} response.ErrorResponse "Некорректный идентификатор эпизода"
// @Failure 401 {object} response.ErrorResponse "Нет личности или участник удалён"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /access/episodes/{episodeID} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.access.check"

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

	unlocked, err := h.service.IsUnlocked(r.Context(), id, episodeID)
	switch {
	case errors.Is(err, access.ErrInvalidEpisodeID):
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid episode id"))
		return
	case errors.Is(err, storage.ErrNotFound):
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("member not found"))
		return
	case err != nil:
		log.Error("failed to check episode", slog.String("episode_id", episodeID), sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to check episode"))
		return
	}
	render.JSON(w, r, response.StatusOKWithData(Response{EpisodeID: episodeID, Unlocked: unlocked}))
}
