// Package play выдаёт адрес видео эпизода, если личности разрешён просмотр.
package play

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/dramabox/internal/catalog"
	"github.com/magabrotheeeer/dramabox/internal/http/middlewarectx"
	"github.com/magabrotheeeer/dramabox/internal/http/response"
	"github.com/magabrotheeeer/dramabox/internal/lib/sl"
	"github.com/magabrotheeeer/dramabox/internal/models"
	"github.com/magabrotheeeer/dramabox/internal/services/playback"
	"github.com/magabrotheeeer/dramabox/internal/storage"
)

// Request эпизод для воспроизведения.
type Request struct {
	DramaID string `json:"drama_id" validate:"required"`
	Index   int    `json:"index" validate:"gte=0"`
}

// Service сервис воспроизведения.
type Service interface {
	Play(ctx context.Context, id models.Identity, dramaID string, index int) (playback.Result, error)
}

// Handler обрабатывает POST /playback.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создаёт обработчик.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Воспроизведение эпизода
// @Description Проверяет доступ (при необходимости списывает билет) и возвращает videoUrl только при allowed=true.
// @Tags Playback
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param X-Guest-ID header string false "Идентификатор гостя"
// @Param request body Request true "Драма и индекс эпизода"
// @Success 200 {object} response.Response{data=playback.Result}
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 401 {object} response.ErrorResponse "Нет личности или участник удалён"
// @Failure 404 {object} response.ErrorResponse "Эпизод не найден"
// @Failure 409 {object} response.ErrorResponse "Эпизод недоступен"
// @Failure 502 {object} response.ErrorResponse "Каталог недоступен"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /playback [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.playback.play"

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

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			render.Status(r, http.StatusUnprocessableEntity)
			render.JSON(w, r, response.ValidationError(verrs))
			return
		}
		log.Error("validator failure", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	res, err := h.service.Play(r.Context(), id, req.DramaID, req.Index)
	switch {
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
		log.Error("catalog unavailable", sl.Err(err))
		render.Status(r, http.StatusBadGateway)
		render.JSON(w, r, response.Error("catalog unavailable"))
		return
	case err != nil:
		log.Error("playback failed", slog.String("drama_id", req.DramaID), slog.Int("index", req.Index), sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("playback failed"))
		return
	}

	log.Info("playback decision",
		slog.String("identity", id.String()),
		slog.String("episode_id", res.EpisodeID),
		slog.Bool("allowed", res.Allowed),
		slog.String("reason", string(res.Reason)))
	render.JSON(w, r, response.StatusOKWithData(res))
}
