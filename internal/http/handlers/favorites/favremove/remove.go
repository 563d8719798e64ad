// Package favremove убирает драму из избранного.
package favremove

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
	"github.com/magabrotheeeer/dramabox/internal/services/favorites"
)

// Service удаление из избранного.
type Service interface {
	Remove(ctx context.Context, id models.Identity, bookID string) (bool, error)
}

// Handler обрабатывает DELETE /favorites/{bookID}.
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
// @Summary Убрать из избранного
// @Tags Favorites
// @Produce json
// @Security BearerAuth
// @Param X-Guest-ID header string false "Идентификатор гостя"
// @Param bookID path string true "ID драмы"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Некорректный bookID"
// @Failure 401 {object} response.ErrorResponse "Нет личности"
// @Failure 404 {object} response.ErrorResponse "Драмы нет в избранном"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /favorites/{bookID} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.favorites.remove"

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
	bookID := chi.URLParam(r, "bookID")

	removed, err := h.service.Remove(r.Context(), id, bookID)
	switch {
	case errors.Is(err, favorites.ErrInvalidBookID):
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid book id"))
		return
	case err != nil:
		log.Error("failed to remove favorite", slog.String("book_id", bookID), sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to remove favorite"))
		return
	case !removed:
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("favorite not found"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"deleted_id": bookID,
	}))
}
