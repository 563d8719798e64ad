// Package guest выдаёт идентификатор устройства для анонимного просмотра.
package guest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/dramabox/internal/http/response"
)

// Response идентификатор гостя, который клиент передаёт в X-Guest-ID.
type Response struct {
	GuestID string `json:"guestId"`
}

// Handler обрабатывает POST /guest.
type Handler struct {
	log *slog.Logger
}

// New создаёт обработчик.
func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

// ServeHTTP godoc
// @Summary Гостевой идентификатор
// @Description Выдаёт новый идентификатор устройства. Билеты и журнал гостя привязаны к нему.
// @Tags Auth
// @Produce json
// @Success 201 {object} response.Response{data=Response}
// @Router /guest [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := uuid.NewString()
	h.log.Info("guest id issued",
		slog.String("op", "handlers.auth.guest"),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("guest_id", id))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(Response{GuestID: id}))
}
