// Package middlewarectx содержит HTTP middleware для определения личности запроса.
//
// IdentityMiddleware берёт личность из JWT в заголовке Authorization или, если токена нет,
// из идентификатора устройства гостя в заголовке X-Guest-ID и кладёт её в контекст.
// OwnerOnly пропускает только владельца.
package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/dramabox/internal/http/response"
	"github.com/magabrotheeeer/dramabox/internal/lib/sl"
	"github.com/magabrotheeeer/dramabox/internal/models"
	"github.com/magabrotheeeer/dramabox/internal/services/auth"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// IdentityKey ключ личности запроса в контексте.
const IdentityKey Key = "identity"

// GuestHeader заголовок с идентификатором устройства гостя.
const GuestHeader = "X-Guest-ID"

// Authenticator проверяет JWT и возвращает личность.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (models.Identity, error)
}

// WithIdentity кладёт личность в контекст.
func WithIdentity(ctx context.Context, id models.Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, id)
}

// IdentityFromContext достаёт личность, положенную IdentityMiddleware.
func IdentityFromContext(ctx context.Context) (models.Identity, bool) {
	id, ok := ctx.Value(IdentityKey).(models.Identity)
	return id, ok
}

// IdentityMiddleware возвращает middleware, который определяет личность запроса.
//
// При наличии заголовка Authorization используется только токен: невалидный токен
// даёт 401, приостановленный участник 403. Без токена требуется X-Guest-ID в формате UUID.
func IdentityMiddleware(authenticator Authenticator, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.IdentityMiddleware"
			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			if authHeader := r.Header.Get("Authorization"); authHeader != "" {
				if !strings.HasPrefix(authHeader, "Bearer ") {
					log.Error("invalid authorization header")
					render.Status(r, http.StatusUnauthorized)
					render.JSON(w, r, response.Error("invalid authorization header"))
					return
				}
				id, err := authenticator.Authenticate(r.Context(), strings.TrimPrefix(authHeader, "Bearer "))
				if errors.Is(err, auth.ErrSuspended) {
					log.Info("suspended member rejected", sl.Err(err))
					render.Status(r, http.StatusForbidden)
					render.JSON(w, r, response.Error("account suspended"))
					return
				}
				if err != nil {
					log.Error("invalid or expired token", sl.Err(err))
					render.Status(r, http.StatusUnauthorized)
					render.JSON(w, r, response.Error("invalid or expired token"))
					return
				}
				next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
				return
			}

			guestID := r.Header.Get(GuestHeader)
			if guestID == "" {
				log.Error("identity missing")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("authorization token or guest id required"))
				return
			}
			parsed, err := uuid.Parse(guestID)
			if err != nil {
				log.Error("invalid guest id", sl.Err(err))
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.Error("invalid guest id"))
				return
			}
			id := models.GuestIdentity(parsed.String())
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// OwnerOnly пропускает только владельца. Должен стоять после IdentityMiddleware.
func OwnerOnly(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFromContext(r.Context())
			if !ok || !id.IsOwner() {
				log.Warn("owner access denied",
					slog.String("request_id", middleware.GetReqID(r.Context())),
					slog.String("identity", id.String()))
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("owner access required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
