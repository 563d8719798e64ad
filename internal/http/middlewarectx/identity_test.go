package middlewarectx

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/dramabox/internal/models"
	"github.com/magabrotheeeer/dramabox/internal/services/auth"
)

type AuthenticatorMock struct {
	mock.Mock
}

func (m *AuthenticatorMock) Authenticate(ctx context.Context, token string) (models.Identity, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(models.Identity), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestIdentityMiddleware(t *testing.T) {
	const guestID = "3F1C1F5E-0000-4000-8000-000000000001"

	tests := []struct {
		name         string
		authHeader   string
		guestHeader  string
		setupMock    func(m *AuthenticatorMock)
		wantStatus   int
		wantIdentity *models.Identity
	}{
		{
			name:       "no identity",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong scheme",
			authHeader: "Basic abc",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "invalid token",
			authHeader: "Bearer bad",
			setupMock: func(m *AuthenticatorMock) {
				m.On("Authenticate", mock.Anything, "bad").Return(models.Identity{}, errors.New("expired")).Once()
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "suspended member",
			authHeader: "Bearer tok",
			setupMock: func(m *AuthenticatorMock) {
				m.On("Authenticate", mock.Anything, "tok").Return(models.Identity{}, auth.ErrSuspended).Once()
			},
			wantStatus: http.StatusForbidden,
		},
		{
			name:        "member token wins over guest header",
			authHeader:  "Bearer tok",
			guestHeader: guestID,
			setupMock: func(m *AuthenticatorMock) {
				m.On("Authenticate", mock.Anything, "tok").Return(models.MemberIdentity(3, "bob"), nil).Once()
			},
			wantStatus:   http.StatusOK,
			wantIdentity: &models.Identity{Kind: models.IdentityMember, MemberID: 3, Username: "bob"},
		},
		{
			name:         "guest normalized",
			guestHeader:  guestID,
			wantStatus:   http.StatusOK,
			wantIdentity: &models.Identity{Kind: models.IdentityGuest, GuestID: "3f1c1f5e-0000-4000-8000-000000000001"},
		},
		{
			name:        "guest id not a uuid",
			guestHeader: "device-1",
			wantStatus:  http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authMock := new(AuthenticatorMock)
			if tt.setupMock != nil {
				tt.setupMock(authMock)
			}

			var got *models.Identity
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				id, ok := IdentityFromContext(r.Context())
				assert.True(t, ok)
				got = &id
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/v1/access/status", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			if tt.guestHeader != "" {
				req.Header.Set(GuestHeader, tt.guestHeader)
			}
			rec := httptest.NewRecorder()

			IdentityMiddleware(authMock, newNoopLogger())(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantIdentity, got)
			authMock.AssertExpectations(t)
		})
	}
}

func TestOwnerOnly(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := OwnerOnly(newNoopLogger())(next)

	tests := []struct {
		name string
		id   *models.Identity
		want int
	}{
		{"no identity", nil, http.StatusForbidden},
		{"guest", &models.Identity{Kind: models.IdentityGuest, GuestID: "x"}, http.StatusForbidden},
		{"member", &models.Identity{Kind: models.IdentityMember, MemberID: 1, Username: "a"}, http.StatusForbidden},
		{"owner", &models.Identity{Kind: models.IdentityOwner, Username: "Admin"}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/members", nil)
			if tt.id != nil {
				req = req.WithContext(WithIdentity(req.Context(), *tt.id))
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
