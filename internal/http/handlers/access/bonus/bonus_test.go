package bonus

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/dramabox/internal/http/middlewarectx"
	"github.com/magabrotheeeer/dramabox/internal/models"
	"github.com/magabrotheeeer/dramabox/internal/services/access"
	"github.com/magabrotheeeer/dramabox/internal/storage"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) GrantDailyBonus(ctx context.Context, id models.Identity) (access.BonusResult, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(access.BonusResult), args.Error(1)
}

func TestBonusHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	member := models.MemberIdentity(7, "alice")

	tests := []struct {
		name       string
		result     access.BonusResult
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "granted",
			result:     access.BonusResult{Granted: true, Tickets: 3, Day: "2025-03-01"},
			wantStatus: http.StatusOK,
			wantBody:   `"granted":true,"tickets":3,"day":"2025-03-01"`,
		},
		{
			name:       "already granted today",
			result:     access.BonusResult{Tickets: 3, Day: "2025-03-01"},
			wantStatus: http.StatusOK,
			wantBody:   `"granted":false`,
		},
		{
			name:       "member deleted",
			err:        fmt.Errorf("access.GrantDailyBonus: %w", storage.ErrNotFound),
			wantStatus: http.StatusUnauthorized,
			wantBody:   `member not found`,
		},
		{
			name:       "store down",
			err:        errors.New("db down"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `failed to grant daily bonus`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			svc.On("GrantDailyBonus", mock.Anything, member).Return(tt.result, tt.err).Once()

			req := httptest.NewRequest(http.MethodPost, "/access/bonus", nil)
			req = req.WithContext(middlewarectx.WithIdentity(req.Context(), member))
			rec := httptest.NewRecorder()
			New(logger, svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
			svc.AssertExpectations(t)
		})
	}

	t.Run("no identity", func(t *testing.T) {
		rec := httptest.NewRecorder()
		New(logger, new(MockService)).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/access/bonus", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
