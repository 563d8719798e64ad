package memberupsert

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/dramabox/internal/models"
	"github.com/magabrotheeeer/dramabox/internal/services/members"
	"github.com/magabrotheeeer/dramabox/internal/storage"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Upsert(ctx context.Context, req models.DummyMember) (models.MemberView, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(models.MemberView), args.Error(1)
}

func TestUpsertHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name           string
		body           string
		mockView       models.MemberView
		mockErr        error
		callService    bool
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "создание",
			body:           `{"username":"bob","password":"pass","role":"vip","durationDays":30}`,
			mockView:       models.MemberView{ID: 4, Username: "bob", Role: models.RoleVIP, VipActive: true},
			callService:    true,
			expectedStatus: http.StatusOK,
			expectedBody:   `"vipActive":true`,
		},
		{
			name:           "недопустимая роль",
			body:           `{"username":"bob","role":"owner"}`,
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Role must be one of [member vip]`,
		},
		{
			name:           "без пароля",
			body:           `{"username":"bob"}`,
			mockErr:        members.ErrPasswordRequired,
			callService:    true,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   members.ErrPasswordRequired.Error(),
		},
		{
			name:           "не найден",
			body:           `{"id":99,"username":"bob"}`,
			mockErr:        storage.ErrNotFound,
			callService:    true,
			expectedStatus: http.StatusNotFound,
			expectedBody:   `member not found`,
		},
		{
			name:           "имя занято",
			body:           `{"username":"Bob","password":"pass"}`,
			mockErr:        storage.ErrUsernameTaken,
			callService:    true,
			expectedStatus: http.StatusConflict,
			expectedBody:   `username already taken`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			if tt.callService {
				svc.On("Upsert", mock.Anything, mock.AnythingOfType("models.DummyMember")).Return(tt.mockView, tt.mockErr).Once()
			}

			req := httptest.NewRequest(http.MethodPost, "/members", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			New(logger, svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.expectedBody)
			svc.AssertExpectations(t)
		})
	}
}
