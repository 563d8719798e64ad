package register

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/dramabox/internal/models"
	"github.com/magabrotheeeer/dramabox/internal/services/auth"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Register(ctx context.Context, email, username, password string) (auth.Session, error) {
	args := m.Called(ctx, email, username, password)
	return args.Get(0).(auth.Session), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestRegisterHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMock      func(m *MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешная регистрация",
			body: `{"username":"alice","password":"pass1","email":"alice@example.com"}`,
			setupMock: func(m *MockService) {
				m.On("Register", mock.Anything, "alice@example.com", "alice", "pass1").
					Return(auth.Session{Token: "tok", Username: "alice", Role: models.RoleMember, MemberID: 9}, nil).Once()
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"memberId":9`,
		},
		{
			name:           "некорректный json",
			body:           `{`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid request body"}`,
		},
		{
			name:           "короткое имя",
			body:           `{"username":"al","password":"pass1"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Username must be at least 3 characters`,
		},
		{
			name: "имя занято",
			body: `{"username":"Alice","password":"pass1"}`,
			setupMock: func(m *MockService) {
				m.On("Register", mock.Anything, "", "Alice", "pass1").
					Return(auth.Session{}, auth.ErrUsernameTaken).Once()
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `{"status":"Error","error":"username already taken"}`,
		},
		{
			name: "ошибка сервиса",
			body: `{"username":"alice","password":"pass1"}`,
			setupMock: func(m *MockService) {
				m.On("Register", mock.Anything, "", "alice", "pass1").
					Return(auth.Session{}, errors.New("db error")).Once()
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"failed to register"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			New(newNoopLogger(), svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.expectedBody)
			svc.AssertExpectations(t)
		})
	}
}
