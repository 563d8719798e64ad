package members

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/dramabox/internal/lib/clock"
	"github.com/magabrotheeeer/dramabox/internal/lib/password"
	"github.com/magabrotheeeer/dramabox/internal/models"
	"github.com/magabrotheeeer/dramabox/internal/storage"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateMember(ctx context.Context, member models.Member) (int64, error) {
	args := m.Called(ctx, member)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) UpdateMember(ctx context.Context, member models.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockRepository) GetMember(ctx context.Context, id int64) (*models.Member, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Member), args.Error(1)
}

func (m *MockRepository) ListMembers(ctx context.Context, filter models.MemberFilter) ([]*models.Member, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Member), args.Error(1)
}

func (m *MockRepository) DeleteMember(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

var now = time.Date(2025, 3, 1, 18, 0, 0, 0, time.UTC)

func day(s string) *time.Time {
	d, err := models.ParseDay(s)
	if err != nil {
		panic(err)
	}
	return &d
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestService_List(t *testing.T) {
	repo := new(MockRepository)
	s := NewService(repo, clock.NewFixed(now), newNoopLogger())
	filter := models.MemberFilter{Search: "ali", Role: models.RoleVIP}

	repo.On("ListMembers", mock.Anything, filter).Return([]*models.Member{
		{ID: 1, Username: "alice", Role: models.RoleVIP, JoinDate: *day("2025-01-01"), ExpiryDate: day("2025-04-01")},
		{ID: 2, Username: "alina", Role: models.RoleVIP, JoinDate: *day("2025-01-01"), ExpiryDate: day("2025-02-01")},
	}, nil).Once()

	res, err := s.List(context.Background(), filter)
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.True(t, res[0].VipActive)
	assert.Equal(t, "2025-04-01", *res[0].ExpiryDate)
	assert.False(t, res[1].VipActive)
	repo.AssertExpectations(t)
}

func TestService_UpsertCreate(t *testing.T) {
	repo := new(MockRepository)
	s := NewService(repo, clock.NewFixed(now), newNoopLogger())

	var saved models.Member
	repo.On("CreateMember", mock.Anything, mock.AnythingOfType("models.Member")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(models.Member) }).
		Return(int64(42), nil).Once()

	view, err := s.Upsert(context.Background(), models.DummyMember{
		Username:     "bob",
		Email:        "bob@example.com",
		Password:     "secret",
		Role:         models.RoleVIP,
		DurationDays: 30,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(42), view.ID)
	assert.Equal(t, "2025-03-01", view.JoinDate)
	require.NotNil(t, view.ExpiryDate)
	assert.Equal(t, "2025-03-31", *view.ExpiryDate)
	assert.True(t, view.VipActive)
	assert.Equal(t, models.StatusActive, view.Status)
	assert.Equal(t, 0, view.Tickets)

	assert.NotEqual(t, "secret", saved.PasswordHash)
	assert.NoError(t, password.CompareHash(saved.PasswordHash, "secret"))
	repo.AssertExpectations(t)
}

func TestService_UpsertCreateWithoutPassword(t *testing.T) {
	repo := new(MockRepository)
	s := NewService(repo, clock.NewFixed(now), newNoopLogger())

	_, err := s.Upsert(context.Background(), models.DummyMember{Username: "bob"})
	require.ErrorIs(t, err, ErrPasswordRequired)
	repo.AssertNotCalled(t, "CreateMember", mock.Anything, mock.Anything)
}

func TestService_UpsertUpdate(t *testing.T) {
	existing := func() *models.Member {
		return &models.Member{
			ID:             7,
			Username:       "carol",
			Email:          "carol@example.com",
			PasswordHash:   "old-hash",
			Role:           models.RoleVIP,
			Tickets:        5,
			JoinDate:       *day("2024-12-01"),
			ExpiryDate:     day("2025-05-01"),
			Status:         models.StatusActive,
			LastDailyCheck: day("2025-03-01"),
		}
	}

	tests := []struct {
		name    string
		req     models.DummyMember
		check   func(t *testing.T, m models.Member)
		wantErr error
	}{
		{
			name: "keeps unspecified fields",
			req:  models.DummyMember{ID: 7, Username: "carol", Email: "carol@example.com"},
			check: func(t *testing.T, m models.Member) {
				assert.Equal(t, "old-hash", m.PasswordHash)
				assert.Equal(t, models.RoleVIP, m.Role)
				assert.Equal(t, 5, m.Tickets)
				assert.Equal(t, day("2025-05-01"), m.ExpiryDate)
				assert.Equal(t, day("2025-03-01"), m.LastDailyCheck)
			},
		},
		{
			name: "rename and suspend",
			req:  models.DummyMember{ID: 7, Username: "Caroline", Status: models.StatusSuspended, Tickets: intPtr(0)},
			check: func(t *testing.T, m models.Member) {
				assert.Equal(t, "Caroline", m.Username)
				assert.Equal(t, models.StatusSuspended, m.Status)
				assert.Equal(t, 0, m.Tickets)
			},
		},
		{
			name: "lifetime vip",
			req:  models.DummyMember{ID: 7, Username: "carol", ExpiryDate: strPtr("")},
			check: func(t *testing.T, m models.Member) {
				assert.Nil(t, m.ExpiryDate)
			},
		},
		{
			name: "explicit expiry",
			req:  models.DummyMember{ID: 7, Username: "carol", ExpiryDate: strPtr("2026-01-15")},
			check: func(t *testing.T, m models.Member) {
				assert.Equal(t, day("2026-01-15"), m.ExpiryDate)
			},
		},
		{
			name: "duration wins over explicit date",
			req:  models.DummyMember{ID: 7, Username: "carol", ExpiryDate: strPtr("2026-01-15"), DurationDays: 7},
			check: func(t *testing.T, m models.Member) {
				assert.Equal(t, day("2025-03-08"), m.ExpiryDate)
			},
		},
		{
			name:    "bad expiry",
			req:     models.DummyMember{ID: 7, Username: "carol", ExpiryDate: strPtr("15.01.2026")},
			wantErr: ErrInvalidExpiryDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			s := NewService(repo, clock.NewFixed(now), newNoopLogger())

			repo.On("GetMember", mock.Anything, int64(7)).Return(existing(), nil).Once()
			var saved models.Member
			if tt.wantErr == nil {
				repo.On("UpdateMember", mock.Anything, mock.AnythingOfType("models.Member")).
					Run(func(args mock.Arguments) { saved = args.Get(1).(models.Member) }).
					Return(nil).Once()
			}

			_, err := s.Upsert(context.Background(), tt.req)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, saved)
			repo.AssertExpectations(t)
		})
	}
}

func TestService_UpsertErrors(t *testing.T) {
	t.Run("unknown member", func(t *testing.T) {
		repo := new(MockRepository)
		s := NewService(repo, clock.NewFixed(now), newNoopLogger())
		repo.On("GetMember", mock.Anything, int64(99)).Return(nil, storage.ErrNotFound).Once()

		_, err := s.Upsert(context.Background(), models.DummyMember{ID: 99, Username: "ghost"})
		require.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("username taken", func(t *testing.T) {
		repo := new(MockRepository)
		s := NewService(repo, clock.NewFixed(now), newNoopLogger())
		repo.On("CreateMember", mock.Anything, mock.Anything).Return(int64(0), storage.ErrUsernameTaken).Once()

		_, err := s.Upsert(context.Background(), models.DummyMember{Username: "Alice", Password: "pass"})
		require.ErrorIs(t, err, storage.ErrUsernameTaken)
	})
}

func TestService_DeleteAndGet(t *testing.T) {
	repo := new(MockRepository)
	s := NewService(repo, clock.NewFixed(now), newNoopLogger())

	repo.On("DeleteMember", mock.Anything, int64(3)).Return(nil).Once()
	repo.On("DeleteMember", mock.Anything, int64(4)).Return(storage.ErrNotFound).Once()
	repo.On("GetMember", mock.Anything, int64(5)).Return(&models.Member{
		ID: 5, Username: "dan", Role: models.RoleVIP, JoinDate: *day("2025-01-01"),
	}, nil).Once()

	require.NoError(t, s.Delete(context.Background(), 3))
	require.ErrorIs(t, s.Delete(context.Background(), 4), storage.ErrNotFound)

	view, err := s.Get(context.Background(), 5)
	require.NoError(t, err)
	assert.True(t, view.VipActive, "vip without expiry is lifetime")
	assert.Nil(t, view.ExpiryDate)
	repo.AssertExpectations(t)
}
