package auth_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/dramabox/internal/lib/clock"
	customjwt "github.com/magabrotheeeer/dramabox/internal/lib/jwt"
	"github.com/magabrotheeeer/dramabox/internal/lib/password"
	"github.com/magabrotheeeer/dramabox/internal/models"
	"github.com/magabrotheeeer/dramabox/internal/services/auth"
	"github.com/magabrotheeeer/dramabox/internal/storage"
)

// Мок для MemberRepository
type MemberRepoMock struct {
	mock.Mock
}

func (m *MemberRepoMock) CreateMember(ctx context.Context, member models.Member) (int64, error) {
	args := m.Called(ctx, member)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MemberRepoMock) GetMember(ctx context.Context, id int64) (*models.Member, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Member), args.Error(1)
}

func (m *MemberRepoMock) GetMemberByUsername(ctx context.Context, username string) (*models.Member, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Member), args.Error(1)
}

// Мок для AdminVerifier
type AdminMock struct {
	mock.Mock
}

func (m *AdminMock) VerifyAdmin(ctx context.Context, username, rawPassword string) (string, bool, error) {
	args := m.Called(ctx, username, rawPassword)
	return args.String(0), args.Bool(1), args.Error(2)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

var now = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func newService(repo *MemberRepoMock, admin *AdminMock) (*auth.Service, customjwt.Maker) {
	maker := customjwt.NewJWTMaker("test-secret", time.Hour)
	return auth.NewService(repo, admin, maker, clock.NewFixed(now), newNoopLogger()), maker
}

func TestService_Register(t *testing.T) {
	repo := new(MemberRepoMock)
	s, maker := newService(repo, new(AdminMock))

	repo.On("CreateMember", mock.Anything, mock.MatchedBy(func(m models.Member) bool {
		return m.Username == "alice" &&
			m.Email == "alice@example.com" &&
			m.Role == models.RoleMember &&
			m.Tickets == 0 &&
			m.Status == models.StatusActive &&
			m.JoinDate.Equal(clock.Today(now)) &&
			password.CompareHash(m.PasswordHash, "pass1234") == nil
	})).Return(int64(11), nil).Once()

	session, err := s.Register(context.Background(), " alice@example.com", "alice ", "pass1234")
	require.NoError(t, err)
	assert.Equal(t, models.RoleMember, session.Role)
	assert.Equal(t, int64(11), session.MemberID)

	claims, err := maker.ParseToken(session.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, int64(11), claims.MemberID)
	repo.AssertExpectations(t)
}

func TestService_RegisterTaken(t *testing.T) {
	repo := new(MemberRepoMock)
	s, _ := newService(repo, new(AdminMock))
	repo.On("CreateMember", mock.Anything, mock.Anything).Return(int64(0), storage.ErrUsernameTaken).Once()

	_, err := s.Register(context.Background(), "", "Alice", "pass1234")
	require.ErrorIs(t, err, auth.ErrUsernameTaken)
}

func TestService_Login(t *testing.T) {
	hash, err := password.GetHash("correct")
	require.NoError(t, err)
	active := &models.Member{ID: 3, Username: "bob", PasswordHash: hash, Role: models.RoleVIP, Status: models.StatusActive}
	suspended := &models.Member{ID: 4, Username: "eve", PasswordHash: hash, Role: models.RoleMember, Status: models.StatusSuspended}

	tests := []struct {
		name       string
		username   string
		password   string
		setupMocks func(r *MemberRepoMock, a *AdminMock)
		wantRole   models.Role
		wantErr    error
	}{
		{
			name:     "owner",
			username: "admin",
			password: "admin",
			setupMocks: func(_ *MemberRepoMock, a *AdminMock) {
				a.On("VerifyAdmin", mock.Anything, "admin", "admin").Return("Admin Premium", true, nil).Once()
			},
			wantRole: models.RoleOwner,
		},
		{
			name:     "member",
			username: "bob",
			password: "correct",
			setupMocks: func(r *MemberRepoMock, a *AdminMock) {
				a.On("VerifyAdmin", mock.Anything, "bob", "correct").Return("", false, nil).Once()
				r.On("GetMemberByUsername", mock.Anything, "bob").Return(active, nil).Once()
			},
			wantRole: models.RoleVIP,
		},
		{
			name:     "unknown member",
			username: "nobody",
			password: "x",
			setupMocks: func(r *MemberRepoMock, a *AdminMock) {
				a.On("VerifyAdmin", mock.Anything, "nobody", "x").Return("", false, nil).Once()
				r.On("GetMemberByUsername", mock.Anything, "nobody").Return(nil, storage.ErrNotFound).Once()
			},
			wantErr: auth.ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			username: "bob",
			password: "wrong",
			setupMocks: func(r *MemberRepoMock, a *AdminMock) {
				a.On("VerifyAdmin", mock.Anything, "bob", "wrong").Return("", false, nil).Once()
				r.On("GetMemberByUsername", mock.Anything, "bob").Return(active, nil).Once()
			},
			wantErr: auth.ErrInvalidCredentials,
		},
		{
			name:     "suspended",
			username: "eve",
			password: "correct",
			setupMocks: func(r *MemberRepoMock, a *AdminMock) {
				a.On("VerifyAdmin", mock.Anything, "eve", "correct").Return("", false, nil).Once()
				r.On("GetMemberByUsername", mock.Anything, "eve").Return(suspended, nil).Once()
			},
			wantErr: auth.ErrSuspended,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MemberRepoMock)
			admin := new(AdminMock)
			s, _ := newService(repo, admin)
			tt.setupMocks(repo, admin)

			session, err := s.Login(context.Background(), tt.username, tt.password)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantRole, session.Role)
				assert.NotEmpty(t, session.Token)
			}
			repo.AssertExpectations(t)
			admin.AssertExpectations(t)
		})
	}
}

func TestService_LoginConfigUnavailable(t *testing.T) {
	admin := new(AdminMock)
	s, _ := newService(new(MemberRepoMock), admin)
	admin.On("VerifyAdmin", mock.Anything, "bob", "x").Return("", false, errors.New("db down")).Once()

	_, err := s.Login(context.Background(), "bob", "x")
	require.Error(t, err)
	assert.NotErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestService_Authenticate(t *testing.T) {
	repo := new(MemberRepoMock)
	s, maker := newService(repo, new(AdminMock))
	ctx := context.Background()

	ownerToken, err := maker.GenerateToken("Admin Premium", "owner", 0)
	require.NoError(t, err)
	id, err := s.Authenticate(ctx, ownerToken)
	require.NoError(t, err)
	assert.True(t, id.IsOwner())

	memberToken, err := maker.GenerateToken("carol", "member", 5)
	require.NoError(t, err)
	repo.On("GetMember", mock.Anything, int64(5)).Return(&models.Member{
		ID: 5, Username: "caroline", Status: models.StatusActive,
	}, nil).Once()
	id, err = s.Authenticate(ctx, memberToken)
	require.NoError(t, err)
	assert.Equal(t, models.MemberIdentity(5, "caroline"), id, "current username wins over the token")

	repo.On("GetMember", mock.Anything, int64(5)).Return(&models.Member{
		ID: 5, Username: "caroline", Status: models.StatusSuspended,
	}, nil).Once()
	_, err = s.Authenticate(ctx, memberToken)
	require.ErrorIs(t, err, auth.ErrSuspended)

	repo.On("GetMember", mock.Anything, int64(5)).Return(nil, storage.ErrNotFound).Once()
	_, err = s.Authenticate(ctx, memberToken)
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = s.Authenticate(ctx, "garbage")
	require.ErrorIs(t, err, customjwt.ErrInvalidToken)
	repo.AssertExpectations(t)
}
