// Package auth содержит регистрацию, вход и проверку JWT-сессий.
//
// Владелец проверяется по учётным данным из конфигурации приложения и в базе не хранится.
// Участники проверяются по bcrypt-хэшу; приостановленным вход запрещён.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/dramabox/internal/lib/clock"
	"github.com/magabrotheeeer/dramabox/internal/lib/jwt"
	"github.com/magabrotheeeer/dramabox/internal/lib/password"
	"github.com/magabrotheeeer/dramabox/internal/lib/sl"
	"github.com/magabrotheeeer/dramabox/internal/models"
	"github.com/magabrotheeeer/dramabox/internal/storage"
)

var (
	// ErrInvalidCredentials неверное имя пользователя или пароль.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrSuspended учётная запись приостановлена.
	ErrSuspended = errors.New("account suspended")
	// ErrUsernameTaken имя пользователя уже занято.
	ErrUsernameTaken = storage.ErrUsernameTaken
)

// MemberRepository хранилище участников.
type MemberRepository interface {
	CreateMember(ctx context.Context, m models.Member) (int64, error)
	GetMember(ctx context.Context, id int64) (*models.Member, error)
	GetMemberByUsername(ctx context.Context, username string) (*models.Member, error)
}

// AdminVerifier проверяет учётные данные владельца.
type AdminVerifier interface {
	VerifyAdmin(ctx context.Context, username, rawPassword string) (string, bool, error)
}

// Session выданный токен и данные личности.
type Session struct {
	Token    string      `json:"token"`
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
	MemberID int64       `json:"memberId,omitempty"`
}

// Service отвечает за регистрацию, вход и валидацию JWT.
type Service struct {
	members  MemberRepository
	admin    AdminVerifier
	jwtMaker jwt.Maker
	clock    clock.Clock
	log      *slog.Logger
}

// NewService создаёт сервис аутентификации.
func NewService(members MemberRepository, admin AdminVerifier, jwtMaker jwt.Maker, clk clock.Clock, log *slog.Logger) *Service {
	return &Service{
		members:  members,
		admin:    admin,
		jwtMaker: jwtMaker,
		clock:    clk,
		log:      log,
	}
}

// Register создаёт участника с ролью member и нулевым балансом и сразу выдаёт токен.
func (s *Service) Register(ctx context.Context, email, username, rawPassword string) (Session, error) {
	const op = "auth.Register"

	username = strings.TrimSpace(username)
	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return Session{}, fmt.Errorf("%s: %w", op, err)
	}
	member := models.Member{
		Email:        strings.TrimSpace(email),
		Username:     username,
		PasswordHash: hashed,
		Role:         models.RoleMember,
		Tickets:      0,
		JoinDate:     clock.Today(s.clock.Now()),
		Status:       models.StatusActive,
	}
	id, err := s.members.CreateMember(ctx, member)
	if err != nil {
		return Session{}, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("member registered", sl.Op(op), slog.Int64("member_id", id))
	return s.issue(username, models.RoleMember, id)
}

// Login проверяет учётные данные: сначала владельца, затем участника.
func (s *Service) Login(ctx context.Context, username, rawPassword string) (Session, error) {
	const op = "auth.Login"

	displayName, ok, err := s.admin.VerifyAdmin(ctx, username, rawPassword)
	if err != nil {
		return Session{}, fmt.Errorf("%s: %w", op, err)
	}
	if ok {
		return s.issue(displayName, models.RoleOwner, 0)
	}

	member, err := s.members.GetMemberByUsername(ctx, username)
	if errors.Is(err, storage.ErrNotFound) {
		return Session{}, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}
	if err != nil {
		return Session{}, fmt.Errorf("%s: %w", op, err)
	}
	err = password.CompareHash(member.PasswordHash, rawPassword)
	if errors.Is(err, password.ErrMismatch) {
		return Session{}, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}
	if err != nil {
		return Session{}, fmt.Errorf("%s: %w", op, err)
	}
	if member.Status == models.StatusSuspended {
		return Session{}, fmt.Errorf("%s: %w", op, ErrSuspended)
	}
	return s.issue(member.Username, member.Role, member.ID)
}

// Authenticate проверяет токен и возвращает личность. Для участника данные
// перечитываются из базы: имя могло смениться, а запись могли приостановить или удалить.
func (s *Service) Authenticate(ctx context.Context, token string) (models.Identity, error) {
	const op = "auth.Authenticate"

	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return models.Identity{}, fmt.Errorf("%s: %w", op, err)
	}
	if models.Role(claims.Role) == models.RoleOwner {
		return models.OwnerIdentity(claims.Username), nil
	}

	member, err := s.members.GetMember(ctx, claims.MemberID)
	if errors.Is(err, storage.ErrNotFound) {
		return models.Identity{}, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}
	if err != nil {
		return models.Identity{}, fmt.Errorf("%s: %w", op, err)
	}
	if member.Status == models.StatusSuspended {
		return models.Identity{}, fmt.Errorf("%s: %w", op, ErrSuspended)
	}
	return models.MemberIdentity(member.ID, member.Username), nil
}

func (s *Service) issue(username string, role models.Role, memberID int64) (Session, error) {
	const op = "auth.issue"
	token, err := s.jwtMaker.GenerateToken(username, string(role), memberID)
	if err != nil {
		return Session{}, fmt.Errorf("%s: %w", op, err)
	}
	return Session{Token: token, Username: username, Role: role, MemberID: memberID}, nil
}
