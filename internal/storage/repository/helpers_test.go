package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/dramabox/internal/migrations"
	"github.com/magabrotheeeer/dramabox/internal/models"
	"github.com/magabrotheeeer/dramabox/internal/storage/pgtest"
)

func setupTestDatabase(t *testing.T) *Storage {
	t.Helper()
	dsn := pgtest.Start(t)

	s, err := New(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	_, err = migrations.Run(s.DB, pgtest.MigrationsPath(t))
	require.NoError(t, err)
	return s
}

func day(s string) time.Time {
	d, err := models.ParseDay(s)
	if err != nil {
		panic(err)
	}
	return d
}

func dayPtr(s string) *time.Time {
	d := day(s)
	return &d
}

func createMember(t *testing.T, s *Storage, username string, role models.Role, tickets int) int64 {
	t.Helper()
	id, err := s.CreateMember(context.Background(), models.Member{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hash",
		Role:         role,
		Tickets:      tickets,
		JoinDate:     day("2024-01-01"),
		Status:       models.StatusActive,
	})
	require.NoError(t, err)
	return id
}
