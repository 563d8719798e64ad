package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/dramabox/internal/models"
	"github.com/magabrotheeeer/dramabox/internal/storage"
)

func TestCheckDatabaseReady(t *testing.T) {
	s := setupTestDatabase(t)
	require.NoError(t, CheckDatabaseReady(context.Background(), s))

	_, err := s.DB.Exec(`DROP TABLE app_config`)
	require.NoError(t, err)
	require.Error(t, CheckDatabaseReady(context.Background(), s))
}

func TestStorage_Members(t *testing.T) {
	s := setupTestDatabase(t)
	ctx := context.Background()

	id := createMember(t, s, "Alice", models.RoleMember, 0)
	assert.Positive(t, id)

	t.Run("username unique case-insensitively", func(t *testing.T) {
		_, err := s.CreateMember(ctx, models.Member{
			Username: "alice", PasswordHash: "x", Role: models.RoleMember,
			JoinDate: day("2024-01-01"), Status: models.StatusActive,
		})
		require.ErrorIs(t, err, storage.ErrUsernameTaken)
	})

	t.Run("get by username ignores case", func(t *testing.T) {
		m, err := s.GetMemberByUsername(ctx, "ALICE")
		require.NoError(t, err)
		assert.Equal(t, id, m.ID)
		assert.Equal(t, "Alice", m.Username)
		assert.Nil(t, m.ExpiryDate)
		assert.Equal(t, day("2024-01-01"), m.JoinDate)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := s.GetMember(ctx, 9999)
		require.ErrorIs(t, err, storage.ErrNotFound)
		_, err = s.GetMemberByUsername(ctx, "nobody")
		require.ErrorIs(t, err, storage.ErrNotFound)
		require.ErrorIs(t, s.UpdateMember(ctx, models.Member{ID: 9999}), storage.ErrNotFound)
		require.ErrorIs(t, s.DeleteMember(ctx, 9999), storage.ErrNotFound)
	})

	t.Run("update keeps ledger on rename", func(t *testing.T) {
		m, err := s.GetMember(ctx, id)
		require.NoError(t, err)
		m.Tickets = 1
		require.NoError(t, s.UpdateMember(ctx, *m))

		res, err := s.SpendTicket(ctx, models.MemberIdentity(id, "Alice"), "d1_0")
		require.NoError(t, err)
		require.True(t, res.Spent)

		m.Username = "Alicia"
		m.Role = models.RoleVIP
		m.ExpiryDate = dayPtr("2030-05-01")
		m.Tickets = 0
		require.NoError(t, s.UpdateMember(ctx, *m))

		got, err := s.GetMember(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Alicia", got.Username)
		assert.Equal(t, models.RoleVIP, got.Role)
		require.NotNil(t, got.ExpiryDate)
		assert.Equal(t, day("2030-05-01"), *got.ExpiryDate)

		ledger, err := s.ListUnlocked(ctx, models.MemberIdentity(id, "Alicia").LedgerKey())
		require.NoError(t, err)
		assert.Equal(t, []string{"d1_0"}, ledger)
		old, err := s.ListUnlocked(ctx, "unlocked_Alice")
		require.NoError(t, err)
		assert.Empty(t, old)
	})

	t.Run("list with filters", func(t *testing.T) {
		createMember(t, s, "bob", models.RoleMember, 0)
		createMember(t, s, "carol", models.RoleVIP, 0)

		all, err := s.ListMembers(ctx, models.MemberFilter{})
		require.NoError(t, err)
		assert.Len(t, all, 3)

		vips, err := s.ListMembers(ctx, models.MemberFilter{Role: models.RoleVIP})
		require.NoError(t, err)
		assert.Len(t, vips, 2)

		found, err := s.ListMembers(ctx, models.MemberFilter{Search: "BO"})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "bob", found[0].Username)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, s.DeleteMember(ctx, id))
		_, err := s.GetMember(ctx, id)
		require.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestStorage_FindVipExpiringOn(t *testing.T) {
	s := setupTestDatabase(t)
	ctx := context.Background()

	for _, tc := range []struct {
		name   string
		role   models.Role
		expiry string
	}{
		{"vip-tomorrow", models.RoleVIP, "2025-03-02"},
		{"vip-later", models.RoleVIP, "2025-04-01"},
		{"member-tomorrow", models.RoleMember, "2025-03-02"},
	} {
		id := createMember(t, s, tc.name, tc.role, 0)
		m, err := s.GetMember(ctx, id)
		require.NoError(t, err)
		m.ExpiryDate = dayPtr(tc.expiry)
		require.NoError(t, s.UpdateMember(ctx, *m))
	}

	res, err := s.FindVipExpiringOn(ctx, day("2025-03-02"))
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "vip-tomorrow", res[0].Username)
}

func TestStorage_GrantBonus(t *testing.T) {
	s := setupTestDatabase(t)
	ctx := context.Background()

	t.Run("guest gets bonus once per day", func(t *testing.T) {
		guest := models.GuestIdentity(uuid.NewString())

		tickets, granted, err := s.GrantBonus(ctx, guest, day("2025-03-01"), 3)
		require.NoError(t, err)
		assert.True(t, granted)
		assert.Equal(t, 3, tickets)

		tickets, granted, err = s.GrantBonus(ctx, guest, day("2025-03-01"), 3)
		require.NoError(t, err)
		assert.False(t, granted)
		assert.Equal(t, 3, tickets)

		tickets, granted, err = s.GrantBonus(ctx, guest, day("2025-03-02"), 3)
		require.NoError(t, err)
		assert.True(t, granted)
		assert.Equal(t, 6, tickets)

		sub, err := s.Subscription(ctx, guest)
		require.NoError(t, err)
		assert.Equal(t, models.RoleGuest, sub.Role)
		require.NotNil(t, sub.LastDailyCheck)
		assert.Equal(t, day("2025-03-02"), *sub.LastDailyCheck)
	})

	t.Run("concurrent activations grant once", func(t *testing.T) {
		id := createMember(t, s, "racer", models.RoleMember, 0)
		member := models.MemberIdentity(id, "racer")

		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			granted int
		)
		for range 10 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, ok, err := s.GrantBonus(ctx, member, day("2025-03-01"), 3)
				assert.NoError(t, err)
				if ok {
					mu.Lock()
					granted++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, 1, granted)

		sub, err := s.Subscription(ctx, member)
		require.NoError(t, err)
		assert.Equal(t, 3, sub.Tickets)
	})

	t.Run("owner has no stored subscription", func(t *testing.T) {
		_, _, err := s.GrantBonus(ctx, models.OwnerIdentity("Admin"), day("2025-03-01"), 3)
		require.ErrorIs(t, err, storage.ErrNoSubscription)
	})

	t.Run("missing member", func(t *testing.T) {
		_, _, err := s.GrantBonus(ctx, models.MemberIdentity(9999, "ghost"), day("2025-03-01"), 3)
		require.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestStorage_SpendTicket(t *testing.T) {
	s := setupTestDatabase(t)
	ctx := context.Background()

	t.Run("guest without tickets", func(t *testing.T) {
		guest := models.GuestIdentity(uuid.NewString())
		res, err := s.SpendTicket(ctx, guest, "d1_0")
		require.NoError(t, err)
		assert.False(t, res.Spent)
		assert.Equal(t, 0, res.Tickets)

		ok, err := s.HasUnlocked(ctx, guest.LedgerKey(), "d1_0")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("spend then already unlocked", func(t *testing.T) {
		guest := models.GuestIdentity(uuid.NewString())
		_, _, err := s.GrantBonus(ctx, guest, day("2025-03-01"), 3)
		require.NoError(t, err)

		res, err := s.SpendTicket(ctx, guest, "d1_0")
		require.NoError(t, err)
		assert.Equal(t, models.SpendResult{Tickets: 2, Spent: true}, res)

		res, err = s.SpendTicket(ctx, guest, "d1_0")
		require.NoError(t, err)
		assert.Equal(t, models.SpendResult{Tickets: 2, AlreadyUnlocked: true}, res)

		ledger, err := s.ListUnlocked(ctx, guest.LedgerKey())
		require.NoError(t, err)
		assert.Equal(t, []string{"d1_0"}, ledger)
	})

	t.Run("concurrent spends never go negative", func(t *testing.T) {
		id := createMember(t, s, "spender", models.RoleMember, 1)
		member := models.MemberIdentity(id, "spender")

		var (
			wg    sync.WaitGroup
			mu    sync.Mutex
			spent int
		)
		for i := range 5 {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				res, err := s.SpendTicket(ctx, member, "d2_"+string(rune('0'+i)))
				assert.NoError(t, err)
				if res.Spent {
					mu.Lock()
					spent++
					mu.Unlock()
				}
			}(i)
		}
		wg.Wait()
		assert.Equal(t, 1, spent)

		sub, err := s.Subscription(ctx, member)
		require.NoError(t, err)
		assert.Equal(t, 0, sub.Tickets)

		ledger, err := s.ListUnlocked(ctx, member.LedgerKey())
		require.NoError(t, err)
		assert.Len(t, ledger, 1)
	})

	t.Run("owner rejected", func(t *testing.T) {
		_, err := s.SpendTicket(ctx, models.OwnerIdentity("Admin"), "d1_0")
		require.ErrorIs(t, err, storage.ErrNoSubscription)
	})
}

func TestStorage_AppConfig(t *testing.T) {
	s := setupTestDatabase(t)
	ctx := context.Background()

	_, err := s.GetAppConfig(ctx)
	require.ErrorIs(t, err, storage.ErrNotFound)

	base := models.DefaultAppConfig()
	base.AdminPasswordHash = "hash"
	cfg, err := s.MergeAppConfig(ctx, base, []byte(`{"isFreeApp": true}`))
	require.NoError(t, err)
	assert.True(t, cfg.IsFreeApp)
	assert.Equal(t, "Drama Short", cfg.AppName)
	assert.Equal(t, "hash", cfg.AdminPasswordHash)

	cfg, err = s.MergeAppConfig(ctx, models.DefaultAppConfig(), []byte(`{"appName": "Short Box"}`))
	require.NoError(t, err)
	assert.True(t, cfg.IsFreeApp, "existing fields survive a partial merge")
	assert.Equal(t, "Short Box", cfg.AppName)
	assert.Equal(t, "hash", cfg.AdminPasswordHash)

	got, err := s.GetAppConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}
