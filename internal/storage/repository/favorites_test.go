package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/dramabox/internal/models"
)

func TestStorage_Favorites(t *testing.T) {
	s := setupTestDatabase(t)
	ctx := context.Background()

	guest := models.GuestIdentity("3f1c1f5e-0000-4000-8000-0000000000f1").FavoritesKey()
	first := models.Drama{BookID: "41000102", BookName: "Pilot", CoverWap: "https://img/1.jpg", Tags: []string{"romance"}}
	second := models.Drama{BookID: "41000103", BookName: "Sequel", Tags: []string{}}

	t.Run("empty list", func(t *testing.T) {
		list, err := s.ListFavorites(ctx, guest)
		require.NoError(t, err)
		assert.NotNil(t, list)
		assert.Empty(t, list)
	})

	t.Run("add is idempotent and keeps order", func(t *testing.T) {
		added, err := s.AddFavorite(ctx, guest, first)
		require.NoError(t, err)
		assert.True(t, added)
		added, err = s.AddFavorite(ctx, guest, second)
		require.NoError(t, err)
		assert.True(t, added)
		added, err = s.AddFavorite(ctx, guest, models.Drama{BookID: "41000102", BookName: "Renamed"})
		require.NoError(t, err)
		assert.False(t, added)

		list, err := s.ListFavorites(ctx, guest)
		require.NoError(t, err)
		assert.Equal(t, []models.Drama{first, second}, list)

		ok, err := s.IsFavorite(ctx, guest, "41000103")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("lists are per identity", func(t *testing.T) {
		list, err := s.ListFavorites(ctx, models.OwnerIdentity("Admin").FavoritesKey())
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("remove", func(t *testing.T) {
		removed, err := s.RemoveFavorite(ctx, guest, "41000102")
		require.NoError(t, err)
		assert.True(t, removed)
		removed, err = s.RemoveFavorite(ctx, guest, "41000102")
		require.NoError(t, err)
		assert.False(t, removed)

		ok, err := s.IsFavorite(ctx, guest, "41000102")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("deleted member loses favorites", func(t *testing.T) {
		id := createMember(t, s, "Fav", models.RoleMember, 0)
		key := models.MemberIdentity(id, "Fav").FavoritesKey()
		_, err := s.AddFavorite(ctx, key, first)
		require.NoError(t, err)

		require.NoError(t, s.DeleteMember(ctx, id))
		list, err := s.ListFavorites(ctx, key)
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}
