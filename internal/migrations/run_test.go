package migrations

import (
	"database/sql"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/dramabox/internal/storage/pgtest"
)

func getTestDB(t *testing.T) *sql.DB {
	dsn := pgtest.Start(t)
	db, err := sql.Open("pgx", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	var exists bool
	err := db.QueryRow(`
		SELECT EXISTS (
			SELECT 1 FROM information_schema.tables
			WHERE table_schema = 'public' AND table_name = $1
		)`, name).Scan(&exists)
	require.NoError(t, err)
	return exists
}

func TestRunMigrations(t *testing.T) {
	db := getTestDB(t)

	version, err := Run(db, pgtest.MigrationsPath(t))
	require.NoError(t, err)
	require.Equal(t, uint(2), version)

	for _, table := range []string{"members", "guest_subscriptions", "unlocked_episodes", "app_config", "favorites"} {
		require.True(t, tableExists(t, db, table), "table %s should exist", table)
	}

	var exists bool
	err = db.QueryRow(`
		SELECT EXISTS (
			SELECT 1 FROM pg_indexes
			WHERE schemaname = 'public'
			AND tablename = 'members'
			AND indexname = 'members_username_lower_idx'
		)`).Scan(&exists)
	require.NoError(t, err)
	require.True(t, exists, "unique username index should exist")
}

func TestMigrationIdempotency(t *testing.T) {
	db := getTestDB(t)
	path := pgtest.MigrationsPath(t)

	first, err := Run(db, path)
	require.NoError(t, err)
	second, err := Run(db, path)
	require.NoError(t, err, "running migrations twice should not fail")
	require.Equal(t, first, second)
}

func TestRunMigrations_BadPath(t *testing.T) {
	db := getTestDB(t)
	_, err := Run(db, "/definitely/not/here")
	require.Error(t, err)
}
