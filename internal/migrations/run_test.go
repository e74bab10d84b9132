package migrations

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func getTestDB(t *testing.T) (*sql.DB, func()) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx)
	require.NoError(t, err)

	db, err := sql.Open("pgx", dsn)
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	return db, cleanup
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()

	var exists bool
	err := db.QueryRow(`
		SELECT EXISTS (
			SELECT 1 FROM information_schema.tables
			WHERE table_schema = 'public' AND table_name = $1
		)
	`, name).Scan(&exists)
	require.NoError(t, err)
	return exists
}

func TestRunMigrations(t *testing.T) {
	db, cleanup := getTestDB(t)
	defer cleanup()

	err := Run(db)
	require.NoError(t, err)

	for _, table := range []string{
		"moderators", "channels", "lectures", "events", "sports",
		"channel_moderators", "channel_subscribers", "reminders",
	} {
		require.True(t, tableExists(t, db, table), "Table %q should exist", table)
	}

	var exists bool
	err = db.QueryRow(`
		SELECT EXISTS (
			SELECT 1 FROM pg_indexes
			WHERE schemaname = 'public'
			AND tablename = 'reminders'
			AND indexname = 'reminders_end_date_idx'
		)
	`).Scan(&exists)
	require.NoError(t, err)
	require.True(t, exists, "Index on reminders.end_date should exist")

	var constraintCount int
	err = db.QueryRow(`
		SELECT COUNT(*) FROM pg_constraint
		WHERE conname IN ('moderators_name_key', 'moderators_access_token_key')
	`).Scan(&constraintCount)
	require.NoError(t, err)
	require.Equal(t, 2, constraintCount, "Unique constraints on moderators should exist")
}

func TestMigrationIdempotency(t *testing.T) {
	db, cleanup := getTestDB(t)
	defer cleanup()

	err := Run(db)
	require.NoError(t, err)

	err = Run(db)
	require.NoError(t, err, "Running migrations twice should not fail")

	require.True(t, tableExists(t, db, "reminders"))
}
