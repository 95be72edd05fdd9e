// Package dbtest opens a migrated, empty PostgreSQL database for tests.
package dbtest

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/justestif/gigbook/internal/db"
)

// EnvURL names the variable holding the test database URL. Tests using Open
// are skipped when it is unset.
const EnvURL = "GIGBOOK_TEST_DATABASE_URL"

// lockKey serialises test packages sharing one database.
const lockKey = 7263548

// Open connects to the test database, applies migrations and empties every
// table. The database is held exclusively until the test ends.
func Open(t *testing.T) *db.DB {
	t.Helper()

	url := os.Getenv(EnvURL)
	if url == "" {
		t.Skipf("%s not set", EnvURL)
	}

	ctx := context.Background()
	database, err := db.New(ctx, url)
	require.NoError(t, err)

	conn, err := database.Pool().Acquire(ctx)
	require.NoError(t, err)
	_, err = conn.Exec(ctx, `SELECT pg_advisory_lock($1)`, lockKey)
	require.NoError(t, err)

	t.Cleanup(func() {
		_, _ = conn.Exec(context.Background(), `SELECT pg_advisory_unlock($1)`, lockKey)
		conn.Release()
		database.Close()
	})

	_, err = database.Migrate(ctx, db.Up, 0)
	require.NoError(t, err)

	_, err = database.Pool().Exec(ctx,
		`TRUNCATE show, song, album, artist_schedule, artist, venue RESTART IDENTITY`)
	require.NoError(t, err)

	return database
}
