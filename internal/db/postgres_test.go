package db_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/bootcamp-api/internal/db"
	"github.com/pkordes/bootcamp-api/migrations"
	"github.com/pkordes/bootcamp-api/testutil"
)

// TestMigrations verifies the full migration round-trip against a real
// Postgres database: reset, apply through db.MigrateDB, check the schema,
// roll everything back. Skipped when TEST_DATABASE_URL is not set.
func TestMigrations(t *testing.T) {
	sqlDB := testutil.NewSQLDB(t)
	ctx := context.Background()

	provider, err := goose.NewProvider(goose.DialectPostgres, sqlDB, migrations.FS)
	require.NoError(t, err, "create goose provider")

	// Another package's TestMain may already have migrated this shared database.
	_, err = provider.DownTo(ctx, 0)
	require.NoError(t, err, "initial reset")

	applied, err := db.MigrateDB(ctx, sqlDB)
	require.NoError(t, err)
	assert.Positive(t, applied)
	assertTablePresence(t, sqlDB, "bootcamps", true)

	// A second run is a no-op.
	applied, err = db.MigrateDB(ctx, sqlDB)
	require.NoError(t, err)
	assert.Zero(t, applied)

	_, err = provider.DownTo(ctx, 0)
	require.NoError(t, err, "goose down-to 0")
	assertTablePresence(t, sqlDB, "bootcamps", false)

	// Leave the schema in place for packages that run after this one.
	_, err = db.MigrateDB(ctx, sqlDB)
	require.NoError(t, err)
}

func TestNewPool_badDSN(t *testing.T) {
	_, err := db.NewPool(context.Background(), "not a dsn ::")

	require.ErrorContains(t, err, "parse dsn")
}

func assertTablePresence(t *testing.T, sqlDB *sql.DB, table string, shouldExist bool) {
	t.Helper()

	const q = `
		SELECT EXISTS (
			SELECT 1 FROM information_schema.tables
			WHERE table_schema = 'public'
			AND   table_name   = $1
		)`
	var exists bool
	err := sqlDB.QueryRowContext(context.Background(), q, table).Scan(&exists)
	require.NoError(t, err, "check table existence for %q", table)

	if shouldExist {
		assert.True(t, exists, "expected table %q to exist", table)
	} else {
		assert.False(t, exists, "expected table %q to not exist", table)
	}
}
