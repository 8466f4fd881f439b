package repo_test

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/pkordes/bootcamp-api/internal/db"
	"github.com/pkordes/bootcamp-api/testutil"
)

// TestMain applies all pending migrations to the test database once for the
// whole test binary so individual tests never need to think about schema state.
func TestMain(m *testing.M) {
	if os.Getenv("TEST_DATABASE_URL") == "" {
		// No test DB configured; every test skips itself via testutil.
		os.Exit(m.Run())
	}

	sqlDB := testutil.MustOpenSQLDB(os.Getenv("TEST_DATABASE_URL"))

	if _, err := db.MigrateDB(context.Background(), sqlDB); err != nil {
		sqlDB.Close()
		log.Fatalf("TestMain: run migrations: %v", err)
	}
	sqlDB.Close()

	os.Exit(m.Run())
}
