package cli

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/tursodatabase/go-libsql"

	"github.com/emiliopalmerini/codepulse/internal/migrate"
)

// testDB creates an in-memory database with all migrations applied and
// installs it as the command database for the duration of the test.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("libsql", ":memory:")
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := migrate.Up(context.Background(), db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	testDBOverride = db
	t.Cleanup(func() { testDBOverride = nil })

	return db
}

func assertEqual[T comparable](t *testing.T, name string, expected, actual T) {
	t.Helper()
	if expected != actual {
		t.Errorf("%s: expected %v, got %v", name, expected, actual)
	}
}
