package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/dicsio100-dev/fitnavi/internal/sqlite"
	"github.com/dicsio100-dev/fitnavi/internal/testhelpers"
)

func TestNewDatabaseAppliesSchema(t *testing.T) {
	db, err := sqlite.NewDatabase(t.Context(), ":memory:",
		testhelpers.NewLogger(testhelpers.NewWriter(t)))
	if err != nil {
		t.Fatalf("NewDatabase() error = %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("close database: %v", err)
		}
	})

	var count int
	if err := db.ReadOnly.QueryRowContext(t.Context(),
		"SELECT count(*) FROM users").Scan(&count); err != nil {
		t.Fatalf("query users: %v", err)
	}
	if count != 0 {
		t.Errorf("fresh database has %d users, want 0", count)
	}
}

func TestOptimizerQuietAfterShutdown(t *testing.T) {
	// The test log writer panics on writes after test completion, so any
	// logging from the optimizer goroutine once the database is torn down
	// fails this test on its own.
	ctx, cancel := context.WithCancel(t.Context())
	db, err := sqlite.NewDatabase(ctx, ":memory:",
		testhelpers.NewLogger(testhelpers.NewWriter(t)))
	if err != nil {
		t.Fatalf("NewDatabase() error = %v", err)
	}

	cancel()
	if err := db.Close(); err != nil {
		t.Errorf("close database: %v", err)
	}
	// Give the optimizer goroutine a beat to observe the cancellation.
	time.Sleep(10 * time.Millisecond)
}
