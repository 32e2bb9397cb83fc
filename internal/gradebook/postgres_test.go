//go:build integration

package gradebook

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Run with: DATABASE_URL=postgres://... go test -tags integration ./internal/gradebook
func TestPostgresStore(t *testing.T) {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		t.Skip("DATABASE_URL is not set")
	}
	ctx := context.Background()

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		t.Fatalf("failed to create pool: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := Migrate(ctx, pool); err != nil {
		t.Fatalf("Migrate() returned error: %v", err)
	}

	runStoreTests(t, func(t *testing.T) Store {
		if _, err := pool.Exec(ctx, "TRUNCATE line_items CASCADE"); err != nil {
			t.Fatalf("failed to reset tables: %v", err)
		}
		return NewPostgresStore(pool)
	})
}
