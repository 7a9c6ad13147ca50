package migrations_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/msomdec/edunews/internal/repository/sqlite/migrations"
	_ "modernc.org/sqlite"
)

func openMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	// Every pooled connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRunMigrations(t *testing.T) {
	db := openMemoryDB(t)
	ctx := context.Background()

	if err := migrations.Run(ctx, db); err != nil {
		t.Fatalf("first migration run: %v", err)
	}

	for _, table := range []string{"users", "articles", "ingestion_logs"} {
		var name string
		err := db.QueryRowContext(ctx,
			"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table,
		).Scan(&name)
		if err != nil {
			t.Fatalf("table %s missing: %v", table, err)
		}
	}
}

func TestRunMigrationsIdempotent(t *testing.T) {
	db := openMemoryDB(t)
	ctx := context.Background()

	if err := migrations.Run(ctx, db); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := migrations.Run(ctx, db); err != nil {
		t.Fatalf("second run (idempotent): %v", err)
	}

	var count int
	err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&count)
	if err != nil {
		t.Fatalf("count schema_migrations: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 migration records, got %d", count)
	}
}

func TestUniqueIndexes(t *testing.T) {
	db := openMemoryDB(t)
	ctx := context.Background()
	if err := migrations.Run(ctx, db); err != nil {
		t.Fatalf("Run: %v", err)
	}

	insertUser := "INSERT INTO users (name, email, password_hash) VALUES (?, ?, ?)"
	if _, err := db.ExecContext(ctx, insertUser, "A", "a@example.com", "h"); err != nil {
		t.Fatalf("insert user: %v", err)
	}
	if _, err := db.ExecContext(ctx, insertUser, "B", "a@example.com", "h"); err == nil {
		t.Fatal("expected duplicate email to be rejected by the schema")
	}

	insertArticle := `INSERT INTO articles (title, content, source_url, published_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)`
	if _, err := db.ExecContext(ctx, insertArticle, "T", "C", "https://example.com/1"); err != nil {
		t.Fatalf("insert article: %v", err)
	}
	if _, err := db.ExecContext(ctx, insertArticle, "T2", "C2", "https://example.com/1"); err == nil {
		t.Fatal("expected duplicate source_url to be rejected by the schema")
	}
}
