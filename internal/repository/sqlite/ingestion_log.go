package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/msomdec/edunews/internal/domain"
)

// IngestionLogRepository implements domain.IngestionLogRepository using
// SQLite. It only ever inserts and reads.
type IngestionLogRepository struct {
	db *sql.DB
}

// NewIngestionLogRepository creates a new SQLite-backed IngestionLogRepository.
func NewIngestionLogRepository(db *DB) *IngestionLogRepository {
	return &IngestionLogRepository{db: db.SqlDB}
}

func (r *IngestionLogRepository) Append(ctx context.Context, entry *domain.IngestionLogEntry) error {
	if entry.ScrapedAt.IsZero() {
		entry.ScrapedAt = time.Now()
	}
	entry.ScrapedAt = entry.ScrapedAt.UTC()

	result, err := r.db.ExecContext(ctx,
		`INSERT INTO ingestion_logs (source, scraped_at, status, notes) VALUES (?, ?, ?, ?)`,
		entry.Source, entry.ScrapedAt, string(entry.Status), entry.Notes,
	)
	if err != nil {
		return fmt.Errorf("insert ingestion log: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get ingestion log id: %w", err)
	}
	entry.ID = id
	return nil
}

func (r *IngestionLogRepository) MostRecent(ctx context.Context) (*domain.IngestionLogEntry, error) {
	var e domain.IngestionLogEntry
	err := r.db.QueryRowContext(ctx,
		`SELECT id, source, scraped_at, status, notes FROM ingestion_logs
		 ORDER BY scraped_at DESC, id DESC LIMIT 1`,
	).Scan(&e.ID, &e.Source, &e.ScrapedAt, &e.Status, &e.Notes)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query latest ingestion log: %w", err)
	}
	return &e, nil
}

func (r *IngestionLogRepository) List(ctx context.Context, limit int) ([]domain.IngestionLogEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, source, scraped_at, status, notes FROM ingestion_logs
		 ORDER BY scraped_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list ingestion logs: %w", err)
	}
	defer rows.Close()

	var entries []domain.IngestionLogEntry
	for rows.Next() {
		var e domain.IngestionLogEntry
		if err := rows.Scan(&e.ID, &e.Source, &e.ScrapedAt, &e.Status, &e.Notes); err != nil {
			return nil, fmt.Errorf("scan ingestion log: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
