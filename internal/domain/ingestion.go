package domain

import (
	"context"
	"time"
)

type IngestionStatus string

const (
	IngestionSuccess IngestionStatus = "success"
	IngestionPartial IngestionStatus = "partial"
	IngestionFailed  IngestionStatus = "failed"
)

// IngestionLogEntry records the outcome of one ingestion run.
type IngestionLogEntry struct {
	ID        int64
	Source    string
	ScrapedAt time.Time
	Status    IngestionStatus
	Notes     string
}

// IngestionLogRepository is an append-only audit log of ingestion runs.
type IngestionLogRepository interface {
	Append(ctx context.Context, entry *IngestionLogEntry) error
	// MostRecent returns ErrNotFound when no run has been recorded.
	MostRecent(ctx context.Context) (*IngestionLogEntry, error)
	List(ctx context.Context, limit int) ([]IngestionLogEntry, error)
}

// CandidateArticle is an article offered by a Producer before deduplication.
type CandidateArticle struct {
	Title       string
	Content     string
	SourceURL   string
	Summary     *string
	Tags        []string
	PublishedAt time.Time
}

// Producer supplies batches of candidate articles to the ingestion pipeline.
// Source URLs must be stable per distinct piece of content.
type Producer interface {
	Name() string
	Produce(ctx context.Context) ([]CandidateArticle, error)
}

// RunSummary is reported to whoever triggered an ingestion run.
type RunSummary struct {
	Added   int
	Skipped int
	Status  IngestionStatus
}
