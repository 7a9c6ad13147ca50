package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/msomdec/edunews/internal/domain"
	"github.com/msomdec/edunews/internal/metrics"
)

// IngestionService runs the fetch → deduplicate → persist → log pipeline.
// Concurrent runs are safe: the source URL index turns a racing insert into
// a skip.
type IngestionService struct {
	producer domain.Producer
	articles domain.ArticleRepository
	logs     domain.IngestionLogRepository
	metrics  *metrics.Metrics
	logger   *slog.Logger
	now      func() time.Time
}

// NewIngestionService creates a new IngestionService. m may be nil.
func NewIngestionService(producer domain.Producer, articles domain.ArticleRepository, logs domain.IngestionLogRepository, m *metrics.Metrics, logger *slog.Logger) *IngestionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &IngestionService{
		producer: producer,
		articles: articles,
		logs:     logs,
		metrics:  m,
		logger:   logger,
		now:      time.Now,
	}
}

// Run executes one ingestion run and appends exactly one audit log entry for
// it. A fetch or persist failure is recorded as a failed run and returned
// wrapped in domain.ErrIngestionFailed; nothing is retried.
func (s *IngestionService) Run(ctx context.Context) (domain.RunSummary, error) {
	source := s.producer.Name()
	startedAt := s.now()
	s.logger.Info("ingestion started", "source", source)

	var summary domain.RunSummary
	candidates, runErr := s.producer.Produce(ctx)
	if runErr != nil {
		runErr = fmt.Errorf("fetch candidates: %w", runErr)
	} else {
		runErr = s.persist(ctx, candidates, &summary)
	}

	entry := &domain.IngestionLogEntry{
		Source:    source,
		ScrapedAt: startedAt,
	}
	switch {
	case runErr != nil:
		summary.Status = domain.IngestionFailed
		entry.Notes = fmt.Sprintf("Error: %v (added %d, skipped %d before failure)", runErr, summary.Added, summary.Skipped)
	case len(candidates) == 0:
		summary.Status = domain.IngestionPartial
		entry.Notes = "No candidate articles produced"
	case summary.Added > 0:
		summary.Status = domain.IngestionSuccess
		entry.Notes = fmt.Sprintf("Added %d new articles, skipped %d duplicates", summary.Added, summary.Skipped)
	default:
		summary.Status = domain.IngestionPartial
		entry.Notes = fmt.Sprintf("Added %d new articles, skipped %d duplicates", summary.Added, summary.Skipped)
	}
	entry.Status = summary.Status

	s.metrics.ObserveIngestion(source, string(summary.Status), summary.Added, summary.Skipped)

	// The run context may already be cancelled; the audit entry is still owed.
	if err := s.logs.Append(context.WithoutCancel(ctx), entry); err != nil {
		s.logger.Error("record ingestion run", "source", source, "error", err)
		if runErr == nil {
			runErr = fmt.Errorf("record run: %w", err)
		}
	}

	if runErr != nil {
		s.logger.Error("ingestion failed", "source", source,
			"added", summary.Added, "skipped", summary.Skipped, "error", runErr)
		return summary, fmt.Errorf("%w: %w", domain.ErrIngestionFailed, runErr)
	}

	s.logger.Info("ingestion completed", "source", source, "status", summary.Status,
		"added", summary.Added, "skipped", summary.Skipped, "duration", s.now().Sub(startedAt))
	return summary, nil
}

// persist stores each new candidate as its own atomic insert so every
// persisted article is reflected in summary even if a later one fails.
func (s *IngestionService) persist(ctx context.Context, candidates []domain.CandidateArticle, summary *domain.RunSummary) error {
	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			return err
		}

		_, err := s.articles.FindByURL(ctx, c.SourceURL)
		if err == nil {
			summary.Skipped++
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("probe %s: %w", c.SourceURL, err)
		}

		article := &domain.Article{
			Title:       c.Title,
			Content:     c.Content,
			SourceURL:   c.SourceURL,
			Summary:     c.Summary,
			Tags:        c.Tags,
			PublishedAt: c.PublishedAt,
		}
		if err := s.articles.Create(ctx, article); err != nil {
			if errors.Is(err, domain.ErrDuplicateSourceURL) {
				summary.Skipped++
				continue
			}
			return fmt.Errorf("persist %s: %w", c.SourceURL, err)
		}
		summary.Added++
	}
	return nil
}

// LastRun returns the most recent audit entry, or domain.ErrNotFound.
func (s *IngestionService) LastRun(ctx context.Context) (*domain.IngestionLogEntry, error) {
	return s.logs.MostRecent(ctx)
}

// History returns up to limit audit entries, newest first.
func (s *IngestionService) History(ctx context.Context, limit int) ([]domain.IngestionLogEntry, error) {
	return s.logs.List(ctx, limit)
}
