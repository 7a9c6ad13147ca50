package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/msomdec/edunews/internal/domain"
)

// Stats is the admin dashboard summary.
type Stats struct {
	UserCount      int
	ArticleCount   int
	LastScrapeTime *time.Time
}

// StatsService aggregates counts for the admin dashboard.
type StatsService struct {
	users    domain.UserRepository
	articles domain.ArticleRepository
	logs     domain.IngestionLogRepository
}

func NewStatsService(users domain.UserRepository, articles domain.ArticleRepository, logs domain.IngestionLogRepository) *StatsService {
	return &StatsService{users: users, articles: articles, logs: logs}
}

// Stats returns current counts. LastScrapeTime is nil before the first run.
func (s *StatsService) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	var err error

	if st.UserCount, err = s.users.Count(ctx); err != nil {
		return Stats{}, fmt.Errorf("count users: %w", err)
	}
	if st.ArticleCount, err = s.articles.Count(ctx); err != nil {
		return Stats{}, fmt.Errorf("count articles: %w", err)
	}

	last, err := s.logs.MostRecent(ctx)
	switch {
	case err == nil:
		st.LastScrapeTime = &last.ScrapedAt
	case errors.Is(err, domain.ErrNotFound):
	default:
		return Stats{}, fmt.Errorf("last ingestion: %w", err)
	}
	return st, nil
}
