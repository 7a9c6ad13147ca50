package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/msomdec/edunews/internal/domain"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ArticleService serves paginated listings and admin-created articles.
type ArticleService struct {
	articles domain.ArticleRepository
}

// NewArticleService creates a new ArticleService.
func NewArticleService(articles domain.ArticleRepository) *ArticleService {
	return &ArticleService{articles: articles}
}

// List returns the requested 1-based page. Pages below 1 are treated as 1,
// a zero page size uses DefaultPageSize and sizes are clamped to
// [1, MaxPageSize]. Pages are capped so the offset cannot overflow.
func (s *ArticleService) List(ctx context.Context, filter domain.ArticleFilter, page, pageSize int) (*domain.ArticlePage, error) {
	page = max(page, 1)
	if pageSize == 0 {
		pageSize = DefaultPageSize
	}
	pageSize = min(max(pageSize, 1), MaxPageSize)
	// Keeps (page-1)*pageSize from overflowing.
	page = min(page, math.MaxInt/pageSize)

	items, total, err := s.articles.List(ctx, filter, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}

	return &domain.ArticlePage{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}, nil
}

func (s *ArticleService) GetByID(ctx context.Context, id int64) (*domain.Article, error) {
	return s.articles.GetByID(ctx, id)
}

// Create validates and stores an article. A taken source URL yields
// domain.ErrDuplicateSourceURL.
func (s *ArticleService) Create(ctx context.Context, article *domain.Article) error {
	article.Title = strings.TrimSpace(article.Title)
	article.SourceURL = strings.TrimSpace(article.SourceURL)
	if article.Title == "" || strings.TrimSpace(article.Content) == "" || article.SourceURL == "" {
		return fmt.Errorf("%w: title, content, and source url are required", domain.ErrInvalidInput)
	}
	if article.PublishedAt.IsZero() {
		return fmt.Errorf("%w: published_at is required", domain.ErrInvalidInput)
	}
	return s.articles.Create(ctx, article)
}

func totalPages(total, pageSize int) int {
	if total <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}
