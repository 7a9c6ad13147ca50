package domain

import (
	"context"
	"time"
)

// Article is a published news item. SourceURL is the deduplication key.
type Article struct {
	ID          int64
	Title       string
	Content     string
	SourceURL   string
	Summary     *string
	Tags        []string // display order is preserved
	PublishedAt time.Time
	CreatedAt   time.Time
}

// ArticleFilter narrows an article listing. Empty fields are ignored.
// Search matches title, content or summary; Tag must match exactly.
type ArticleFilter struct {
	Tag    string
	Search string
}

// ArticlePage is one page of a filtered listing.
type ArticlePage struct {
	Items      []Article
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// ArticleRepository handles article persistence.
type ArticleRepository interface {
	// FindByURL returns ErrNotFound when no article has the given source URL.
	FindByURL(ctx context.Context, sourceURL string) (*Article, error)
	// Create returns ErrDuplicateSourceURL when the source URL is taken.
	Create(ctx context.Context, article *Article) error
	GetByID(ctx context.Context, id int64) (*Article, error)
	List(ctx context.Context, filter ArticleFilter, limit, offset int) ([]Article, int, error)
	Count(ctx context.Context) (int, error)
}
