package handler

import (
	"time"

	"github.com/msomdec/edunews/internal/domain"
	"github.com/msomdec/edunews/internal/service"
)

// UserDTO is the JSON representation of a user.
type UserDTO struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	IsAdmin   bool   `json:"is_admin"`
	CreatedAt string `json:"created_at"`
}

func toUserDTO(u *domain.User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// TokenPairDTO is returned by signup, login and refresh.
type TokenPairDTO struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

func toTokenPairDTO(p service.TokenPair) TokenPairDTO {
	return TokenPairDTO{
		AccessToken:  p.AccessToken,
		RefreshToken: p.RefreshToken,
		TokenType:    "bearer",
	}
}

// ArticleDTO is the JSON representation of an article.
type ArticleDTO struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	SourceURL   string   `json:"source_url"`
	Summary     *string  `json:"summary"`
	Tags        []string `json:"tags"`
	PublishedAt string   `json:"published_at"`
	CreatedAt   string   `json:"created_at"`
}

func toArticleDTO(a domain.Article) ArticleDTO {
	tags := a.Tags
	if tags == nil {
		tags = []string{}
	}
	return ArticleDTO{
		ID:          a.ID,
		Title:       a.Title,
		Content:     a.Content,
		SourceURL:   a.SourceURL,
		Summary:     a.Summary,
		Tags:        tags,
		PublishedAt: a.PublishedAt.UTC().Format(time.RFC3339),
		CreatedAt:   a.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// ArticlePageDTO is one page of the news listing.
type ArticlePageDTO struct {
	Items      []ArticleDTO `json:"items"`
	Total      int          `json:"total"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
	TotalPages int          `json:"total_pages"`
}

func toArticlePageDTO(p *domain.ArticlePage) ArticlePageDTO {
	items := make([]ArticleDTO, len(p.Items))
	for i, a := range p.Items {
		items[i] = toArticleDTO(a)
	}
	return ArticlePageDTO{
		Items:      items,
		Total:      p.Total,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: p.TotalPages,
	}
}

// CreateArticleRequest is the body of POST /api/news.
type CreateArticleRequest struct {
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	SourceURL   string    `json:"source_url"`
	Summary     *string   `json:"summary"`
	Tags        []string  `json:"tags"`
	PublishedAt time.Time `json:"published_at"`
}

// RunSummaryDTO reports the outcome of a manually triggered ingestion run.
type RunSummaryDTO struct {
	Added   int    `json:"added"`
	Skipped int    `json:"skipped"`
	Status  string `json:"status"`
}

// IngestionLogDTO is one audit log entry.
type IngestionLogDTO struct {
	ID        int64  `json:"id"`
	Source    string `json:"source"`
	ScrapedAt string `json:"scraped_at"`
	Status    string `json:"status"`
	Notes     string `json:"notes"`
}

func toIngestionLogDTOs(entries []domain.IngestionLogEntry) []IngestionLogDTO {
	dtos := make([]IngestionLogDTO, len(entries))
	for i, e := range entries {
		dtos[i] = IngestionLogDTO{
			ID:        e.ID,
			Source:    e.Source,
			ScrapedAt: e.ScrapedAt.UTC().Format(time.RFC3339),
			Status:    string(e.Status),
			Notes:     e.Notes,
		}
	}
	return dtos
}

// StatsDTO is the admin dashboard summary.
type StatsDTO struct {
	UserCount      int     `json:"user_count"`
	ArticleCount   int     `json:"article_count"`
	LastScrapeTime *string `json:"last_scrape_time"`
}

func toStatsDTO(s service.Stats) StatsDTO {
	dto := StatsDTO{UserCount: s.UserCount, ArticleCount: s.ArticleCount}
	if s.LastScrapeTime != nil {
		ts := s.LastScrapeTime.UTC().Format(time.RFC3339)
		dto.LastScrapeTime = &ts
	}
	return dto
}
