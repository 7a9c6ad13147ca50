package service_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/msomdec/edunews/internal/domain"
	"github.com/msomdec/edunews/internal/service"
)

func seedArticles(t *testing.T, svc *service.ArticleService, n int) {
	t.Helper()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := range n {
		err := svc.Create(context.Background(), &domain.Article{
			Title:       fmt.Sprintf("Article %d", i),
			Content:     "Body",
			SourceURL:   fmt.Sprintf("https://example.com/a/%d", i),
			Tags:        []string{"education"},
			PublishedAt: base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("Create %d: %v", i, err)
		}
	}
}

func TestArticleService_List_Pagination(t *testing.T) {
	db := newTestDB(t)
	svc := service.NewArticleService(db.Articles())
	ctx := context.Background()
	seedArticles(t, svc, 25)

	first, err := svc.List(ctx, domain.ArticleFilter{}, 1, 20)
	if err != nil {
		t.Fatalf("List page 1: %v", err)
	}
	if len(first.Items) != 20 || first.Total != 25 || first.TotalPages != 2 {
		t.Fatalf("page 1: got %d items, total %d, pages %d", len(first.Items), first.Total, first.TotalPages)
	}
	if first.Items[0].Title != "Article 24" {
		t.Fatalf("expected newest first, got %q", first.Items[0].Title)
	}

	second, err := svc.List(ctx, domain.ArticleFilter{}, 2, 20)
	if err != nil {
		t.Fatalf("List page 2: %v", err)
	}
	if len(second.Items) != 5 {
		t.Fatalf("page 2: expected 5 items, got %d", len(second.Items))
	}

	beyond, err := svc.List(ctx, domain.ArticleFilter{}, 3, 20)
	if err != nil {
		t.Fatalf("List page 3: %v", err)
	}
	if len(beyond.Items) != 0 || beyond.Total != 25 {
		t.Fatalf("page 3: expected no items and total 25, got %d and %d", len(beyond.Items), beyond.Total)
	}
}

func TestArticleService_List_Clamping(t *testing.T) {
	db := newTestDB(t)
	svc := service.NewArticleService(db.Articles())
	ctx := context.Background()
	seedArticles(t, svc, 3)

	tests := []struct {
		name         string
		page, size   int
		wantPage     int
		wantPageSize int
	}{
		{"defaults", 0, 0, 1, service.DefaultPageSize},
		{"negative page", -4, 10, 1, 10},
		{"negative size", 1, -1, 1, 1},
		{"oversized", 1, 1000, 1, service.MaxPageSize},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := svc.List(ctx, domain.ArticleFilter{}, tc.page, tc.size)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if got.Page != tc.wantPage || got.PageSize != tc.wantPageSize {
				t.Fatalf("expected page %d size %d, got %d and %d", tc.wantPage, tc.wantPageSize, got.Page, got.PageSize)
			}
		})
	}
}

func TestArticleService_List_HugePage(t *testing.T) {
	db := newTestDB(t)
	svc := service.NewArticleService(db.Articles())
	seedArticles(t, svc, 3)

	for _, page := range []int{math.MaxInt, math.MaxInt / 20, math.MaxInt/20 + 1} {
		got, err := svc.List(context.Background(), domain.ArticleFilter{}, page, 20)
		if err != nil {
			t.Fatalf("page %d: %v", page, err)
		}
		if len(got.Items) != 0 || got.Total != 3 || got.TotalPages != 1 {
			t.Fatalf("page %d: expected empty page with total 3, got %d items total %d", page, len(got.Items), got.Total)
		}
		if got.Page > math.MaxInt/20 {
			t.Fatalf("page %d: expected page capped, got %d", page, got.Page)
		}
	}
}

func TestArticleService_List_Empty(t *testing.T) {
	db := newTestDB(t)
	svc := service.NewArticleService(db.Articles())

	got, err := svc.List(context.Background(), domain.ArticleFilter{Tag: "missing"}, 1, 20)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if got.Total != 0 || got.TotalPages != 0 || len(got.Items) != 0 {
		t.Fatalf("expected empty page, got total %d pages %d items %d", got.Total, got.TotalPages, len(got.Items))
	}
	if got.Items == nil {
		t.Fatal("expected non-nil items slice")
	}
}

func TestArticleService_Create_Validation(t *testing.T) {
	db := newTestDB(t)
	svc := service.NewArticleService(db.Articles())
	now := time.Now()

	tests := []struct {
		name    string
		article domain.Article
	}{
		{"missing title", domain.Article{Content: "c", SourceURL: "https://x/1", PublishedAt: now}},
		{"missing content", domain.Article{Title: "t", SourceURL: "https://x/2", PublishedAt: now}},
		{"missing url", domain.Article{Title: "t", Content: "c", PublishedAt: now}},
		{"missing published_at", domain.Article{Title: "t", Content: "c", SourceURL: "https://x/3"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := tc.article
			if err := svc.Create(context.Background(), &a); !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestArticleService_Create_Duplicate(t *testing.T) {
	db := newTestDB(t)
	svc := service.NewArticleService(db.Articles())
	ctx := context.Background()

	a := &domain.Article{Title: "T", Content: "C", SourceURL: "https://x/dup", PublishedAt: time.Now()}
	if err := svc.Create(ctx, a); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if a.ID == 0 {
		t.Fatal("expected ID to be set")
	}

	b := &domain.Article{Title: "T2", Content: "C2", SourceURL: "https://x/dup", PublishedAt: time.Now()}
	if err := svc.Create(ctx, b); !errors.Is(err, domain.ErrDuplicateSourceURL) {
		t.Fatalf("expected ErrDuplicateSourceURL, got %v", err)
	}

	got, err := svc.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Title != "T" {
		t.Fatalf("expected original article kept, got %q", got.Title)
	}
}
