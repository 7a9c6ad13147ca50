package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/msomdec/edunews/internal/domain"
)

const articleColumns = "id, title, content, source_url, summary, tags, published_at, created_at"

// ArticleRepository implements domain.ArticleRepository using SQLite.
type ArticleRepository struct {
	db *sql.DB
}

// NewArticleRepository creates a new SQLite-backed ArticleRepository.
func NewArticleRepository(db *DB) *ArticleRepository {
	return &ArticleRepository{db: db.SqlDB}
}

// Create inserts the article. A source URL that already exists yields
// domain.ErrDuplicateSourceURL; the UNIQUE index makes this race-safe.
func (r *ArticleRepository) Create(ctx context.Context, article *domain.Article) error {
	tags, err := encodeTags(article.Tags)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO articles (title, content, source_url, summary, tags, published_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		article.Title, article.Content, article.SourceURL, article.Summary, tags,
		article.PublishedAt.UTC(), now,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return domain.ErrDuplicateSourceURL
		}
		return fmt.Errorf("insert article: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get article id: %w", err)
	}

	article.ID = id
	article.CreatedAt = now
	return nil
}

func (r *ArticleRepository) FindByURL(ctx context.Context, sourceURL string) (*domain.Article, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+articleColumns+" FROM articles WHERE source_url = ?", sourceURL)
	a, err := scanArticle(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find article by url: %w", err)
	}
	return a, nil
}

func (r *ArticleRepository) GetByID(ctx context.Context, id int64) (*domain.Article, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+articleColumns+" FROM articles WHERE id = ?", id)
	a, err := scanArticle(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get article: %w", err)
	}
	return a, nil
}

// List returns one window of articles matching filter, newest first, along
// with the total number of matches.
func (r *ArticleRepository) List(ctx context.Context, filter domain.ArticleFilter, limit, offset int) ([]domain.Article, int, error) {
	where := filterConditions(filter)

	countSQL, countArgs, err := sq.Select("COUNT(*)").From("articles").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count articles: %w", err)
	}
	if total == 0 || offset < 0 || offset >= total {
		return []domain.Article{}, total, nil
	}

	listSQL, listArgs, err := sq.Select(articleColumns).From("articles").
		Where(where).
		OrderBy("published_at DESC", "id DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()

	articles := make([]domain.Article, 0, limit)
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan article: %w", err)
		}
		articles = append(articles, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate articles: %w", err)
	}
	return articles, total, nil
}

func (r *ArticleRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM articles").Scan(&n); err != nil {
		return 0, fmt.Errorf("count articles: %w", err)
	}
	return n, nil
}

// filterConditions ANDs the tag filter with a case-insensitive substring
// match that is ORed across title, content and summary.
func filterConditions(filter domain.ArticleFilter) sq.And {
	where := sq.And{}
	if filter.Tag != "" {
		where = append(where, sq.Expr(
			"EXISTS (SELECT 1 FROM json_each(articles.tags) WHERE json_each.value = ?)", filter.Tag))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		// Both sides go through unicode_lower so folding rules match.
		pattern := "%" + escapeLike(search) + "%"
		match := func(col string) sq.Sqlizer {
			return sq.Expr(unicodeLowerFunc+"("+col+") LIKE "+unicodeLowerFunc+"(?) ESCAPE '\\'", pattern)
		}
		where = append(where, sq.Or{
			match("title"),
			match("content"),
			match("COALESCE(summary, '')"),
		})
	}
	return where
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(row rowScanner) (*domain.Article, error) {
	var (
		a       domain.Article
		summary sql.NullString
		tags    string
	)
	if err := row.Scan(&a.ID, &a.Title, &a.Content, &a.SourceURL, &summary, &tags, &a.PublishedAt, &a.CreatedAt); err != nil {
		return nil, err
	}
	if summary.Valid {
		a.Summary = &summary.String
	}
	if err := json.Unmarshal([]byte(tags), &a.Tags); err != nil {
		return nil, fmt.Errorf("decode tags for article %d: %w", a.ID, err)
	}
	return &a, nil
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("encode tags: %w", err)
	}
	return string(b), nil
}
