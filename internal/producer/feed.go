package producer

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"github.com/msomdec/edunews/internal/domain"
)

// FeedProducer turns the items of RSS or Atom feeds into candidate articles.
type FeedProducer struct {
	feeds  []string
	parser *gofeed.Parser
	now    func() time.Time
}

// NewFeedProducer creates a producer reading feeds. client may be nil.
func NewFeedProducer(feeds []string, client *http.Client) *FeedProducer {
	parser := gofeed.NewParser()
	if client != nil {
		parser.Client = client
	}
	parser.UserAgent = "edunews/1.0"
	return &FeedProducer{
		feeds:  feeds,
		parser: parser,
		now:    time.Now,
	}
}

func (p *FeedProducer) Name() string { return "rss" }

// Produce fetches every configured feed in order. Any fetch or parse error
// aborts the batch.
func (p *FeedProducer) Produce(ctx context.Context) ([]domain.CandidateArticle, error) {
	var out []domain.CandidateArticle
	for _, url := range p.feeds {
		feed, err := p.parser.ParseURLWithContext(url, ctx)
		if err != nil {
			return nil, fmt.Errorf("fetch feed %s: %w", url, err)
		}

		dropped := 0
		for _, item := range feed.Items {
			c, ok := p.candidate(item)
			if !ok {
				dropped++
				continue
			}
			out = append(out, c)
		}
		slog.Debug("feed fetched", "url", url, "items", len(feed.Items), "dropped", dropped)
	}
	return out, nil
}

func (p *FeedProducer) candidate(item *gofeed.Item) (domain.CandidateArticle, bool) {
	link := strings.TrimSpace(item.Link)
	title := strings.TrimSpace(item.Title)
	if link == "" || title == "" {
		return domain.CandidateArticle{}, false
	}

	description := htmlToText(item.Description)
	content := htmlToText(item.Content)
	if content == "" {
		content = description
	}
	if content == "" {
		content = title
	}

	c := domain.CandidateArticle{
		Title:       title,
		Content:     content,
		SourceURL:   link,
		Tags:        normalizeTags(item.Categories),
		PublishedAt: p.publishedAt(item),
	}
	if description != "" && description != content {
		c.Summary = &description
	}
	return c, true
}

func (p *FeedProducer) publishedAt(item *gofeed.Item) time.Time {
	if item.PublishedParsed != nil {
		return *item.PublishedParsed
	}
	if item.UpdatedParsed != nil {
		return *item.UpdatedParsed
	}
	return p.now()
}

// htmlToText strips markup and collapses whitespace.
func htmlToText(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.Join(strings.Fields(s), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

func normalizeTags(categories []string) []string {
	tags := make([]string, 0, len(categories))
	for _, c := range categories {
		c = strings.TrimSpace(c)
		if c == "" || slices.Contains(tags, c) {
			continue
		}
		tags = append(tags, c)
	}
	return tags
}
