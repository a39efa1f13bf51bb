package parser

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/Johnnenna2/weekly-news/internal/config"
	"github.com/Johnnenna2/weekly-news/internal/domain"
	"github.com/Johnnenna2/weekly-news/internal/relevance"
	"github.com/Johnnenna2/weekly-news/internal/scanner"
)

const defaultFeedSource = "RSS Feed"

// RSSScanner reads a fixed list of feeds one after another.
type RSSScanner struct {
	parser           *gofeed.Parser
	feeds            []string
	maxEntries       int
	descriptionLimit int
	logger           *slog.Logger
}

var _ scanner.Scanner = (*RSSScanner)(nil)

// NewRSSScanner wires an HTTP client into the feed parser; a nil client gets a 20s timeout.
func NewRSSScanner(client *http.Client, cfg config.RSSConfig, log *slog.Logger) *RSSScanner {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	fp := gofeed.NewParser()
	fp.Client = client
	fp.UserAgent = "WeeklyOutlook/1.0"

	return &RSSScanner{
		parser:           fp,
		feeds:            cfg.Feeds,
		maxEntries:       cfg.MaxEntries,
		descriptionLimit: cfg.DescriptionLimit,
		logger:           log,
	}
}

// Name identifies the strategy inside the registry.
func (r *RSSScanner) Name() string {
	return "rss"
}

// Scan parses every feed; a broken feed is logged and skipped.
func (r *RSSScanner) Scan(ctx context.Context, _ scanner.Request) ([]domain.Article, error) {
	var articles []domain.Article
	for _, feedURL := range r.feeds {
		feed, err := r.parser.ParseURLWithContext(feedURL, ctx)
		if err != nil {
			if r.logger != nil {
				r.logger.Warn("feed failed", "feed", feedURL, "error", err)
			}
			continue
		}
		articles = append(articles, r.normalize(feed)...)
	}
	return articles, nil
}

func (r *RSSScanner) normalize(feed *gofeed.Feed) []domain.Article {
	source := strings.TrimSpace(feed.Title)
	if source == "" {
		source = defaultFeedSource
	}

	items := feed.Items
	if r.maxEntries > 0 && len(items) > r.maxEntries {
		items = items[:r.maxEntries]
	}

	articles := make([]domain.Article, 0, len(items))
	for _, item := range items {
		title := strings.TrimSpace(item.Title)
		link := strings.TrimSpace(item.Link)
		if title == "" || link == "" {
			continue
		}

		summary := plainText(item.Description)
		description := summary
		if description == "" {
			description = title
		}

		articles = append(articles, domain.Article{
			Title:          title,
			Description:    domain.Truncate(description, r.descriptionLimit),
			URL:            link,
			Source:         source,
			PublishedAt:    item.Published,
			RelevanceScore: relevance.Score(title, summary),
		})
	}
	return articles
}

// plainText strips markup from a feed summary and collapses whitespace.
func plainText(fragment string) string {
	if strings.ContainsAny(fragment, "<&") {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment)); err == nil {
			fragment = doc.Text()
		}
	}
	return strings.Join(strings.Fields(fragment), " ")
}
