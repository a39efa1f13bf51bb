package parser

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	finnhub "github.com/Finnhub-Stock-API/finnhub-go/v2"

	"github.com/Johnnenna2/weekly-news/internal/config"
	"github.com/Johnnenna2/weekly-news/internal/domain"
	"github.com/Johnnenna2/weekly-news/internal/relevance"
	"github.com/Johnnenna2/weekly-news/internal/scanner"
)

// FinnhubScanner pulls general market news from Finnhub.
type FinnhubScanner struct {
	api              *finnhub.DefaultApiService
	category         string
	maxEntries       int
	descriptionLimit int
}

var _ scanner.Scanner = (*FinnhubScanner)(nil)

// NewFinnhubScanner authenticates the generated Finnhub client with the API token.
func NewFinnhubScanner(client *http.Client, cfg config.FinnhubConfig, descriptionLimit int) *FinnhubScanner {
	apiCfg := finnhub.NewConfiguration()
	apiCfg.AddDefaultHeader("X-Finnhub-Token", cfg.APIKey)
	apiCfg.UserAgent = "WeeklyOutlook/1.0"
	if client != nil {
		apiCfg.HTTPClient = client
	}

	return &FinnhubScanner{
		api:              finnhub.NewAPIClient(apiCfg).DefaultApi,
		category:         cfg.Category,
		maxEntries:       cfg.MaxEntries,
		descriptionLimit: descriptionLimit,
	}
}

// Name identifies the strategy inside the registry.
func (f *FinnhubScanner) Name() string {
	return "finnhub"
}

// Scan fetches the latest market news for the configured category.
func (f *FinnhubScanner) Scan(ctx context.Context, _ scanner.Request) ([]domain.Article, error) {
	news, _, err := f.api.MarketNews(ctx).Category(f.category).Execute()
	if err != nil {
		return nil, fmt.Errorf("finnhub market news: %w", err)
	}
	return normalizeMarketNews(news, f.maxEntries, f.descriptionLimit), nil
}

func normalizeMarketNews(news []finnhub.MarketNews, maxEntries, descriptionLimit int) []domain.Article {
	if maxEntries > 0 && len(news) > maxEntries {
		news = news[:maxEntries]
	}

	articles := make([]domain.Article, 0, len(news))
	for _, item := range news {
		title := strings.TrimSpace(deref(item.Headline))
		summary := strings.TrimSpace(deref(item.Summary))
		if title == "" || summary == "" {
			continue
		}

		var publishedAt string
		if item.Datetime != nil {
			publishedAt = time.Unix(*item.Datetime, 0).UTC().Format(time.RFC3339)
		}

		articles = append(articles, domain.Article{
			Title:          title,
			Description:    domain.Truncate(summary, descriptionLimit),
			URL:            deref(item.Url),
			Source:         deref(item.Source),
			PublishedAt:    publishedAt,
			RelevanceScore: relevance.Score(title, summary),
		})
	}
	return articles
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
