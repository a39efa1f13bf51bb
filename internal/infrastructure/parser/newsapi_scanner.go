package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Johnnenna2/weekly-news/internal/config"
	"github.com/Johnnenna2/weekly-news/internal/domain"
	"github.com/Johnnenna2/weekly-news/internal/relevance"
	"github.com/Johnnenna2/weekly-news/internal/scanner"
)

// NewsAPIScanner queries the keyworded news API for the configured outlets.
type NewsAPIScanner struct {
	client   *http.Client
	endpoint string
	apiKey   string
	outlets  []string
	language string
	pageSize int
	lookback time.Duration
}

var _ scanner.Scanner = (*NewsAPIScanner)(nil)

// NewNewsAPIScanner wires an HTTP client; a nil client gets a 20s timeout.
func NewNewsAPIScanner(client *http.Client, cfg config.NewsAPIConfig, lookbackDays int) *NewsAPIScanner {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &NewsAPIScanner{
		client:   client,
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		outlets:  cfg.Outlets,
		language: cfg.Language,
		pageSize: cfg.PageSize,
		lookback: time.Duration(lookbackDays) * 24 * time.Hour,
	}
}

// Name identifies the strategy inside the registry.
func (n *NewsAPIScanner) Name() string {
	return "newsapi"
}

type newsAPIResponse struct {
	Articles []newsAPIArticle `json:"articles"`
}

type newsAPIArticle struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Source      struct {
		Name string `json:"name"`
	} `json:"source"`
	PublishedAt string `json:"publishedAt"`
}

// Scan requests articles published since now minus the lookback window.
func (n *NewsAPIScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.Article, error) {
	requestURL, err := n.buildURL(req.Now)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("User-Agent", "WeeklyOutlook/1.0")

	resp, err := n.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request articles: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("newsapi returned %s", resp.Status)
	}

	var payload newsAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode articles: %w", err)
	}

	articles := make([]domain.Article, 0, len(payload.Articles))
	for _, item := range payload.Articles {
		title := strings.TrimSpace(item.Title)
		description := strings.TrimSpace(item.Description)
		if title == "" || description == "" {
			continue
		}

		articles = append(articles, domain.Article{
			Title:          title,
			Description:    description,
			URL:            item.URL,
			Source:         item.Source.Name,
			PublishedAt:    item.PublishedAt,
			RelevanceScore: relevance.Score(title, description),
		})
	}

	return articles, nil
}

func (n *NewsAPIScanner) buildURL(now time.Time) (string, error) {
	parsed, err := url.Parse(n.endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid newsapi endpoint %s: %w", n.endpoint, err)
	}

	query := parsed.Query()
	query.Set("apiKey", n.apiKey)
	query.Set("sources", strings.Join(n.outlets, ","))
	query.Set("from", now.Add(-n.lookback).Format("2006-01-02T15:04:05"))
	query.Set("sortBy", "relevancy")
	query.Set("language", n.language)
	query.Set("pageSize", strconv.Itoa(n.pageSize))
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}
