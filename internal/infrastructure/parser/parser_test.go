package parser

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	finnhub "github.com/Finnhub-Stock-API/finnhub-go/v2"
	"github.com/stretchr/testify/require"

	"github.com/Johnnenna2/weekly-news/internal/config"
	"github.com/Johnnenna2/weekly-news/internal/domain"
	"github.com/Johnnenna2/weekly-news/internal/scanner"
)

func TestNewsAPIScannerScan(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.October, 18, 12, 0, 0, 0, time.UTC)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("apiKey") != "news-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if q.Get("sources") != "reuters,cnbc" || q.Get("sortBy") != "relevancy" ||
			q.Get("language") != "en" || q.Get("pageSize") != "60" ||
			q.Get("from") != "2026-10-15T12:00:00" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`{"status":"ok","articles":[
			{"title":"Fed holds rates","description":"$SPY reacts","url":"https://n.example/1","source":{"name":"Reuters"},"publishedAt":"2026-10-17T10:00:00Z"},
			{"title":"No description","description":null,"url":"https://n.example/2","source":{"name":"CNBC"}},
			{"title":"","description":"No title","url":"https://n.example/3","source":{"name":"CNBC"}}
		]}`))
	}))
	defer server.Close()

	sc := NewNewsAPIScanner(server.Client(), config.NewsAPIConfig{
		Endpoint: server.URL + "/v2/everything",
		APIKey:   "news-key",
		Outlets:  []string{"reuters", "cnbc"},
		Language: "en",
		PageSize: 60,
	}, 3)

	articles, err := sc.Scan(context.Background(), scanner.Request{Now: now})
	require.NoError(t, err)
	require.Len(t, articles, 1)
	require.Equal(t, domain.Article{
		Title:          "Fed holds rates",
		Description:    "$SPY reacts",
		URL:            "https://n.example/1",
		Source:         "Reuters",
		PublishedAt:    "2026-10-17T10:00:00Z",
		RelevanceScore: 7,
	}, articles[0])
}

func TestNewsAPIScannerNonOK(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	sc := NewNewsAPIScanner(server.Client(), config.NewsAPIConfig{Endpoint: server.URL}, 3)

	articles, err := sc.Scan(context.Background(), scanner.Request{Now: time.Now()})
	require.ErrorContains(t, err, "429")
	require.Empty(t, articles)
}

func rssDocument(title string, items []string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>%s</title><link>https://feed.example</link>%s</channel></rss>`,
		title, strings.Join(items, ""))
}

func rssItem(title, link, description string) string {
	item := "<item><title>" + title + "</title>"
	if link != "" {
		item += "<link>" + link + "</link>"
	}
	if description != "" {
		item += "<description>" + description + "</description>"
	}
	return item + "<pubDate>Sat, 17 Oct 2026 10:00:00 GMT</pubDate></item>"
}

func TestRSSScannerScan(t *testing.T) {
	t.Parallel()

	items := []string{
		rssItem("Fed holds rates", "https://feed.example/0", "&lt;p&gt;Markets &lt;b&gt;steady&lt;/b&gt; as $SPY waits&lt;/p&gt;"),
		rssItem("Oil slips", "https://feed.example/1", ""),
		rssItem("Missing link", "", "dropped"),
		rssItem("Long summary", "https://feed.example/3", strings.Repeat("word ", 80)),
	}
	for i := 4; i < 12; i++ {
		items = append(items, rssItem(fmt.Sprintf("Story %02d", i), fmt.Sprintf("https://feed.example/%d", i), "plain summary"))
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/broken", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	mux.HandleFunc("/good", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(rssDocument("Markets Wire", items)))
	})
	mux.HandleFunc("/untitled", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(rssDocument("", []string{rssItem("Lone story", "https://feed.example/lone", "text")})))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	sc := NewRSSScanner(server.Client(), config.RSSConfig{
		Feeds:            []string{server.URL + "/broken", server.URL + "/good", server.URL + "/untitled"},
		MaxEntries:       10,
		DescriptionLimit: 200,
	}, nil)

	articles, err := sc.Scan(context.Background(), scanner.Request{Now: time.Now()})
	require.NoError(t, err)
	require.Len(t, articles, 10, "9 from the capped good feed plus 1 from the untitled feed")

	first := articles[0]
	require.Equal(t, "Fed holds rates", first.Title)
	require.Equal(t, "Markets steady as $SPY waits", first.Description)
	require.Equal(t, "Markets Wire", first.Source)
	require.Equal(t, "https://feed.example/0", first.URL)
	require.NotEmpty(t, first.PublishedAt)
	require.Equal(t, 7, first.RelevanceScore)

	require.Equal(t, "Oil slips", articles[1].Description, "title is the fallback description")
	require.Equal(t, "Long summary", articles[2].Title)
	require.Len(t, []rune(articles[2].Description), 200)

	for _, a := range articles[:9] {
		require.NotEqual(t, "Missing link", a.Title)
		require.NotEqual(t, "Story 10", a.Title)
	}
	require.Equal(t, defaultFeedSource, articles[9].Source)
}

func TestPlainText(t *testing.T) {
	t.Parallel()

	require.Equal(t, "", plainText(""))
	require.Equal(t, "plain words here", plainText("  plain\n words\there "))
	require.Equal(t, "Stocks rise on jobs data", plainText(`<div><a href="x">Stocks</a> rise <em>on</em> jobs data</div>`))
	require.Equal(t, "S&P 500 rallies", plainText("S&amp;P 500 rallies"))
}

func strPtr(s string) *string { return &s }

func TestNormalizeMarketNews(t *testing.T) {
	t.Parallel()

	ts := int64(1792224000)
	news := []finnhub.MarketNews{
		{Headline: strPtr("NVDA earnings preview"), Summary: strPtr("Analysts expect strong revenue"), Url: strPtr("https://f.example/1"), Source: strPtr("MarketWatch"), Datetime: &ts},
		{Headline: strPtr("No summary")},
		{Summary: strPtr("No headline")},
		{Headline: strPtr("Third"), Summary: strPtr(strings.Repeat("a", 300))},
	}

	articles := normalizeMarketNews(news, 20, 200)
	require.Len(t, articles, 2)

	first := articles[0]
	require.Equal(t, "NVDA earnings preview", first.Title)
	require.Equal(t, "MarketWatch", first.Source)
	require.Equal(t, time.Unix(ts, 0).UTC().Format(time.RFC3339), first.PublishedAt)
	require.Equal(t, 14, first.RelevanceScore)

	require.Len(t, articles[1].Description, 200)
	require.Empty(t, articles[1].PublishedAt)

	require.Len(t, normalizeMarketNews(news, 1, 200), 1)
}

type stubScanner struct {
	name     string
	articles []domain.Article
	err      error
	delay    time.Duration
}

func (s stubScanner) Name() string { return s.name }

func (s stubScanner) Scan(ctx context.Context, _ scanner.Request) ([]domain.Article, error) {
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	return s.articles, s.err
}

func TestStrategySourceFetch(t *testing.T) {
	t.Parallel()

	reg := scanner.NewRegistry()
	reg.Register(stubScanner{name: "newsapi", articles: []domain.Article{{Title: "api-1"}, {Title: "api-2"}}, delay: 20 * time.Millisecond})
	reg.Register(stubScanner{name: "rss", articles: []domain.Article{{Title: "rss-1"}}})
	reg.Register(stubScanner{name: "finnhub", err: errors.New("quota exceeded")})

	source := NewStrategySource(reg, []string{"newsapi", "rss", "finnhub", "disabled"}, nil)

	articles, err := source.Fetch(context.Background(), time.Now())
	require.NoError(t, err)

	got := make([]string, 0, len(articles))
	for _, a := range articles {
		got = append(got, a.Title)
	}
	require.Equal(t, []string{"api-1", "api-2", "rss-1"}, got)
}

func TestStrategySourceTotalOutage(t *testing.T) {
	t.Parallel()

	reg := scanner.NewRegistry()
	reg.Register(stubScanner{name: "newsapi", err: errors.New("down")})
	reg.Register(stubScanner{name: "rss"})

	articles, err := NewStrategySource(reg, []string{"newsapi", "rss"}, nil).Fetch(context.Background(), time.Now())
	require.NoError(t, err)
	require.Empty(t, articles)

	_, err = NewStrategySource(nil, nil, nil).Fetch(context.Background(), time.Now())
	require.Error(t, err)
}
