package parser

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Johnnenna2/weekly-news/internal/domain"
	"github.com/Johnnenna2/weekly-news/internal/ports"
	"github.com/Johnnenna2/weekly-news/internal/scanner"
)

// StrategySource implements ArticleSource via registered scanner strategies.
type StrategySource struct {
	registry *scanner.Registry
	sources  []string
	logger   *slog.Logger
}

var _ ports.ArticleSource = (*StrategySource)(nil)

// NewStrategySource wires the scanner registry with the configured source order.
func NewStrategySource(reg *scanner.Registry, sources []string, log *slog.Logger) *StrategySource {
	return &StrategySource{
		registry: reg,
		sources:  sources,
		logger:   log,
	}
}

// Fetch runs every configured scanner concurrently and concatenates their
// results in source order. A failing scanner contributes no articles.
func (s *StrategySource) Fetch(ctx context.Context, now time.Time) ([]domain.Article, error) {
	if s.registry == nil {
		return nil, fmt.Errorf("scanner registry is not configured")
	}

	s.debug("fetch news", "sources", len(s.sources), "now", now.Format(time.RFC3339))

	results := make([][]domain.Article, len(s.sources))
	var wg sync.WaitGroup
	for i, name := range s.sources {
		strategy, err := s.registry.Resolve(name)
		if err != nil {
			s.info("source disabled", "source", name)
			continue
		}

		wg.Add(1)
		go func(i int, strategy scanner.Scanner) {
			defer wg.Done()

			articles, err := strategy.Scan(ctx, scanner.Request{Now: now})
			if err != nil {
				s.warn("source failed", "source", strategy.Name(), "error", err)
				return
			}
			s.debug("source produced articles", "source", strategy.Name(), "count", len(articles))
			results[i] = articles
		}(i, strategy)
	}
	wg.Wait()

	var aggregated []domain.Article
	for _, articles := range results {
		aggregated = append(aggregated, articles...)
	}

	s.debug("strategy source done", "total_articles", len(aggregated))
	return aggregated, nil
}

func (s *StrategySource) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}

func (s *StrategySource) info(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Info(msg, args...)
	}
}

func (s *StrategySource) warn(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
