package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Johnnenna2/weekly-news/internal/config"
	"github.com/Johnnenna2/weekly-news/internal/domain"
	"github.com/Johnnenna2/weekly-news/internal/ports"
)

const (
	// NoNewsFallback is the outlook used when no article survived ranking.
	NoNewsFallback = "Limited news available for this week's outlook. Focus on major economic indicators and earnings releases."
	// GenerationFallback is the outlook used when the text service fails.
	GenerationFallback = "Unable to generate weekly outlook at this time. Focus on major economic indicators, earnings releases, and Fed communications for the week ahead."

	promptArticles    = 12
	promptDescription = 200
)

const outlookPromptTemplate = `As a senior financial analyst, provide a comprehensive weekly market outlook for the trading week of %s.

Based on recent financial news and market developments, analyze:

1. **Week Ahead Theme**: What's the overarching narrative for this trading week?
2. **Key Economic Events**: Important data releases, Fed speeches, earnings reports to watch
3. **Sector Focus**: Which sectors/industries are likely to be in focus and why?
4. **Technical Levels**: Major support/resistance levels for key indices ($SPY, $QQQ, $IWM)
5. **Risk Factors**: What could derail markets or create volatility?
6. **Trading Opportunities**: Potential setups, themes, or catalysts to monitor
7. **Week's Wildcards**: Unexpected events or under-the-radar catalysts

Keep it professional and actionable (400-500 words). Use bullet points for key highlights.
Include relevant symbols where appropriate (e.g., $SPY, $AAPL, $XLF).
Focus on what traders and investors should prioritize this week.

Recent News & Market Developments:
%s`

// OutlookGenerator turns ranked articles into the week-ahead narrative.
type OutlookGenerator struct {
	client ports.TextGenerator
	cfg    config.LLMConfig
	logger *slog.Logger
}

// NewOutlookGenerator wires the text service with prompt settings.
func NewOutlookGenerator(client ports.TextGenerator, cfg config.LLMConfig, log *slog.Logger) *OutlookGenerator {
	return &OutlookGenerator{client: client, cfg: cfg, logger: log}
}

// Generate never fails: empty input and service errors both yield a canned narrative.
func (g *OutlookGenerator) Generate(ctx context.Context, articles []domain.Article, now time.Time) domain.Outlook {
	outlook := domain.Outlook{Week: domain.WeekAhead(now), GeneratedAt: now}

	if len(articles) == 0 {
		outlook.Text = NoNewsFallback
		return outlook
	}
	if g.client == nil {
		outlook.Text = GenerationFallback
		return outlook
	}

	text, err := g.client.Complete(ctx, domain.CompletionRequest{
		System:      g.cfg.SystemPrompt,
		Prompt:      BuildOutlookPrompt(outlook.Week, articles),
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
	})
	text = strings.TrimSpace(text)
	switch {
	case err != nil:
		if g.logger != nil {
			g.logger.Error("generate outlook", "error", err)
		}
		text = GenerationFallback
	case text == "":
		if g.logger != nil {
			g.logger.Warn("empty outlook returned")
		}
		text = GenerationFallback
	}

	outlook.Text = text
	return outlook
}

// BuildOutlookPrompt lists the top articles under the analyst instructions.
func BuildOutlookPrompt(week domain.WeekRange, articles []domain.Article) string {
	if len(articles) > promptArticles {
		articles = articles[:promptArticles]
	}

	items := make([]string, 0, len(articles))
	for _, a := range articles {
		items = append(items, fmt.Sprintf("**%s** (%s)\n%s", a.Title, a.Source, domain.Truncate(a.Description, promptDescription)))
	}

	return fmt.Sprintf(outlookPromptTemplate, week, strings.Join(items, "\n\n"))
}
