// Package app wires configuration into the outlook pipeline and runs it.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Johnnenna2/weekly-news/internal/config"
	"github.com/Johnnenna2/weekly-news/internal/infrastructure/discord"
	"github.com/Johnnenna2/weekly-news/internal/infrastructure/llm"
	"github.com/Johnnenna2/weekly-news/internal/infrastructure/parser"
	"github.com/Johnnenna2/weekly-news/internal/infrastructure/scheduler"
	"github.com/Johnnenna2/weekly-news/internal/logging"
	"github.com/Johnnenna2/weekly-news/internal/scanner"
	"github.com/Johnnenna2/weekly-news/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	pipeline  *usecase.Pipeline
	scheduler *usecase.Scheduler
	logger    *slog.Logger
	now       func() time.Time
}

// New builds the application graph from configuration.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging)
	}

	generator, err := llm.New(cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("build text generator: %w", err)
	}

	registry := buildRegistry(cfg.News, baseLogger)
	source := parser.NewStrategySource(registry, cfg.News.Sources, baseLogger.With("component", "source"))

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:    source,
		LLM:       generator,
		Generator: usecase.NewOutlookGenerator(generator, cfg.LLM, baseLogger.With("component", "outlook")),
		Notifier:  discord.NewNotifier(cfg.Notifications.Discord, baseLogger.With("component", "notifier.discord")),
		Logger:    baseLogger.With("component", "pipeline"),
	})

	sched := usecase.NewScheduler(
		scheduler.NewIntervalScheduler(cfg.Scheduler.Interval),
		pipeline,
		cfg.Scheduler.Location(),
		baseLogger.With("component", "scheduler"),
	)

	return &Application{
		cfg:       cfg,
		pipeline:  pipeline,
		scheduler: sched,
		logger:    baseLogger,
		now:       time.Now,
	}, nil
}

// buildRegistry registers every scanner whose credentials are present.
func buildRegistry(cfg config.NewsConfig, log *slog.Logger) *scanner.Registry {
	client := &http.Client{Timeout: cfg.Timeout}
	registry := scanner.NewRegistry()

	if cfg.NewsAPI.APIKey != "" {
		registry.Register(parser.NewNewsAPIScanner(client, cfg.NewsAPI, cfg.LookbackDays))
	} else {
		log.Info("newsapi key not set, scanner disabled")
	}

	registry.Register(parser.NewRSSScanner(client, cfg.RSS, log.With("component", "scanner.rss")))

	if cfg.Finnhub.APIKey != "" {
		registry.Register(parser.NewFinnhubScanner(client, cfg.Finnhub, cfg.RSS.DescriptionLimit))
	}

	log.Debug("scanners registered", "names", registry.Names())
	return registry
}

// Run executes a single outlook, or keeps the weekly scheduler alive until ctx ends.
func (a *Application) Run(ctx context.Context) error {
	if a.pipeline == nil {
		return nil
	}

	if a.cfg.Scheduler.Mode != config.ModeWeekly {
		now := a.now().In(a.cfg.Scheduler.Location())
		a.logger.Info("starting weekly outlook", "at", now.Format("Monday, January 02, 2006 - 03:04 PM MST"))
		return a.pipeline.Run(ctx, now)
	}

	a.logger.Info("scheduler started", "interval", a.cfg.Scheduler.Interval.String(), "timezone", a.cfg.Scheduler.Timezone)
	if err := a.scheduler.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := a.scheduler.Stop(stopCtx); err != nil {
		return fmt.Errorf("stop scheduler: %w", err)
	}
	a.logger.Info("scheduler stopped")
	return nil
}
