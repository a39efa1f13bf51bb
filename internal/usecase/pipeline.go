package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Johnnenna2/weekly-news/internal/config"
	"github.com/Johnnenna2/weekly-news/internal/domain"
	"github.com/Johnnenna2/weekly-news/internal/ports"
	"github.com/Johnnenna2/weekly-news/internal/relevance"
)

// State names a step of a single outlook run.
type State string

// Run states in execution order; StateFailed is reachable from any of them.
const (
	StateInit             State = "init"
	StateTestConnectivity State = "test_connectivity"
	StateFetch            State = "fetch"
	StateGenerate         State = "generate"
	StateNotify           State = "notify"
	StateDone             State = "done"
	StateFailed           State = "failed"
)

const connectivityPrompt = "Say 'Weekly outlook API test successful' in exactly those words."

var (
	// ErrConnectivity means the text service did not answer the probe prompt.
	ErrConnectivity = errors.New("text generation service unreachable")
	// ErrDelivery means the outlook could not be posted.
	ErrDelivery = errors.New("outlook delivery failed")
)

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Source    ports.ArticleSource
	LLM       ports.TextGenerator
	Generator *OutlookGenerator
	Notifier  ports.Notifier
	Logger    *slog.Logger
	// TopN caps the ranked article list; zero means relevance.TopArticles.
	TopN int
}

// Pipeline implements the weekly outlook workflow.
type Pipeline struct {
	source    ports.ArticleSource
	llm       ports.TextGenerator
	generator *OutlookGenerator
	notifier  ports.Notifier
	logger    *slog.Logger
	topN      int
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	topN := deps.TopN
	if topN <= 0 {
		topN = relevance.TopArticles
	}
	generator := deps.Generator
	if generator == nil {
		generator = NewOutlookGenerator(deps.LLM, config.LLMConfig{}, logger)
	}

	return &Pipeline{
		source:    deps.Source,
		llm:       deps.LLM,
		generator: generator,
		notifier:  deps.Notifier,
		logger:    logger,
		topN:      topN,
	}
}

// Run executes one outlook run for the week following now. A failed run
// posts a short error notice and returns the error that caused it.
func (p *Pipeline) Run(ctx context.Context, now time.Time) error {
	log := p.logger.With("run_id", uuid.NewString())
	run := &pipelineRun{Pipeline: p, log: log, state: StateInit}
	run.enter(StateInit, "now", now.Format(time.RFC3339))

	run.enter(StateTestConnectivity)
	if err := p.testConnectivity(ctx); err != nil {
		return run.fail(ctx, err)
	}

	run.enter(StateFetch)
	articles, err := p.fetch(ctx, now)
	if err != nil {
		log.Warn("fetch news failed, continuing without articles", "error", err)
	}
	fetched := len(articles)
	articles = relevance.Rank(articles, p.topN)
	log.Info("articles ranked", "fetched", fetched, "kept", len(articles))

	run.enter(StateGenerate)
	outlook := p.generator.Generate(ctx, articles, now)

	run.enter(StateNotify, "week", outlook.Week.String(), "chars", len(outlook.Text))
	if p.notifier == nil {
		return run.fail(ctx, fmt.Errorf("%w: notifier is not configured", ErrDelivery))
	}
	if err := p.notifier.PublishOutlook(ctx, outlook, articles); err != nil {
		return run.fail(ctx, fmt.Errorf("%w: %w", ErrDelivery, err))
	}

	run.enter(StateDone)
	return nil
}

func (p *Pipeline) testConnectivity(ctx context.Context) error {
	if p.llm == nil {
		return fmt.Errorf("%w: text generator is not configured", ErrConnectivity)
	}
	reply, err := p.llm.Complete(ctx, domain.CompletionRequest{Prompt: connectivityPrompt, MaxTokens: 10})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConnectivity, err)
	}
	p.logger.Debug("connectivity probe answered", "reply", reply)
	return nil
}

func (p *Pipeline) fetch(ctx context.Context, now time.Time) ([]domain.Article, error) {
	if p.source == nil {
		return nil, fmt.Errorf("article source is not configured")
	}
	return p.source.Fetch(ctx, now)
}

type pipelineRun struct {
	*Pipeline
	log   *slog.Logger
	state State
}

func (r *pipelineRun) enter(state State, args ...any) {
	r.state = state
	r.log.Info("pipeline state", append([]any{"state", string(state)}, args...)...)
}

// fail moves the run to StateFailed and sends a best-effort error notice.
func (r *pipelineRun) fail(ctx context.Context, cause error) error {
	from := r.state
	r.state = StateFailed
	r.log.Error("pipeline failed", "state", string(StateFailed), "from", string(from), "error", cause)

	if r.notifier != nil {
		if err := r.notifier.PublishError(ctx, cause.Error()); err != nil {
			r.log.Warn("error notice not delivered", "error", err)
		}
	}
	return cause
}
