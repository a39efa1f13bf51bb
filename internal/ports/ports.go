package ports

import (
	"context"
	"time"

	"github.com/Johnnenna2/weekly-news/internal/domain"
)

// ArticleSource pulls recent articles from every configured upstream provider.
type ArticleSource interface {
	Fetch(ctx context.Context, now time.Time) ([]domain.Article, error)
}

// TextGenerator sends a prompt to an LLM and returns the generated text.
type TextGenerator interface {
	Complete(ctx context.Context, req domain.CompletionRequest) (string, error)
}

// Notifier delivers the outlook (or a failure notice) to the chat channel.
type Notifier interface {
	PublishOutlook(ctx context.Context, outlook domain.Outlook, articles []domain.Article) error
	PublishError(ctx context.Context, message string) error
}

// Scheduler controls when pipelines execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
