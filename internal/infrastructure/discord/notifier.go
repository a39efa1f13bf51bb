// Package discord posts outlooks to a chat webhook.
package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Johnnenna2/weekly-news/internal/config"
	"github.com/Johnnenna2/weekly-news/internal/domain"
	"github.com/Johnnenna2/weekly-news/internal/ports"
)

// StatusError is returned when the webhook answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("discord webhook error: %s", e.Status)
	}
	return fmt.Sprintf("discord webhook error: %s: %s", e.Status, e.Body)
}

// Notifier sends outlooks through a webhook URL.
type Notifier struct {
	webhookURL string
	username   string
	avatarURL  string
	client     *http.Client
	logger     *slog.Logger
}

var _ ports.Notifier = (*Notifier)(nil)

// NewNotifier registers the webhook and display identity.
func NewNotifier(cfg config.DiscordConfig, log *slog.Logger) *Notifier {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Notifier{
		webhookURL: cfg.WebhookURL,
		username:   cfg.Username,
		avatarURL:  cfg.AvatarURL,
		client:     &http.Client{Timeout: timeout},
		logger:     log,
	}
}

// PublishOutlook posts the rich message. A 400 response is retried once with
// a plain-text message; any other failure is returned as is.
func (n *Notifier) PublishOutlook(ctx context.Context, outlook domain.Outlook, articles []domain.Article) error {
	payload := BuildOutlookPayload(outlook, articles, n.username, n.avatarURL)
	n.debug("post outlook", "embeds", len(payload.Embeds), "sections", len(payload.Embeds[0].Fields))

	err := n.post(ctx, payload)
	if err == nil {
		n.info("outlook delivered")
		return nil
	}

	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusBadRequest {
		return err
	}

	n.warn("rich payload rejected, sending plain text", "error", err)
	if err := n.post(ctx, BuildFallbackPayload(outlook, n.username)); err != nil {
		return fmt.Errorf("send fallback outlook: %w", err)
	}
	n.info("fallback outlook delivered")
	return nil
}

// PublishError posts a short failure notice.
func (n *Notifier) PublishError(ctx context.Context, message string) error {
	return n.post(ctx, BuildErrorPayload(message))
}

func (n *Notifier) post(ctx context.Context, payload Payload) error {
	if n.webhookURL == "" || n.client == nil {
		return fmt.Errorf("discord notifier misconfigured")
	}

	body, err := json.Marshal(payload.sanitized())
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(snippet)),
		}
	}

	return nil
}

func (n *Notifier) debug(msg string, args ...interface{}) {
	if n.logger != nil {
		n.logger.Debug(msg, args...)
	}
}

func (n *Notifier) info(msg string, args ...interface{}) {
	if n.logger != nil {
		n.logger.Info(msg, args...)
	}
}

func (n *Notifier) warn(msg string, args ...interface{}) {
	if n.logger != nil {
		n.logger.Warn(msg, args...)
	}
}
