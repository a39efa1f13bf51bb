// Package llm adapts hosted text-generation APIs to ports.TextGenerator.
package llm

import (
	"fmt"
	"strings"
	"time"

	"github.com/Johnnenna2/weekly-news/internal/config"
	"github.com/Johnnenna2/weekly-news/internal/ports"
)

const defaultTimeout = 60 * time.Second

// New picks the client for the configured provider.
func New(cfg config.LLMConfig) (ports.TextGenerator, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI, "":
		return NewChatGPTClient(cfg)
	case config.ProviderAnthropic:
		return NewAnthropicClient(cfg)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

func timeoutOrDefault(d time.Duration) time.Duration {
	if d <= 0 {
		return defaultTimeout
	}
	return d
}

func safePrompt(prompt string) string {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "You are a senior financial analyst writing concise weekly market outlooks."
	}
	return prompt
}
