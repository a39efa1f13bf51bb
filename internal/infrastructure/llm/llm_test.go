package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Johnnenna2/weekly-news/internal/config"
	"github.com/Johnnenna2/weekly-news/internal/domain"
)

func TestChatGPTClientComplete(t *testing.T) {
	t.Parallel()

	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"chatcmpl-1","object":"chat.completion","created":1,"model":"gpt-4o-mini",
			"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"  Markets look calm.\n"}}]}`))
	}))
	defer server.Close()

	client, err := NewChatGPTClient(config.LLMConfig{
		Endpoint:     server.URL + "/",
		Model:        "gpt-4o-mini",
		APIKey:       "sk-test",
		SystemPrompt: "default system",
	})
	require.NoError(t, err)

	got, err := client.Complete(context.Background(), domain.CompletionRequest{
		Prompt:      "What next week?",
		MaxTokens:   600,
		Temperature: 0.2,
	})
	require.NoError(t, err)
	require.Equal(t, "Markets look calm.", got)

	require.Equal(t, "gpt-4o-mini", body["model"])
	require.EqualValues(t, 600, body["max_tokens"])
	require.InDelta(t, 0.2, body["temperature"], 1e-9)

	messages, ok := body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 2)
	require.Equal(t, "system", messages[0].(map[string]any)["role"])
	require.Equal(t, "default system", messages[0].(map[string]any)["content"])
	require.Equal(t, "What next week?", messages[1].(map[string]any)["content"])
}

func TestChatGPTClientOmitsZeroTemperature(t *testing.T) {
	t.Parallel()

	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","object":"chat.completion","created":1,"model":"m","choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"ok"}}]}`))
	}))
	defer server.Close()

	client, err := NewChatGPTClient(config.LLMConfig{Endpoint: server.URL + "/", Model: "m", APIKey: "k"})
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), domain.CompletionRequest{System: "probe", Prompt: "ping", MaxTokens: 10})
	require.NoError(t, err)
	_, has := body["temperature"]
	require.False(t, has)
}

func TestChatGPTClientErrorsAreNotRetried(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
	}))
	defer server.Close()

	client, err := NewChatGPTClient(config.LLMConfig{Endpoint: server.URL + "/", Model: "m", APIKey: "k"})
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), domain.CompletionRequest{Prompt: "ping"})
	require.Error(t, err)
	require.EqualValues(t, 1, hits.Load())
}

func TestAnthropicClientComplete(t *testing.T) {
	t.Parallel()

	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/messages", r.URL.Path)
		require.Equal(t, "ak-test", r.Header.Get("X-Api-Key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg_1","type":"message","role":"assistant","model":"claude-haiku-4-5",
			"content":[{"type":"text","text":"Rates in focus."},{"type":"text","text":" Watch CPI."}],
			"stop_reason":"end_turn","usage":{"input_tokens":10,"output_tokens":5}}`))
	}))
	defer server.Close()

	client, err := NewAnthropicClient(config.LLMConfig{
		Endpoint: server.URL + "/",
		Model:    "claude-haiku-4-5",
		APIKey:   "ak-test",
	})
	require.NoError(t, err)

	got, err := client.Complete(context.Background(), domain.CompletionRequest{
		System: "analyst",
		Prompt: "Outlook please",
	})
	require.NoError(t, err)
	require.Equal(t, "Rates in focus. Watch CPI.", got)

	require.Equal(t, "claude-haiku-4-5", body["model"])
	require.EqualValues(t, defaultAnthropicMaxTokens, body["max_tokens"])
	system, ok := body["system"].([]any)
	require.True(t, ok)
	require.Equal(t, "analyst", system[0].(map[string]any)["text"])
}

func TestNewSelectsProvider(t *testing.T) {
	t.Parallel()

	gen, err := New(config.LLMConfig{Provider: config.ProviderOpenAI, Model: "m", APIKey: "k"})
	require.NoError(t, err)
	require.IsType(t, &ChatGPTClient{}, gen)

	gen, err = New(config.LLMConfig{Provider: config.ProviderAnthropic, Model: "m", APIKey: "k"})
	require.NoError(t, err)
	require.IsType(t, &AnthropicClient{}, gen)

	_, err = New(config.LLMConfig{Provider: "gemini", Model: "m", APIKey: "k"})
	require.ErrorContains(t, err, "gemini")

	_, err = New(config.LLMConfig{Provider: config.ProviderOpenAI, Model: "m"})
	require.True(t, errors.Is(err, config.ErrMissingSetting))
}
