package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ai-chat-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProviderChatSuccess(t *testing.T) {
	var captured chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Hello there"}},{"message":{"content":"ignored"}}]}`))
	}))
	defer srv.Close()

	p := NewProvider(Config{
		APIKey:      "sk-test",
		BaseURL:     srv.URL + "/v1/",
		Model:       "gpt-3.5-turbo",
		Temperature: 0.7,
		MaxTokens:   1000,
	})

	out, err := p.Chat(context.Background(), []llm.Message{
		{Role: "system", Content: "be nice"},
		{Role: "user", Content: "hi"},
	}, llm.WithModel("gpt-4o"))
	require.NoError(t, err)

	assert.Equal(t, "Hello there", out)
	assert.Equal(t, "gpt-4o", captured.Model)
	assert.Equal(t, 0.7, captured.Temperature)
	assert.Equal(t, 1000, captured.MaxTokens)
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, llm.Message{Role: "user", Content: "hi"}, captured.Messages[1])
}

func TestProviderChatUpstreamError(t *testing.T) {
	const raw = `{"error":{"message":"Rate limit reached","type":"requests"}}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(raw))
	}))
	defer srv.Close()

	p := NewProvider(Config{APIKey: "sk-test", BaseURL: srv.URL})

	_, err := p.Chat(context.Background(), []llm.Message{{Role: "user", Content: "hi"}})
	require.Error(t, err)

	var upstream *llm.UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, http.StatusTooManyRequests, upstream.StatusCode)
	assert.Equal(t, raw, upstream.Body)
}

func TestProviderChatEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	p := NewProvider(Config{APIKey: "sk-test", BaseURL: srv.URL})

	_, err := p.Chat(context.Background(), []llm.Message{{Role: "user", Content: "hi"}})
	assert.ErrorIs(t, err, ErrEmptyChoices)
}

func TestProviderChatTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	p := NewProvider(Config{APIKey: "sk-test", BaseURL: srv.URL, Timeout: 20 * time.Millisecond})

	_, err := p.Chat(context.Background(), []llm.Message{{Role: "user", Content: "hi"}})
	require.Error(t, err)

	var upstream *llm.UpstreamError
	assert.False(t, errors.As(err, &upstream))
}

func TestNewProviderDefaults(t *testing.T) {
	p := NewProvider(Config{APIKey: "k"})
	assert.Equal(t, DefaultBaseURL, p.baseURL)
	assert.Equal(t, DefaultTimeout, p.client.Timeout)
}
