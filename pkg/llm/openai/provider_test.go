package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"marketing-insights-be/pkg/llm"

	"github.com/openai/openai-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIProviderChat(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"), r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","created":0,"model":"gpt-4o-mini",
			"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"Runners like light coats."}}]}`))
	}))
	defer srv.Close()

	p := NewOpenAIProvider("test-key", "", time.Second, option.WithBaseURL(srv.URL+"/"), option.WithMaxRetries(0))
	text, err := p.Chat(context.Background(), []llm.Message{
		{Role: "system", Content: "be brief"},
		{Role: "user", Content: "who buys coats?"},
	}, llm.WithMaxTokens(128), llm.WithTemperature(0.2))
	require.NoError(t, err)

	assert.Equal(t, "Runners like light coats.", text)
	assert.Equal(t, DefaultModel, got["model"])
	assert.InDelta(t, 0.2, got["temperature"], 1e-9)
	assert.EqualValues(t, 128, got["max_completion_tokens"])
	assert.Len(t, got["messages"], 2)
}

func TestOpenAIProviderNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","created":0,"model":"m","choices":[]}`))
	}))
	defer srv.Close()

	p := NewOpenAIProvider("k", "m", time.Second, option.WithBaseURL(srv.URL+"/"), option.WithMaxRetries(0))
	_, err := p.Generate(context.Background(), "hi")
	assert.Error(t, err)
}

func TestOpenAIProviderHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"bad key"}}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	p := NewOpenAIProvider("k", "m", time.Second, option.WithBaseURL(srv.URL+"/"), option.WithMaxRetries(0))
	_, err := p.Generate(context.Background(), "hi")
	assert.ErrorContains(t, err, "openai API error")
}
