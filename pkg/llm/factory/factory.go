package factory

import (
	"context"
	"fmt"
	"time"

	"marketing-insights-be/pkg/llm"
	"marketing-insights-be/pkg/llm/anthropic"
	"marketing-insights-be/pkg/llm/ollama"
	"marketing-insights-be/pkg/llm/openai"
	"marketing-insights-be/pkg/llm/vertex"
)

type Settings struct {
	Provider        string // "vertex", "ollama", "openai" or "anthropic"
	Model           string
	OllamaBaseURL   string
	GCPProject      string
	GCPLocation     string
	GeminiAPIKey    string
	OpenAIAPIKey    string
	AnthropicAPIKey string
	Timeout         time.Duration
}

func NewLLMProvider(ctx context.Context, s Settings) (llm.LLMProvider, error) {
	switch s.Provider {
	case "ollama":
		baseURL := s.OllamaBaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		return ollama.NewOllamaProvider(baseURL, s.Model, s.Timeout), nil
	case "vertex", "gemini":
		return vertex.NewVertexProvider(ctx, s.GCPProject, s.GCPLocation, s.GeminiAPIKey, s.Model)
	case "openai":
		if s.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("openai provider requires OPENAI_API_KEY")
		}
		return openai.NewOpenAIProvider(s.OpenAIAPIKey, s.Model, s.Timeout), nil
	case "anthropic":
		if s.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("anthropic provider requires ANTHROPIC_API_KEY")
		}
		return anthropic.NewAnthropicProvider(s.AnthropicAPIKey, s.Model, s.Timeout), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", s.Provider)
	}
}
