package anthropic

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"marketing-insights-be/pkg/llm"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const (
	DefaultModel     = "claude-haiku-4-5"
	defaultMaxTokens = 1024
)

type AnthropicProvider struct {
	client    sdk.Client
	modelName string
}

var _ llm.LLMProvider = (*AnthropicProvider)(nil)

func NewAnthropicProvider(apiKey, modelName string, timeout time.Duration, opts ...option.RequestOption) *AnthropicProvider {
	reqOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if timeout > 0 {
		reqOpts = append(reqOpts, option.WithRequestTimeout(timeout))
	}
	reqOpts = append(reqOpts, opts...)

	if modelName == "" {
		modelName = DefaultModel
	}
	return &AnthropicProvider{
		client:    sdk.NewClient(reqOpts...),
		modelName: modelName,
	}
}

// Chat sends the history as a Messages request. System turns become the system prompt.
func (p *AnthropicProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	options := llm.Apply(llm.Options{Temperature: 0.7, Model: p.modelName, MaxTokens: defaultMaxTokens}, opts...)

	var system []sdk.TextBlockParam
	messages := make([]sdk.MessageParam, 0, len(history))
	for _, m := range history {
		switch m.Role {
		case "system":
			system = append(system, sdk.TextBlockParam{Text: m.Content})
		case "assistant", "model":
			messages = append(messages, sdk.NewAssistantMessage(sdk.NewTextBlock(m.Content)))
		default:
			messages = append(messages, sdk.NewUserMessage(sdk.NewTextBlock(m.Content)))
		}
	}

	resp, err := p.client.Messages.New(ctx, sdk.MessageNewParams{
		Model:       sdk.Model(options.Model),
		MaxTokens:   int64(options.MaxTokens),
		System:      system,
		Messages:    messages,
		Temperature: sdk.Float(options.Temperature),
	})
	if err != nil {
		return "", fmt.Errorf("anthropic API error: %w", err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", errors.New("no response from anthropic")
	}
	return sb.String(), nil
}

func (p *AnthropicProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}
