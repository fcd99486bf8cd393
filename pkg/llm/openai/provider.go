package openai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marketing-insights-be/pkg/llm"

	sdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const DefaultModel = "gpt-4o-mini"

type OpenAIProvider struct {
	client    sdk.Client
	modelName string
}

var _ llm.LLMProvider = (*OpenAIProvider)(nil)

// NewOpenAIProvider builds a chat completions provider. Extra request options
// (base URL, retries) are applied after the key and timeout.
func NewOpenAIProvider(apiKey, modelName string, timeout time.Duration, opts ...option.RequestOption) *OpenAIProvider {
	reqOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if timeout > 0 {
		reqOpts = append(reqOpts, option.WithRequestTimeout(timeout))
	}
	reqOpts = append(reqOpts, opts...)

	if modelName == "" {
		modelName = DefaultModel
	}
	return &OpenAIProvider{
		client:    sdk.NewClient(reqOpts...),
		modelName: modelName,
	}
}

func (p *OpenAIProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	options := llm.Apply(llm.Options{Temperature: 0.7, Model: p.modelName}, opts...)

	messages := make([]sdk.ChatCompletionMessageParamUnion, 0, len(history))
	for _, m := range history {
		switch m.Role {
		case "system":
			messages = append(messages, sdk.SystemMessage(m.Content))
		case "assistant", "model":
			messages = append(messages, sdk.AssistantMessage(m.Content))
		default:
			messages = append(messages, sdk.UserMessage(m.Content))
		}
	}

	params := sdk.ChatCompletionNewParams{
		Model:       sdk.ChatModel(options.Model),
		Messages:    messages,
		Temperature: sdk.Float(options.Temperature),
	}
	if options.MaxTokens > 0 {
		params.MaxCompletionTokens = sdk.Int(int64(options.MaxTokens))
	}

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no response from openai")
	}
	return resp.Choices[0].Message.Content, nil
}

func (p *OpenAIProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}
