package vertex

import (
	"context"
	"errors"
	"fmt"

	"marketing-insights-be/pkg/llm"

	"google.golang.org/genai"
)

type VertexProvider struct {
	client    *genai.Client
	modelName string
}

var _ llm.LLMProvider = (*VertexProvider)(nil)

// NewVertexProvider builds a Gemini provider. With a project it talks to Vertex AI
// using application default credentials, otherwise to the Gemini API with apiKey.
func NewVertexProvider(ctx context.Context, project, location, apiKey, modelName string) (*VertexProvider, error) {
	cfg := &genai.ClientConfig{}
	switch {
	case project != "":
		cfg.Project = project
		cfg.Location = location
		cfg.Backend = genai.BackendVertexAI
	case apiKey != "":
		cfg.APIKey = apiKey
		cfg.Backend = genai.BackendGeminiAPI
	default:
		return nil, errors.New("vertex: a GCP project or a Gemini API key is required")
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}

	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}
	return &VertexProvider{client: client, modelName: modelName}, nil
}

func (v *VertexProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	options := llm.Apply(llm.Options{Temperature: 0.7, Model: v.modelName}, opts...)

	var system *genai.Content
	contents := make([]*genai.Content, 0, len(history))
	for _, m := range history {
		switch m.Role {
		case "system":
			system = genai.NewContentFromText(m.Content, genai.RoleUser)
		case "assistant", "model":
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}

	temp := float32(options.Temperature)
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: system,
		Temperature:       &temp,
	}
	if options.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(options.MaxTokens)
	}

	res, err := v.client.Models.GenerateContent(ctx, options.Model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("vertex generate content: %w", err)
	}
	return res.Text(), nil
}

func (v *VertexProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return v.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}
