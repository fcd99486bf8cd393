package summarize

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"marketing-insights-be/pkg/llm"
	"marketing-insights-be/pkg/news"
)

const articlePrompt = `You are a marketing analyst. Summarize the news article below in three sentences or fewer.
Keep it neutral and mention brands, products and numbers when present.

Output as JSON only, no other text:
{"summary": "the summary"}

Title: %s

Article:
%s`

var ErrEmptySummary = errors.New("summarize: model returned no summary")

// Summarizer condenses one retrieved article.
type Summarizer interface {
	Summarize(ctx context.Context, doc news.Document) (string, error)
}

type LLMSummarizer struct {
	provider    llm.LLMProvider
	maxTokens   int
	temperature float64
}

var _ Summarizer = (*LLMSummarizer)(nil)

func NewLLMSummarizer(provider llm.LLMProvider, maxTokens int, temperature float64) *LLMSummarizer {
	return &LLMSummarizer{provider: provider, maxTokens: maxTokens, temperature: temperature}
}

type summaryResponse struct {
	Summary string `json:"summary"`
}

func (s *LLMSummarizer) Summarize(ctx context.Context, doc news.Document) (string, error) {
	body := doc.Body
	if strings.TrimSpace(body) == "" {
		body = doc.Title
	}

	content, err := s.provider.Generate(ctx, fmt.Sprintf(articlePrompt, doc.Title, body),
		llm.WithMaxTokens(s.maxTokens),
		llm.WithTemperature(s.temperature),
	)
	if err != nil {
		return "", fmt.Errorf("summarize %q: %w", doc.URL, err)
	}
	return parseSummary(content)
}

// parseSummary reads the {"summary"} object. Answers that are not JSON are taken as the summary text.
func parseSummary(content string) (string, error) {
	cleaned := cleanJSONResponse(content)

	var parsed summaryResponse
	if err := json.Unmarshal([]byte(cleaned), &parsed); err == nil {
		if s := strings.TrimSpace(parsed.Summary); s != "" {
			return s, nil
		}
		return "", ErrEmptySummary
	}

	if s := strings.TrimSpace(content); s != "" {
		return s, nil
	}
	return "", ErrEmptySummary
}

func cleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		content = content[start : end+1]
	}
	return content
}
