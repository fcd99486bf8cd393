package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"marketing-insights-be/internal/config"
	"marketing-insights-be/internal/dto"
	"marketing-insights-be/internal/pkg/logger"
	"marketing-insights-be/pkg/interaction"
	"marketing-insights-be/pkg/llm"
	"marketing-insights-be/pkg/personas"
	"marketing-insights-be/pkg/session"
	"marketing-insights-be/pkg/store"
)

const (
	noticeNoQuestion     = "Provide a question."
	noticeNoPersonas     = "Upload a personas file first."
	noticeEmptyFile      = "Choose a CSV personas file."
	noticePersonasFailed = "Could not read the personas file."
	noticeInsightFailed  = "Could not generate insights. Try again."
)

var (
	audiencesNS = interaction.NewNamespace("Audiences")

	personasFileKey  = interaction.NewKey[*personas.Table](audiencesNS, "Personas_File")
	contextPromptKey = interaction.NewKey[string](audiencesNS, "Context_Prompt")
	textPromptKey    = interaction.NewKey[string](audiencesNS, "Text_Prompt")
	genTextKey       = interaction.NewKey[string](audiencesNS, "Gen_Text")
	questionKey      = interaction.NewKey[string](audiencesNS, "Question")

	ErrEmptyGeneration = errors.New("text generation returned no text")
)

type IAudienceService interface {
	Render(ctx context.Context, sessionID string) (*dto.AudiencesView, error)
	SubmitPersonas(ctx context.Context, sessionID string, file []byte) (*dto.PageResponse[dto.AudiencesView], error)
	SubmitInsight(ctx context.Context, sessionID string, req *dto.InsightRequest) (*dto.PageResponse[dto.AudiencesView], error)
}

type audienceService struct {
	sessions    *session.Manager
	controller  *interaction.Controller
	provider    llm.LLMProvider
	page        config.AudiencesPage
	maxTokens   int
	temperature float64
	logger      logger.ILogger
}

func NewAudienceService(
	sessions *session.Manager,
	controller *interaction.Controller,
	provider llm.LLMProvider,
	page config.AudiencesPage,
	maxTokens int,
	temperature float64,
	log logger.ILogger,
) IAudienceService {
	return &audienceService{
		sessions:    sessions,
		controller:  controller,
		provider:    provider,
		page:        page,
		maxTokens:   maxTokens,
		temperature: temperature,
		logger:      log,
	}
}

// Upload personas

func (s *audienceService) personasAction() interaction.Action[[]byte, *personas.Table] {
	return interaction.Action[[]byte, *personas.Table]{
		Name: "audiences.personas",
		Validate: func(file []byte) *interaction.Notice {
			if len(bytes.TrimSpace(file)) == 0 {
				return interaction.Info(noticeEmptyFile)
			}
			return nil
		},
		Call: func(_ context.Context, file []byte) (*personas.Table, error) {
			return personas.Parse(bytes.NewReader(file), personas.ParseOptions{
				SkipLines:   s.page.SkipLines,
				DropColumns: s.page.DropColumns,
			})
		},
		Store: func(b *interaction.Batch, _ []byte, table *personas.Table) error {
			return personasFileKey.Put(b, table)
		},
		FailureNotice: noticePersonasFailed,
	}
}

func (s *audienceService) SubmitPersonas(ctx context.Context, sessionID string, file []byte) (*dto.PageResponse[dto.AudiencesView], error) {
	return s.submit(ctx, sessionID, func(sess *store.Session) interaction.Result {
		return interaction.Submit(ctx, s.controller, sess, s.personasAction(), file)
	})
}

// Generate insight

type insightInput struct {
	Question string
	Personas *personas.Table
}

type insightResult struct {
	ContextPrompt string
	TextPrompt    string
	GeneratedText string
}

func (s *audienceService) insightAction() interaction.Action[insightInput, insightResult] {
	return interaction.Action[insightInput, insightResult]{
		Name: "audiences.insight",
		Validate: func(in insightInput) *interaction.Notice {
			if in.Question == "" {
				return interaction.Info(noticeNoQuestion)
			}
			if in.Personas == nil {
				return interaction.Info(noticeNoPersonas)
			}
			return nil
		},
		Call: s.generateInsight,
		Store: func(b *interaction.Batch, in insightInput, out insightResult) error {
			if err := questionKey.Put(b, in.Question); err != nil {
				return err
			}
			if err := contextPromptKey.Put(b, out.ContextPrompt); err != nil {
				return err
			}
			if err := textPromptKey.Put(b, out.TextPrompt); err != nil {
				return err
			}
			return genTextKey.Put(b, out.GeneratedText)
		},
		FailureNotice: noticeInsightFailed,
	}
}

func (s *audienceService) generateInsight(ctx context.Context, in insightInput) (insightResult, error) {
	records, err := in.Personas.RecordsJSON()
	if err != nil {
		return insightResult{}, fmt.Errorf("encode personas: %w", err)
	}

	contextPrompt := strings.ReplaceAll(s.page.ContextPromptTemplate, "{personas}", records)
	textPrompt := BuildTextPrompt(contextPrompt, s.page.Examples, in.Question)

	text, err := s.provider.Generate(ctx, textPrompt,
		llm.WithMaxTokens(s.maxTokens),
		llm.WithTemperature(s.temperature),
	)
	if err != nil {
		return insightResult{}, fmt.Errorf("generate insight: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return insightResult{}, ErrEmptyGeneration
	}

	return insightResult{
		ContextPrompt: contextPrompt,
		TextPrompt:    textPrompt,
		GeneratedText: text,
	}, nil
}

// BuildTextPrompt lays out the generation prompt: context, examples, question, answer cue.
func BuildTextPrompt(contextPrompt, examples, question string) string {
	return fmt.Sprintf("\n%s\n%s\n%s\nAnswer:\n", contextPrompt, examples, question)
}

func (s *audienceService) SubmitInsight(ctx context.Context, sessionID string, req *dto.InsightRequest) (*dto.PageResponse[dto.AudiencesView], error) {
	return s.submit(ctx, sessionID, func(sess *store.Session) interaction.Result {
		table, _ := personasFileKey.Get(sess)
		in := insightInput{Question: strings.TrimSpace(req.Question), Personas: table}
		return interaction.Submit(ctx, s.controller, sess, s.insightAction(), in)
	})
}

// Render

func (s *audienceService) Render(ctx context.Context, sessionID string) (*dto.AudiencesView, error) {
	var view *dto.AudiencesView
	err := s.sessions.View(ctx, sessionID, func(sess *store.Session) {
		view = s.render(sess)
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (s *audienceService) submit(ctx context.Context, sessionID string, pass func(*store.Session) interaction.Result) (*dto.PageResponse[dto.AudiencesView], error) {
	var resp dto.PageResponse[dto.AudiencesView]
	err := s.sessions.Run(ctx, sessionID, func(sess *store.Session) error {
		res := pass(sess)
		logOutcome(s.logger, "Audiences", sessionID, res)
		resp = dto.PageResponse[dto.AudiencesView]{Outcome: res.Outcome, Notice: res.Notice, View: s.render(sess)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *audienceService) render(sess interaction.Reader) *dto.AudiencesView {
	table, _ := personasFileKey.Get(sess)
	return &dto.AudiencesView{
		Personas:      table,
		ContextPrompt: contextPromptKey.GetOr(sess, ""),
		TextPrompt:    textPromptKey.GetOr(sess, ""),
		GeneratedText: genTextKey.GetOr(sess, ""),
		Form:          dto.AudiencesForm{Question: questionKey.GetOr(sess, s.page.DefaultQuestion)},
	}
}
