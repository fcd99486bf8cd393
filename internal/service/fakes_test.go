package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"marketing-insights-be/internal/pkg/logger"
	"marketing-insights-be/internal/repository/memory"
	"marketing-insights-be/pkg/events"
	"marketing-insights-be/pkg/interaction"
	"marketing-insights-be/pkg/llm"
	"marketing-insights-be/pkg/news"
	"marketing-insights-be/pkg/session"
	"marketing-insights-be/pkg/trends"
)

var fixedNow = time.Date(2026, 10, 17, 15, 0, 0, 0, time.UTC)

func newSessions(t *testing.T) *session.Manager {
	t.Helper()
	return session.NewManager(memory.NewSessionRepository(time.Hour, time.Minute), logger.NewNopLogger())
}

func newInteraction() *interaction.Controller {
	return interaction.NewController(logger.NewNopLogger())
}

type fakeTrends struct {
	terms     []string
	interest  *trends.Interest
	err       error
	calls     int
	lastDate  string
	lastQuery trends.InterestQuery
}

func (f *fakeTrends) TopTerms(_ context.Context, date string) ([]string, error) {
	f.calls++
	f.lastDate = date
	return f.terms, f.err
}

func (f *fakeTrends) Interest(_ context.Context, q trends.InterestQuery) (*trends.Interest, error) {
	f.calls++
	f.lastQuery = q
	return f.interest, f.err
}

type fakeRetriever struct {
	docs  []news.Document
	err   error
	calls int
	last  news.Query
}

func (f *fakeRetriever) Retrieve(_ context.Context, q news.Query) ([]news.Document, error) {
	f.calls++
	f.last = q
	return f.docs, f.err
}

type fakeSummarizer struct {
	err error
}

func (f *fakeSummarizer) Summarize(_ context.Context, doc news.Document) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "summary of " + doc.Title, nil
}

type fakeLLM struct {
	reply   string
	err     error
	calls   int
	prompt  string
	options llm.Options
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	return f.Generate(ctx, history[len(history)-1].Content, opts...)
}

func (f *fakeLLM) Generate(_ context.Context, prompt string, opts ...llm.Option) (string, error) {
	f.calls++
	f.prompt = prompt
	f.options = llm.Apply(llm.Options{}, opts...)
	return f.reply, f.err
}

type publishedMessage struct {
	topic   string
	payload []byte
}

type fakePublisher struct {
	mu       sync.Mutex
	messages []publishedMessage
	err      error
}

func (f *fakePublisher) Publish(_ context.Context, topic string, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, publishedMessage{topic: topic, payload: payload})
	return f.err
}

type fakeForwarder struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (f *fakeForwarder) Publish(_ context.Context, evt events.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, evt)
	return f.err
}

func (f *fakeForwarder) received() []events.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]events.Event(nil), f.events...)
}

func newCampaigns() (*campaignService, *memory.CampaignRepository, *fakePublisher) {
	repo := memory.NewCampaignRepository()
	pub := &fakePublisher{}
	svc := NewCampaignService(repo, pub, logger.NewNopLogger()).(*campaignService)
	svc.now = func() time.Time { return fixedNow }
	return svc, repo, pub
}
